// backend/src/security/validation/content_scanner.go
package validation

import (
	"context"
	"fmt"
	"regexp"

	"github.com/username/dartviewer/backend/src/logger"
)

var (
	// Common XSS vectors. Contextual output encoding is the primary defense.
	xssPatternsRegex = regexp.MustCompile(
		`(?i)<script|onerror=|onmouseover=|onfocus=|onload=|javascript:|vbscript:|<iframe|<object|<embed|<applet|<style|<link|<img\s+src\s*=\s*['"]?\s*(javascript|data):`,
	)
	// LIKE wildcards would let a two-character query match the whole table.
	likeWildcardRegex = regexp.MustCompile(`^[%_\s]+$`)
)

func truncateForLog(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

// CheckXSSPatterns detects basic XSS patterns.
func CheckXSSPatterns(ctx context.Context, s, fieldName string) error {
	if xssPatternsRegex.MatchString(s) {
		errMsg := fmt.Sprintf("potential XSS pattern detected in field '%s'", fieldName)
		logger.FromContext(ctx).Warn(errMsg, "contentPreview", truncateForLog(s, 50))
		return fmt.Errorf("%w: %s", ErrValidationFailed, errMsg)
	}
	return nil
}

// CheckWildcardOnly rejects search terms made only of LIKE wildcards.
func CheckWildcardOnly(s, fieldName string) error {
	if likeWildcardRegex.MatchString(s) {
		return fmt.Errorf("%w: %s cannot consist of wildcards only", ErrValidationFailed, fieldName)
	}
	return nil
}
