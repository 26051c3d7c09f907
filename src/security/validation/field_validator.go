// backend/src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	MinSearchQueryLength = 2
	MaxSearchQueryLength = 100
	// FirstSupportedYear is the first business year OpenDART serves structured statements for.
	FirstSupportedYear = 2015
)

// --- String Validators ---

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringLength checks the UTF-8 character count against inclusive bounds.
func ValidateStringLength(s string, minLength, maxLength int, fieldName string) error {
	n := utf8.RuneCountInString(s)
	if n < minLength {
		return fmt.Errorf("%w: %s must have at least %d characters", ErrValidationFailed, fieldName, minLength)
	}
	if maxLength > 0 && n > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateStringRegex checks if a string matches a given regex pattern.
func ValidateStringRegex(s string, pattern *regexp.Regexp, fieldName, formatDescription string) error {
	if !pattern.MatchString(s) {
		return fmt.Errorf("%w: %s ('%s') is not in the expected format (%s)", ErrValidationFailed, fieldName, s, formatDescription)
	}
	return nil
}

// --- Numeric Validators ---

// ValidateIntString parses a required integer string and checks it against inclusive bounds.
func ValidateIntString(s, fieldName string, minVal, maxVal int) (int, error) {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, fieldName); err != nil {
		return 0, err
	}

	val, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %s ('%s') is not a valid integer", ErrValidationFailed, fieldName, s)
	}
	if val < minVal || val > maxVal {
		return 0, fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrValidationFailed, fieldName, minVal, maxVal, val)
	}
	return val, nil
}

// ValidateYear accepts business years from FirstSupportedYear up to the year of now.
func ValidateYear(s string, now time.Time) (int, error) {
	return ValidateIntString(s, "year", FirstSupportedYear, now.Year())
}

// ValidateQuarter accepts quarters 1 to 4.
func ValidateQuarter(s string) (int, error) {
	return ValidateIntString(s, "quarter", 1, 4)
}

// --- Specific Format Validators ---

var (
	corpCodeRegex  = regexp.MustCompile(`^[0-9]{8}$`)
	stockCodeRegex = regexp.MustCompile(`^[0-9A-Z]{6}$`)
	dateRegex      = regexp.MustCompile(`^[0-9]{8}$`)

	// pblntf_ty: A (periodic) through J (fair trade commission).
	disclosureTypeRegex = regexp.MustCompile(`^[A-J]$`)
)

// ValidateCorpCode checks the 8-digit OpenDART corporation code.
func ValidateCorpCode(s string) error {
	return ValidateStringRegex(strings.TrimSpace(s), corpCodeRegex, "corp_code", "8 digits")
}

// ValidateStockCode checks the 6-character KRX stock code.
func ValidateStockCode(s string) error {
	return ValidateStringRegex(strings.ToUpper(strings.TrimSpace(s)), stockCodeRegex, "stock_code", "6 digits or uppercase letters")
}

// ValidateCompactDate checks an optional YYYYMMDD date. Empty passes.
func ValidateCompactDate(s, fieldName string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if err := ValidateStringRegex(trimmed, dateRegex, fieldName, "YYYYMMDD"); err != nil {
		return err
	}
	if _, err := time.Parse("20060102", trimmed); err != nil {
		return fmt.Errorf("%w: %s ('%s') is not a valid date", ErrValidationFailed, fieldName, s)
	}
	return nil
}

// ValidateSearchQuery trims the company-name query and checks its length.
func ValidateSearchQuery(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringLength(trimmed, MinSearchQueryLength, MaxSearchQueryLength, "query"); err != nil {
		return "", err
	}
	return trimmed, nil
}

// ValidateDisclosureType checks an optional OpenDART pblntf_ty letter. Empty passes.
func ValidateDisclosureType(s string) error {
	if s == "" {
		return nil
	}
	return ValidateStringRegex(s, disclosureTypeRegex, "type", "one letter A-J")
}
