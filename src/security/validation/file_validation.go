// backend/src/security/validation/file_validation.go
package validation

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/username/dartviewer/backend/src/logger"
)

// Corp-code file formats accepted by the importer.
const (
	CorpCodeFormatZip  = "zip"
	CorpCodeFormatXML  = "xml"
	CorpCodeFormatJSON = "json"
)

var zipMagic = []byte("PK\x03\x04")

// isBinaryContent checks if a buffer contains binary control characters (like null bytes)
// which indicate the file is not XML or JSON text.
func isBinaryContent(buf []byte) bool {
	if bytes.IndexByte(buf, 0) != -1 {
		return true
	}
	// The sniff window may cut a multi-byte rune in half.
	for i := 0; i < utf8.UTFMax && len(buf) > 0; i++ {
		if utf8.Valid(buf) {
			return false
		}
		buf = buf[:len(buf)-1]
	}
	return !utf8.Valid(buf)
}

// DetectCorpCodeFormat inspects the magic bytes of a corp-code file and
// reports whether it is the OpenDART zip archive, bare CORPCODE.xml, or a
// JSON export. The reader is rewound before returning.
func DetectCorpCodeFormat(file io.ReadSeeker) (string, error) {
	if file == nil {
		return "", fmt.Errorf("file is nil")
	}

	buffer := make([]byte, 1024)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read file for content type checking: %w", err)
	}

	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("failed to reset file read pointer: %w", seekErr)
	}

	if n == 0 {
		return "", fmt.Errorf("%w: file is empty", ErrValidationFailed)
	}
	head := buffer[:n]

	if bytes.HasPrefix(head, zipMagic) {
		return CorpCodeFormatZip, nil
	}

	if isBinaryContent(head) {
		logger.L.Warn("Corp-code file rejected: binary content that is not a zip archive")
		return "", fmt.Errorf("%w: file appears to be binary, expected zip, XML or JSON", ErrValidationFailed)
	}

	trimmed := bytes.TrimLeft(bytes.TrimPrefix(head, []byte("\xef\xbb\xbf")), " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return CorpCodeFormatJSON, nil
	}

	detected := strings.ToLower(strings.Split(http.DetectContentType(head), ";")[0])
	switch detected {
	case "text/xml", "application/xml":
		return CorpCodeFormatXML, nil
	}
	if bytes.HasPrefix(trimmed, []byte("<")) {
		return CorpCodeFormatXML, nil
	}

	logger.L.Warn("Disallowed corp-code file content type", "detectedContentType", detected)
	return "", fmt.Errorf("%w: detected content type '%s' is not a corp-code file", ErrValidationFailed, detected)
}
