// backend/src/utils/http_utils.go
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/dartviewer/backend/src/logger"
)

// GenerateETag creates a SHA256 hash of the JSON representation of the data.
func GenerateETag(data any) (string, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal data for ETag generation: %w", err)
	}
	hash := sha256.Sum256(jsonData)
	return hex.EncodeToString(hash[:]), nil
}

// SendJSONError writes {"error": message} with statusCode.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	logger.L.Warn("Sending JSON error to client", "message", message, "statusCode", statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// WriteJSON encodes data with status 200.
func WriteJSON(w http.ResponseWriter, r *http.Request, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("Error generating JSON response", "path", r.URL.Path, "error", err)
	}
}

// WriteJSONWithETag sets an ETag for data and answers 304 when the client
// already holds the same representation.
func WriteJSONWithETag(w http.ResponseWriter, r *http.Request, data any) {
	ctxLogger := logger.FromContext(r.Context())

	currentETag, etagErr := GenerateETag(data)
	if etagErr != nil {
		ctxLogger.Error("Failed to generate ETag", "path", r.URL.Path, "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		if clientETag := r.Header.Get("If-None-Match"); clientETag != "" {
			for _, cETag := range strings.Split(clientETag, ",") {
				if strings.TrimSpace(cETag) == quotedETag {
					ctxLogger.Debug("ETag match", "path", r.URL.Path, "etag", currentETag)
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	WriteJSON(w, r, data)
}
