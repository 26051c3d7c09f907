package services

import (
	"errors"
	"fmt"

	"github.com/username/dartviewer/backend/src/security/validation"
)

// Kind classifies a service failure so callers can branch without reading messages.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUpstream
	KindAIService
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindAIService:
		return "ai_service"
	default:
		return "internal"
	}
}

// Error is the error type returned by every service in this package.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, op string, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...), Err: err}
}

// UpstreamStatusError carries a non-"000" status returned by OpenDART.
type UpstreamStatusError struct {
	Status  string
	Message string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("API 오류: [%s] %s", e.Status, e.Message)
}

// KindOf reports the Kind of err. Validation sentinels from the validation
// package map to KindValidation; anything unclassified is KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	if errors.Is(err, validation.ErrValidationFailed) {
		return KindValidation
	}
	return KindInternal
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
