package signature

import "fmt"

// Kind distinguishes the categories of verification failure. Callers use the
// kind for logging and tests; every kind maps to an HTTP 401/403.
type Kind string

const (
	// KindMissing means the signature or timestamp header was absent
	KindMissing Kind = "missing_credentials"
	// KindMalformed means the timestamp header did not parse
	KindMalformed Kind = "malformed_timestamp"
	// KindStale means the timestamp fell outside the freshness window
	KindStale Kind = "stale_request"
	// KindInvalid means the signature did not verify against the raw body
	KindInvalid Kind = "signature_invalid"
)

// VerificationError is a tagged signature verification failure
type VerificationError struct {
	Kind    Kind
	Message string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("signature verification failed (%s): %s", e.Kind, e.Message)
}

// NewVerificationError creates a new verification error of the given kind
func NewVerificationError(kind Kind, format string, args ...interface{}) *VerificationError {
	return &VerificationError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsVerificationError reports whether err is a VerificationError, returning it
func IsVerificationError(err error) (*VerificationError, bool) {
	verr, ok := err.(*VerificationError)
	return verr, ok
}
