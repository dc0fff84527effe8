package core

// Error codes for domain errors.
const (
	ErrCodeValidation      = "validation"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeBlocked         = "blocked"
	ErrCodeInvalidPassword = "invalid_password"
	ErrCodeOperationFailed = "operation_failed"
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
