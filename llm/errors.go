package llm

import "fmt"

// ErrorType classifies collaborator call failures. Every value below is
// raised by this package; search loops treat them all as non-fatal and skip
// the affected candidate.
type ErrorType int

const (
	// ErrorTypeProvider means the configured provider could not be resolved.
	ErrorTypeProvider ErrorType = iota
	// ErrorTypeRequest means building or sending the request failed.
	ErrorTypeRequest
	// ErrorTypeResponse means the response body could not be read or parsed.
	ErrorTypeResponse
	// ErrorTypeAPI means the provider returned a non-OK status.
	ErrorTypeAPI
	// ErrorTypeRateLimit means the provider returned 429.
	ErrorTypeRateLimit
	// ErrorTypeAuthentication means the provider rejected the credentials.
	ErrorTypeAuthentication
	// ErrorTypeInvalidInput means the caller supplied an unusable value.
	ErrorTypeInvalidInput
)

var errorTypeNames = [...]string{
	ErrorTypeProvider:       "provider error",
	ErrorTypeRequest:        "request error",
	ErrorTypeResponse:       "response error",
	ErrorTypeAPI:            "api error",
	ErrorTypeRateLimit:      "rate limit error",
	ErrorTypeAuthentication: "authentication error",
	ErrorTypeInvalidInput:   "invalid input error",
}

func (t ErrorType) String() string {
	if int(t) >= 0 && int(t) < len(errorTypeNames) {
		return errorTypeNames[t]
	}
	return fmt.Sprintf("ErrorType(%d)", int(t))
}

// ClientError is a classified failure from one collaborator call.
type ClientError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *ClientError) Unwrap() error { return e.Err }

// NewClientError builds a ClientError wrapping err, which may be nil.
func NewClientError(errType ErrorType, message string, err error) *ClientError {
	return &ClientError{Type: errType, Message: message, Err: err}
}
