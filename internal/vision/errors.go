package vision

import "fmt"

// TransportError is a network or HTTP-level failure talking to an AI backend.
// Message carries the backend's own error text when one could be extracted
// from the response body, else a generic status line.
type TransportError struct {
	Provider Provider
	Status   int
	Message  string
	Cause    error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// MalformedResponseError means the backend replied 2xx but the expected
// message/content path was absent from the body.
type MalformedResponseError struct {
	Provider Provider
	Detail   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %s", e.Provider, e.Detail)
}
