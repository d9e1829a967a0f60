package extract

import "fmt"

// ParseError means the model's text did not parse as the expected JSON shape
// for the selected type (invalid JSON, missing required field, wrong-typed
// field). Raw carries the unmodified model text for diagnostics. The
// pipeline never repairs or retries a ParseError.
type ParseError struct {
	Type   string
	Detail string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.Type, e.Detail)
}
