package nutrition

import "fmt"

// InvalidInputError reports a missing, malformed or out-of-range biometric
// field. It is never retried.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}
