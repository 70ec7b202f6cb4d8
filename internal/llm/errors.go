package llm

import "fmt"

// ExternalServiceError indicates a model call failed or returned unusable
// output. During batch scoring it fails only the application being scored.
type ExternalServiceError struct {
	Service string
	Reason  string
	Cause   error
}

func (e *ExternalServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("external service %s: %s: %v", e.Service, e.Reason, e.Cause)
	}
	return fmt.Sprintf("external service %s: %s", e.Service, e.Reason)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *ExternalServiceError) Unwrap() error {
	return e.Cause
}
