package pipeline

import (
	"fmt"

	"github.com/google/uuid"
)

// ConfigurationError indicates scoring was refused because of configuration,
// not because anything failed. Callers can distinguish "disabled" from
// "broken". Never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// NotFoundError indicates a required record is missing.
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
