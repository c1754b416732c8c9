package deepq

import (
	"fmt"
)

// ConfigurationError is returned when a DeepQ agent is configured with
// an invalid option
type ConfigurationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (c *ConfigurationError) Error() string {
	return fmt.Sprintf("config: invalid %v (%v): %v", c.Field, c.Value,
		c.Reason)
}
