package embedding

import "fmt"

// ConfigError represents an invalid embedding backend configuration
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("embedding config error: %s", e.Message)
}

// APICallError represents an error calling a remote embedding backend
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}
