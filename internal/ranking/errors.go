package ranking

import "fmt"

// Error represents a failure that prevents ranking as a whole
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ranking: %s: %v", e.Message, e.Cause)
	}
	return "ranking: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
