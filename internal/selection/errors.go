// Package selection picks a diverse, capped subset of scored sections.
package selection

import "fmt"

// Error represents invalid selection constraints
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("selection: %s: %v", e.Message, e.Cause)
	}
	return "selection: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
