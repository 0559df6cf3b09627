package vision

import (
	"errors"
	"fmt"
)

var ErrUnknownTaskType = errors.New("unknown task type")

// ExternalServiceError reports a failed model call or an answer that does
// not match the task schema.
type ExternalServiceError struct {
	Engine string
	Err    error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Engine, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }
