package appointments

import (
	"errors"
	"fmt"
)

// ErrUnreachable marks connection-level failures so callers can show a
// "cannot connect" message distinct from HTTP errors.
var ErrUnreachable = errors.New("appointments: cannot connect to API server")

// StatusError is a non-2xx backend response. Message comes from the JSON
// body when the backend supplied one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("appointments: %s (status %d)", e.Message, e.Code)
}

// UserMessage converts a client error into the text shown in the UI error
// panel.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Message
	}
	if errors.Is(err, ErrUnreachable) {
		return err.Error()
	}
	return err.Error()
}
