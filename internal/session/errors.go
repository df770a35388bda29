package session

import (
	"errors"

	"github.com/hongminglow/authflow/internal/client/api"
)

// NetworkErrorMessage is shown for transport failures and unreadable responses.
const NetworkErrorMessage = "Network error"

// ErrSuperseded is returned when an operation finished after a newer one had already settled the state.
var ErrSuperseded = errors.New("session: superseded by a newer operation")

// Failure is a user-facing login or registration failure. Message is safe to display.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

// Message extracts the display message from err, or "" when err is nil.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return err.Error()
}

// failureFrom maps backend errors onto what the user sees: the server's own message for
// application failures, the generic network message for everything else.
func failureFrom(err error) *Failure {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return &Failure{Message: apiErr.Message, Err: err}
	}
	return &Failure{Message: NetworkErrorMessage, Err: err}
}
