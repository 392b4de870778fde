package transport

import (
	"fmt"

	domainerrors "github.com/watchlist/triage/internal/errors"
)

// Error is a failed call to the listings API. Callers only distinguish
// success from failure; Status is kept for logs and for errors.Is matching
// through the wrapped domain error.
type Error struct {
	Op     string // "items fetch", "favorite update", ...
	ItemID string // if applicable
	Status int    // 0 when no response was received
	Err    error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s failed: %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// statusError builds the error for a non-2xx response.
func statusError(op, itemID string, status int, body string) error {
	code := domainerrors.CodeForStatus(status)
	return &Error{
		Op:     op,
		ItemID: itemID,
		Status: status,
		Err: &domainerrors.Error{
			Code:    code,
			Message: fmt.Sprintf("unexpected status %d", status),
			Details: body,
		},
	}
}

// callError builds the error for a request that never produced a response.
func callError(op, itemID string, err error) error {
	return &Error{
		Op:     op,
		ItemID: itemID,
		Err:    domainerrors.Wrap(err, domainerrors.CodeTransport, op),
	}
}
