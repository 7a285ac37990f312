package agent

import (
	"errors"
	"fmt"
)

// ErrTurnLimitExceeded terminates a session whose model never stopped
// requesting tools.
var ErrTurnLimitExceeded = errors.New("turn limit exceeded without a final answer")

// ProtocolError reports a fatal inconsistency in the exchange with the
// inference endpoint: a malformed response, an unexpected stop reason, or a
// failed API call. Protocol errors end the session.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("conversation protocol error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("conversation protocol error: %s", e.Reason)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
