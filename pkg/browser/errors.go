package browser

import (
	"fmt"
	"strings"
)

// ErrorKind classifies action failures so the dispatcher can report them
// distinctly to the model.
type ErrorKind string

const (
	// KindTimeout means the bounded wait elapsed before the action settled.
	KindTimeout ErrorKind = "timeout"

	// KindNotFound means no live element matched the reference id.
	KindNotFound ErrorKind = "not_found"

	// KindNotInteractable means the element was resolved but could not be
	// acted on (detached, covered, disabled mid-flight).
	KindNotInteractable ErrorKind = "not_interactable"

	// KindSnapshot means accessibility extraction itself failed.
	KindSnapshot ErrorKind = "snapshot"
)

// ActionError is the structured outcome of a failed browser action. Errors
// are values at this boundary; they never cross it as panics, and the caller
// is expected to attach the latest snapshot and keep the conversation going.
type ActionError struct {
	Kind  ErrorKind
	Op    string // "click" or "type_text"
	RefID int
	Err   error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s failed (ref_id=%d, kind=%s): %v", e.Op, e.RefID, e.Kind, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// classify maps a raw Playwright error to an ErrorKind. Playwright reports
// failures as strings, so this matches on the stable fragments of its
// messages.
func classify(err error) ErrorKind {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return KindTimeout
	case strings.Contains(msg, "no element"), strings.Contains(msg, "not found"),
		strings.Contains(msg, "resolved to 0"), strings.Contains(msg, "strict mode violation"):
		return KindNotFound
	default:
		return KindNotInteractable
	}
}
