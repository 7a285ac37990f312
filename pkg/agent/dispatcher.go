package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kohashi/browserpilot/pkg/browser"
)

// PageController is the browser surface the dispatcher needs: observe the
// page and act on observed elements. *browser.Session satisfies it.
type PageController interface {
	Snapshot() (*browser.Snapshot, error)
	Click(refID int) error
	TypeText(refID int, text string) error
}

// FailureHook is invoked after an action error, before the result goes back
// to the model. It replaces an interactive pause-and-inspect flow: a host
// can attach a debugger, dump state, or do nothing. Must not block long.
type FailureHook func(call ToolCall, actionErr error, snap *browser.Snapshot)

// Dispatcher maps model tool calls onto browser actions and packages every
// outcome, including failures, into a ToolResult the conversation can carry
// forward. It holds no state of its own.
type Dispatcher struct {
	page   PageController
	log    *zap.Logger
	onFail FailureHook
}

// NewDispatcher creates a dispatcher over the given page controller.
func NewDispatcher(page PageController, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{page: page, log: log}
}

// SetFailureHook installs the action-failure callback.
func (d *Dispatcher) SetFailureHook(hook FailureHook) { d.onFail = hook }

// Dispatch executes one tool call and returns its result. It never returns
// an error: argument problems, action failures and snapshot failures all
// become error-status results so the model can recover. The snapshot is
// attached unconditionally. A cancelled context skips the browser action
// and reports the cancellation as the result.
func (d *Dispatcher) Dispatch(ctx context.Context, call ToolCall) ToolResult {
	d.log.Debug("dispatching tool call",
		zap.String("tool", call.Name),
		zap.String("tool_use_id", call.ID),
		zap.Any("input", call.Input),
	)

	var execErr error
	var argMessage string

	if err := ctx.Err(); err != nil {
		result := d.buildResult(call, fmt.Sprintf("tool call not executed: %v", err), nil)
		d.log.Warn("tool call skipped, context done",
			zap.String("tool", call.Name),
			zap.Error(err),
		)
		return result
	}

	switch call.Name {
	case ToolClickElement:
		refID, ok := refIDFromInput(call.Input)
		if !ok {
			argMessage = "missing or non-numeric ref_id argument"
			break
		}
		execErr = d.page.Click(refID)

	case ToolInputText:
		refID, okRef := refIDFromInput(call.Input)
		text, okText := textFromInput(call.Input)
		switch {
		case !okRef:
			argMessage = "missing or non-numeric ref_id argument"
		case !okText:
			argMessage = "missing or non-string text argument"
		default:
			execErr = d.page.TypeText(refID, text)
		}

	default:
		argMessage = fmt.Sprintf("unknown tool: %s", call.Name)
	}

	result := d.buildResult(call, argMessage, execErr)

	d.log.Info("tool call dispatched",
		zap.String("tool", call.Name),
		zap.String("status", string(result.Status)),
		zap.String("message", result.Message),
	)
	return result
}

// buildResult attaches a fresh snapshot to the outcome. The dispatcher is
// the single point that guarantees the snapshot is never omitted, even if
// the executor or the capture failed.
func (d *Dispatcher) buildResult(call ToolCall, argMessage string, execErr error) ToolResult {
	result := ToolResult{Status: StatusSuccess, Message: fmt.Sprintf("%s executed", call.Name)}

	switch {
	case argMessage != "":
		result.Status = StatusError
		result.Message = argMessage
	case execErr != nil:
		result.Status = StatusError
		result.Message = execErr.Error()
	}

	snap, snapErr := d.page.Snapshot()
	if snapErr != nil {
		result.Snapshot = &browser.Snapshot{}
		result.SnapshotMessage = fmt.Sprintf("failed to capture snapshot: %v", snapErr)
		d.log.Warn("post-action snapshot failed", zap.Error(snapErr))
	} else {
		result.Snapshot = snap
	}

	if execErr != nil && d.onFail != nil {
		d.onFail(call, execErr, result.Snapshot)
	}
	return result
}
