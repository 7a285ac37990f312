// Package agent drives the multi-turn exchange between the LLM and the
// browser: it sends the running message history, dispatches requested tool
// calls in order, folds the results back into the history, and stops when
// the model produces a final answer or the turn limit is hit.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/kohashi/browserpilot/pkg/browser"
	"github.com/kohashi/browserpilot/pkg/llm"
)

// State is the conversation loop's position in its state machine.
type State int

const (
	StateAwaitingModel State = iota
	StateDispatchingTools
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAwaitingModel:
		return "awaiting_model"
	case StateDispatchingTools:
		return "dispatching_tools"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// maxSnapshotJSONLen caps the snapshot JSON embedded in the initial user
// message; oversized pages are truncated rather than rejected.
const maxSnapshotJSONLen = 100000

// Loop is the agent core: one Loop runs one session against one page.
type Loop struct {
	provider   llm.Provider
	dispatcher *Dispatcher
	page       PageController
	maxTurns   int
	log        *zap.Logger
}

// Result is the terminal outcome of a session.
type Result struct {
	State     State
	FinalText string
	Turns     int
	Usage     llm.Usage

	// Messages is the full conversation history, for inspection and logs.
	Messages []*llm.Message

	// LastSnapshot is the most recent page observation, attached so a
	// failure report still carries the page context.
	LastSnapshot *browser.Snapshot
}

// New creates a conversation loop.
func New(provider llm.Provider, dispatcher *Dispatcher, page PageController, maxTurns int, log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		provider:   provider,
		dispatcher: dispatcher,
		page:       page,
		maxTurns:   maxTurns,
		log:        log,
	}
}

// Run executes the session for one user instruction.
//
// Recoverable problems (bad arguments, failed actions, failed snapshots)
// are folded into tool results and never surface here. The returned error
// is non-nil only for fatal conditions: provider/protocol errors and the
// turn limit. The Result is always returned, carrying whatever state was
// reached.
func (l *Loop) Run(ctx context.Context, instruction string) (*Result, error) {
	result := &Result{State: StateAwaitingModel}

	initialSnap, err := l.page.Snapshot()
	if err != nil {
		// The model can still start from the instruction alone and recover
		// through tool-result snapshots.
		l.log.Warn("initial snapshot failed", zap.Error(err))
	} else {
		result.LastSnapshot = initialSnap
	}

	history := []*llm.Message{llm.NewUserText(formatInitialMessage(instruction, initialSnap))}
	tools := ToolSpecs()

	for turn := 1; turn <= l.maxTurns; turn++ {
		result.Turns = turn
		l.log.Info("turn started", zap.Int("turn", turn), zap.String("model", l.provider.Model()))

		resp, err := l.provider.Converse(ctx, &llm.Request{
			System:   SystemPrompt(),
			Messages: history,
			Tools:    tools,
		})
		if err != nil {
			result.State = StateFailed
			result.Messages = history
			return result, &ProtocolError{Reason: "inference call failed", Err: err}
		}
		if resp.Message == nil {
			result.State = StateFailed
			result.Messages = history
			return result, &ProtocolError{Reason: "response carried no message"}
		}

		result.Usage.Add(resp.Usage)
		history = append(history, resp.Message)

		toolUses := resp.Message.ToolUses()
		if len(toolUses) > 0 {
			result.State = StateDispatchingTools
			history = append(history, l.dispatchAll(ctx, toolUses, result))
			result.State = StateAwaitingModel
			continue
		}

		// No tool calls: the stop reason decides how the session ends.
		done, reasonErr := analyzeStopReason(resp.StopReason)
		if reasonErr != nil {
			result.State = StateFailed
			result.Messages = history
			return result, reasonErr
		}
		if done {
			result.State = StateDone
			result.FinalText = resp.Message.Text()
			result.Messages = history
			l.log.Info("session complete", zap.Int("turns", turn),
				zap.Int("total_tokens", result.Usage.TotalTokens))
			return result, nil
		}
	}

	result.State = StateFailed
	result.Messages = history
	l.log.Warn("turn limit reached", zap.Int("max_turns", l.maxTurns))
	return result, fmt.Errorf("%w (max_turns=%d)", ErrTurnLimitExceeded, l.maxTurns)
}

// dispatchAll answers one model turn's tool calls. Calls run strictly in
// request order, one at a time: later calls must observe the page state
// produced by earlier ones. Exactly one result block is produced per call,
// all folded into a single user message, which keeps the tool-use /
// tool-result pairing the provider protocol requires.
func (l *Loop) dispatchAll(ctx context.Context, toolUses []llm.ToolUse, result *Result) *llm.Message {
	results := make([]llm.ToolResult, 0, len(toolUses))
	for _, use := range toolUses {
		toolResult := l.dispatcher.Dispatch(ctx, ToolCall{ID: use.ID, Name: use.Name, Input: use.Input})
		if toolResult.Snapshot != nil {
			result.LastSnapshot = toolResult.Snapshot
		}
		results = append(results, llm.ToolResult{
			ToolUseID: use.ID,
			JSON:      toolResult.wireJSON(),
			IsError:   toolResult.Status == StatusError,
		})
	}
	return llm.NewToolResultMessage(results)
}

// analyzeStopReason decides how a no-tool-call response ends the session.
// end_turn is the normal completion; max_tokens completes with whatever
// text was produced; tool_use without tool blocks and unknown reasons are
// protocol errors.
func analyzeStopReason(reason llm.StopReason) (done bool, err error) {
	switch reason {
	case llm.StopEndTurn, llm.StopMaxTokens:
		return true, nil
	case llm.StopToolUse:
		return false, &ProtocolError{Reason: "stop reason was tool_use but the message carried no tool-use block"}
	default:
		return false, &ProtocolError{Reason: fmt.Sprintf("unexpected stop reason %q", reason)}
	}
}

// formatInitialMessage combines the instruction with the starting page
// snapshot so the model's first decision is grounded in real page state.
func formatInitialMessage(instruction string, snap *browser.Snapshot) string {
	snapshotText := "The ARIA snapshot of the current page could not be captured."
	if snap != nil {
		if data, err := json.MarshalIndent(snap.Elements, "", "  "); err == nil {
			text := string(data)
			if len(text) > maxSnapshotJSONLen {
				text = text[:maxSnapshotJSONLen] + "\n... (truncated)"
			}
			snapshotText = fmt.Sprintf("ARIA snapshot of the current page:\n```json\n%s\n```", text)
		}
	}

	return fmt.Sprintf(
		"User instruction: %s\n\n%s\n\nBased on the instruction and the current page state above, respond or execute a tool.",
		instruction, snapshotText,
	)
}
