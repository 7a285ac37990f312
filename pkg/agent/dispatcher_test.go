package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kohashi/browserpilot/pkg/browser"
)

// fakePage records the actions taken against it and replays configured
// failures.
type fakePage struct {
	ops []string

	clickErr    error
	typeErr     error
	snapshotErr error
	snapshot    *browser.Snapshot
}

func (f *fakePage) Snapshot() (*browser.Snapshot, error) {
	f.ops = append(f.ops, "snapshot")
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	if f.snapshot != nil {
		return f.snapshot, nil
	}
	return &browser.Snapshot{
		URL: "https://example.com/",
		Elements: []browser.Element{
			{Role: "button", Name: "Search", RefID: 1},
		},
	}, nil
}

func (f *fakePage) Click(refID int) error {
	f.ops = append(f.ops, fmt.Sprintf("click:%d", refID))
	return f.clickErr
}

func (f *fakePage) TypeText(refID int, text string) error {
	f.ops = append(f.ops, fmt.Sprintf("type:%d:%s", refID, text))
	return f.typeErr
}

func TestDispatchClickSuccess(t *testing.T) {
	page := &fakePage{}
	d := NewDispatcher(page, nil)

	result := d.Dispatch(context.Background(), ToolCall{
		ID:    "tu-1",
		Name:  ToolClickElement,
		Input: map[string]any{"ref_id": float64(1)},
	})

	assert.Equal(t, StatusSuccess, result.Status)
	require.NotNil(t, result.Snapshot)
	assert.Empty(t, result.SnapshotMessage)
	assert.Equal(t, []string{"click:1", "snapshot"}, page.ops)
}

func TestDispatchInputTextSuccess(t *testing.T) {
	page := &fakePage{}
	d := NewDispatcher(page, nil)

	result := d.Dispatch(context.Background(), ToolCall{
		ID:    "tu-2",
		Name:  ToolInputText,
		Input: map[string]any{"ref_id": float64(3), "text": "bluetooth speaker"},
	})

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, []string{"type:3:bluetooth speaker", "snapshot"}, page.ops)
}

func TestDispatchUnknownTool(t *testing.T) {
	page := &fakePage{}
	d := NewDispatcher(page, nil)

	result := d.Dispatch(context.Background(), ToolCall{ID: "tu-3", Name: "take_screenshot"})

	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Message, "unknown tool")
	require.NotNil(t, result.Snapshot, "snapshot must be attached even for unknown tools")
	assert.Equal(t, []string{"snapshot"}, page.ops, "no browser action may run for an unknown tool")
}

func TestDispatchArgumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		call    ToolCall
		wantMsg string
	}{
		{
			"click missing ref_id",
			ToolCall{Name: ToolClickElement, Input: map[string]any{}},
			"ref_id",
		},
		{
			"click non-numeric ref_id",
			ToolCall{Name: ToolClickElement, Input: map[string]any{"ref_id": "banana"}},
			"ref_id",
		},
		{
			"input_text missing text",
			ToolCall{Name: ToolInputText, Input: map[string]any{"ref_id": float64(1)}},
			"text",
		},
		{
			"input_text missing ref_id",
			ToolCall{Name: ToolInputText, Input: map[string]any{"text": "hello"}},
			"ref_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &fakePage{}
			d := NewDispatcher(page, nil)

			result := d.Dispatch(context.Background(), tt.call)

			assert.Equal(t, StatusError, result.Status)
			assert.Contains(t, result.Message, tt.wantMsg)
			require.NotNil(t, result.Snapshot)
			for _, op := range page.ops {
				assert.Equal(t, "snapshot", op, "argument errors must not trigger browser actions")
			}
		})
	}
}

func TestDispatchActionFailureBecomesResult(t *testing.T) {
	page := &fakePage{
		clickErr: &browser.ActionError{
			Kind:  browser.KindNotFound,
			Op:    "click",
			RefID: 99,
			Err:   fmt.Errorf("locator resolved to 0 elements"),
		},
	}
	d := NewDispatcher(page, nil)

	result := d.Dispatch(context.Background(), ToolCall{
		ID:    "tu-4",
		Name:  ToolClickElement,
		Input: map[string]any{"ref_id": float64(99)},
	})

	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Message, "not_found")
	require.NotNil(t, result.Snapshot, "failed actions still attach the current snapshot")
	assert.NotEmpty(t, result.Snapshot.Elements)
}

func TestDispatchTimeoutReportedToModel(t *testing.T) {
	page := &fakePage{
		clickErr: &browser.ActionError{
			Kind:  browser.KindTimeout,
			Op:    "click",
			RefID: 5,
			Err:   fmt.Errorf("Timeout 5000ms exceeded"),
		},
	}
	d := NewDispatcher(page, nil)

	result := d.Dispatch(context.Background(), ToolCall{
		ID:    "tu-t",
		Name:  ToolClickElement,
		Input: map[string]any{"ref_id": float64(5)},
	})

	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Message, string(browser.KindTimeout))
	assert.Contains(t, result.Message, "5000ms")
	require.NotNil(t, result.Snapshot, "a timed-out action still attaches the current snapshot")
}

func TestDispatchCancelledContext(t *testing.T) {
	page := &fakePage{}
	d := NewDispatcher(page, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := d.Dispatch(ctx, ToolCall{
		ID:    "tu-c",
		Name:  ToolClickElement,
		Input: map[string]any{"ref_id": float64(1)},
	})

	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Message, "context canceled")
	require.NotNil(t, result.Snapshot)
	assert.Equal(t, []string{"snapshot"}, page.ops, "no browser action may run after cancellation")
}

func TestDispatchSnapshotFailure(t *testing.T) {
	page := &fakePage{snapshotErr: fmt.Errorf("page crashed")}
	d := NewDispatcher(page, nil)

	result := d.Dispatch(context.Background(), ToolCall{
		ID:    "tu-5",
		Name:  ToolClickElement,
		Input: map[string]any{"ref_id": float64(1)},
	})

	assert.Equal(t, StatusSuccess, result.Status, "action succeeded; only the capture failed")
	require.NotNil(t, result.Snapshot)
	assert.Empty(t, result.Snapshot.Elements)
	assert.Contains(t, result.SnapshotMessage, "page crashed")
}

func TestDispatchFailureHook(t *testing.T) {
	actionErr := fmt.Errorf("element is not visible")
	page := &fakePage{clickErr: actionErr}
	d := NewDispatcher(page, nil)

	var hookCalls int
	var hookErr error
	d.SetFailureHook(func(call ToolCall, err error, snap *browser.Snapshot) {
		hookCalls++
		hookErr = err
		assert.Equal(t, ToolClickElement, call.Name)
		assert.NotNil(t, snap)
	})

	d.Dispatch(context.Background(), ToolCall{
		Name:  ToolClickElement,
		Input: map[string]any{"ref_id": float64(2)},
	})
	assert.Equal(t, 1, hookCalls)
	assert.Equal(t, actionErr, hookErr)

	// Success does not fire the hook.
	page.clickErr = nil
	d.Dispatch(context.Background(), ToolCall{
		Name:  ToolClickElement,
		Input: map[string]any{"ref_id": float64(2)},
	})
	assert.Equal(t, 1, hookCalls)
}

func TestWireJSON(t *testing.T) {
	result := ToolResult{
		Status:  StatusError,
		Message: "click on ref_id=4 failed",
		Snapshot: &browser.Snapshot{
			Elements: []browser.Element{{Role: "link", Name: "Next", RefID: 4}},
		},
		SnapshotMessage: "",
	}

	payload := result.wireJSON()
	assert.Equal(t, "error", payload["operation_status"])
	assert.Equal(t, "click on ref_id=4 failed", payload["message"])
	assert.Equal(t, result.Snapshot.Elements, payload["aria_snapshot"])
	_, hasMsg := payload["aria_snapshot_message"]
	assert.False(t, hasMsg)
}

func TestWireJSONNilSnapshot(t *testing.T) {
	payload := ToolResult{Status: StatusSuccess, Message: "ok"}.wireJSON()
	assert.Equal(t, []browser.Element{}, payload["aria_snapshot"])
}

func TestRefIDFromInput(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   int
		wantOK bool
	}{
		{"float64", float64(12), 12, true},
		{"int", 7, 7, true},
		{"int64", int64(3), 3, true},
		{"json number", json.Number("21"), 21, true},
		{"string integer", "5", 5, true},
		{"string float", "5.0", 5, true},
		{"non-numeric string", "twelve", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := refIDFromInput(map[string]any{"ref_id": tt.value})
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}

	_, ok := refIDFromInput(map[string]any{})
	assert.False(t, ok)
}
