package agent

import (
	"encoding/json"
	"strconv"

	"github.com/kohashi/browserpilot/pkg/browser"
	"github.com/kohashi/browserpilot/pkg/llm"
)

// Tool names the model may call. Navigation is deliberately not exposed;
// the model works from whatever page the session is on.
const (
	ToolClickElement = "click_element"
	ToolInputText    = "input_text"
)

// ToolCall is one tool invocation extracted from an assistant message.
type ToolCall struct {
	ID    string
	Name  string
	Input map[string]any
}

// ResultStatus is the outcome of a dispatched tool call.
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusError   ResultStatus = "error"
)

// ToolResult is the structured outcome of one tool call. The snapshot is
// always attached, success or failure, so the model never loses page
// context; when capture itself failed, SnapshotMessage says why and the
// snapshot is empty.
type ToolResult struct {
	Status          ResultStatus
	Message         string
	Snapshot        *browser.Snapshot
	SnapshotMessage string
}

// wireJSON renders the result with the field names the model is prompted
// to expect.
func (r ToolResult) wireJSON() map[string]any {
	payload := map[string]any{
		"operation_status": string(r.Status),
		"message":          r.Message,
	}
	elements := []browser.Element{}
	if r.Snapshot != nil {
		elements = r.Snapshot.Elements
	}
	payload["aria_snapshot"] = elements
	if r.SnapshotMessage != "" {
		payload["aria_snapshot_message"] = r.SnapshotMessage
	}
	return payload
}

// ToolSpecs declares the browser tools for the inference request.
func ToolSpecs() []llm.ToolSpec {
	return []llm.ToolSpec{
		{
			Name: ToolClickElement,
			Description: "Identify the element's ref_id (number) from the ARIA snapshot first, then use this tool. " +
				"Clicks the element with the given reference id. The latest ARIA snapshot is included in the " +
				"result automatically, on success and on failure.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ref_id": map[string]any{
						"type":        "integer",
						"description": "Reference id of the element to click (number, taken from the ARIA snapshot)",
					},
				},
				"required": []any{"ref_id"},
			},
		},
		{
			Name: ToolInputText,
			Description: "Identify the element's ref_id (number) from the ARIA snapshot first, then use this tool. " +
				"Types text into the element with the given reference id and presses Enter. The latest ARIA " +
				"snapshot is included in the result automatically, on success and on failure.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{
						"type":        "string",
						"description": "Text to type",
					},
					"ref_id": map[string]any{
						"type":        "integer",
						"description": "Reference id of the element to type into (number, taken from the ARIA snapshot)",
					},
				},
				"required": []any{"text", "ref_id"},
			},
		},
	}
}

// refIDFromInput coerces the ref_id argument. Models routinely send numbers
// as JSON floats or quoted strings, so all of those are accepted.
func refIDFromInput(input map[string]any) (int, bool) {
	v, ok := input["ref_id"]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return int(f), true
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

func textFromInput(input map[string]any) (string, bool) {
	v, ok := input["text"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
