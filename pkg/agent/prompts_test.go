package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemPromptContract(t *testing.T) {
	prompt := SystemPrompt()

	// Addressing is by numeric ref_id, and both tools are named so the
	// model knows what it may call.
	assert.Contains(t, prompt, "ref_id")
	assert.Contains(t, prompt, ToolClickElement)
	assert.Contains(t, prompt, ToolInputText)

	// The documented result fields must match what wireJSON emits.
	assert.Contains(t, prompt, "operation_status")
	assert.Contains(t, prompt, "aria_snapshot")
	assert.Contains(t, prompt, "aria_snapshot_message")
}
