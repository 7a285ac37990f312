package llm

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// StopReason explains why the model stopped generating.
type StopReason string

const (
	StopEndTurn   StopReason = "end_turn"
	StopToolUse   StopReason = "tool_use"
	StopMaxTokens StopReason = "max_tokens"
)

// Message is one turn of the conversation history. Content is an ordered
// list of blocks; assistant turns may interleave text and tool-use blocks,
// user turns carry either text or tool results.
type Message struct {
	Role    Role
	Content []ContentBlock
}

// ContentBlock is a union: exactly one of Text, ToolUse or ToolResult is set.
type ContentBlock struct {
	Text       string
	ToolUse    *ToolUse
	ToolResult *ToolResult
}

// ToolUse is a tool invocation requested by the model.
type ToolUse struct {
	ID    string
	Name  string
	Input map[string]any
}

// ToolResult answers a single ToolUse. JSON carries the structured result
// payload returned to the model.
type ToolResult struct {
	ToolUseID string
	JSON      map[string]any
	IsError   bool
}

// ToolSpec declares one tool the model may call. InputSchema is a JSON
// Schema fragment in map form.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// Usage accumulates token counts across calls.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Add folds another usage sample into u.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.InputTokens + other.OutputTokens
}

// NewUserText builds a user message containing a single text block.
func NewUserText(text string) *Message {
	return &Message{Role: RoleUser, Content: []ContentBlock{{Text: text}}}
}

// NewToolResultMessage builds the user message that answers one model turn's
// tool calls. The conversation protocol requires all results for a turn to
// travel in a single user message, one block per tool use, in request order.
func NewToolResultMessage(results []ToolResult) *Message {
	blocks := make([]ContentBlock, 0, len(results))
	for i := range results {
		r := results[i]
		blocks = append(blocks, ContentBlock{ToolResult: &r})
	}
	return &Message{Role: RoleUser, Content: blocks}
}

// ToolUses extracts the tool-use blocks of a message in order.
func (m *Message) ToolUses() []ToolUse {
	var uses []ToolUse
	for _, block := range m.Content {
		if block.ToolUse != nil {
			uses = append(uses, *block.ToolUse)
		}
	}
	return uses
}

// Text concatenates the text blocks of a message.
func (m *Message) Text() string {
	var out string
	for _, block := range m.Content {
		if block.Text != "" {
			if out != "" {
				out += "\n"
			}
			out += block.Text
		}
	}
	return out
}
