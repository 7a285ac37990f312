// Package llm provides provider-neutral conversation types and the Provider
// interface the agent loop talks to. Concrete implementations live in
// subpackages (see bedrock).
package llm

import "context"

// Request is one inference call: the system prompt, the full running message
// history, and the tool declarations the model may use.
type Request struct {
	System   string
	Messages []*Message
	Tools    []ToolSpec
}

// Response is the model's reply to a Request.
type Response struct {
	Message    *Message
	StopReason StopReason
	Usage      Usage
}

// Provider defines the narrow interface to an LLM inference endpoint.
//
// Converse sends the complete history and returns the next assistant
// message. Implementations must be safe for sequential reuse; the agent loop
// never issues overlapping calls on one provider.
type Provider interface {
	Converse(ctx context.Context, req *Request) (*Response, error)

	// Model returns the model identifier in use, for logging.
	Model() string
}
