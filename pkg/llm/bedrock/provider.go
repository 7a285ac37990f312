// Package bedrock implements llm.Provider against the Amazon Bedrock
// Converse API.
package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/kohashi/browserpilot/pkg/llm"
)

// DefaultModelID is used when no model option is given.
const DefaultModelID = "us.amazon.nova-pro-v1:0"

// Provider calls the Bedrock Converse API with static credentials.
type Provider struct {
	client        *bedrockruntime.Client
	modelID       string
	promptCaching bool
}

// Option configures a Provider.
type Option func(*Provider)

// WithModel selects the Bedrock model id.
func WithModel(modelID string) Option {
	return func(p *Provider) {
		p.modelID = modelID
	}
}

// WithPromptCaching marks the system prompt as a cacheable prefix.
// Optimization only; correctness does not depend on it.
func WithPromptCaching(enabled bool) Option {
	return func(p *Provider) {
		p.promptCaching = enabled
	}
}

// NewProvider creates a Bedrock provider from static credentials.
func NewProvider(accessKeyID, secretAccessKey, region string, opts ...Option) *Provider {
	client := bedrockruntime.New(bedrockruntime.Options{
		Region: region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		),
	})

	p := &Provider{client: client, modelID: DefaultModelID}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Model returns the configured model id.
func (p *Provider) Model() string { return p.modelID }

// Converse sends the full history and returns the next assistant message.
// API failures are returned as errors for the caller to treat as fatal;
// this layer never retries on its own.
func (p *Provider) Converse(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	input, err := p.buildInput(req)
	if err != nil {
		return nil, err
	}

	out, err := p.client.Converse(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("bedrock converse call failed: %w", err)
	}

	outputMsg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return nil, fmt.Errorf("bedrock response output has unexpected type %T", out.Output)
	}

	msg, err := fromBedrockMessage(outputMsg.Value)
	if err != nil {
		return nil, err
	}

	resp := &llm.Response{
		Message:    msg,
		StopReason: llm.StopReason(out.StopReason),
	}
	if out.Usage != nil {
		resp.Usage = llm.Usage{
			InputTokens:  int(aws.ToInt32(out.Usage.InputTokens)),
			OutputTokens: int(aws.ToInt32(out.Usage.OutputTokens)),
			TotalTokens:  int(aws.ToInt32(out.Usage.TotalTokens)),
		}
	}
	return resp, nil
}

// buildInput assembles the Converse request: system prompt (with optional
// cache point), converted history, tool config, and per-model inference
// parameters.
func (p *Provider) buildInput(req *llm.Request) (*bedrockruntime.ConverseInput, error) {
	messages, err := toBedrockMessages(req.Messages)
	if err != nil {
		return nil, err
	}

	system := []types.SystemContentBlock{
		&types.SystemContentBlockMemberText{Value: req.System},
	}
	if p.promptCaching {
		system = append(system, &types.SystemContentBlockMemberCachePoint{
			Value: types.CachePointBlock{Type: types.CachePointTypeDefault},
		})
	}

	input := &bedrockruntime.ConverseInput{
		ModelId:         aws.String(p.modelID),
		Messages:        messages,
		System:          system,
		InferenceConfig: inferenceConfig(p.modelID),
	}

	if len(req.Tools) > 0 {
		toolConfig, err := toBedrockToolConfig(req.Tools)
		if err != nil {
			return nil, err
		}
		input.ToolConfig = toolConfig
	}

	if fields := additionalRequestFields(p.modelID); fields != nil {
		input.AdditionalModelRequestFields = fields
	}
	return input, nil
}
