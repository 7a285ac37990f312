package bedrock

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdocument "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/kohashi/browserpilot/pkg/llm"
)

// maxResponseTokens bounds each model response.
const maxResponseTokens = 3000

// inferenceConfig returns per-model-family inference parameters. Nova wants
// sampling pinned open with topK narrowing the choice; Claude runs greedy.
func inferenceConfig(modelID string) *types.InferenceConfiguration {
	cfg := &types.InferenceConfiguration{
		MaxTokens: aws.Int32(maxResponseTokens),
	}
	switch {
	case strings.Contains(modelID, "amazon.nova"):
		cfg.TopP = aws.Float32(1)
		cfg.Temperature = aws.Float32(1)
	case strings.Contains(modelID, "anthropic.claude"):
		cfg.Temperature = aws.Float32(0)
	}
	return cfg
}

// additionalRequestFields supplies model-specific fields outside the
// standard inference config. Nova accepts topK only here.
func additionalRequestFields(modelID string) awsdocument.Interface {
	if strings.Contains(modelID, "amazon.nova") {
		return awsdocument.NewLazyDocument(map[string]any{
			"inferenceConfig": map[string]any{"topK": 1},
		})
	}
	return nil
}

// toBedrockMessages converts the provider-neutral history into Converse
// message types.
func toBedrockMessages(messages []*llm.Message) ([]types.Message, error) {
	out := make([]types.Message, 0, len(messages))
	for i, msg := range messages {
		blocks, err := toBedrockBlocks(msg.Content)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		out = append(out, types.Message{
			Role:    types.ConversationRole(msg.Role),
			Content: blocks,
		})
	}
	return out, nil
}

func toBedrockBlocks(blocks []llm.ContentBlock) ([]types.ContentBlock, error) {
	out := make([]types.ContentBlock, 0, len(blocks))
	for _, block := range blocks {
		switch {
		case block.ToolUse != nil:
			out = append(out, &types.ContentBlockMemberToolUse{
				Value: types.ToolUseBlock{
					ToolUseId: aws.String(block.ToolUse.ID),
					Name:      aws.String(block.ToolUse.Name),
					Input:     awsdocument.NewLazyDocument(block.ToolUse.Input),
				},
			})
		case block.ToolResult != nil:
			status := types.ToolResultStatusSuccess
			if block.ToolResult.IsError {
				status = types.ToolResultStatusError
			}
			out = append(out, &types.ContentBlockMemberToolResult{
				Value: types.ToolResultBlock{
					ToolUseId: aws.String(block.ToolResult.ToolUseID),
					Content: []types.ToolResultContentBlock{
						&types.ToolResultContentBlockMemberJson{
							Value: awsdocument.NewLazyDocument(block.ToolResult.JSON),
						},
					},
					Status: status,
				},
			})
		default:
			out = append(out, &types.ContentBlockMemberText{Value: block.Text})
		}
	}
	return out, nil
}

// toBedrockToolConfig declares the tools with auto tool choice.
func toBedrockToolConfig(specs []llm.ToolSpec) (*types.ToolConfiguration, error) {
	tools := make([]types.Tool, 0, len(specs))
	for _, spec := range specs {
		tools = append(tools, &types.ToolMemberToolSpec{
			Value: types.ToolSpecification{
				Name:        aws.String(spec.Name),
				Description: aws.String(spec.Description),
				InputSchema: &types.ToolInputSchemaMemberJson{
					Value: awsdocument.NewLazyDocument(spec.InputSchema),
				},
			},
		})
	}
	return &types.ToolConfiguration{
		Tools:      tools,
		ToolChoice: &types.ToolChoiceMemberAuto{Value: types.AutoToolChoice{}},
	}, nil
}

// fromBedrockMessage converts a Converse response message back into the
// provider-neutral form. Unknown block types are a protocol-level surprise
// and reported as errors.
func fromBedrockMessage(msg types.Message) (*llm.Message, error) {
	out := &llm.Message{Role: llm.Role(msg.Role)}
	for _, block := range msg.Content {
		switch b := block.(type) {
		case *types.ContentBlockMemberText:
			out.Content = append(out.Content, llm.ContentBlock{Text: b.Value})
		case *types.ContentBlockMemberToolUse:
			input := map[string]any{}
			if b.Value.Input != nil {
				if err := b.Value.Input.UnmarshalSmithyDocument(&input); err != nil {
					return nil, fmt.Errorf("failed to decode tool input for %s: %w",
						aws.ToString(b.Value.Name), err)
				}
			}
			out.Content = append(out.Content, llm.ContentBlock{
				ToolUse: &llm.ToolUse{
					ID:    aws.ToString(b.Value.ToolUseId),
					Name:  aws.ToString(b.Value.Name),
					Input: input,
				},
			})
		default:
			return nil, fmt.Errorf("unexpected content block type %T in model response", block)
		}
	}
	return out, nil
}
