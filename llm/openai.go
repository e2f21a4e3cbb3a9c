package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/lexcodex/counsel/config"
	"github.com/lexcodex/counsel/framework"
)

// OpenAIClient implements framework.LanguageModel through any OpenAI-compatible
// endpoint: Azure OpenAI deployments or a LiteLLM proxy with a custom base URL.
type OpenAIClient struct {
	client *openai.Client
	Model  string
}

// NewAzureClient builds a client against an Azure OpenAI deployment.
func NewAzureClient(creds config.AzureCredentials, model string) *OpenAIClient {
	cfg := openai.DefaultAzureConfig(creds.APIKey, creds.Endpoint)
	if creds.APIVersion != "" {
		cfg.APIVersion = creds.APIVersion
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), Model: model}
}

// NewOpenAIClient builds a client for openai.com or any compatible proxy.
func NewOpenAIClient(creds config.OpenAICredentials, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(creds.APIKey)
	if creds.BaseURL != "" {
		cfg.BaseURL = creds.BaseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), Model: model}
}

// Generate wraps the prompt into a single-turn chat call.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	return c.Chat(ctx, []framework.Message{framework.NewUserMessage(prompt)}, options)
}

// GenerateStream streams completion chunks for a single prompt.
func (c *OpenAIClient) GenerateStream(ctx context.Context, prompt string, options *framework.LLMOptions) (<-chan string, error) {
	req := c.buildRequest([]framework.Message{framework.NewUserMessage(prompt)}, options)
	req.Stream = true
	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, err
	}
	ch := make(chan string)
	go func() {
		defer stream.Close()
		defer close(ch)
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				log.Debug().Err(err).Msg("stream interrupted")
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case ch <- delta:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// Chat performs a chat completion without tool schemas.
func (c *OpenAIClient) Chat(ctx context.Context, messages []framework.Message, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	return c.complete(ctx, c.buildRequest(messages, options))
}

// ChatWithTools performs a chat completion with tool schemas attached.
func (c *OpenAIClient) ChatWithTools(ctx context.Context, messages []framework.Message, tools []framework.Tool, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	req := c.buildRequest(messages, options)
	req.Tools = convertOpenAITools(tools)
	return c.complete(ctx, req)
}

func (c *OpenAIClient) complete(ctx context.Context, req openai.ChatCompletionRequest) (*framework.LLMResponse, error) {
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return &framework.LLMResponse{}, nil
	}
	choice := resp.Choices[0]
	out := &framework.LLMResponse{
		Text:         choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		ToolCalls:    parseOpenAIToolCalls(choice.Message.ToolCalls),
	}
	if resp.Usage.TotalTokens > 0 {
		out.Usage = map[string]int{
			"prompt_tokens":     resp.Usage.PromptTokens,
			"completion_tokens": resp.Usage.CompletionTokens,
		}
	}
	return out, nil
}

func (c *OpenAIClient) buildRequest(messages []framework.Message, options *framework.LLMOptions) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model:    c.Model,
		Messages: convertOpenAIMessages(messages),
	}
	if options == nil {
		return req
	}
	if options.Model != "" {
		req.Model = options.Model
	}
	if options.Temperature != 0 {
		req.Temperature = float32(options.Temperature)
	}
	if options.MaxTokens != 0 {
		req.MaxTokens = options.MaxTokens
	}
	if options.Stop != nil {
		req.Stop = options.Stop
	}
	return req
}

func convertOpenAIMessages(messages []framework.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		m := openai.ChatCompletionMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		if msg.Role == framework.RoleTool {
			m.Name = msg.Name
		}
		for _, call := range msg.ToolCalls {
			args, err := json.Marshal(call.Args)
			if err != nil {
				args = []byte("{}")
			}
			m.ToolCalls = append(m.ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      call.Name,
					Arguments: string(args),
				},
			})
		}
		out = append(out, m)
	}
	return out
}

func convertOpenAITools(tools []framework.Tool) []openai.Tool {
	out := make([]openai.Tool, 0, len(tools))
	for _, tool := range tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  toolParameterSchema(tool),
			},
		})
	}
	return out
}

func parseOpenAIToolCalls(calls []openai.ToolCall) []framework.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]framework.ToolCall, 0, len(calls))
	for _, call := range calls {
		out = append(out, framework.ToolCall{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: parseArguments(json.RawMessage(call.Function.Arguments)),
		})
	}
	return out
}
