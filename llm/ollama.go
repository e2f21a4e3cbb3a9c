// Package llm provides LanguageModel implementations for the supported
// backends: a local Ollama daemon and any OpenAI-compatible endpoint.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lexcodex/counsel/framework"
)

// OllamaClient implements framework.LanguageModel against the Ollama HTTP API.
type OllamaClient struct {
	Endpoint string
	Model    string
	client   *http.Client
}

type toolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type toolDef struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type ollamaToolCall struct {
	ID       string `json:"id"`
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

type ollamaMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []ollamaToolCall `json:"tool_calls"`
}

type ollamaResponse struct {
	Response        string         `json:"response"`
	Message         *ollamaMessage `json:"message"`
	Done            bool           `json:"done"`
	DoneReason      string         `json:"done_reason"`
	EvalCount       int            `json:"eval_count"`
	PromptEvalCount int            `json:"prompt_eval_count"`
}

// NewOllamaClient builds a client for the given endpoint and default model.
func NewOllamaClient(endpoint, model string) *OllamaClient {
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	return &OllamaClient{
		Endpoint: endpoint,
		Model:    model,
		client:   &http.Client{Timeout: 3 * time.Minute},
	}
}

// Generate implements single prompt completion.
func (c *OllamaClient) Generate(ctx context.Context, prompt string, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	payload := map[string]any{
		"model":  c.model(options),
		"prompt": prompt,
		"stream": false,
	}
	applyOllamaOptions(payload, options)
	return c.doRequest(ctx, "/api/generate", payload)
}

// GenerateStream streams completion chunks. The channel closes when the model
// finishes or the stream breaks; request errors are reported synchronously.
func (c *OllamaClient) GenerateStream(ctx context.Context, prompt string, options *framework.LLMOptions) (<-chan string, error) {
	payload := map[string]any{
		"model":  c.model(options),
		"prompt": prompt,
		"stream": true,
	}
	applyOllamaOptions(payload, options)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, httpError("ollama", resp)
	}
	ch := make(chan string)
	go func() {
		defer resp.Body.Close()
		defer close(ch)
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			var chunk ollamaResponse
			if err := json.Unmarshal(scanner.Bytes(), &chunk); err != nil {
				log.Debug().Err(err).Msg("skipping malformed stream chunk")
				continue
			}
			text := chunk.Response
			if text == "" && chunk.Message != nil {
				text = chunk.Message.Content
			}
			if text != "" {
				select {
				case ch <- text:
				case <-ctx.Done():
					return
				}
			}
			if chunk.Done {
				return
			}
		}
	}()
	return ch, nil
}

// Chat implements chat style conversation.
func (c *OllamaClient) Chat(ctx context.Context, messages []framework.Message, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	payload := map[string]any{
		"model":    c.model(options),
		"messages": convertOllamaMessages(messages),
		"stream":   false,
	}
	applyOllamaOptions(payload, options)
	return c.doRequest(ctx, "/api/chat", payload)
}

// ChatWithTools advertises the tool schemas so the model can emit tool calls.
func (c *OllamaClient) ChatWithTools(ctx context.Context, messages []framework.Message, tools []framework.Tool, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	payload := map[string]any{
		"model":    c.model(options),
		"tools":    convertOllamaTools(tools),
		"messages": convertOllamaMessages(messages),
		"stream":   false,
	}
	applyOllamaOptions(payload, options)
	return c.doRequest(ctx, "/api/chat", payload)
}

func (c *OllamaClient) model(options *framework.LLMOptions) string {
	if options != nil && options.Model != "" {
		return options.Model
	}
	return c.Model
}

func applyOllamaOptions(payload map[string]any, options *framework.LLMOptions) {
	if options == nil {
		return
	}
	opts := map[string]any{}
	if options.Temperature != 0 {
		opts["temperature"] = options.Temperature
	}
	if options.MaxTokens != 0 {
		opts["num_predict"] = options.MaxTokens
	}
	if options.Stop != nil {
		opts["stop"] = options.Stop
	}
	if len(opts) > 0 {
		payload["options"] = opts
	}
}

func (c *OllamaClient) doRequest(ctx context.Context, path string, payload any) (*framework.LLMResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Int("bytes", len(body)).Msg("ollama request")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, httpError("ollama", resp)
	}
	var raw ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return decodeOllamaResponse(&raw), nil
}

func decodeOllamaResponse(raw *ollamaResponse) *framework.LLMResponse {
	resp := &framework.LLMResponse{
		Text:         raw.Response,
		FinishReason: raw.DoneReason,
	}
	if resp.Text == "" && raw.Message != nil {
		resp.Text = raw.Message.Content
	}
	if raw.Message != nil {
		resp.ToolCalls = parseOllamaToolCalls(raw.Message.ToolCalls)
	}
	usage := make(map[string]int)
	if raw.EvalCount > 0 {
		usage["completion_tokens"] = raw.EvalCount
	}
	if raw.PromptEvalCount > 0 {
		usage["prompt_tokens"] = raw.PromptEvalCount
	}
	if len(usage) > 0 {
		resp.Usage = usage
	}
	return resp
}

func parseOllamaToolCalls(calls []ollamaToolCall) []framework.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	results := make([]framework.ToolCall, 0, len(calls))
	for i, call := range calls {
		id := call.ID
		if id == "" {
			id = fmt.Sprintf("call_%d", i)
		}
		results = append(results, framework.ToolCall{
			ID:   id,
			Name: call.Function.Name,
			Args: parseArguments(call.Function.Arguments),
		})
	}
	return results
}

// parseArguments tolerates the two shapes Ollama emits: a JSON object or a
// string containing one.
func parseArguments(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		var nested map[string]any
		if err := json.Unmarshal([]byte(str), &nested); err == nil {
			return nested
		}
		return map[string]any{"value": str}
	}
	return map[string]any{"_raw": string(raw)}
}

func convertOllamaMessages(messages []framework.Message) []map[string]any {
	out := make([]map[string]any, 0, len(messages))
	for _, msg := range messages {
		m := map[string]any{
			"role":    string(msg.Role),
			"content": msg.Content,
		}
		if msg.Name != "" {
			m["tool_name"] = msg.Name
		}
		if len(msg.ToolCalls) > 0 {
			calls := make([]map[string]any, 0, len(msg.ToolCalls))
			for _, call := range msg.ToolCalls {
				args := call.Args
				if args == nil {
					args = map[string]any{}
				}
				calls = append(calls, map[string]any{
					"type": "function",
					"function": map[string]any{
						"name":      call.Name,
						"arguments": args,
					},
				})
			}
			m["tool_calls"] = calls
		}
		out = append(out, m)
	}
	return out
}

func convertOllamaTools(tools []framework.Tool) []toolDef {
	res := make([]toolDef, 0, len(tools))
	for _, tool := range tools {
		res = append(res, toolDef{
			Type: "function",
			Function: toolFunction{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  toolParameterSchema(tool),
			},
		})
	}
	return res
}

// toolParameterSchema renders the tool metadata as a JSON schema object.
func toolParameterSchema(tool framework.Tool) map[string]any {
	props := make(map[string]any)
	var required []string
	for _, param := range tool.Parameters() {
		prop := map[string]any{
			"type":        param.Type,
			"description": param.Description,
		}
		if param.Default != nil {
			prop["default"] = param.Default
		}
		props[param.Name] = prop
		if param.Required {
			required = append(required, param.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func httpError(provider string, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(msg))
	if detail != "" {
		return fmt.Errorf("%s error: %s: %s", provider, resp.Status, detail)
	}
	return fmt.Errorf("%s error: %s", provider, resp.Status)
}
