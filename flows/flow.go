// Package flows turns flow configs into runnable graphs. A flow without tools
// becomes a single model node; a flow with tools becomes the agent loop where
// the model may request tool calls until it answers in plain text or the
// iteration cap is reached.
package flows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lexcodex/counsel/config"
	"github.com/lexcodex/counsel/framework"
)

const (
	nodeAgent = "agent"
	nodeTools = "tools"
	nodeEnd   = "end"

	iterationsKey = "agent_iterations"
)

// Flow is a configured conversational task bound to a model and its tools.
type Flow struct {
	cfg    *config.FlowConfig
	model  framework.LanguageModel
	tools  []framework.Tool
	system []framework.Message
	graph  *framework.Graph
}

// New builds a flow from its config. Tool names are resolved against the
// registry up front so a typo in YAML fails at startup, not mid-conversation.
func New(cfg *config.FlowConfig, model framework.LanguageModel, registry *framework.ToolRegistry) (*Flow, error) {
	if cfg == nil {
		return nil, errors.New("flow config is nil")
	}
	if model == nil {
		return nil, errors.New("flow requires a language model")
	}

	f := &Flow{
		cfg:    cfg,
		model:  model,
		system: buildSystemPrompt(cfg),
	}

	if cfg.IsAgent() {
		if registry == nil {
			return nil, fmt.Errorf("flow %s lists tools but no registry was given", cfg.Name)
		}
		tools, err := registry.Select(cfg.Tools)
		if err != nil {
			return nil, fmt.Errorf("flow %s: %w", cfg.Name, err)
		}
		f.tools = tools
	}

	graph, err := f.buildGraph()
	if err != nil {
		return nil, err
	}
	f.graph = graph
	return f, nil
}

// Config exposes the underlying flow config.
func (f *Flow) Config() *config.FlowConfig { return f.cfg }

// Name returns the flow name.
func (f *Flow) Name() string { return f.cfg.Name }

// buildSystemPrompt converts the configured prompt history into messages,
// expanding placeholders in each turn.
func buildSystemPrompt(cfg *config.FlowConfig) []framework.Message {
	msgs := make([]framework.Message, 0, len(cfg.PromptHistory))
	for _, turn := range cfg.PromptHistory {
		msgs = append(msgs, framework.Message{
			Role:    framework.Role(turn.Side),
			Content: expandPrompt(turn.Text),
		})
	}
	return msgs
}

// buildGraph wires the flow's nodes. Chat flows run a single model node; agent
// flows loop agent -> tools -> agent until the model stops requesting calls.
func (f *Flow) buildGraph() (*framework.Graph, error) {
	g := framework.NewGraph()

	agent := &modelNode{flow: f}
	if err := g.AddNode(agent); err != nil {
		return nil, err
	}
	if err := g.AddNode(framework.NewTerminalNode(nodeEnd)); err != nil {
		return nil, err
	}
	if err := g.SetStart(nodeAgent); err != nil {
		return nil, err
	}

	if !f.cfg.IsAgent() {
		if err := g.AddEdge(nodeAgent, nodeEnd, nil); err != nil {
			return nil, err
		}
		return g, nil
	}

	if err := g.AddNode(&toolNode{flow: f}); err != nil {
		return nil, err
	}
	if err := g.AddEdge(nodeAgent, nodeTools, f.shouldContinue); err != nil {
		return nil, err
	}
	if err := g.AddEdge(nodeAgent, nodeEnd, func(result *framework.Result, state *framework.State) bool {
		return !f.shouldContinue(result, state)
	}); err != nil {
		return nil, err
	}
	if err := g.AddEdge(nodeTools, nodeAgent, nil); err != nil {
		return nil, err
	}
	return g, nil
}

// shouldContinue routes the agent to the tool node while the last assistant
// message carries tool calls and the loop has iterations left.
func (f *Flow) shouldContinue(result *framework.Result, state *framework.State) bool {
	last, ok := state.Last()
	if !ok || len(last.ToolCalls) == 0 {
		return false
	}
	return state.GetInt(iterationsKey) < f.cfg.Agent.MaxIterations
}

// Run appends the user input to the state, walks the graph, and returns the
// final assistant text.
func (f *Flow) Run(ctx context.Context, state *framework.State, input string) (string, error) {
	state.Append(framework.NewUserMessage(input))
	state.Set(iterationsKey, 0)

	if _, err := f.graph.Execute(ctx, state); err != nil {
		return "", err
	}

	last, ok := state.Last()
	if !ok || last.Role != framework.RoleAssistant {
		return "", errors.New("flow finished without an assistant response")
	}
	if last.Content == "" && len(last.ToolCalls) > 0 {
		return "", fmt.Errorf("flow %s stopped after %d tool iterations without a final answer",
			f.cfg.Name, f.cfg.Agent.MaxIterations)
	}
	return last.Content, nil
}

func (f *Flow) llmOptions() *framework.LLMOptions {
	return &framework.LLMOptions{
		Model:       f.cfg.LLMName,
		Temperature: f.cfg.LLMParams.Temperature,
		MaxTokens:   f.cfg.LLMParams.MaxTokens,
	}
}

func (f *Flow) callTimeout() time.Duration {
	return time.Duration(f.cfg.LLMParams.TimeoutSecs) * time.Second
}

// modelNode calls the language model with the system prompt prepended to the
// transcript and appends the assistant reply.
type modelNode struct {
	flow *Flow
}

func (n *modelNode) ID() string               { return nodeAgent }
func (n *modelNode) Type() framework.NodeType { return framework.NodeTypeLLM }

func (n *modelNode) Execute(ctx context.Context, state *framework.State) (*framework.Result, error) {
	f := n.flow
	callCtx, cancel := context.WithTimeout(ctx, f.callTimeout())
	defer cancel()

	history := append(append([]framework.Message(nil), f.system...), state.Messages()...)

	var (
		resp *framework.LLMResponse
		err  error
	)
	if len(f.tools) > 0 {
		resp, err = f.model.ChatWithTools(callCtx, history, f.tools, f.llmOptions())
	} else {
		resp, err = f.model.Chat(callCtx, history, f.llmOptions())
	}
	if err != nil {
		return nil, err
	}

	state.Append(framework.NewAssistantMessage(resp))
	return &framework.Result{
		Success: true,
		Data:    map[string]any{"tool_calls": len(resp.ToolCalls)},
	}, nil
}

// toolNode executes every tool call from the last assistant message and
// appends one tool message per call, carrying the JSON-encoded result.
type toolNode struct {
	flow *Flow
}

func (n *toolNode) ID() string               { return nodeTools }
func (n *toolNode) Type() framework.NodeType { return framework.NodeTypeTool }

func (n *toolNode) Execute(ctx context.Context, state *framework.State) (*framework.Result, error) {
	f := n.flow
	last, ok := state.Last()
	if !ok || len(last.ToolCalls) == 0 {
		return &framework.Result{Success: true}, nil
	}

	byName := make(map[string]framework.Tool, len(f.tools))
	for _, tool := range f.tools {
		byName[tool.Name()] = tool
	}

	for _, call := range last.ToolCalls {
		log.Debug().
			Str("flow", f.cfg.Name).
			Str("tool", call.Name).
			Msg("executing tool call")

		tool, known := byName[call.Name]
		var toolResult *framework.ToolResult
		if !known {
			toolResult = framework.Fail("unknown tool %s", call.Name)
		} else {
			toolResult = tool.Execute(ctx, call.Args)
		}

		content, err := json.Marshal(toolResult)
		if err != nil {
			return nil, fmt.Errorf("encoding result of tool %s: %w", call.Name, err)
		}
		state.Append(framework.NewToolMessage(call, string(content)))

		log.Debug().
			Str("tool", call.Name).
			Str("status", toolResult.Status).
			Msg("tool call finished")
	}

	state.Set(iterationsKey, state.GetInt(iterationsKey)+1)
	return &framework.Result{Success: true}, nil
}
