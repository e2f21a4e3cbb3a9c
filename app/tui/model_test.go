package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lexcodex/counsel/config"
	"github.com/lexcodex/counsel/flows"
	"github.com/lexcodex/counsel/framework"
)

func TestCommandInstructionsMentionAllCommands(t *testing.T) {
	instructions := commandInstructions()
	for _, cmd := range []string{"/q", "/s", "/r", "/f", "/h"} {
		if !strings.Contains(instructions, cmd) {
			t.Errorf("instructions missing %s", cmd)
		}
	}
}

func TestIntroBannerMentionsCounsel(t *testing.T) {
	if !strings.Contains(introBanner(), "Counsel") {
		t.Fatal("banner missing product name")
	}
}

// ctxErrModel fails any call made with a live context, so a test can tell
// whether the program context actually reached the model.
type ctxErrModel struct{}

func (ctxErrModel) Generate(ctx context.Context, prompt string, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	return nil, errors.New("unexpected generate call")
}

func (ctxErrModel) GenerateStream(ctx context.Context, prompt string, options *framework.LLMOptions) (<-chan string, error) {
	ch := make(chan string)
	close(ch)
	return ch, nil
}

func (ctxErrModel) Chat(ctx context.Context, messages []framework.Message, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, errors.New("model called with a live context")
}

func (ctxErrModel) ChatWithTools(ctx context.Context, messages []framework.Message, tools []framework.Tool, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	return ctxErrModel{}.Chat(ctx, messages, options)
}

func TestRunFlowHonorsProgramContext(t *testing.T) {
	cfg := &config.FlowConfig{
		Name:      "chat",
		LLMName:   "test-model",
		LLMParams: config.LLMParameters{MaxTokens: 16, TimeoutSecs: 5},
	}
	flow, err := flows.New(cfg, ctxErrModel{}, nil)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := Model{ctx: ctx, flow: flow, state: framework.NewState()}

	msg := m.runFlow("hello")()
	errMsg, ok := msg.(flowErrorMsg)
	if !ok {
		t.Fatalf("expected a flow error, got %T", msg)
	}
	if !errors.Is(errMsg.err, context.Canceled) {
		t.Fatalf("cancellation did not reach the flow: %v", errMsg.err)
	}
}

func TestRenderMarkdownFallsBackToRawText(t *testing.T) {
	m := Model{}
	out := m.renderMarkdown("plain text answer")
	if !strings.Contains(out, "plain text answer") {
		t.Fatalf("markdown rendering lost content: %q", out)
	}
}
