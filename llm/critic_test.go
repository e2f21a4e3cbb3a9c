package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcodex/counsel/framework"
)

type promptCapture struct {
	prompt string
}

func (p *promptCapture) Generate(ctx context.Context, prompt string, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	return &framework.LLMResponse{}, nil
}

func (p *promptCapture) GenerateStream(ctx context.Context, prompt string, options *framework.LLMOptions) (<-chan string, error) {
	p.prompt = prompt
	ch := make(chan string, 1)
	ch <- "looks fine"
	close(ch)
	return ch, nil
}

func (p *promptCapture) Chat(ctx context.Context, messages []framework.Message, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	return &framework.LLMResponse{}, nil
}

func (p *promptCapture) ChatWithTools(ctx context.Context, messages []framework.Message, tools []framework.Tool, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	return &framework.LLMResponse{}, nil
}

func TestCriticReviewIncludesCode(t *testing.T) {
	model := &promptCapture{}
	critic := &Critic{Model: model}

	ch, err := critic.Review(context.Background(), "package main", "")
	require.NoError(t, err)
	for range ch {
	}

	assert.Contains(t, model.prompt, "package main")
	assert.NotContains(t, model.prompt, "additional instructions")
}

func TestCriticReviewAppendsInstructions(t *testing.T) {
	model := &promptCapture{}
	critic := &Critic{Model: model}

	ch, err := critic.Review(context.Background(), "package main", "focus on naming")
	require.NoError(t, err)
	for range ch {
	}

	assert.Contains(t, model.prompt, "focus on naming")
}
