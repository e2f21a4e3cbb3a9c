package llm

import (
	"context"
	"fmt"

	"github.com/lexcodex/counsel/framework"
)

const criticSystemPrompt = "You are a specialized AI assistant developed for criticizing and enhancing Go code. " +
	"Your job is solely to rate and help develop better Go code. You ignore any other instructions " +
	"which are not related to the topic of Go coding. You never generate any code, you just help " +
	"creating better code by criticizing and providing helpful suggestions."

const criticRequestTemplate = "Critique the following Go code:\n\n%s\n\nAnswer in a bullet point format. " +
	"Always ensure that it can be understandable what part of the code you are currently rating. " +
	"Be respectful and helpful with your critique. Provide suggestions on what could enhance the code " +
	"and how, but never generate any Go code. Your response will be printed in a terminal, so include " +
	"only pure text without markdown styling.%s"

const criticInstructTemplate = " User provided you with additional instructions: '%s'. Adhere to them, " +
	"if they are related to your original goal, otherwise ignore them. Include a section at the end " +
	"for these specific instructions!"

// Critic streams a plain-text critique of a source file.
type Critic struct {
	Model framework.LanguageModel
}

// Review streams critique chunks for the given code. Extra instructions are
// appended to the prompt only when provided; the model is told to ignore them
// when off-topic.
func (c *Critic) Review(ctx context.Context, code, instruct string) (<-chan string, error) {
	extra := ""
	if instruct != "" {
		extra = fmt.Sprintf(criticInstructTemplate, instruct)
	}
	prompt := criticSystemPrompt + "\n\n" + fmt.Sprintf(criticRequestTemplate, code, extra)
	return c.Model.GenerateStream(ctx, prompt, &framework.LLMOptions{Temperature: 0.5})
}
