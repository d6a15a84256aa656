package abstractive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
)

const openAIPrompt = `Write an abstractive summary of the user's text.
- Use between %d and %d words.
- Keep names, numbers and key entities from the original.
- Return only the summary, with no preface, headings or Markdown.`

type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(client *openai.Client, model string) *OpenAI {
	return &OpenAI{client: client, model: model}
}

func (o *OpenAI) Summarize(ctx context.Context, text string, minLen, maxLen int) (string, error) {
	if err := validate(text, minLen, maxLen); err != nil {
		return "", err
	}

	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(fmt.Sprintf(openAIPrompt, minLen, maxLen)),
			openai.UserMessage(text),
		}),
		Model:       openai.F(openai.ChatModel(o.model)),
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		return "", fmt.Errorf("[Abstractive] openai: %w", err)
	}

	if len(completion.Choices) == 0 {
		slog.Warn("[Abstractive] OpenAI returned no choices")
		return "", nil
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
