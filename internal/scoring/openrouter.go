package scoring

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenRouterGenerator calls an OpenAI-compatible chat-completion endpoint
// (OpenRouter by default) in JSON mode and returns the first choice's
// message content.
type OpenRouterGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenRouterGenerator(baseURL, apiKey, model string) (*OpenRouterGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("openrouter api key is required")
	}
	if model == "" {
		return nil, errors.New("openrouter model is required")
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL+"/"),
		option.WithAPIKey(apiKey),
	)
	return &OpenRouterGenerator{client: client, model: model}, nil
}

func (g *OpenRouterGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}),
		Model: openai.F(g.model),
		ResponseFormat: openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			openai.ResponseFormatJSONObjectParam{
				Type: openai.F(openai.ResponseFormatJSONObjectTypeJSONObject),
			},
		),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

func (g *OpenRouterGenerator) Model() string {
	return g.model
}
