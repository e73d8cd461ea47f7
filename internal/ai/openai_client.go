package ai

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

const (
	maxReplyTokens   = 500
	maxSummaryTokens = 100
)

const summaryPrompt = "Ты эмпатичный союзник, который делает краткую эмоциональную сводку диалога за день. Опиши ключевые темы, эмоции и выводы в 1-2 предложениях."

// OpenAIClient implements AI over the hosted chat-completion API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIClient) Reply(ctx context.Context, systemPrompt string, history []Message) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if systemPrompt != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	for _, m := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Text,
		})
	}

	return c.complete(ctx, msgs, maxReplyTokens)
}

func (c *OpenAIClient) DescribeImage(ctx context.Context, systemPrompt string, imageURL string) (string, error) {
	msgs := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: "Опиши это изображение."},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: imageURL}},
			},
		},
	}

	return c.complete(ctx, msgs, maxReplyTokens)
}

func (c *OpenAIClient) Summarize(ctx context.Context, transcript string) (string, error) {
	msgs := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: summaryPrompt},
		{Role: openai.ChatMessageRoleUser, Content: transcript},
	}

	return c.complete(ctx, msgs, maxSummaryTokens)
}

func (c *OpenAIClient) complete(ctx context.Context, msgs []openai.ChatCompletionMessage, maxTokens int) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  msgs,
		MaxTokens: maxTokens,
	})
	if err != nil {
		log.Error().Err(err).Str("model", c.model).Msg("openai completion failed")
		return "", err
	}

	if len(resp.Choices) == 0 {
		log.Warn().Str("model", c.model).Msg("openai returned empty choices")
		return "", errors.New("openai: empty choices")
	}

	return resp.Choices[0].Message.Content, nil
}
