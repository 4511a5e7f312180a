package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Generator produces assistant replies and conversation titles through the
// completion provider.
type Generator struct {
	client *openai.Client
	model  string
}

func NewGenerator(cfg Config) *Generator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}

	return &Generator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

func (g *Generator) Reply(ctx context.Context, userInput string) (string, error) {
	content, err := g.complete(ctx,
		"You are a helpful assistant.",
		userInput,
	)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// Title asks for a short conversation title and strips the surrounding
// quotes models like to add despite being told not to.
func (g *Generator) Title(ctx context.Context, text string) (string, error) {
	prompt := "Suggest a short and relevant conversation title (3-5 words max) in English only, no quotes or punctuation:\n" + text
	content, err := g.complete(ctx,
		"You are an assistant that generates short conversation titles in English.",
		prompt,
	)
	if err != nil {
		return "", err
	}

	title := strings.TrimSpace(content)
	title = strings.Trim(title, `"'`)
	return strings.TrimSpace(title), nil
}

func (g *Generator) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion choices")
	}
	return resp.Choices[0].Message.Content, nil
}
