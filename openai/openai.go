// Package openai implements policylens inference capabilities against any
// OpenAI-compatible chat completion API, including local Ollama servers.
package openai

import (
	"context"
	"os"
	"strings"

	"github.com/fwojciec/policylens"
	"github.com/sashabaranov/go-openai"
)

// ChatCompleter is the subset of *openai.Client used by this package.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewClient creates a chat client. An empty apiKey falls back to the
// OPENAI_API_KEY environment variable; an empty baseURL uses the OpenAI API.
// Local servers such as Ollama accept any key.
func NewClient(apiKey, baseURL string) *openai.Client {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(config)
}

// complete sends a system and user message and returns the first choice.
func complete(ctx context.Context, client ChatCompleter, req openai.ChatCompletionRequest) (string, error) {
	if client == nil {
		return "", policylens.Errorf(policylens.EBACKEND, "openai client not configured")
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", policylens.Errorf(policylens.EBACKEND, "chat completion %s: %v", req.Model, err)
	}
	if len(resp.Choices) == 0 {
		return "", policylens.Errorf(policylens.EBACKEND, "no choices returned from %s", req.Model)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func messages(system, user string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: user},
	}
}
