package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"testforge/internal/config"
)

// OpenAIClient talks to any OpenAI-compatible chat-completion endpoint.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	maxRetries  int
	logger      *zap.Logger
}

// NewOpenAIClient builds a client from the LLM config section.
func NewOpenAIClient(cfg config.LLMConfig, timeout time.Duration, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is not configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     timeout,
		maxRetries:  cfg.MaxRetries,
		logger:      logger,
	}, nil
}

// Complete sends a single user prompt.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a system and a user message. Transport errors
// are retried with exponential backoff; an empty reply is terminal.
func (c *OpenAIClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	// apply the configured timeout only when the caller set no deadline
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var messages []openai.ChatCompletionMessage
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			c.logger.Warn("retrying completion",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			continue
		}

		if len(resp.Choices) == 0 {
			return "", ErrEmptyCompletion
		}
		content := strings.TrimSpace(resp.Choices[0].Message.Content)
		if content == "" {
			return "", ErrEmptyCompletion
		}
		return content, nil
	}

	return "", fmt.Errorf("completion failed after %d attempts: %w", c.maxRetries+1, lastErr)
}
