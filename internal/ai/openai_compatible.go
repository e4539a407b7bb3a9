package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrMissingCredential   = errors.New("llm api key not configured")
	ErrQuotaExceeded       = errors.New("llm quota or rate limit exceeded")
	ErrProviderUnavailable = errors.New("llm provider unavailable")
	ErrEmptyResponse       = errors.New("empty llm choices")
)

type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// CompletionRequest is a single-turn request. ImageDataURL, when set, is attached
// to the user message as an image part.
type CompletionRequest struct {
	System       string
	Prompt       string
	ImageDataURL string
	JSON         bool
	MaxTokens    int
}

// Client talks to any OpenAI-compatible chat completions endpoint.
type Client struct {
	client *openai.Client
	model  string
	hasKey bool
}

func NewOpenAICompatibleClient(cfg ChatConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
		hasKey: strings.TrimSpace(cfg.APIKey) != "",
	}
}

// Available reports whether a credential is configured.
func (c *Client) Available() bool {
	return c != nil && c.hasKey
}

func (c *Client) Complete(ctx context.Context, in CompletionRequest) (string, error) {
	if !c.Available() {
		return "", ErrMissingCredential
	}

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if in.ImageDataURL == "" {
		user.Content = in.Prompt
	} else {
		user.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: in.Prompt},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    in.ImageDataURL,
					Detail: openai.ImageURLDetailHigh,
				},
			},
		}
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if in.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: in.System})
	}
	messages = append(messages, user)

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.1,
		MaxTokens:   in.MaxTokens,
	}
	if in.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyError maps provider failures onto ErrQuotaExceeded or ErrProviderUnavailable,
// keeping the original error in the chain.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests || isQuotaCode(apiErr.Code) || isQuotaCode(apiErr.Type) {
			return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}

func isQuotaCode(code any) bool {
	s, ok := code.(string)
	if !ok {
		return false
	}
	switch s {
	case "insufficient_quota", "rate_limit_exceeded", "billing_hard_limit_reached":
		return true
	}
	return false
}
