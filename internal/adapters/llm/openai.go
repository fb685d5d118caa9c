package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/PabloGalante/farum-chat/internal/domain"
)

const providerOpenAI = "openai"

// OpenAIClient implements domain.CompletionClient with the chat completions API.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient builds a client authenticated with apiKey. baseURL may be
// empty to use the public endpoint.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg)}
}

func (c *OpenAIClient) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	msgs := BuildMessages(req)

	omsgs := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		omsgs = append(omsgs, openai.ChatCompletionMessage{
			Role:    openAIRole(m.Role),
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Options.Model,
		Messages:    omsgs,
		Temperature: req.Options.Temperature,
		MaxTokens:   req.Options.MaxOutputTokens,
	})
	if err != nil {
		return domain.Completion{}, classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return domain.Completion{}, &domain.ProviderError{
			Provider: providerOpenAI,
			Kind:     domain.ProviderErrEmptyResponse,
			Message:  "no choices in response",
		}
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return domain.Completion{}, &domain.ProviderError{
			Provider: providerOpenAI,
			Kind:     domain.ProviderErrEmptyResponse,
			Message:  fmt.Sprintf("finish reason %q", resp.Choices[0].FinishReason),
		}
	}

	return domain.Completion{
		Text:         text,
		Model:        resp.Model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

func openAIRole(r domain.Role) string {
	switch r {
	case domain.RoleSystem:
		return openai.ChatMessageRoleSystem
	case domain.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}

func classifyOpenAIError(err error) *domain.ProviderError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(providerOpenAI, apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(providerOpenAI, reqErr.HTTPStatusCode, "", err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return classifyContextError(providerOpenAI, err)
	}

	return &domain.ProviderError{Provider: providerOpenAI, Kind: domain.ProviderErrTransport, Err: err}
}
