package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/PabloGalante/farum-chat/internal/domain"
)

const providerGemini = "gemini"

// GeminiClient implements domain.CompletionClient on the Gemini API.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a Gemini API client authenticated with apiKey.
// baseURL may be empty to use the public endpoint.
func NewGeminiClient(ctx context.Context, apiKey, baseURL string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiClient{client: client}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	var (
		system   []string
		contents []*genai.Content
	)

	// Gemini takes the system prompt as a separate instruction, and history
	// as user/model contents.
	for _, m := range BuildMessages(req) {
		switch m.Role {
		case domain.RoleSystem:
			system = append(system, m.Content)
		case domain.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	temp := req.Options.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(req.Options.MaxOutputTokens),
	}
	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	res, err := g.client.Models.GenerateContent(ctx, req.Options.Model, contents, cfg)
	if err != nil {
		return domain.Completion{}, classifyGeminiError(err)
	}

	text := strings.TrimSpace(res.Text())
	if text == "" {
		return domain.Completion{}, &domain.ProviderError{
			Provider: providerGemini,
			Kind:     domain.ProviderErrEmptyResponse,
			Message:  "gemini returned empty text",
		}
	}

	out := domain.Completion{Text: text, Model: req.Options.Model}
	if res.ModelVersion != "" {
		out.Model = res.ModelVersion
	}
	if res.UsageMetadata != nil {
		out.InputTokens = int(res.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(res.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

func classifyGeminiError(err error) *domain.ProviderError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(providerGemini, apiErr.Code, apiErr.Message, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return classifyContextError(providerGemini, err)
	}

	return &domain.ProviderError{Provider: providerGemini, Kind: domain.ProviderErrTransport, Err: err}
}
