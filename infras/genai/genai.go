package genai

//go:generate go run go.uber.org/mock/mockgen -source=./genai.go -destination=./mocks/genai_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/shared/constant"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

const mimeTypeJSON = "application/json"

var (
	ErrDisabled      = errors.New("generative model is not configured")
	ErrEmptyResponse = errors.New("generative model returned no content")
)

// Client asks a Gemini model for a JSON document.
type Client interface {
	Enabled() bool
	GenerateJSON(ctx context.Context, prompt string, out any) error
	Close() error
}

type clientImpl struct {
	client *genai.Client
	model  string
	otel   otel.Otel
}

type disabledClient struct{}

func New(cfg *config.Config, ot otel.Otel) Client {
	if cfg.External.Gemini.APIKey == constant.Empty {
		log.Warn().Msg("Gemini API key not set, AI features are disabled")

		return disabledClient{}
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.External.Gemini.APIKey))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Gemini client, AI features are disabled")

		return disabledClient{}
	}

	log.Info().Str("model", cfg.External.Gemini.Model).Msg("Gemini client initialized")

	return &clientImpl{
		client: client,
		model:  cfg.External.Gemini.Model,
		otel:   ot,
	}
}

func (c *clientImpl) Enabled() bool {
	return true
}

func (c *clientImpl) GenerateJSON(ctx context.Context, prompt string, out any) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".gemini.GenerateJSON")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("gemini.model", c.model)

	model := c.client.GenerativeModel(c.model)
	model.ResponseMIMEType = mimeTypeJSON

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return fmt.Errorf("failed to generate content: %w", err)
	}

	text := responseText(resp)
	if text == constant.Empty {
		return ErrEmptyResponse
	}

	if err = json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("failed to decode model response: %w", err)
	}

	return nil
}

func (c *clientImpl) Close() error {
	return c.client.Close() //nolint:wrapcheck
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return constant.Empty
	}

	var sb strings.Builder

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}

		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}

		if sb.Len() > 0 {
			break
		}
	}

	return strings.TrimSpace(sb.String())
}

func (disabledClient) Enabled() bool {
	return false
}

func (disabledClient) GenerateJSON(context.Context, string, any) error {
	return ErrDisabled
}

func (disabledClient) Close() error {
	return nil
}
