package translation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

const (
	DefaultModel       = "gemini-2.0-flash"
	translationTemp    = 0.0
	geminiAPIKeyEnvVar = "GOOGLE_GEMINI_API_KEY"
)

var ErrMissingAPIKey = errors.New(geminiAPIKeyEnvVar + " environment variable is not set")

// Backend performs a single uncached translation.
type Backend interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// IdentityBackend returns the input unchanged. It is used when no translation provider is configured.
type IdentityBackend struct{}

func (IdentityBackend) Translate(_ context.Context, text, _ string) (string, error) {
	return text, nil
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiBackend translates through the Gemini API.
type GeminiBackend struct {
	models contentGenerator
	model  string
}

// NewGeminiBackend builds a client from GOOGLE_GEMINI_API_KEY.
func NewGeminiBackend(ctx context.Context, model string) (*GeminiBackend, error) {
	ctx, span := otel.Tracer("Translation").Start(ctx, "NewGeminiBackend")
	defer span.End()

	apiKey := os.Getenv(geminiAPIKeyEnvVar)
	if apiKey == "" {
		span.SetStatus(codes.Error, "API key not set")
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	span.SetStatus(codes.Ok, "")
	return newGeminiBackend(client.Models, model), nil
}

func newGeminiBackend(models contentGenerator, model string) *GeminiBackend {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiBackend{models: models, model: model}
}

func translationPrompt(text, language string) string {
	return fmt.Sprintf("Translate the following text from English to %s. "+
		"Keep proper nouns of places and dynasties recognisable. "+
		"Reply with the translated text only, without quotes or notes.\n\n%s", language, text)
}

func (g *GeminiBackend) Translate(ctx context.Context, text, target string) (string, error) {
	ctx, span := otel.Tracer("Translation").Start(ctx, "GeminiTranslate", trace.WithAttributes(
		attribute.String("model", g.model),
		attribute.String("translation.target", target),
		attribute.Int("prompt.length", len(text)),
	))
	defer span.End()

	language, ok := languageName(target)
	if !ok {
		return "", fmt.Errorf("%q: %w", target, types.ErrUnsupportedLanguage)
	}

	result, err := g.models.GenerateContent(ctx, g.model, genai.Text(translationPrompt(text, language)),
		&genai.GenerateContentConfig{Temperature: genai.Ptr[float32](translationTemp)})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		return "", fmt.Errorf("gemini translate: %w", err)
	}

	translated := strings.TrimSpace(result.Text())
	if translated == "" {
		err = errors.New("gemini returned an empty translation")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("response.length", len(translated)))
	span.SetStatus(codes.Ok, "")
	return translated, nil
}
