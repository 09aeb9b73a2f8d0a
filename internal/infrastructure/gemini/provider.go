package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"

	"github.com/janhq/calorie-api/internal/config"
	"github.com/janhq/calorie-api/internal/domain/analysis"
	"github.com/janhq/calorie-api/internal/infrastructure/metrics"
	"github.com/janhq/calorie-api/internal/infrastructure/observability"
)

// ErrEmptyResponse is returned when the model answers without any text part.
var ErrEmptyResponse = errors.New("provider returned no text")

// Provider calls the Gemini API through the genai SDK.
// A client is built per call because every request may carry its own credential.
type Provider struct {
	baseURL      string
	defaultModel string
	httpClient   *http.Client
	log          zerolog.Logger
}

var _ analysis.Provider = (*Provider)(nil)

func NewProvider(cfg *config.Config, log zerolog.Logger) *Provider {
	defaultModel := cfg.GeminiModel
	if defaultModel == "" {
		defaultModel = config.DefaultModel
	}
	return &Provider{
		baseURL:      cfg.GeminiBaseURL,
		defaultModel: defaultModel,
		// No timeout: callers needing bounded latency cancel at the transport layer.
		httpClient: &http.Client{},
		log:        log.With().Str("component", "gemini-provider").Logger(),
	}
}

// Generate sends the prompt and the image as one user turn and returns the model's text.
func (p *Provider) Generate(ctx context.Context, gen analysis.Generation) (string, error) {
	ctx, span := observability.StartSpan(ctx, "GeminiProvider.Generate")
	defer span.End()
	observability.AddSpanAttributes(ctx,
		attribute.String("gen_ai.system", "gemini"),
		attribute.String("gen_ai.request.model", gen.Model),
		attribute.Int("gen_ai.request.image_bytes", len(gen.Image.Data)),
	)

	modelLabel := metrics.ModelLabel(gen.Model, p.defaultModel)

	client, err := p.newClient(ctx, gen.Credential)
	if err != nil {
		metrics.RecordProviderCall(modelLabel, 0, "client_error")
		observability.RecordError(ctx, err)
		return "", fmt.Errorf("create gemini client: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(gen.Prompt),
			genai.NewPartFromBytes(gen.Image.Data, gen.Image.MimeType),
		}, genai.RoleUser),
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, gen.Model, contents, nil)
	duration := time.Since(start)
	if err != nil {
		metrics.RecordProviderCall(modelLabel, duration.Seconds(), classify(err))
		observability.RecordError(ctx, err)
		p.log.Debug().Str("model", gen.Model).Str("error_type", classify(err)).Dur("duration", duration).Msg("generateContent failed")
		return "", err
	}

	text, ok := responseText(resp)
	if !ok {
		metrics.RecordProviderCall(modelLabel, duration.Seconds(), "empty_response")
		observability.RecordError(ctx, ErrEmptyResponse)
		return "", ErrEmptyResponse
	}

	metrics.RecordProviderCall(modelLabel, duration.Seconds(), "")
	p.log.Debug().Str("model", gen.Model).Dur("duration", duration).Int("chars", len(text)).Msg("generateContent succeeded")
	return text, nil
}

func (p *Provider) newClient(ctx context.Context, credential string) (*genai.Client, error) {
	cc := &genai.ClientConfig{
		APIKey:     credential,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}
	return genai.NewClient(ctx, cc)
}

// responseText joins the text parts of the first candidate, skipping thought parts.
func responseText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return "", false
	}

	var (
		sb    strings.Builder
		found bool
	)
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		sb.WriteString(part.Text)
		found = true
	}
	return sb.String(), found
}

func classify(err error) string {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("http_%d", apiErr.Code)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	return "transport"
}
