package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/janhq/calorie-api/internal/config"
	"github.com/janhq/calorie-api/internal/domain/prompt"
	"github.com/janhq/calorie-api/internal/infrastructure/metrics"
	"github.com/janhq/calorie-api/internal/infrastructure/observability"
	"github.com/janhq/calorie-api/internal/infrastructure/telemetry"
	"github.com/janhq/calorie-api/internal/utils/platformerrors"
)

const imageMIMEPrefix = "image/"

// Error messages returned to callers.
const (
	MsgNotAnImage   = "File must be an image"
	MsgFileTooLarge = "File size too large"
	MsgNoAPIKey     = "No API key provided"
	MsgNoUpload     = "No image uploaded"
)

// Service is the image analysis gateway: validate, call the provider once, wrap the text.
// It holds only values fixed at startup and is safe for concurrent use.
type Service struct {
	provider          Provider
	prompt            string
	defaultCredential string
	defaultModel      string
	maxImageBytes     int64
	sanitizer         *telemetry.Sanitizer
	log               zerolog.Logger
}

func NewService(cfg *config.Config, provider Provider, prompts *prompt.Catalog, log zerolog.Logger) *Service {
	model := cfg.GeminiModel
	if model == "" {
		model = config.DefaultModel
	}
	return &Service{
		provider:          provider,
		prompt:            prompts.CalorieAnalysis(),
		defaultCredential: cfg.GeminiAPIKey,
		defaultModel:      model,
		maxImageBytes:     cfg.MaxImageBytes,
		sanitizer:         telemetry.NewSanitizer(cfg.ServiceName),
		log:               log.With().Str("component", "analysis-service").Logger(),
	}
}

// Analyze validates the request and relays the provider's text verbatim.
func (s *Service) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	ctx, span := observability.StartSpan(ctx, "AnalysisService.Analyze")
	defer span.End()

	image := req.Image
	observability.AddSpanAttributes(ctx,
		attribute.String("upload.filename", image.Filename),
		attribute.String("upload.content_type", image.MimeType),
		attribute.Int64("upload.size", image.Size),
	)

	model := s.resolveModel(req.Model)
	modelLabel := metrics.ModelLabel(model, s.defaultModel)

	credential, err := s.validate(ctx, req)
	if err != nil {
		observability.RecordError(ctx, err)
		metrics.RecordAnalysis(modelLabel, image.MimeType, "validation_error", image.Size)
		return nil, err
	}

	s.checkDeclaredType(ctx, image)

	log := s.log.With().
		Str("filename", image.Filename).
		Str("content_type", image.MimeType).
		Int("bytes", len(image.Data)).
		Str("model", model).
		Str("credential_fp", s.sanitizer.Fingerprint(credential)).
		Logger()
	log.Info().Msg("analyzing image")

	// Client disconnects do not abort the provider call; its result is dropped instead.
	start := time.Now()
	text, err := s.provider.Generate(context.WithoutCancel(ctx), Generation{
		Prompt:     s.prompt,
		Image:      image,
		Credential: credential,
		Model:      model,
	})
	if err != nil {
		cause := s.sanitizer.RedactError(err, credential)
		log.Error().Err(cause).Msg("provider call failed")
		perr := platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal,
			"Error generating response: "+cause.Error(),
			cause, "", map[string]any{"model": model})
		observability.RecordError(ctx, perr)
		metrics.RecordAnalysis(modelLabel, image.MimeType, "provider_error", int64(len(image.Data)))
		return nil, perr
	}

	log.Info().Dur("duration", time.Since(start)).Int("analysis_chars", len(text)).Msg("analysis completed")
	metrics.RecordAnalysis(modelLabel, image.MimeType, "success", int64(len(image.Data)))

	return &AnalysisResult{
		Success:     true,
		Analysis:    text,
		Filename:    image.Filename,
		ContentType: image.MimeType,
	}, nil
}

// Validate runs the local checks without touching the image bytes, so callers can reject
// an upload before reading it. Analyze runs the same checks again.
func (s *Service) Validate(ctx context.Context, req AnalysisRequest) error {
	if _, err := s.validate(ctx, req); err != nil {
		modelLabel := metrics.ModelLabel(s.resolveModel(req.Model), s.defaultModel)
		metrics.RecordAnalysis(modelLabel, req.Image.MimeType, "validation_error", req.Image.Size)
		return err
	}
	return nil
}

// validate checks type, size and credential in that order and returns the credential to use.
func (s *Service) validate(ctx context.Context, req AnalysisRequest) (string, error) {
	if !strings.HasPrefix(req.Image.MimeType, imageMIMEPrefix) {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, MsgNotAnImage, nil, "")
	}

	// A size of zero means the transport did not report one; the limit is then not enforced.
	if req.Image.Size > 0 && req.Image.Size > s.maxImageBytes {
		return "", platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, MsgFileTooLarge, nil, "",
			map[string]any{"size": req.Image.Size, "limit": s.maxImageBytes})
	}

	credential := req.APIKey
	if strings.TrimSpace(credential) == "" {
		credential = s.defaultCredential
	}
	if credential == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, MsgNoAPIKey, nil, "")
	}

	return credential, nil
}

// resolveModel forwards a non-blank override as given.
func (s *Service) resolveModel(override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return s.defaultModel
}

// checkDeclaredType sniffs the bytes and logs when they disagree with the declared type.
// The declared type is still what gets forwarded.
func (s *Service) checkDeclaredType(ctx context.Context, image UploadedImage) {
	if len(image.Data) == 0 {
		return
	}
	detected := mimetype.Detect(image.Data)
	observability.AddSpanAttributes(ctx, attribute.String("upload.detected_type", detected.String()))

	declared := strings.TrimSpace(strings.SplitN(image.MimeType, ";", 2)[0])
	if !detected.Is(declared) {
		s.log.Warn().
			Str("filename", image.Filename).
			Str("declared", declared).
			Str("detected", detected.String()).
			Msg("declared content type does not match upload bytes")
	}
}
