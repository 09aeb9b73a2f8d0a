package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/calorie-api/internal/config"
	"github.com/janhq/calorie-api/internal/domain/prompt"
	"github.com/janhq/calorie-api/internal/utils/platformerrors"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type stubProvider struct {
	calls    atomic.Int32
	mu       sync.Mutex
	last     Generation
	generate func(ctx context.Context, gen Generation) (string, error)
}

func (p *stubProvider) Generate(ctx context.Context, gen Generation) (string, error) {
	p.calls.Add(1)
	p.mu.Lock()
	p.last = gen
	p.mu.Unlock()
	if p.generate != nil {
		return p.generate(ctx, gen)
	}
	return "", nil
}

func newTestService(t *testing.T, cfg *config.Config, provider Provider) *Service {
	t.Helper()
	catalog, err := prompt.Default()
	require.NoError(t, err)
	if cfg.MaxImageBytes == 0 {
		cfg.MaxImageBytes = 10 * 1024 * 1024
	}
	return NewService(cfg, provider, catalog, zerolog.Nop())
}

func pngUpload(name string) UploadedImage {
	return UploadedImage{Filename: name, MimeType: "image/png", Size: int64(len(pngHeader)), Data: pngHeader}
}

func TestAnalyze_RejectsNonImageTypes(t *testing.T) {
	provider := &stubProvider{}
	svc := newTestService(t, &config.Config{GeminiAPIKey: "env-key"}, provider)

	for _, mime := range []string{"", "text/plain", "application/pdf", "video/mp4", "IMAGE/PNG", "application/image"} {
		t.Run(fmt.Sprintf("mime=%q", mime), func(t *testing.T) {
			_, err := svc.Analyze(context.Background(), AnalysisRequest{
				Image: UploadedImage{Filename: "x", MimeType: mime, Size: 10, Data: []byte("hello")},
			})
			require.Error(t, err)
			assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

			var perr *platformerrors.PlatformError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, MsgNotAnImage, perr.Message)
		})
	}

	assert.Equal(t, int32(0), provider.calls.Load())
}

func TestAnalyze_RejectsOversizedUploads(t *testing.T) {
	provider := &stubProvider{}
	svc := newTestService(t, &config.Config{GeminiAPIKey: "env-key", MaxImageBytes: 1024}, provider)

	for _, size := range []int64{1025, 4096, 10 * 1024 * 1024} {
		_, err := svc.Analyze(context.Background(), AnalysisRequest{
			Image: UploadedImage{Filename: "big.png", MimeType: "image/png", Size: size, Data: pngHeader},
		})
		require.Error(t, err)

		var perr *platformerrors.PlatformError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, platformerrors.ErrorTypeValidation, perr.Type)
		assert.Equal(t, MsgFileTooLarge, perr.Message)
	}

	assert.Equal(t, int32(0), provider.calls.Load())
}

func TestAnalyze_SkipsSizeCheckWhenUnreported(t *testing.T) {
	provider := &stubProvider{generate: func(context.Context, Generation) (string, error) { return "ok", nil }}
	svc := newTestService(t, &config.Config{GeminiAPIKey: "env-key", MaxImageBytes: 4}, provider)

	result, err := svc.Analyze(context.Background(), AnalysisRequest{
		Image: UploadedImage{Filename: "stream.png", MimeType: "image/png", Size: 0, Data: pngHeader},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestAnalyze_AcceptsSizeAtLimit(t *testing.T) {
	provider := &stubProvider{generate: func(context.Context, Generation) (string, error) { return "ok", nil }}
	svc := newTestService(t, &config.Config{GeminiAPIKey: "env-key", MaxImageBytes: int64(len(pngHeader))}, provider)

	_, err := svc.Analyze(context.Background(), AnalysisRequest{Image: pngUpload("edge.png")})
	require.NoError(t, err)
}

func TestAnalyze_RequiresCredential(t *testing.T) {
	provider := &stubProvider{}
	svc := newTestService(t, &config.Config{}, provider)

	for _, key := range []string{"", "   "} {
		_, err := svc.Analyze(context.Background(), AnalysisRequest{Image: pngUpload("meal.png"), APIKey: key})
		require.Error(t, err)

		var perr *platformerrors.PlatformError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, platformerrors.ErrorTypeValidation, perr.Type)
		assert.Equal(t, MsgNoAPIKey, perr.Message)
	}

	assert.Equal(t, int32(0), provider.calls.Load())
}

func TestAnalyze_CredentialAndModelResolution(t *testing.T) {
	tests := []struct {
		name           string
		cfg            config.Config
		apiKey         string
		model          string
		wantCredential string
		wantModel      string
	}{
		{"defaults", config.Config{GeminiAPIKey: "env-key"}, "", "", "env-key", config.DefaultModel},
		{"configured model", config.Config{GeminiAPIKey: "env-key", GeminiModel: "models/gemini-2.0-flash"}, "", "", "env-key", "models/gemini-2.0-flash"},
		{"caller overrides", config.Config{GeminiAPIKey: "env-key"}, "caller-key", "models/custom", "caller-key", "models/custom"},
		{"caller key without default", config.Config{}, "caller-key", "", "caller-key", config.DefaultModel},
		{"overrides forwarded unchanged", config.Config{GeminiAPIKey: "env-key"}, " caller-key ", " models/custom ", " caller-key ", " models/custom "},
		{"blank overrides fall back", config.Config{GeminiAPIKey: "env-key"}, "  ", "\t", "env-key", config.DefaultModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{generate: func(context.Context, Generation) (string, error) { return "ok", nil }}
			cfg := tt.cfg
			svc := newTestService(t, &cfg, provider)

			_, err := svc.Analyze(context.Background(), AnalysisRequest{Image: pngUpload("meal.png"), APIKey: tt.apiKey, Model: tt.model})
			require.NoError(t, err)
			assert.Equal(t, tt.wantCredential, provider.last.Credential)
			assert.Equal(t, tt.wantModel, provider.last.Model)
		})
	}
}

func TestAnalyze_PassesTextThroughVerbatim(t *testing.T) {
	const text = "1. Rice - 200 kcal\n2. Egg - 78 kcal\n\n  **Healthy**: yes 🥚\t"
	provider := &stubProvider{generate: func(context.Context, Generation) (string, error) { return text, nil }}
	svc := newTestService(t, &config.Config{GeminiAPIKey: "env-key"}, provider)

	catalog, err := prompt.Default()
	require.NoError(t, err)

	result, err := svc.Analyze(context.Background(), AnalysisRequest{Image: pngUpload("lunch.png")})
	require.NoError(t, err)

	assert.Equal(t, &AnalysisResult{
		Success:     true,
		Analysis:    text,
		Filename:    "lunch.png",
		ContentType: "image/png",
	}, result)

	assert.Equal(t, int32(1), provider.calls.Load())
	assert.Equal(t, catalog.CalorieAnalysis(), provider.last.Prompt)
	assert.Equal(t, pngHeader, provider.last.Image.Data)
	assert.Equal(t, "image/png", provider.last.Image.MimeType)
}

func TestAnalyze_ProviderErrorIsExternal(t *testing.T) {
	provider := &stubProvider{generate: func(context.Context, Generation) (string, error) {
		return "", errors.New("quota exceeded for project")
	}}
	svc := newTestService(t, &config.Config{GeminiAPIKey: "env-key"}, provider)

	result, err := svc.Analyze(context.Background(), AnalysisRequest{Image: pngUpload("dinner.png")})
	require.Error(t, err)
	assert.Nil(t, result)

	var perr *platformerrors.PlatformError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, platformerrors.ErrorTypeExternal, perr.Type)
	assert.Contains(t, perr.Message, "quota exceeded for project")
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestAnalyze_ProviderCallSurvivesCallerCancellation(t *testing.T) {
	provider := &stubProvider{generate: func(ctx context.Context, _ Generation) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "still answered", nil
	}}
	svc := newTestService(t, &config.Config{GeminiAPIKey: "env-key"}, provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.Analyze(ctx, AnalysisRequest{Image: pngUpload("late.png")})
	require.NoError(t, err)
	assert.Equal(t, "still answered", result.Analysis)
}

func TestAnalyze_ConcurrentRequestsStayIsolated(t *testing.T) {
	provider := ProviderFunc(func(_ context.Context, gen Generation) (string, error) {
		return gen.Credential + "|" + gen.Image.Filename + "|" + string(gen.Image.Data[len(pngHeader):]), nil
	})
	svc := newTestService(t, &config.Config{GeminiAPIKey: "env-key"}, provider)

	const workers = 32
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("plate-%d.png", i)
			mime := "image/png"
			if i%2 == 0 {
				mime = "image/jpeg"
			}
			key := fmt.Sprintf("key-%d", i)
			data := append(append([]byte{}, pngHeader...), []byte(name)...)

			result, err := svc.Analyze(context.Background(), AnalysisRequest{
				Image:  UploadedImage{Filename: name, MimeType: mime, Size: int64(len(data)), Data: data},
				APIKey: key,
			})
			if err != nil {
				errs <- err
				return
			}
			if result.Filename != name || result.ContentType != mime || result.Analysis != key+"|"+name+"|"+name {
				errs <- fmt.Errorf("request %d got foreign result %+v", i, result)
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestAnalyze_LogsNeverContainCredential(t *testing.T) {
	catalog, err := prompt.Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	cause := errors.New("API key AIza-very-secret not valid")
	provider := &stubProvider{generate: func(context.Context, Generation) (string, error) {
		return "", cause
	}}
	svc := NewService(&config.Config{ServiceName: "calorie-api", MaxImageBytes: 1024}, provider, catalog, zerolog.New(&buf))

	_, err = svc.Analyze(context.Background(), AnalysisRequest{Image: pngUpload("meal.png"), APIKey: "AIza-very-secret"})
	require.Error(t, err)

	var perr *platformerrors.PlatformError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Error generating response: API key [REDACTED] not valid", perr.Message)
	assert.NotContains(t, perr.Error(), "AIza-very-secret")
	assert.ErrorIs(t, err, cause)

	logs := buf.String()
	assert.NotEmpty(t, logs)
	assert.NotContains(t, logs, "AIza-very-secret")
	assert.Contains(t, logs, "credential_fp")
	assert.Contains(t, logs, "[REDACTED]")
}

func TestValidate_DoesNotNeedImageBytes(t *testing.T) {
	provider := &stubProvider{}
	svc := newTestService(t, &config.Config{GeminiAPIKey: "env-key", MaxImageBytes: 100}, provider)

	tests := []struct {
		name  string
		image UploadedImage
		want  string
	}{
		{"accepted", UploadedImage{Filename: "a.png", MimeType: "image/png", Size: 100}, ""},
		{"wrong type before size", UploadedImage{Filename: "a.txt", MimeType: "text/plain", Size: 1 << 31}, MsgNotAnImage},
		{"too large", UploadedImage{Filename: "a.png", MimeType: "image/png", Size: 101}, MsgFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Validate(context.Background(), AnalysisRequest{Image: tt.image})
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			var perr *platformerrors.PlatformError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.want, perr.Message)
		})
	}
	assert.Zero(t, provider.calls.Load())
}
