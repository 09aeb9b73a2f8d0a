package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/calorie-api/internal/config"
)

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		raw          string
		wantEndpoint string
		wantInsecure bool
	}{
		{"otel-collector:4318", "otel-collector:4318", true},
		{"http://otel-collector:4318", "otel-collector:4318", true},
		{"https://collector.example.com", "collector.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			endpoint, insecure := normalizeEndpoint(tt.raw)
			assert.Equal(t, tt.wantEndpoint, endpoint)
			assert.Equal(t, tt.wantInsecure, insecure)
		})
	}
}

func TestParseHeaders(t *testing.T) {
	headers := parseHeaders("authorization=Bearer abc, x-tenant = jan ,broken, =empty")
	assert.Equal(t, map[string]string{
		"authorization": "Bearer abc",
		"x-tenant":      "jan",
	}, headers)
	assert.Empty(t, parseHeaders(""))
}

func TestSetup_WithoutExporter(t *testing.T) {
	cfg := &config.Config{ServiceName: "calorie-api-test", Environment: "test"}

	shutdown, err := Setup(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	ctx, span := StartSpan(context.Background(), "test-span")
	assert.True(t, trace.SpanFromContext(ctx).SpanContext().IsValid())
	RecordError(ctx, errors.New("boom"))
	span.End()

	assert.NoError(t, shutdown(context.Background()))
}
