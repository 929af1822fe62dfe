package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quickserve/backend/internal/infrastructure/config"
)

func TestNewTracerProviderDisabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), config.TelemetryConfig{
		Enabled:     false,
		ServiceName: "quickserve-test",
	}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())

	// no-op provider still hands out usable tracers
	tracer := tp.Tracer("checkout")
	_, span := tracer.Start(context.Background(), "finalize_order")
	span.End()

	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))
}
