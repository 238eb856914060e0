package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTracerDisabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestGetSampler(t *testing.T) {
	assert.Contains(t, getSampler(Config{SamplerType: "never"}).Description(), "AlwaysOff")
	assert.Contains(t, getSampler(Config{SamplerType: "always"}).Description(), "AlwaysOn")
	assert.Contains(t, getSampler(Config{SamplerType: ""}).Description(), "AlwaysOn")
	assert.Contains(t, getSampler(Config{SamplerType: "ratio", SamplerRatio: 0.5}).Description(), "TraceIDRatioBased")
}

func TestWithSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(original) })

	err := WithSpan(context.Background(), "skillport.copy", func(ctx context.Context) error {
		SetAttributes(ctx, attribute.Int("files", 3))
		return nil
	}, attribute.String("skill", "gsd-codex"))
	require.NoError(t, err)

	failure := errors.New("disk full")
	err = WithSpan(context.Background(), "skillport.reset", func(context.Context) error {
		return failure
	})
	assert.Equal(t, failure, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "skillport.copy", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("skill", "gsd-codex"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("files", 3))

	assert.Equal(t, "skillport.reset", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "disk full", spans[1].Status().Description)
}
