package util

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerConfig(t *testing.T) {
	tests := []struct {
		env   string
		debug bool
		want  zapcore.Level
	}{
		{"production", false, zapcore.InfoLevel},
		{"production", true, zapcore.DebugLevel},
		{"development", false, zapcore.InfoLevel},
		{"development", true, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		cfg := loggerConfig(tt.env, tt.debug)
		assert.Equal(t, tt.want, cfg.Level.Level(), "env=%s debug=%v", tt.env, tt.debug)
		assert.Equal(t, []string{"stderr"}, cfg.OutputPaths)
	}
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := SetLogger(zap.New(core))

	GetLogger().Info("hello")
	restore()
	GetLogger().Info("not observed")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "hello", logs.All()[0].Message)
}

func TestSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	UseTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	_, ok := StartSpan(context.Background(), "ok", AttrSite.String("paodeacucar.com"))
	EndSpan(ok, nil)
	_, failed := StartSpan(context.Background(), "failed")
	EndSpan(failed, errors.New("boom"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), AttrSite.String("paodeacucar.com"))
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
}
