package logger_test

import (
	"context"
	"testing"

	"safescan/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGet_FallsBackToDefault(t *testing.T) {
	require.NotNil(t, logger.Get(context.Background()))
}

func TestWithLogger_RoundTrip(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core)

	ctx := logger.WithLogger(context.Background(), l)
	logger.Info(ctx, "hello")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "hello", logs.All()[0].Message)
}

func TestWithFields_AttachesFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	ctx = logger.WithFields(ctx, zap.String("requestId", "abc"))
	logger.Warn(ctx, "something")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "abc", entries[0].ContextMap()["requestId"])
}
