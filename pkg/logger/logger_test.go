package logger_test

import (
	"context"
	"testing"

	"wellflow/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		level       string
		wantErr     bool
		wantDebug   bool
	}{
		{name: "development", environment: logger.DevelopmentEnvironment, wantDebug: true},
		{name: "production", environment: logger.ProductionEnvironment, wantDebug: false},
		{name: "production at debug", environment: logger.ProductionEnvironment, level: "debug", wantDebug: true},
		{name: "development at warn", environment: logger.DevelopmentEnvironment, level: "warn", wantDebug: false},
		{name: "bad level", environment: logger.DevelopmentEnvironment, level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := logger.Setup(tt.environment, tt.level)
			if tt.wantErr {
				require.Error(t, err)

				return
			}
			require.NoError(t, err)

			ctx := context.Background()
			require.NotNil(t, logger.Get(ctx))
			require.Equal(t, tt.wantDebug, logger.IsDebug(ctx))
		})
	}
}

func TestGetPrefersContextLogger(t *testing.T) {
	require.NoError(t, logger.Setup(logger.DevelopmentEnvironment, ""))

	ctx := context.Background()
	require.NotNil(t, logger.Get(ctx))

	custom := zap.NewNop()
	require.Equal(t, custom, logger.Get(logger.WithLogger(ctx, custom)))
}

func TestWithFieldsAndNamed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	ctx = logger.Named(ctx, "drawdown")
	ctx = logger.WithFields(ctx, zap.String("runID", "r-1"), zap.Int("parts", 30))
	logger.Info(ctx, "solved")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "drawdown", entries[0].LoggerName)
	require.Equal(t, "solved", entries[0].Message)
	fields := entries[0].ContextMap()
	require.Equal(t, "r-1", fields["runID"])
	require.EqualValues(t, 30, fields["parts"])
}

func TestLoggingFunctions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")
	require.NotPanics(t, func() { logger.Sync(ctx) })

	require.Equal(t, 4, logs.Len())
	require.Equal(t, zapcore.ErrorLevel, logs.All()[3].Level)
}
