package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func observedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func batchScanQuery() (string, int64) {
	return "SELECT * FROM purchase_batches WHERE item_id = $1 ORDER BY purchase_date", 3
}

func TestGormLoggerOptions(t *testing.T) {
	gl, _ := observedGormLogger(gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)

	assert.Equal(t, 500*time.Millisecond, gl.slowThreshold)
	assert.False(t, gl.skipRecordNotFound)
	assert.Equal(t, gormlogger.Info, gl.logLevel)
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, _ := observedGormLogger(gormlogger.Info)

	scoped, ok := gl.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)

	assert.Equal(t, gormlogger.Warn, scoped.logLevel)
	assert.Equal(t, gormlogger.Info, gl.logLevel, "original logger keeps its level")
}

func TestGormLogger_LevelMethods(t *testing.T) {
	t.Run("info formats arguments", func(t *testing.T) {
		gl, recorded := observedGormLogger(gormlogger.Info)
		gl.Info(context.Background(), "migrated %d batches", 7)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "migrated 7 batches")
	})

	t.Run("warn logs at warn level", func(t *testing.T) {
		gl, recorded := observedGormLogger(gormlogger.Warn)
		gl.Warn(context.Background(), "retrying lock on %s", "godown_stocks")

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
	})

	t.Run("error logs at error level", func(t *testing.T) {
		gl, recorded := observedGormLogger(gormlogger.Error)
		gl.Error(context.Background(), "connection lost")

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
	})

	t.Run("silent suppresses everything", func(t *testing.T) {
		gl, recorded := observedGormLogger(gormlogger.Silent)
		gl.Info(context.Background(), "ignored")
		gl.Warn(context.Background(), "ignored")
		gl.Error(context.Background(), "ignored")

		assert.Empty(t, recorded.All())
	})
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("failed statement logs SQL Error", func(t *testing.T) {
		gl, recorded := observedGormLogger(gormlogger.Error)
		gl.Trace(context.Background(), time.Now(), batchScanQuery, errors.New("deadlock detected"))

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, "SQL Error", logs[0].Message)
		assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
	})

	t.Run("record not found is suppressed by default", func(t *testing.T) {
		gl, recorded := observedGormLogger(gormlogger.Error)
		gl.Trace(context.Background(), time.Now(), batchScanQuery, gormlogger.ErrRecordNotFound)

		assert.Empty(t, recorded.All())
	})

	t.Run("slow statement warns", func(t *testing.T) {
		gl, recorded := observedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Nanosecond))
		gl.Trace(context.Background(), time.Now().Add(-time.Second), batchScanQuery, nil)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "SLOW SQL")
	})

	t.Run("ordinary statement logs at debug", func(t *testing.T) {
		gl, recorded := observedGormLogger(gormlogger.Info)
		gl.Trace(context.Background(), time.Now(), batchScanQuery, nil)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, "SQL Query", logs[0].Message)
		assert.Equal(t, zapcore.DebugLevel, logs[0].Level)
	})

	t.Run("silent level traces nothing", func(t *testing.T) {
		gl, recorded := observedGormLogger(gormlogger.Silent)
		gl.Trace(context.Background(), time.Now(), batchScanQuery, nil)

		assert.Empty(t, recorded.All())
	})

	t.Run("request id from context is attached", func(t *testing.T) {
		gl, recorded := observedGormLogger(gormlogger.Info)
		ctx := context.WithValue(context.Background(), RequestIDKey, "req-7f3a")
		gl.Trace(ctx, time.Now(), batchScanQuery, nil)

		logs := recorded.All()
		require.Len(t, logs, 1)

		found := false
		for _, field := range logs[0].Context {
			if field.Key == "request_id" {
				found = true
				assert.Equal(t, "req-7f3a", field.String)
			}
		}
		assert.True(t, found, "request_id field missing")
	})
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}

var _ gormlogger.Interface = (*GormLogger)(nil)
