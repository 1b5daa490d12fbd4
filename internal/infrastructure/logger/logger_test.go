package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{
			name: "default config",
			cfg:  DefaultConfig(),
		},
		{
			name: "debug level json",
			cfg:  &Config{Level: "debug", Format: "json", Output: "stdout"},
		},
		{
			name: "explicit time format",
			cfg: &Config{
				Level:      "info",
				Format:     "json",
				Output:     "stderr",
				TimeFormat: "2006-01-02T15:04:05Z07:00",
			},
		},
		{
			name: "empty config falls back to defaults",
			cfg:  &Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestNewWriteSyncer(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"stdout", "stdout"},
		{"stderr", "stderr"},
		{"STDOUT", "STDOUT"},
		{"empty defaults to stdout", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, newWriteSyncer(tt.output))
		})
	}
}

func TestNewWriteSyncerFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "test-log-*.log")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())
	tmpFile.Close()

	writer := newWriteSyncer(tmpFile.Name())
	assert.NotNil(t, writer)
}

func TestNewEncoder(t *testing.T) {
	t.Run("console", func(t *testing.T) {
		assert.NotNil(t, newEncoder(&Config{Format: "console"}))
	})

	t.Run("json", func(t *testing.T) {
		assert.NotNil(t, newEncoder(&Config{Format: "json"}))
	})
}

func TestLogOutput(t *testing.T) {
	var buf bytes.Buffer

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&buf),
		zapcore.InfoLevel,
	)
	logger := zap.New(core)

	logger.Info("test message", zap.String("key", "value"))

	var output map[string]any
	err := json.Unmarshal(buf.Bytes(), &output)
	require.NoError(t, err)

	assert.Equal(t, "test message", output["msg"])
	assert.Equal(t, "info", output["level"])
	assert.Equal(t, "value", output["key"])
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer

	encoderConfig := zapcore.EncoderConfig{
		LevelKey:    "level",
		MessageKey:  "msg",
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&buf),
		zapcore.DebugLevel,
	)
	logger := zap.New(core)

	logger.Debug("debug message")
	assert.True(t, strings.Contains(buf.String(), "debug message"))

	buf.Reset()

	core = zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&buf),
		zapcore.InfoLevel,
	)
	logger = zap.New(core)

	logger.Debug("debug message")
	assert.False(t, strings.Contains(buf.String(), "debug message"))

	logger.Info("info message")
	assert.True(t, strings.Contains(buf.String(), "info message"))
}
