package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("Expected default level to be Info, got %s", cfg.Level)
	}

	if cfg.Pretty != false {
		t.Error("Expected default pretty to be false")
	}
}

func TestSetup(t *testing.T) {
	tests := []struct {
		name    string
		level   LogLevel
		testMsg string
	}{
		{
			name:    "info_level",
			level:   LevelInfo,
			testMsg: "export run started",
		},
		{
			name:    "debug_level",
			level:   LevelDebug,
			testMsg: "page processed",
		},
		{
			name:    "warn_level",
			level:   LevelWarn,
			testMsg: "relationship validation failed",
		},
		{
			name:    "error_level",
			level:   LevelError,
			testMsg: "page fetch failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := Setup(Config{
				Level:  tt.level,
				Pretty: false,
				Output: buf,
			})

			switch tt.level {
			case LevelDebug:
				logger.Debug().Msg(tt.testMsg)
			case LevelInfo:
				logger.Info().Msg(tt.testMsg)
			case LevelWarn:
				logger.Warn().Msg(tt.testMsg)
			case LevelError:
				logger.Error().Msg(tt.testMsg)
			}

			output := buf.String()
			if !strings.Contains(output, tt.testMsg) {
				t.Errorf("Expected output to contain %q, got %q", tt.testMsg, output)
			}
		})
	}
}

func TestSetup_NilOutputDefaultsToStderr(t *testing.T) {
	// Must not panic
	logger := Setup(Config{Level: LevelError})
	logger.Debug().Msg("filtered anyway")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    LogLevel
		expected zerolog.Level
	}{
		{LevelDebug, zerolog.DebugLevel},
		{LevelInfo, zerolog.InfoLevel},
		{LevelWarn, zerolog.WarnLevel},
		{LevelError, zerolog.ErrorLevel},
		{"invalid", zerolog.InfoLevel}, // Should default to Info
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			result := parseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: buf,
	})

	logger := NewLogger("export-driver")
	logger.Info().Msg("run finished")

	output := buf.String()
	if !strings.Contains(output, "export-driver") {
		t.Errorf("Expected output to contain 'export-driver', got %q", output)
	}
	if !strings.Contains(output, "run finished") {
		t.Errorf("Expected output to contain 'run finished', got %q", output)
	}
}

func TestLogLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{
		Level:  LevelWarn,
		Pretty: false,
		Output: buf,
	})

	logger := NewLogger("export-driver")

	// These should NOT appear (below warn level)
	logger.Debug().Msg("page processed")
	logger.Info().Msg("run finished")

	// These SHOULD appear (warn level and above)
	logger.Warn().Msg("relationship validation failed")
	logger.Error().Msg("page fetch failed")

	output := buf.String()

	if strings.Contains(output, "page processed") {
		t.Error("Debug message should be filtered out at Warn level")
	}
	if strings.Contains(output, "run finished") {
		t.Error("Info message should be filtered out at Warn level")
	}
	if !strings.Contains(output, "relationship validation failed") {
		t.Error("Warn message should be included at Warn level")
	}
	if !strings.Contains(output, "page fetch failed") {
		t.Error("Error message should be included at Warn level")
	}
}
