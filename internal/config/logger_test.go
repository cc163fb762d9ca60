package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	tests := []struct {
		name     string
		level    string
		expected zerolog.Level
	}{
		{name: "Debug", level: "debug", expected: zerolog.DebugLevel},
		{name: "Warn", level: "warn", expected: zerolog.WarnLevel},
		{name: "Unknown falls back to info", level: "loud", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(LoggerConfig{Level: tt.level, Format: "json"}, &buf)

			assert.Equal(t, tt.expected, zerolog.GlobalLevel())

			logger.Error().Str("order_id", "order_1").Msg("subscription failed")
			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "storefront", entry["app"])
			assert.Equal(t, "order_1", entry["order_id"])
		})
	}
}
