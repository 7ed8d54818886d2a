package logs

import (
	"bytes"
	"encoding/json"
	"testing"

	"market/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONWithServiceName(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.ServiceName = "market"
	cfg.Env.Log.Level = "debug"

	var buf bytes.Buffer
	logger, err := newWithWriter(cfg, &buf)
	require.NoError(t, err)

	logger.Debug("order created", "orderID", "abc")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "market", record["service"])
	assert.Equal(t, "abc", record["orderID"])
	assert.Equal(t, "DEBUG", record["level"])
}

func TestNew_LevelFiltering(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.Log.Level = "warn"
	cfg.Env.Log.Pretty = true

	var buf bytes.Buffer
	logger, err := newWithWriter(cfg, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"debug", false},
		{"INFO", false},
		{"", false},
		{"warn", false},
		{"error", false},
		{"verbose", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := parseLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
