package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: "warn", Output: &buf})

	log.Info().Msg("dropped")
	log.Warn().Str("account_id", "a1").Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "a1", entry["account_id"])
	assert.Equal(t, "hospital-api", entry["service"])
}

func TestNewFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "loud", Output: &buf})

	l.Debug().Msg("hidden")
	l.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "hidden")
}
