package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductionLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter("production", &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("user_id", "u1").Msg("login succeeded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "login succeeded", entry["message"])
	require.Equal(t, "production", entry["env"])
	require.Equal(t, "u1", entry["user_id"])
}

func TestDevelopmentLoggerIsVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter("development", &buf)

	logger.Debug().Msg("visible")
	require.Contains(t, buf.String(), "visible")
}
