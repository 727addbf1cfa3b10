package mcpserver

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phene/dash-mcp-server/bootstrap"
	"github.com/phene/dash-mcp-server/config"
)

func TestNew(t *testing.T) {
	resolver := &staticResolver{outcome: bootstrap.Outcome{BaseURL: "http://127.0.0.1:1"}}
	s := New(config.Default(), resolver, WithLogger(slog.New(slog.DiscardHandler)))

	require.NotNil(t, s)
	require.NotNil(t, s.MCPServer())
	require.NotNil(t, s.HTTPHandler())
}

func TestTextAndErrorResults(t *testing.T) {
	ok := textResult("fine")
	assert.False(t, ok.IsError)
	assert.Equal(t, "fine", resultText(t, ok))

	bad := errorResult("broken")
	assert.True(t, bad.IsError)
	assert.Equal(t, "broken", resultText(t, bad))
}

func TestJSONResultIndents(t *testing.T) {
	result, err := jsonResult(map[string]int{"n": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"n\": 1\n}", resultText(t, result))
}
