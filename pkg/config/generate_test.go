package config

import (
	"strings"
	"testing"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTOML_RoundTrips(t *testing.T) {
	s, err := Defaults()
	require.NoError(t, err)

	out, err := GenerateTOML(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), "[safety]")
	assert.Contains(t, string(out), "confirm_token")
	assert.Contains(t, string(out), "I UNDERSTAND")

	var back Settings
	require.NoError(t, toml.Unmarshal(out, &back))
	assert.Equal(t, *s, back)
}

func TestGenerateTemplate(t *testing.T) {
	out := GenerateTemplate()

	assert.Contains(t, out, "[paths]")
	assert.Contains(t, out, `# manifest = "dot-config.json"`)
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		assert.True(t, strings.HasPrefix(trimmed, "["), "uncommented value line: %q", line)
	}
}
