package config

import (
	"bytes"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// GenerateTOML renders settings as a TOML document
func GenerateTOML(s *Settings) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	enc.SetArraysMultiline(true)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateTemplate returns the built-in defaults with every value commented
// out, suitable as a starting .dotlink.toml
func GenerateTemplate() string {
	return commentOutConfigValues(DefaultsContent())
}

// commentOutConfigValues comments out every line that is not blank, a
// comment or a section header
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") && !strings.Contains(trimmed, "="):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}
