package safety_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/dotlink/pkg/config"
	"github.com/arthur-debert/dotlink/pkg/safety"
)

func testRules() safety.Rules {
	return safety.NewRules(
		[]string{"", ".ssh", ".gnupg", ".config", ".local/bin", "Library"},
		[]string{".cache", "Library", "Application Support", ".mozilla"},
	)
}

func TestClassify(t *testing.T) {
	c := safety.NewClassifier(testRules())

	tests := []struct {
		target string
		want   safety.Level
	}{
		{".zshrc", safety.Safe},
		{".config/nvim", safety.Safe},
		{".ssh/config", safety.Safe},
		{"../x", safety.Forbidden},
		{"a/../../etc", safety.Forbidden},
		{"a/../b", safety.Forbidden},
		{"/etc/passwd", safety.Forbidden},
		{"", safety.Forbidden},
		{".", safety.Forbidden},
		{"./", safety.Forbidden},
		{".ssh", safety.Forbidden},
		{".ssh/", safety.Forbidden},
		{"./.gnupg", safety.Forbidden},
		{".SSH", safety.Forbidden},
		{".config", safety.Forbidden},
		{".local/bin", safety.Forbidden},
		{"library", safety.Forbidden},
		{".local/bin/tool", safety.Safe},
		{".cache/foo", safety.Risky},
		{"Library/Application Support/Code/User/settings.json", safety.Risky},
		{".mozilla/firefox/user.js", safety.Risky},
		{"x/APPLICATION SUPPORT/y", safety.Risky},
		{"cachedir/.cachefile", safety.Safe},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got := c.Classify(tt.target)
			assert.Equal(t, tt.want, got.Level, "reason: %s", got.Reason)
			if tt.want != safety.Safe {
				assert.NotEmpty(t, got.Reason)
			}
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	c := safety.NewClassifier(testRules())
	for i := 0; i < 3; i++ {
		assert.Equal(t, c.Classify(".cache/x"), c.Classify(".cache/x"))
	}
}

func TestClassifySource(t *testing.T) {
	c := safety.NewClassifier(testRules())

	assert.Equal(t, safety.Safe, c.ClassifySource("zsh/zshrc").Level)
	assert.Equal(t, safety.Forbidden, c.ClassifySource("").Level)
	assert.Equal(t, safety.Forbidden, c.ClassifySource("/etc/passwd").Level)
	assert.Equal(t, safety.Forbidden, c.ClassifySource("../outside").Level)
}

func TestDefaultRulesFromSettings(t *testing.T) {
	s, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	c := safety.NewClassifier(safety.NewRules(s.Safety.ProtectedPaths, s.Safety.RiskySegments))

	assert.Equal(t, safety.Forbidden, c.Classify("").Level)
	assert.Equal(t, safety.Forbidden, c.Classify(".ssh").Level)
	assert.Equal(t, safety.Risky, c.Classify("Library/Preferences/com.example.plist").Level)
	assert.Equal(t, safety.Safe, c.Classify(".zshrc").Level)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "safe", safety.Safe.String())
	assert.Equal(t, "risky", safety.Risky.String())
	assert.Equal(t, "forbidden", safety.Forbidden.String())
}
