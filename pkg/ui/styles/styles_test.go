package styles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotlink/pkg/ui/styles"
)

func TestEmbeddedStyles(t *testing.T) {
	for _, name := range []string{
		"Header", "Label", "Success", "Error", "Warning", "Info",
		"Muted", "MutedItalic", "Bold", "Path", "Source", "DryRunBanner", "Summary",
	} {
		_, ok := styles.Registry[name]
		assert.True(t, ok, "style %s should be registered", name)
	}

	assert.True(t, styles.Get("Header").GetBold())
	assert.True(t, styles.Get("Summary").GetBold())
	assert.False(t, styles.Get("NoSuchStyle").GetBold())
}

func TestLoadFromData(t *testing.T) {
	saved := styles.Registry
	t.Cleanup(func() { styles.Registry = saved })

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "valid",
			data: "colors:\n  c:\n    light: '#000'\n    dark: '#fff'\nstyles:\n  Only:\n    foreground: c\n    italic: true\n",
		},
		{name: "unknown color", data: "styles:\n  Bad:\n    foreground: nope\n", wantErr: true},
		{name: "not yaml", data: "styles: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			styles.Registry = saved
			err := styles.LoadFromData([]byte(tt.data))
			if tt.wantErr {
				require.Error(t, err)
				assert.Len(t, styles.Registry, len(saved))
				return
			}
			require.NoError(t, err)
			assert.Len(t, styles.Registry, 1)
			assert.True(t, styles.Get("Only").GetItalic())
		})
	}
}
