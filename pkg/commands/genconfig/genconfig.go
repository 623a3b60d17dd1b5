// Package genconfig renders tool settings as TOML, either the effective
// values or a commented template of the defaults.
package genconfig

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/dotlink/pkg/config"
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Options controls GenConfig
type Options struct {
	// Settings are rendered unless Template is set
	Settings *config.Settings
	Template bool
	// Write saves the output as .dotlink.toml in RepoRoot
	Write    bool
	RepoRoot string
	FS       types.FS
}

// Result holds the rendered document
type Result struct {
	Content string `json:"content"`
	// Path is set when the document was written
	Path string `json:"path,omitempty"`
}

// GenConfig renders the settings and optionally writes them. An existing
// .dotlink.toml is never overwritten.
func GenConfig(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.genconfig")

	var content string
	if opts.Template || opts.Settings == nil {
		content = config.GenerateTemplate()
	} else {
		data, err := config.GenerateTOML(opts.Settings)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to render settings")
		}
		content = string(data)
	}

	result := &Result{Content: content}
	if !opts.Write {
		return result, nil
	}

	path := filepath.Join(opts.RepoRoot, config.RootConfigFile)
	f, err := opts.FS.Create(path, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, errors.Newf(errors.ErrInvalidInput, "%s already exists, not overwriting", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot create %s", path)
	}
	if _, err := f.Write([]byte(content)); err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot write %s", path)
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot write %s", path)
	}

	logger.Info().Str("path", path).Msg("wrote settings file")
	result.Path = path
	return result, nil
}
