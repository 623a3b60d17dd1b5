// Package commands provides the command implementations of dotlink.
//
// Each command lives in its own subdirectory:
//   - install/   - links every manifest entry
//   - status/    - reports whether each entry is linked
//   - clean/     - removes links no longer named by the manifest
//   - genconfig/ - renders tool settings as TOML
//
// Dispatch in this package prepares what the lifecycle commands share
// (settings, paths, manifest) and runs one of them. This file re-exports the
// command entry points.
package commands

import (
	"context"

	"github.com/arthur-debert/dotlink/pkg/commands/clean"
	"github.com/arthur-debert/dotlink/pkg/commands/genconfig"
	"github.com/arthur-debert/dotlink/pkg/commands/install"
	"github.com/arthur-debert/dotlink/pkg/commands/status"
)

// Install links every manifest entry.
type InstallOptions = install.Options

func Install(ctx context.Context, opts InstallOptions) (*install.Result, error) {
	return install.Run(ctx, opts)
}

// Status reports the state of every manifest entry.
type StatusOptions = status.Options

func Status(opts StatusOptions) (*status.Result, error) {
	return status.Run(opts)
}

// Clean removes orphaned links.
type CleanOptions = clean.Options

func Clean(ctx context.Context, opts CleanOptions) (*clean.Result, error) {
	return clean.Run(ctx, opts)
}

// GenConfig renders tool settings.
type GenConfigOptions = genconfig.Options

func GenConfig(opts GenConfigOptions) (*genconfig.Result, error) {
	return genconfig.GenConfig(opts)
}
