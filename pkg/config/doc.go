// Package config loads dotlink's own settings (not the dotfiles manifest).
//
// Settings come from three layers merged in order: the embedded
// defaults.toml, an optional .dotlink.toml at the repository root, and
// DOTLINK_ environment variables where a double underscore separates
// levels. Lists are appended across layers, so built-in protected paths
// can be extended but never removed.
package config
