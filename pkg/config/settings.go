package config

import (
	"strings"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/paths"
)

// Settings is the effective tool configuration
type Settings struct {
	Paths     PathSettings      `koanf:"paths" toml:"paths"`
	Safety    SafetySettings    `koanf:"safety" toml:"safety"`
	Discovery DiscoverySettings `koanf:"discovery" toml:"discovery"`
}

// PathSettings locates the manifest and backup directories
type PathSettings struct {
	Manifest       string `koanf:"manifest" toml:"manifest"`
	BackupDir      string `koanf:"backup_dir" toml:"backup_dir"`
	InstallBackups string `koanf:"install_backups" toml:"install_backups"`
	CleanBackups   string `koanf:"clean_backups" toml:"clean_backups"`
}

// SafetySettings feeds the target classifier and the confirmation gate
type SafetySettings struct {
	ProtectedPaths []string `koanf:"protected_paths" toml:"protected_paths"`
	RiskySegments  []string `koanf:"risky_segments" toml:"risky_segments"`
	ConfirmToken   string   `koanf:"confirm_token" toml:"confirm_token"`
}

// DiscoverySettings controls where clean looks for managed links
type DiscoverySettings struct {
	ScanDirs []string `koanf:"scan_dirs" toml:"scan_dirs"`
}

func postProcess(s *Settings) error {
	s.Paths.Manifest = strings.TrimSpace(s.Paths.Manifest)
	s.Paths.BackupDir = strings.TrimSpace(s.Paths.BackupDir)
	s.Safety.ConfirmToken = strings.TrimSpace(s.Safety.ConfirmToken)

	if s.Paths.Manifest == "" {
		return errors.New(errors.ErrSettings, "paths.manifest cannot be empty")
	}
	if s.Paths.BackupDir == "" {
		return errors.New(errors.ErrSettings, "paths.backup_dir cannot be empty")
	}
	for key, name := range map[string]string{
		"paths.install_backups": s.Paths.InstallBackups,
		"paths.clean_backups":   s.Paths.CleanBackups,
	} {
		if name == "" || paths.IsAbsolute(name) || paths.HasTraversal(name) {
			return errors.Newf(errors.ErrSettings, "%s must be a relative directory name, got %q", key, name)
		}
	}
	if s.Paths.InstallBackups == s.Paths.CleanBackups {
		return errors.New(errors.ErrSettings, "install and clean backups must use different directories")
	}
	if s.Safety.ConfirmToken == "" {
		return errors.New(errors.ErrSettings, "safety.confirm_token cannot be empty")
	}

	s.Safety.ProtectedPaths = dedupe(s.Safety.ProtectedPaths, false)
	s.Safety.RiskySegments = dedupe(s.Safety.RiskySegments, true)
	s.Discovery.ScanDirs = dedupe(s.Discovery.ScanDirs, true)
	for _, dir := range s.Discovery.ScanDirs {
		if paths.IsAbsolute(dir) || paths.HasTraversal(dir) {
			return errors.Newf(errors.ErrSettings, "discovery.scan_dirs entries must stay inside home, got %q", dir)
		}
	}
	return nil
}

// dedupe trims items and drops repeats, keeping first occurrences in order.
// Empty strings are dropped when dropEmpty is set.
func dedupe(items []string, dropEmpty bool) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" && dropEmpty {
			continue
		}
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
