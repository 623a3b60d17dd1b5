// Package symlink creates and removes the links dotlink manages. Anything
// already at a path is backed up before it is deleted, and nothing is
// deleted if the backup fails.
package symlink

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotlink/pkg/backup"
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Existing describes what was at a target before it was replaced
type Existing string

const (
	ExistingNone      Existing = ""
	ExistingFile      Existing = "file"
	ExistingDirectory Existing = "directory"
	ExistingSymlink   Existing = "symlink"
)

// LinkResult reports what Link did
type LinkResult struct {
	Source string `json:"source"`
	Target string `json:"target"`
	// Replaced is what occupied Target before, if anything
	Replaced Existing `json:"replaced,omitempty"`
	// BackupPath is where the replaced object was copied to
	BackupPath string `json:"backup_path,omitempty"`
}

// Manager links and unlinks paths
type Manager struct {
	fs      types.FS
	backups *backup.Manager
	logger  zerolog.Logger
}

// New returns a Manager writing through fsys and backing up with backups
func New(fsys types.FS, backups *backup.Manager) *Manager {
	return &Manager{
		fs:      fsys,
		backups: backups,
		logger:  logging.GetLogger("symlink"),
	}
}

// Link makes target a symlink to source. The parent of target is created
// if needed. Whatever already sits at target, including a broken link, is
// backed up into backupRoot and then removed. On backup failure target is
// left as it was.
func (m *Manager) Link(source, target, backupRoot string) (*LinkResult, error) {
	result := &LinkResult{Source: source, Target: target}

	if err := m.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return result, errors.Wrapf(err, errors.ErrDirCreate, "cannot create parent directory of %s", target)
	}

	info, err := m.fs.Lstat(target)
	switch {
	case err == nil:
		result.Replaced = classify(info)
		m.logger.Debug().Str("target", target).Str("existing", string(result.Replaced)).Msg("found existing object")

		result.BackupPath, err = m.backups.Backup(target, backupRoot)
		if err != nil {
			return result, errors.Wrapf(err, errors.ErrBackupFailed,
				"could not back up %s, leaving it in place", target)
		}

		if err := m.remove(target, info); err != nil {
			return result, err
		}
	case !os.IsNotExist(err):
		return result, errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", target)
	}

	if err := m.fs.Symlink(source, target); err != nil {
		return result, errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s -> %s", target, source)
	}

	m.logger.Info().Str("target", target).Str("source", source).Msg("created symlink")
	return result, nil
}

// Unlink backs up the symlink at path into backupRoot and removes it. It
// refuses to touch path if it is no longer a symlink.
func (m *Manager) Unlink(path, backupRoot string) (string, error) {
	info, err := m.fs.Lstat(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", path)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return "", errors.Newf(errors.ErrFileAccess, "%s is no longer a symlink, leaving it alone", path)
	}

	backupPath, err := m.backups.Backup(path, backupRoot)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrBackupFailed, "could not back up %s, not removing it", path)
	}

	if err := m.fs.Remove(path); err != nil {
		return backupPath, errors.Wrapf(err, errors.ErrFileRemove, "cannot remove %s", path)
	}

	m.logger.Info().Str("path", path).Str("backup", backupPath).Msg("removed symlink")
	return backupPath, nil
}

// remove deletes target; directories recursively, links and files singly
func (m *Manager) remove(target string, info fs.FileInfo) error {
	var err error
	if info.IsDir() {
		err = m.fs.RemoveAll(target)
	} else {
		err = m.fs.Remove(target)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRemove, "cannot remove %s", target)
	}
	return nil
}

func classify(info fs.FileInfo) Existing {
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		return ExistingSymlink
	case info.IsDir():
		return ExistingDirectory
	default:
		return ExistingFile
	}
}
