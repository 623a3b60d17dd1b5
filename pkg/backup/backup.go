// Package backup makes timestamped, non-destructive copies of anything
// dotlink is about to displace or remove.
package backup

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// TimestampFormat is appended to the base name of every backup
const TimestampFormat = "20060102_150405"

// maxCollisions bounds the search for a free backup name
const maxCollisions = 1000

// Manager copies paths into a backup root
type Manager struct {
	fs     types.FS
	now    func() time.Time
	logger zerolog.Logger
}

// New returns a Manager using the wall clock
func New(fsys types.FS) *Manager {
	return &Manager{
		fs:     fsys,
		now:    time.Now,
		logger: logging.GetLogger("backup"),
	}
}

// WithClock replaces the clock used for backup names
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Backup copies path into backupRoot as <base>_<timestamp> and returns the
// backup's location. Symlinks are copied as links, regular files keep their
// mode and modification time, directories are copied recursively. The
// original is never modified. If the name is already taken a numeric suffix
// is added rather than overwriting an earlier backup. A directory that
// contains backupRoot is refused.
func (m *Manager) Backup(path, backupRoot string) (string, error) {
	info, err := m.fs.Lstat(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrBackupFailed, "cannot back up %s", path)
	}
	if err := checkSupported(path, info); err != nil {
		return "", err
	}
	if info.IsDir() {
		src := paths.ResolveParents(m.fs, path)
		if paths.ContainsPath(src, paths.ResolveParents(m.fs, backupRoot)) {
			return "", errors.Newf(errors.ErrBackupFailed, "cannot back up %s into %s inside it", path, backupRoot).
				WithDetail("path", path)
		}
	}

	if err := m.fs.MkdirAll(backupRoot, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrBackupFailed, "cannot create backup directory %s", backupRoot)
	}

	dest, err := m.freeName(backupRoot, filepath.Base(path))
	if err != nil {
		return "", err
	}

	if err := m.copy(path, dest, info); err != nil {
		return "", errors.Wrapf(err, errors.ErrBackupFailed, "cannot back up %s to %s", path, dest).
			WithDetail("backup", dest)
	}

	m.logger.Info().Str("path", path).Str("backup", dest).Msg("created backup")
	return dest, nil
}

func (m *Manager) freeName(root, base string) (string, error) {
	stem := fmt.Sprintf("%s_%s", base, m.now().Format(TimestampFormat))
	candidate := filepath.Join(root, stem)
	for i := 1; i <= maxCollisions; i++ {
		_, err := m.fs.Lstat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrBackupFailed, "cannot check backup name %s", candidate)
		}
		candidate = filepath.Join(root, fmt.Sprintf("%s_%d", stem, i))
	}
	return "", errors.Newf(errors.ErrBackupFailed, "no free backup name for %s in %s", base, root)
}

func checkSupported(path string, info fs.FileInfo) error {
	mode := info.Mode()
	if mode&fs.ModeSymlink != 0 || mode.IsRegular() || mode.IsDir() {
		return nil
	}
	return errors.Newf(errors.ErrBackupFailed, "cannot back up %s: unsupported file type %s", path, mode.Type()).
		WithDetail("path", path)
}

func (m *Manager) copy(src, dest string, info fs.FileInfo) error {
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		return m.copySymlink(src, dest)
	case info.IsDir():
		return m.copyDir(src, dest, info)
	default:
		return m.copyFile(src, dest, info)
	}
}

func (m *Manager) copySymlink(src, dest string) error {
	target, err := m.fs.Readlink(src)
	if err != nil {
		return err
	}
	return m.fs.Symlink(target, dest)
}

func (m *Manager) copyFile(src, dest string, info fs.FileInfo) error {
	in, err := m.fs.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := m.fs.Create(dest, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return m.preserve(dest, info)
}

func (m *Manager) copyDir(src, dest string, info fs.FileInfo) error {
	if err := m.fs.Mkdir(dest, 0700); err != nil {
		return err
	}

	entries, err := m.fs.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		childSrc := filepath.Join(src, entry.Name())
		childInfo, err := m.fs.Lstat(childSrc)
		if err != nil {
			return err
		}
		if err := checkSupported(childSrc, childInfo); err != nil {
			return err
		}
		if err := m.copy(childSrc, filepath.Join(dest, entry.Name()), childInfo); err != nil {
			return err
		}
	}

	// after the children so their writes do not bump the directory mtime
	return m.preserve(dest, info)
}

func (m *Manager) preserve(dest string, info fs.FileInfo) error {
	if err := m.fs.Chmod(dest, info.Mode().Perm()); err != nil {
		return err
	}
	return m.fs.Chtimes(dest, info.ModTime(), info.ModTime())
}
