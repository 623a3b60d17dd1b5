package testutil

import (
	"io"
	"io/fs"
	"sync"
	"time"

	"github.com/arthur-debert/dotlink/pkg/types"
)

// Mutation is one recorded write to the filesystem
type Mutation struct {
	Op   string
	Path string
}

// CountingFS wraps a types.FS and records every mutating call. Reads pass
// straight through.
type CountingFS struct {
	types.FS

	mu        sync.Mutex
	mutations []Mutation
	// injected failures keyed by operation and path
	failOn map[Mutation]error
}

// NewCountingFS wraps inner
func NewCountingFS(inner types.FS) *CountingFS {
	return &CountingFS{FS: inner, failOn: make(map[Mutation]error)}
}

// Mutations returns a copy of the recorded mutations in call order
func (c *CountingFS) Mutations() []Mutation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Mutation(nil), c.mutations...)
}

// MutationCount returns how many mutating calls were made
func (c *CountingFS) MutationCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.mutations)
}

// Ops returns just the operation names, in order
func (c *CountingFS) Ops() []string {
	muts := c.Mutations()
	out := make([]string, len(muts))
	for i, m := range muts {
		out[i] = m.Op
	}
	return out
}

// Reset forgets recorded mutations
func (c *CountingFS) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mutations = nil
}

// FailOn makes op on path return err instead of reaching the wrapped FS
func (c *CountingFS) FailOn(op, path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failOn[Mutation{Op: op, Path: path}] = err
}

func (c *CountingFS) record(op, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := Mutation{Op: op, Path: path}
	c.mutations = append(c.mutations, m)
	return c.failOn[m]
}

func (c *CountingFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := c.record("MkdirAll", path); err != nil {
		return err
	}
	return c.FS.MkdirAll(path, perm)
}

func (c *CountingFS) Mkdir(name string, perm fs.FileMode) error {
	if err := c.record("Mkdir", name); err != nil {
		return err
	}
	return c.FS.Mkdir(name, perm)
}

func (c *CountingFS) Create(name string, perm fs.FileMode) (io.WriteCloser, error) {
	if err := c.record("Create", name); err != nil {
		return nil, err
	}
	return c.FS.Create(name, perm)
}

func (c *CountingFS) Symlink(oldname, newname string) error {
	if err := c.record("Symlink", newname); err != nil {
		return err
	}
	return c.FS.Symlink(oldname, newname)
}

func (c *CountingFS) Remove(name string) error {
	if err := c.record("Remove", name); err != nil {
		return err
	}
	return c.FS.Remove(name)
}

func (c *CountingFS) RemoveAll(path string) error {
	if err := c.record("RemoveAll", path); err != nil {
		return err
	}
	return c.FS.RemoveAll(path)
}

func (c *CountingFS) Chmod(name string, mode fs.FileMode) error {
	if err := c.record("Chmod", name); err != nil {
		return err
	}
	return c.FS.Chmod(name, mode)
}

func (c *CountingFS) Chtimes(name string, atime, mtime time.Time) error {
	if err := c.record("Chtimes", name); err != nil {
		return err
	}
	return c.FS.Chtimes(name, atime, mtime)
}
