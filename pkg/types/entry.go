package types

import (
	"fmt"
	"strings"
)

// EntryType is the kind of filesystem object an entry's source must be
type EntryType string

const (
	EntryFile      EntryType = "file"
	EntryDirectory EntryType = "directory"
)

// ParseEntryType returns the EntryType for s. Only the exact lowercase
// names are accepted.
func ParseEntryType(s string) (EntryType, error) {
	switch EntryType(s) {
	case EntryFile, EntryDirectory:
		return EntryType(s), nil
	}
	return "", fmt.Errorf("invalid type %q (expected %q or %q)", s, EntryFile, EntryDirectory)
}

func (t EntryType) String() string {
	return string(t)
}

// DotfileEntry declares one managed link: Source is relative to the
// repository root, Target is relative to the home directory.
type DotfileEntry struct {
	Source string    `json:"source" yaml:"source"`
	Target string    `json:"target" yaml:"target"`
	Type   EntryType `json:"type" yaml:"type"`
}

func (e DotfileEntry) String() string {
	return fmt.Sprintf("%s -> ~/%s (%s)", e.Source, strings.TrimPrefix(e.Target, "/"), e.Type)
}

// Manifest is the parsed dotfiles configuration. Entry order is the
// processing order.
type Manifest struct {
	// Path is where the manifest was read from, empty when parsed from memory
	Path    string         `json:"path,omitempty"`
	Entries []DotfileEntry `json:"dotfiles"`
}
