// Package paths provides centralized path handling for dotlink: locating the
// repository and home roots, mapping manifest entries to absolute paths,
// containment checks and canonical resolution of symlinks.
package paths
