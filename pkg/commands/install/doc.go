// Package install links every manifest entry into the home directory.
//
// The run has two phases. A preflight classifies the whole manifest and
// asks for confirmation of risky targets; nothing is touched unless it
// passes. Entries are then processed one by one in manifest order, each
// ending as already-linked, created, replaced, skipped or failed.
package install
