// Package testutil provides utilities for testing dotlink components.
//
// Key components:
//   - TestEnvironment: an isolated repository and home under t.TempDir()
//     with HOME, DOTFILES_ROOT and XDG_STATE_HOME pointed at it
//   - CountingFS: a types.FS wrapper that records every mutating call, used
//     to prove operations perform zero writes
//   - ScriptedPrompter: a types.Prompter that answers from a script
//
// Every test builds its own environment. All test data is defined inline.
package testutil
