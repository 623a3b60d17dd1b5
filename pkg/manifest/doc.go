// Package manifest reads and validates the dotfiles manifest, the ordered
// list of source/target/type entries every command works from.
//
// Validation is strict and stops at the first problem. Every failure is a
// *errors.DotlinkError carrying a Cause detail so callers and tests can
// tell problems apart without matching on message text.
package manifest
