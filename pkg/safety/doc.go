// Package safety decides whether a manifest entry may touch its target.
//
// The Classifier is pure: it looks only at the target string and an
// immutable set of Rules. The Gate applies it to a whole manifest before
// anything is mutated, rejecting forbidden entries outright and asking the
// user to confirm risky ones.
package safety
