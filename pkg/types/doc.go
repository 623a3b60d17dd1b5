// Package types defines the core data model and interfaces used throughout
// dotlink: manifest entries, resolved links, confirmation requests and the
// filesystem abstraction every operation runs against.
package types
