package types

// ResolvedLink is a symlink found on disk together with the canonical
// path it points to.
type ResolvedLink struct {
	// LinkPath is the location of the link itself
	LinkPath string `json:"link_path"`
	// CanonicalTarget is the fully resolved destination
	CanonicalTarget string `json:"canonical_target"`
}
