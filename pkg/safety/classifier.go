package safety

import (
	"path"
	"strings"

	"github.com/arthur-debert/dotlink/pkg/paths"
)

// Level is the outcome of classifying a target
type Level int

const (
	Safe Level = iota
	Risky
	Forbidden
)

func (l Level) String() string {
	switch l {
	case Safe:
		return "safe"
	case Risky:
		return "risky"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// MarshalText lets Level serialize by name
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Classification is a Level plus a human readable reason
type Classification struct {
	Level  Level  `json:"level"`
	Reason string `json:"reason,omitempty"`
}

// Rules are the protected stems and risky segment names a Classifier uses.
// Both are matched case-insensitively. Build with NewRules.
type Rules struct {
	protected map[string]bool
	risky     map[string]bool
}

// NewRules normalizes the given lists. A protected entry of "" or "."
// protects the home directory itself.
func NewRules(protectedPaths, riskySegments []string) Rules {
	r := Rules{
		protected: make(map[string]bool, len(protectedPaths)),
		risky:     make(map[string]bool, len(riskySegments)),
	}
	for _, p := range protectedPaths {
		r.protected[normalize(p)] = true
	}
	for _, seg := range riskySegments {
		seg = strings.ToLower(strings.TrimSpace(seg))
		if seg != "" {
			r.risky[seg] = true
		}
	}
	return r
}

// normalize lowercases and cleans a relative target. Home itself becomes ".".
func normalize(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
	return strings.ToLower(path.Clean("./" + p))
}

// Classifier classifies entry targets against a fixed set of Rules
type Classifier struct {
	rules Rules
}

// NewClassifier returns a classifier bound to rules
func NewClassifier(rules Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify decides how dangerous it is to replace target, a path relative
// to the home directory
func (c *Classifier) Classify(target string) Classification {
	if paths.IsAbsolute(target) {
		return Classification{Level: Forbidden, Reason: "absolute paths are not allowed"}
	}
	if paths.HasTraversal(target) {
		return Classification{Level: Forbidden, Reason: "parent directory traversal ('..') is not allowed"}
	}

	norm := normalize(target)
	if c.rules.protected[norm] {
		if norm == "." {
			return Classification{Level: Forbidden, Reason: "target is the home directory itself"}
		}
		return Classification{Level: Forbidden, Reason: "'" + norm + "' is a protected path"}
	}

	for _, seg := range strings.Split(norm, "/") {
		if c.rules.risky[seg] {
			return Classification{Level: Risky, Reason: "path contains '" + seg + "'"}
		}
	}

	return Classification{Level: Safe}
}

// ClassifySource checks an entry's source, a path relative to the
// repository. Sources that could leave the repository are forbidden.
func (c *Classifier) ClassifySource(source string) Classification {
	if strings.TrimSpace(source) == "" {
		return Classification{Level: Forbidden, Reason: "source is empty"}
	}
	if paths.IsAbsolute(source) {
		return Classification{Level: Forbidden, Reason: "source must be relative to the repository"}
	}
	if paths.HasTraversal(source) {
		return Classification{Level: Forbidden, Reason: "source may not leave the repository ('..')"}
	}
	return Classification{Level: Safe}
}
