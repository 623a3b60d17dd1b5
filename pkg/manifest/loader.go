package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Format is the encoding of a manifest document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// requiredKeys are checked in this order, which decides which error a
// broken entry reports
var requiredKeys = []string{"source", "target", "type"}

// FormatFor picks the manifest format from a file name. Anything that is
// not .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and validates the manifest at path
func Load(fsys types.ReadFS, path string) (*types.Manifest, error) {
	logger := logging.GetLogger("manifest")

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", path).
			WithDetail(detailCause, CauseUnreadable).
			WithDetail(detailPath, path)
	}

	m, err := Parse(data, FormatFor(path))
	if err != nil {
		if dlErr, ok := err.(*errors.DotlinkError); ok {
			dlErr.WithDetail(detailPath, path)
		}
		return nil, err
	}
	m.Path = path

	logger.Debug().Str("path", path).Int("entries", len(m.Entries)).Msg("manifest loaded")
	return m, nil
}

// Parse validates a manifest document held in memory
func Parse(data []byte, format Format) (*types.Manifest, error) {
	if format == FormatYAML {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		data = converted
	}

	if !json.Valid(data) {
		var v interface{}
		err := json.Unmarshal(data, &v)
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "invalid JSON in config file").
			WithDetail(detailCause, CauseSyntax)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		return nil, invalid(CauseNotObject, "config must be an object with a 'dotfiles' key")
	}

	raw, ok := doc["dotfiles"]
	if !ok {
		return nil, invalid(CauseMissingDotfiles, "'dotfiles' key missing from config")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || isNull(raw) {
		return nil, invalid(CauseDotfilesNotList, "values for 'dotfiles' key must be a list [{source, target, type}]")
	}

	m := &types.Manifest{Entries: make([]types.DotfileEntry, 0, len(items))}
	for i, item := range items {
		entry, err := parseEntry(i, item)
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, entry)
	}
	return m, nil
}

func parseEntry(i int, item json.RawMessage) (types.DotfileEntry, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return types.DotfileEntry{}, entryInvalid(CauseEntryNotObject, i, "", "dotfiles[%d] must be an object", i)
	}

	values := make(map[string]string, len(requiredKeys))
	for _, key := range requiredKeys {
		v, ok := fields[key]
		if !ok {
			return types.DotfileEntry{}, entryInvalid(CauseMissingKey, i, key, "dotfiles[%d] missing required key: '%s'", i, key)
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil || isNull(v) {
			return types.DotfileEntry{}, entryInvalid(CauseNotString, i, key, "dotfiles[%d]['%s'] must be a string", i, key)
		}
		values[key] = s
	}

	if extra := unknownKeys(fields); len(extra) > 0 {
		return types.DotfileEntry{}, entryInvalid(CauseUnknownKey, i, extra[0],
			"dotfiles[%d] has unknown key: '%s' (allowed: source, target, type)", i, extra[0])
	}

	entryType, err := types.ParseEntryType(values["type"])
	if err != nil {
		return types.DotfileEntry{}, entryInvalid(CauseInvalidType, i, "type",
			"dotfiles[%d]['type'] must be 'file' or 'directory', got: %s", i, values["type"])
	}

	return types.DotfileEntry{
		Source: values["source"],
		Target: values["target"],
		Type:   entryType,
	}, nil
}

func unknownKeys(fields map[string]json.RawMessage) []string {
	var extra []string
	for key := range fields {
		known := false
		for _, rk := range requiredKeys {
			if key == rk {
				known = true
				break
			}
		}
		if !known {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return extra
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// yamlToJSON re-encodes a YAML document so both formats share one validator
func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "invalid YAML in config file").
			WithDetail(detailCause, CauseSyntax)
	}

	normalized, err := normalizeYAML(doc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "unsupported YAML in config file").
			WithDetail(detailCause, CauseSyntax)
	}

	out, err := json.Marshal(normalized)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "unsupported YAML in config file").
			WithDetail(detailCause, CauseSyntax)
	}
	return out, nil
}

// normalizeYAML turns yaml.v3's generic values into JSON-encodable ones.
// Only string mapping keys are allowed.
func normalizeYAML(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			n, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("mapping key %v is not a string", k)
			}
			n, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			n, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return val, nil
	}
}
