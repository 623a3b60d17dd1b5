package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/logging"
)

const (
	// RootConfigFile is the optional per-repository settings file
	RootConfigFile = ".dotlink.toml"

	// EnvPrefix marks environment variables that override settings
	EnvPrefix = "DOTLINK_"
)

// Load builds the effective settings for the repository at repoRoot.
// An empty repoRoot skips the repository layer.
func Load(repoRoot string) (*Settings, error) {
	logger := logging.GetLogger("config")

	merged, err := parseTOML(defaultConfig)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrSettings, "failed to load built-in defaults")
	}

	if repoRoot != "" {
		rootConfigPath := filepath.Join(repoRoot, RootConfigFile)
		if _, err := os.Stat(rootConfigPath); err == nil {
			tempK := koanf.New(".")
			if err := tempK.Load(file.Provider(rootConfigPath), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrSettings, "failed to load settings from %s", rootConfigPath)
			}
			mergeMaps(merged, tempK.Raw())
			logger.Debug().Str("path", rootConfigPath).Msg("merged repository settings")
		}
	}

	tempK := koanf.New(".")
	if err := tempK.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrSettings, "failed to load environment settings")
	}
	mergeMaps(merged, tempK.Raw())

	return decode(merged)
}

// Defaults returns the built-in settings with no repository or environment layers
func Defaults() (*Settings, error) {
	merged, err := parseTOML(defaultConfig)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrSettings, "failed to load built-in defaults")
	}
	return decode(merged)
}

// envKey maps DOTLINK_SAFETY__CONFIRM_TOKEN to safety.confirm_token
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func parseTOML(data []byte) (map[string]interface{}, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: data}, toml.Parser()); err != nil {
		return nil, err
	}
	return k.Raw(), nil
}

func decode(merged map[string]interface{}) (*Settings, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(merged, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrSettings, "failed to load merged settings")
	}

	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrSettings, "failed to decode settings")
	}

	if err := postProcess(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func mergeMaps(dest, src map[string]interface{}) {
	for key, srcVal := range src {
		destVal, destOk := dest[key]
		if !destOk {
			dest[key] = srcVal
			continue
		}

		if srcMap, srcOk := srcVal.(map[string]interface{}); srcOk {
			if destMap, destOk := destVal.(map[string]interface{}); destOk {
				mergeMaps(destMap, srcMap)
				continue
			}
		}

		if isSlice(destVal) {
			// A comma separated string (from the environment) extends a list
			if str, ok := srcVal.(string); ok {
				dest[key] = appendSlices(destVal, splitList(str))
				continue
			}
			if isSlice(srcVal) {
				dest[key] = appendSlices(destVal, srcVal)
				continue
			}
		}

		dest[key] = srcVal
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isSlice(v interface{}) bool {
	switch v.(type) {
	case []interface{}, []string:
		return true
	default:
		return false
	}
}

func appendSlices(dest, src interface{}) interface{} {
	destSlice := toInterfaceSlice(dest)
	srcSlice := toInterfaceSlice(src)
	out := make([]interface{}, 0, len(destSlice)+len(srcSlice))
	out = append(out, destSlice...)
	return append(out, srcSlice...)
}

func toInterfaceSlice(v interface{}) []interface{} {
	switch s := v.(type) {
	case []interface{}:
		return s
	case []string:
		result := make([]interface{}, len(s))
		for i, v := range s {
			result[i] = v
		}
		return result
	default:
		return []interface{}{}
	}
}

// String renders settings for debug logs
func (s *Settings) String() string {
	return fmt.Sprintf("manifest=%s backups=%s/{%s,%s} protected=%d risky=%d scan=%v",
		s.Paths.Manifest, s.Paths.BackupDir, s.Paths.InstallBackups, s.Paths.CleanBackups,
		len(s.Safety.ProtectedPaths), len(s.Safety.RiskySegments), s.Discovery.ScanDirs)
}
