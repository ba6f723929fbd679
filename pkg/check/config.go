package check

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/liquidlens/liquidlens/pkg/theme"
)

// DefaultConfigPath is where LoadConfig looks inside a theme.
const DefaultConfigPath = ".liquidlens.toml"

// OptionType declares the expected shape of one check-specific option.
type OptionType int

const (
	BoolOption OptionType = iota
	StringOption
	IntOption
	FloatOption
	StringListOption
)

func (t OptionType) String() string {
	switch t {
	case BoolOption:
		return "bool"
	case StringOption:
		return "string"
	case IntOption:
		return "integer"
	case FloatOption:
		return "float"
	case StringListOption:
		return "string list"
	}
	return "unknown"
}

// Schema maps option names to their expected types. The reserved keys
// "enabled" and "severity" are recognized for every check and must not
// appear in a schema.
type Schema map[string]OptionType

// Config is the decoded check configuration file:
//
//	[checks.BlockIdComparison]
//	enabled = true
//	severity = "warning"
type Config struct {
	Checks map[string]map[string]any `toml:"checks"`
}

// LoadConfig reads the configuration file through the theme's file
// system provider. A missing file yields an empty configuration, not an
// error — every check then runs with its defaults.
func LoadConfig(fsys theme.FS, path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	src, err := fsys.ReadFile(path)
	if err != nil {
		return Config{}, nil
	}
	var cfg Config
	if _, err := toml.Decode(src, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// Settings is one check's validated effective configuration.
type Settings struct {
	Enabled  bool
	Severity Severity
	Options  map[string]any
}

// SettingsFor validates the raw configuration for one check against its
// declared schema. An invalid value yields an error; the caller converts
// that into a single config-error offense and skips the check for the
// run rather than failing the whole analysis.
func (c Config) SettingsFor(def *Definition) (Settings, error) {
	s := Settings{
		Enabled:  true,
		Severity: def.DefaultSeverity,
		Options:  make(map[string]any),
	}
	raw, ok := c.Checks[def.Code]
	if !ok {
		return s, nil
	}
	for key, value := range raw {
		switch key {
		case "enabled":
			b, ok := value.(bool)
			if !ok {
				return s, fmt.Errorf("option enabled: expected bool, got %T", value)
			}
			s.Enabled = b
		case "severity":
			str, ok := value.(string)
			if !ok {
				return s, fmt.Errorf("option severity: expected string, got %T", value)
			}
			sev, err := ParseSeverity(str)
			if err != nil {
				return s, fmt.Errorf("option severity: %w", err)
			}
			s.Severity = sev
		default:
			typ, ok := def.Schema[key]
			if !ok {
				return s, fmt.Errorf("unknown option %q", key)
			}
			coerced, err := coerceOption(typ, value)
			if err != nil {
				return s, fmt.Errorf("option %s: %w", key, err)
			}
			s.Options[key] = coerced
		}
	}
	return s, nil
}

func coerceOption(typ OptionType, value any) (any, error) {
	switch typ {
	case BoolOption:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case StringOption:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case IntOption:
		if i, ok := value.(int64); ok {
			return i, nil
		}
	case FloatOption:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		}
	case StringListOption:
		if list, ok := value.([]any); ok {
			out := make([]string, 0, len(list))
			for _, item := range list {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("expected string list, got %T element", item)
				}
				out = append(out, s)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("expected %s, got %T", typ, value)
}
