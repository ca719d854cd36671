package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source provides typed key lookups with defaults.
type Source interface {
	String(key, def string) string
	Bool(key string, def bool) bool
	Int(key string, def int) int
	Float(key string, def float64) float64
}

// EnvPrefix is prepended to environment overrides: rate.global is read from
// AUTOBALANCE_RATE_GLOBAL.
const EnvPrefix = "AUTOBALANCE_"

// MapSource is a Source over a flattened YAML document. Keys are dotted and
// lower-case ("level.higher_offset").
type MapSource struct {
	values map[string]string
	getenv func(string) string
}

// NewMapSource creates a source from already-flat values.
func NewMapSource(values map[string]string) *MapSource {
	flat := make(map[string]string, len(values))
	for k, v := range values {
		flat[strings.ToLower(k)] = v
	}
	return &MapSource{values: flat, getenv: os.Getenv}
}

// ParseYAML flattens a YAML document into a MapSource. An optional top-level
// "autobalance" mapping is unwrapped.
func ParseYAML(data []byte) (*MapSource, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if inner, ok := doc["autobalance"].(map[string]any); ok {
		doc = inner
	}
	flat := make(map[string]string)
	flatten("", doc, flat)
	return &MapSource{values: flat, getenv: os.Getenv}, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := strings.ToLower(k)
		if prefix != "" {
			key = prefix + "." + key
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case map[any]any:
			converted := make(map[string]any, len(val))
			for ik, iv := range val {
				converted[fmt.Sprint(ik)] = iv
			}
			flatten(key, converted, out)
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprint(item))
			}
			out[key] = strings.Join(parts, ",")
		case nil:
			// explicit null keeps the default
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// lookup checks the environment before the document.
func (s *MapSource) lookup(key string) (string, bool) {
	key = strings.ToLower(key)
	if s.getenv != nil {
		env := EnvPrefix + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
		if v := s.getenv(env); v != "" {
			return v, true
		}
	}
	v, ok := s.values[key]
	return v, ok
}

// String implements Source.
func (s *MapSource) String(key, def string) string {
	if v, ok := s.lookup(key); ok {
		return v
	}
	return def
}

// Bool implements Source. Unparseable values fall back to def.
func (s *MapSource) Bool(key string, def bool) bool {
	v, ok := s.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

// Int implements Source. Unparseable values fall back to def.
func (s *MapSource) Int(key string, def int) int {
	v, ok := s.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// Float implements Source. Unparseable values fall back to def.
func (s *MapSource) Float(key string, def float64) float64 {
	v, ok := s.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}
