package env

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
)

// Environment is a flat mapping of variable names to values.
type Environment map[string]string

// FromOS reads the process environment.
func FromOS() Environment {
	return FromList(os.Environ())
}

// FromList parses NAME=value pairs as returned by os.Environ.
// Entries without '=' are ignored.
func FromList(list []string) Environment {
	e := make(Environment, len(list))
	for _, kv := range list {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		e[k] = v
	}
	return e
}

// LoadFile reads a dotenv file.
func LoadFile(path string) (Environment, error) {
	m, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	slog.Debug("env file loaded", "path", path, "variables", len(m))
	return Environment(m), nil
}

// Merge returns a copy of e with the variables of extra that e does not set.
// Values already present in e win.
func (e Environment) Merge(extra Environment) (Environment, error) {
	out := make(Environment, len(e)+len(extra))
	for k, v := range e {
		out[k] = v
	}
	if err := mergo.Merge(&out, extra); err != nil {
		return nil, fmt.Errorf("failed to merge environments: %w", err)
	}
	return out, nil
}

// Lookup returns the value of name and whether it is set.
func (e Environment) Lookup(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}

// String returns the value of name, or "" when unset.
func (e Environment) String(name string) string {
	return e[name]
}

// StringDefault returns the value of name, or def when unset.
func (e Environment) StringDefault(name, def string) string {
	if v, ok := e[name]; ok {
		return v
	}
	return def
}

// Bool parses name as a boolean. Unset or unparsable values are false.
func (e Environment) Bool(name string) bool {
	v, ok := e[name]
	if !ok {
		return false
	}
	b, err := ParseBool(v)
	if err != nil {
		slog.Warn("ignoring non-boolean value", "variable", name, "value", v)
		return false
	}
	return b
}

// ParseBool accepts the strconv forms case-insensitively.
func ParseBool(v string) (bool, error) {
	return strconv.ParseBool(strings.ToLower(strings.TrimSpace(v)))
}

// Keys returns all variable names in lexicographic order.
func (e Environment) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
