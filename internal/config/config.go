// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cefwatch/cefwatch/internal/log"
)

// Type is the in-memory representation of the loaded configuration.
//
// Fields:
//   - Source: path of the YAML file loaded.
//   - Namespace: optional key prefix tried before the bare key (e.g. "check").
//   - Data: raw key/value tree unmarshaled from YAML.
type Type struct {
	Source    string
	Namespace string
	Data      map[string]interface{}
}

// ErrNotFound is returned when no candidate key exists in the configuration.
var ErrNotFound = errors.New("config key not found")

// Config holds the global, lazily-initialized configuration instance.
var Config Type

// init attempts to load configuration at process start. Errors are ignored so
// the application runs without a config file.
func init() {
	_, _ = Load()
}

// GetBool returns the boolean value for the given dotted key path, or the
// single defaultValue when the key is missing.
func GetBool(key string, defaultValue ...bool) (bool, error) {
	val, err := lookup(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return false, err
	}

	b, ok := val.(bool)
	if !ok {
		return false, errors.New("value is not a bool")
	}
	return b, nil
}

// GetInt returns the integer value for the given dotted key path, or the
// single defaultValue when the key is missing.
func GetInt(key string, defaultValue ...int) (int, error) {
	val, err := lookup(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return 0, err
	}

	// YAML numbers may be unmarshaled as int/float64 depending on content.
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, errors.New("value is not an int")
	}
}

// GetString returns the string value for the given dotted key path, or the
// single defaultValue when the key is missing. Returns an error if the value
// exists but is not a string.
func GetString(key string, defaultValue ...string) (string, error) {
	val, err := lookup(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return "", err
	}

	s, ok := val.(string)
	if !ok {
		return "", errors.New("value is not a string")
	}
	return s, nil
}

// GetStringSlice returns the string slice value for the given dotted key
// path. A comma-separated string is split and numeric scalars, alone or as
// list elements, are rendered as strings. If the key is not found and a
// single default slice is provided, that default is returned.
func GetStringSlice(key string, defaultValue ...[]string) ([]string, error) {
	val, err := lookup(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return nil, err
	}

	switch v := val.(type) {
	case string:
		return SplitList(v), nil
	case []string:
		return v, nil
	case []interface{}:
		result := make([]string, len(v))
		for i, item := range v {
			s, ok := scalarString(item)
			if !ok {
				return nil, errors.New("slice element is not a string")
			}
			result[i] = s
		}
		return result, nil
	default:
		if s, ok := scalarString(v); ok {
			return []string{s}, nil
		}
		return nil, errors.New("value is not a slice")
	}
}

// scalarString renders a YAML string or number. Branch ids such as 3683
// decode as ints.
func scalarString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case int, int64, uint64, float64:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

// SplitList splits a comma-separated list, trimming blanks and dropping
// empty items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Load reads the YAML configuration file and populates the global Config.
// An optional namespace (typically the subcommand) is recorded even when no
// file is found. Returns the loaded Type or an error if the file could not be
// located or parsed.
func Load(namespace ...string) (Type, error) {
	var ns string
	if len(namespace) > 0 {
		ns = namespace[0]
	}
	Config.Namespace = ns

	path, err := File()
	if err != nil {
		return Type{Namespace: ns}, err
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return Type{Namespace: ns}, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(bytes, &data); err != nil {
		return Type{Namespace: ns}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	Config = Type{
		Source:    path,
		Namespace: ns,
		Data:      data,
	}

	return Config, nil
}

// lookup lazily loads the config and resolves key, preferring the namespaced
// form.
func lookup(key string) (any, error) {
	if len(Config.Data) == 0 {
		_, _ = Load(Config.Namespace)
	}
	return Config.get(key)
}

// get traverses the configuration tree using a dotted key path (e.g.
// "check.stash-dir"). If Namespace is set, Namespace + "." + kspec is tried
// first, then the bare key.
func (cfg *Type) get(kspec string) (any, error) {
	candidateKeys := []string{kspec}
	if cfg.Namespace != "" {
		candidateKeys = []string{cfg.Namespace + "." + kspec, kspec}
	}

	for _, key := range candidateKeys {
		var current interface{} = cfg.Data

		success := true
		for _, part := range strings.Split(key, ".") {
			m, ok := current.(map[string]interface{})
			if !ok {
				success = false
				break
			}
			current, ok = m[part]
			if !ok {
				success = false
				break
			}
		}

		if success {
			return current, nil
		}
	}

	return nil, fmt.Errorf("%w: no valid path found among: %v", ErrNotFound, candidateKeys)
}

// File returns the path to the YAML config file. CEFWATCH_CFG_FILE, when
// set, must name an existing file. Otherwise cefwatch.yaml in
// os.UserConfigDir is used if present.
func File() (string, error) {
	if cfgPath := os.Getenv("CEFWATCH_CFG_FILE"); cfgPath != "" {
		fileInfo, err := os.Stat(cfgPath)
		if err != nil {
			return "", fmt.Errorf("config file not found at CEFWATCH_CFG_FILE path: %s", cfgPath)
		}
		if fileInfo.IsDir() {
			return "", fmt.Errorf("CEFWATCH_CFG_FILE points to a directory: %s", cfgPath)
		}
		log.Debugf("using config file from CEFWATCH_CFG_FILE: %s", cfgPath)
		return cfgPath, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	file := filepath.Join(dir, "cefwatch.yaml")
	if fileInfo, err := os.Stat(file); err == nil && !fileInfo.IsDir() {
		log.Debugf("using config file: %s", file)
		return file, nil
	}

	return "", fmt.Errorf("no config file found in standard locations")
}
