// Package configops edits the JSON config file by dotted path for the
// config CLI.
package configops

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tungsten/pkg/config"
)

// Short names accepted on the command line for common keys.
var keyAliases = map[string]string{
	"enable":  "enabled",
	"allow":   "allow_from",
	"timeout": "timeout_sec",
	"limit":   "click_limit",
}

// Document is a config file held as generic JSON values, so an edit can be
// applied first and checked against the typed Config afterwards.
type Document map[string]interface{}

// Load reads the config file at path. A missing file yields the defaults.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if data, err = json.Marshal(config.DefaultConfig()); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	}

	doc := Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}

// Get returns the value at a dotted path.
func (d Document) Get(path string) (interface{}, bool) {
	keys, err := splitPath(path)
	if err != nil {
		return nil, false
	}
	var cur interface{} = map[string]interface{}(d)
	for _, key := range keys {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if cur, ok = obj[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set stores value at a dotted path, creating intermediate objects.
func (d Document) Set(path string, value interface{}) error {
	keys, err := splitPath(path)
	if err != nil {
		return err
	}
	obj := map[string]interface{}(d)
	for _, key := range keys[:len(keys)-1] {
		next, exists := obj[key]
		if !exists {
			child := map[string]interface{}{}
			obj[key] = child
			obj = child
			continue
		}
		child, ok := next.(map[string]interface{})
		if !ok {
			return fmt.Errorf("%s: %q is not an object", path, key)
		}
		obj = child
	}
	obj[keys[len(keys)-1]] = value
	return nil
}

// Check decodes the document strictly and runs config.Validate on it.
func (d Document) Check() error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	cfg, err := config.ParseConfig(data)
	if err != nil {
		return err
	}
	return errors.Join(config.Validate(cfg)...)
}

// Save writes the document to path atomically. The previous file, if any,
// is kept next to it with a .bak suffix and its path returned.
func (d Document) Save(path string) (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}
	return writeAtomic(path, data)
}

// NormalizePath trims stray dots and expands key aliases.
func NormalizePath(path string) string {
	keys := strings.Split(strings.Trim(strings.TrimSpace(path), "."), ".")
	for i, key := range keys {
		if full, ok := keyAliases[key]; ok {
			keys[i] = full
		}
	}
	return strings.Join(keys, ".")
}

// ParseValue converts a command line argument into the JSON value it most
// likely means: bool, null, integer, float, quoted string, array or object.
// Anything else stays a plain string.
func ParseValue(raw string) interface{} {
	v := strings.TrimSpace(raw)
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	if strings.Contains(v, ".") {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	if s, ok := unquote(v); ok {
		return s
	}
	if strings.HasPrefix(v, "[") || strings.HasPrefix(v, "{") {
		var decoded interface{}
		if err := json.Unmarshal([]byte(v), &decoded); err == nil {
			return decoded
		}
	}
	return v
}

func unquote(v string) (string, bool) {
	if len(v) < 2 {
		return "", false
	}
	first, last := v[0], v[len(v)-1]
	if first != last || (first != '"' && first != '\'') {
		return "", false
	}
	return v[1 : len(v)-1], true
}

func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("path is empty")
	}
	keys := strings.Split(path, ".")
	for _, key := range keys {
		if key == "" {
			return nil, fmt.Errorf("invalid path: %s", path)
		}
	}
	return keys, nil
}

func writeAtomic(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	backup := ""
	previous, err := os.ReadFile(path)
	switch {
	case err == nil:
		backup = path + ".bak"
		if err := os.WriteFile(backup, previous, 0644); err != nil {
			return "", fmt.Errorf("write backup: %w", err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("read current config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("replace config: %w", err)
	}
	return backup, nil
}
