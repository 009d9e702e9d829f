package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// fileNames is the discovery order within one directory.
var fileNames = []string{
	".valign.toml",
	".valign.yaml",
	".valign.yml",
}

// Discover walks from startDir up to the filesystem root and returns the
// first configuration file found.
func Discover(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		for _, name := range fileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads the configuration. A non-empty configPath is loaded directly;
// otherwise the file is discovered from startDir. Without a file the
// defaults are returned. Partial files keep the defaults they omit.
func Load(configPath, startDir string) (*Config, error) {
	if configPath == "" {
		found, ok, err := Discover(startDir)
		if err != nil {
			return nil, err
		}
		if !ok {
			return Default(), nil
		}
		configPath = found
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
	}

	cfg, err := Parse(configPath, data)
	if err != nil {
		return nil, err
	}
	cfg.Path = configPath
	return cfg, nil
}

// Parse decodes data on top of the defaults. The format is chosen from
// the extension of name: .yaml and .yml are YAML, anything else TOML.
func Parse(name string, data []byte) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := decodeYAML(data, cfg); err != nil {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", name, err)
		}
	default:
		if err := decodeTOML(data, cfg); err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

func decodeTOML(data []byte, cfg *Config) error {
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	if err != nil {
		return err
	}
	var unknown []string
	for _, key := range meta.Undecoded() {
		// Rule tables are free-form; their keys are checked by the rule.
		if len(key) > 0 && key[0] == "rules" {
			continue
		}
		unknown = append(unknown, key.String())
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown keys: %s", strings.Join(unknown, ", "))
	}
	return nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
