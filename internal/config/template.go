package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultFileName is the file written by `valign init`.
const DefaultFileName = ".valign.toml"

// DefaultTOML is the commented form of Default().
const DefaultTOML = `# valign configuration
include = ["**/*.js", "**/*.mjs", "**/*.cjs"]
exclude = ["node_modules/**", "dist/**"]
jobs = 0                      # 0 = GOMAXPROCS
max_diagnostics = 500

[cache]
enabled = false
dir = ""                      # default: user cache directory + /valign

[output]
format = "pretty"             # pretty|short|json|sarif
color = "auto"                # auto|on|off
path_mode = "auto"            # auto|absolute|relative|basename

[rules.vertical-align]
severity = "warning"          # off|info|warning|error
width = "runes"               # runes|bytes|display|nfc
top_level = false
`

// ErrConfigExists is returned by WriteDefault when the file is present.
var ErrConfigExists = errors.New("configuration file already exists")

// WriteDefault writes DefaultTOML into dir and returns the path.
func WriteDefault(dir string, force bool) (string, error) {
	path := filepath.Join(dir, DefaultFileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%s: %w", path, ErrConfigExists)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return path, fmt.Errorf("failed to stat %q: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(DefaultTOML), 0o644); err != nil { // #nosec G306 -- config is not secret
		return path, fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
