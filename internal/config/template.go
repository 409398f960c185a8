package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Template is the mimic.toml written by `mimic init`.
const Template = `# mimic settings
[extract]
include = ["**/*.swift"]
exclude = [".build/**", "Pods/**", "**/*Tests/**"]
# extract members of nested types into the enclosing model as well
nested = false
# 0 uses every CPU
jobs = 0
cache = true

# extra aliases applied before the typealias declarations found in sources
[aliases]
# Identifier = "String"

# generic placeholder bindings
[bindings]
# T = "Int"

[trace]
level = "off"
format = "auto"
`

// WriteTemplate creates dir/mimic.toml unless it already exists.
func WriteTemplate(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	if err := os.WriteFile(path, []byte(Template), 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return path, nil
}
