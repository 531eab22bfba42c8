package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	sitegen "github.com/goliatone/go-sitegen"
)

var defaultConfigPaths = []string{"sitegen.yml", "sitegen.yaml"}

// loadConfig reads the site configuration, layering the YAML file over the
// package defaults. An explicit path must exist; the default candidates are
// optional, so a bare directory still builds with defaults.
func loadConfig(path string) (sitegen.Config, error) {
	cfg := sitegen.DefaultConfig()

	explicit := strings.TrimSpace(path) != ""
	candidates := defaultConfigPaths
	if explicit {
		candidates = []string{strings.TrimSpace(path)}
	}

	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			if !explicit && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return sitegen.Config{}, fmt.Errorf("read config %s: %w", candidate, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return sitegen.Config{}, fmt.Errorf("parse config %s: %w", candidate, err)
		}
		return cfg, nil
	}

	return cfg, nil
}
