// Package configlet handles loading named reusable configuration snippets.
package configlet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/newtron-network/confsync/pkg/reconcile"
)

// Configlet is a named configuration snippet: desired lines plus the
// reconciliation options they should be pushed with.
type Configlet struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Lines       []string `yaml:"lines"`
	Parents     []string `yaml:"parents,omitempty"`
	Before      []string `yaml:"before,omitempty"`
	After       []string `yaml:"after,omitempty"`
	Match       string   `yaml:"match,omitempty"`
	Replace     bool     `yaml:"replace,omitempty"`
}

// Load loads and parses a configlet YAML file from the given directory.
func Load(dir, name string) (*Configlet, error) {
	path := filepath.Join(dir, name+".yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configlet %s: %w", name, err)
	}

	var c Configlet
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing configlet %s: %w", name, err)
	}
	if c.Name == "" {
		c.Name = name
	}
	if len(c.Lines) == 0 {
		return nil, fmt.Errorf("configlet %s has no lines", name)
	}
	return &c, nil
}

// List returns the names of all configlet YAML files in the directory.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading configlet directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
		}
	}
	return names, nil
}

// Options converts the configlet into reconciliation options.
func (c *Configlet) Options() (reconcile.Options, error) {
	match, err := reconcile.ParseMatchStrategy(c.Match)
	if err != nil {
		return reconcile.Options{}, fmt.Errorf("configlet %s: %w", c.Name, err)
	}
	return reconcile.Options{
		Parents: c.Parents,
		Before:  c.Before,
		After:   c.After,
		Match:   match,
		Replace: c.Replace,
	}, nil
}
