package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sophialabs/catapult/internal/domain/matcher"
)

var _ matcher.Repository = (*ConfigFile)(nil)

// ConfigFile loads the matcher tree from a YAML file. It keeps no cache:
// every Load reads the file again.
type ConfigFile struct {
	path string
}

// NewConfigFile returns a repository backed by the file at path.
func NewConfigFile(path string) *ConfigFile {
	return &ConfigFile{path: path}
}

// Source returns the path of the backing file.
func (f *ConfigFile) Source() string { return f.path }

// Load reads, expands and parses the configuration file.
func (f *ConfigFile) Load(ctx context.Context) (*matcher.Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", f.path, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, &matcher.ConfigError{Msg: err.Error()})
	}

	dir := filepath.Dir(f.path)
	if err := newIncluder(dir).expand(&root, dir); err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}

	cfg, err := ParseDocument(&root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	return cfg, nil
}
