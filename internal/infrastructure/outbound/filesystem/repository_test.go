package filesystem_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sophialabs/catapult/internal/domain/matcher"
	"github.com/sophialabs/catapult/internal/infrastructure/outbound/filesystem"
)

func TestConfigFile_RereadsOnEveryLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	writeFile(t, path, "match:\n  exact: a\n  url: https://one\n")

	repo := filesystem.NewConfigFile(path)
	assert.Equal(t, path, repo.Source())

	cfg, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://one", cfg.Match.(*matcher.Exact).URL)

	writeFile(t, path, "match:\n  exact: a\n  url: https://two\n")

	cfg, err = repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://two", cfg.Match.(*matcher.Exact).URL)
}

func TestConfigFile_MissingFile(t *testing.T) {
	repo := filesystem.NewConfigFile(filepath.Join(t.TempDir(), "absent.yml"))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestConfigFile_InvalidYAMLIsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, path, "match: [\n")

	_, err := filesystem.NewConfigFile(path).Load(context.Background())

	var cfgErr *matcher.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), path)
}

func TestConfigFile_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := filesystem.NewConfigFile("unused.yml").Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
