package filesystem_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sophialabs/catapult/internal/domain/matcher"
	"github.com/sophialabs/catapult/internal/infrastructure/outbound/filesystem"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func loadConfig(t *testing.T, dir string) (*matcher.Config, error) {
	t.Helper()
	return filesystem.NewConfigFile(filepath.Join(dir, "config.yml")).Load(context.Background())
}

func TestInclude_SplicesMatcher(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yml"), "match:\n- !include animals.yml\n- exact: cat\n  url: https://cats\n")
	writeFile(t, filepath.Join(dir, "animals.yml"), "prefix: animals/\nurl: https://zoo/$2\n")

	cfg, err := loadConfig(t, dir)
	require.NoError(t, err)

	assert.Equal(t, matcher.List{
		matcher.NewPrefix("animals/", matcher.RedirectTo("https://zoo/$2")),
		matcher.NewExact("cat", matcher.RedirectTo("https://cats")),
	}, cfg.Match)
}

func TestInclude_NestedRelativeToIncludingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yml"), "match: !include parts/outer.yml\n")
	writeFile(t, filepath.Join(dir, "parts", "outer.yml"), "prefix: a\nmatch: !include inner.yml\n")
	writeFile(t, filepath.Join(dir, "parts", "inner.yml"), "exact: b\nurl: !include \"@root/url.txt\"\n")
	writeFile(t, filepath.Join(dir, "url.txt"), "https://b")

	cfg, err := loadConfig(t, dir)
	require.NoError(t, err)

	assert.Equal(t, matcher.NewPrefix("a",
		matcher.DelegateTo(matcher.NewExact("b", matcher.RedirectTo("https://b"))),
	), cfg.Match)
}

func TestInclude_HereAndRootPrefixes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yml"), "match: !include parts/outer.yml\n")
	writeFile(t, filepath.Join(dir, "parts", "outer.yml"),
		"- !include \"@here/pick.yml\"\n- !include \"@root/pick.yml\"\n")
	writeFile(t, filepath.Join(dir, "parts", "pick.yml"), "exact: here\nurl: https://here\n")
	writeFile(t, filepath.Join(dir, "pick.yml"), "exact: root\nurl: https://root\n")

	cfg, err := loadConfig(t, dir)
	require.NoError(t, err)

	assert.Equal(t, matcher.List{
		matcher.NewExact("here", matcher.RedirectTo("https://here")),
		matcher.NewExact("root", matcher.RedirectTo("https://root")),
	}, cfg.Match)
}

func TestInclude_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		extra    map[string]string
		contains string
	}{
		{"empty reference", "match: !include \"\"\n", nil, "requires a file name"},
		{"absolute path", "match: !include /etc/passwd\n", nil, "absolute paths are not allowed"},
		{"escapes root", "match: !include ../outside.yml\n", nil, "path escapes"},
		{"missing file", "match: !include nope.yml\n", nil, "nope.yml"},
		{"self cycle", "match: !include loop.yml\n", map[string]string{"loop.yml": "- !include loop.yml\n"}, "cycle"},
		{"empty include", "match: !include blank.yml\n", map[string]string{"blank.yml": ""}, "file is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "config.yml"), tt.config)
			for name, content := range tt.extra {
				writeFile(t, filepath.Join(dir, name), content)
			}

			_, err := loadConfig(t, dir)
			require.Error(t, err)

			var cfgErr *matcher.ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %T: %v", err, err)
			assert.Contains(t, cfgErr.Msg, tt.contains)
		})
	}
}

func TestInclude_DepthLimit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yml"), "match: !include l0.yml\n")
	for i := 0; i < 12; i++ {
		next := "exact: end\nurl: https://end\n"
		if i < 11 {
			next = fmt.Sprintf("- !include l%d.yml\n", i+1)
		}
		writeFile(t, filepath.Join(dir, fmt.Sprintf("l%d.yml", i)), next)
	}

	_, err := loadConfig(t, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting exceeds")
}
