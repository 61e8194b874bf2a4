package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/arthur-debert/modstack/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfigContent_CommentsValues(t *testing.T) {
	content := GenerateConfigContent()

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		assert.True(t, strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"),
			"only section headers stay active: %q", line)
	}
	assert.Contains(t, content, `# link_mode = "symlink"`)
	assert.Contains(t, content, "[deploy]")
}

func TestWriteDefault(t *testing.T) {
	e := isolate(t)
	fsys := filesystem.NewOS()
	path := filepath.Join(e.config, paths.ConfigFile)

	require.NoError(t, WriteDefault(fsys, path, false))

	err := WriteDefault(fsys, path, false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
	require.NoError(t, WriteDefault(fsys, path, true))

	// the generated file loads as the plain defaults
	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "symlink", cfg.Deploy.LinkMode)
	assert.Equal(t, 4, cfg.Conflicts.Workers)
}

func TestRender_LoadsBack(t *testing.T) {
	e := isolate(t)

	cfg, err := Load(LoadOptions{Overrides: map[string]interface{}{
		"paths.target":   "/games/Data",
		"queue.settle":   "2s",
		"plugins.header": []string{"# one", "# two"},
	}})
	require.NoError(t, err)

	out, err := Render(cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "2s")

	path := filepath.Join(e.base, "rendered.toml")
	writeConfig(t, path, out)

	again, err := Load(LoadOptions{ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}
