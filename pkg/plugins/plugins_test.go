package plugins

import (
	"testing"

	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPlugin(t *testing.T) {
	assert.True(t, IsPlugin("Skyrim.esm", DefaultExtensions))
	assert.True(t, IsPlugin("patch.ESP", DefaultExtensions))
	assert.True(t, IsPlugin("light.esl", DefaultExtensions))
	assert.False(t, IsPlugin("readme.txt", DefaultExtensions))
	assert.False(t, IsPlugin("esp", DefaultExtensions))
	assert.True(t, IsPlugin("x.bsa", []string{".BSA"}))
}

func TestTextIndexer(t *testing.T) {
	fsys := filesystem.NewAferoFS(afero.NewMemMapFs())
	header := []string{"# This file is used by the game.", "Skyrim.esm"}
	indexer := NewTextIndexer(fsys, "/cfg/plugins.txt", "*", header)

	require.NoError(t, indexer.WriteIndex([]string{"a.esp", "b.esm"}))
	data, err := fsys.ReadFile("/cfg/plugins.txt")
	require.NoError(t, err)
	assert.Equal(t, "# This file is used by the game.\nSkyrim.esm\n*a.esp\n*b.esm\n", string(data))

	require.NoError(t, indexer.ClearIndex())
	data, err = fsys.ReadFile("/cfg/plugins.txt")
	require.NoError(t, err)
	assert.Equal(t, "# This file is used by the game.\nSkyrim.esm\n", string(data))
}

func TestNop(t *testing.T) {
	var indexer Indexer = Nop{}
	assert.NoError(t, indexer.WriteIndex([]string{"a.esp"}))
	assert.NoError(t, indexer.ClearIndex())
}
