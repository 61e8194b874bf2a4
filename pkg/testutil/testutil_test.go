package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotTree(t *testing.T) {
	SkipOnWindows(t)
	root := TempDir(t)

	CreateTree(t, filesystem.NewOS(), root, FileTree{
		"a.txt": "alpha",
		"sub": FileTree{
			"b.txt": "beta",
		},
	})
	CreateSymlink(t, "a.txt", filepath.Join(root, "link"))
	CreateDir(t, root, "empty")

	snap := SnapshotTree(t, root)

	assert.Len(t, snap, 5)
	assert.Equal(t, "file", snap["a.txt"].Kind)
	assert.Equal(t, "alpha", snap["a.txt"].Content)
	assert.Equal(t, "dir", snap["sub"].Kind)
	assert.Equal(t, "beta", snap["sub/b.txt"].Content)
	assert.Equal(t, Node{Kind: "symlink", Target: "a.txt"}, snap["link"])
	assert.Equal(t, "dir", snap["empty"].Kind)
}

func TestCreateTreeOnMemFS(t *testing.T) {
	fsys, mem := NewMemFS()

	CreateTree(t, fsys, "/pkg", FileTree{
		"meshes": FileTree{"x.nif": "mesh"},
	})

	data, err := fsys.ReadFile("/pkg/meshes/x.nif")
	require.NoError(t, err)
	assert.Equal(t, "mesh", string(data))

	exists, err := afero.DirExists(mem, "/pkg/meshes")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMockIndexer(t *testing.T) {
	m := &MockIndexer{}
	m.On("WriteIndex", []string{"a.esp"}).Return(nil)
	m.On("ClearIndex").Return(nil)

	require.NoError(t, m.WriteIndex([]string{"a.esp"}))
	require.NoError(t, m.ClearIndex())
	m.AssertExpectations(t)
}
