// TEST TYPE: Unit Tests
// DEPENDENCIES: Real filesystem (t.TempDir), afero MemMapFs
// PURPOSE: FS implementations, atomic writes and link modes
package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFS_Basics(t *testing.T) {
	dir := t.TempDir()
	fsys := NewOS()

	file := filepath.Join(dir, "a", "b.txt")
	require.NoError(t, fsys.MkdirAll(filepath.Dir(file), 0755))
	require.NoError(t, fsys.WriteFile(file, []byte("hello"), 0644))

	data, err := fsys.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	link := filepath.Join(dir, "link.txt")
	require.NoError(t, fsys.Symlink(file, link))
	assert.True(t, IsSymlink(fsys, link))
	assert.False(t, IsSymlink(fsys, file))

	target, err := fsys.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, file, target)

	entries, err := fsys.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	require.NoError(t, fsys.Remove(link))
	assert.False(t, Exists(fsys, link))
}

func TestAferoFS_Basics(t *testing.T) {
	fsys := NewAferoFS(afero.NewMemMapFs())

	require.NoError(t, fsys.MkdirAll("/root/dir", 0755))
	require.NoError(t, fsys.WriteFile("/root/dir/f.txt", []byte("x"), 0644))
	assert.True(t, Exists(fsys, "/root/dir/f.txt"))

	_, err := fsys.ReadFile("/root/dir")
	assert.Error(t, err)

	require.NoError(t, fsys.Rename("/root/dir/f.txt", "/root/dir/g.txt"))
	assert.False(t, Exists(fsys, "/root/dir/f.txt"))
	assert.True(t, Exists(fsys, "/root/dir/g.txt"))

	err = fsys.Link("/root/dir/g.txt", "/root/dir/h.txt")
	assert.Error(t, err)

	mem, ok := Afero(fsys)
	assert.True(t, ok)
	assert.NotNil(t, mem)

	osView, ok := Afero(NewOS())
	assert.True(t, ok)
	assert.IsType(t, &afero.OsFs{}, osView)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	fsys := NewOS()
	path := filepath.Join(dir, "state", "manifest.txt")

	require.NoError(t, WriteFileAtomic(fsys, path, []byte("one\n"), 0644))
	require.NoError(t, WriteFileAtomic(fsys, path, []byte("two\n"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestParseLinkMode(t *testing.T) {
	tests := []struct {
		in   string
		want LinkMode
	}{
		{"", LinkSymlink},
		{"symlink", LinkSymlink},
		{"HardLink", LinkHardlink},
		{" copy ", LinkCopy},
	}
	for _, tt := range tests {
		got, err := ParseLinkMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseLinkMode("junction")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestLinkers(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))

	for _, mode := range []LinkMode{LinkSymlink, LinkHardlink} {
		t.Run(string(mode), func(t *testing.T) {
			linker, err := NewLinker(mode, NewOS())
			require.NoError(t, err)
			assert.Equal(t, mode, linker.Mode())

			dst := filepath.Join(dir, string(mode)+".txt")
			require.NoError(t, linker.Link(context.Background(), src, dst))

			data, err := os.ReadFile(dst)
			require.NoError(t, err)
			assert.Equal(t, "payload", string(data))

			info, err := os.Lstat(dst)
			require.NoError(t, err)
			assert.Equal(t, mode == LinkSymlink, info.Mode()&os.ModeSymlink != 0)
		})
	}
}

func TestCopier_CopyAll(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "meshes"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.esp"), []byte("plugin"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "meshes", "b.nif"), []byte("mesh"), 0644))

	dst := filepath.Join(dir, "dst")
	pairs := []CopyPair{
		{Source: filepath.Join(src, "a.esp"), Target: filepath.Join(dst, "a.esp")},
		{Source: filepath.Join(src, "meshes", "b.nif"), Target: filepath.Join(dst, "meshes", "b.nif")},
	}

	require.NoError(t, NewCopier().CopyAll(context.Background(), pairs))

	for _, pair := range pairs {
		want, err := os.ReadFile(pair.Source)
		require.NoError(t, err)
		got, err := os.ReadFile(pair.Target)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		info, err := os.Lstat(pair.Target)
		require.NoError(t, err)
		assert.True(t, info.Mode().IsRegular())
	}
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	fsys := NewOS()

	src := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0600))

	dst := filepath.Join(dir, "nested", "deeper", "a.txt")
	require.NoError(t, Move(fsys, src, dst))

	assert.False(t, Exists(fsys, src))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
}

func TestWalkFiles(t *testing.T) {
	fsys := NewAferoFS(afero.NewMemMapFs())
	for _, p := range []string{"/pkg/b.txt", "/pkg/a/z.nif", "/pkg/a/y/x.dds"} {
		require.NoError(t, fsys.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, fsys.WriteFile(p, []byte("x"), 0644))
	}
	require.NoError(t, fsys.MkdirAll("/pkg/empty", 0755))

	files, err := WalkFiles(fsys, "/pkg")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("a", "y", "x.dds"),
		filepath.Join("a", "z.nif"),
		"b.txt",
	}, files)

	_, err = WalkFiles(fsys, "/missing")
	assert.Error(t, err)
}

func TestPruneEmptyDirs(t *testing.T) {
	dir := t.TempDir()
	fsys := NewOS()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b", "c"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "keep", "empty"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep", "f.txt"), []byte("f"), 0644))

	removed, err := PruneEmptyDirs(fsys, dir)
	require.NoError(t, err)
	assert.Equal(t, 4, removed)

	assert.True(t, Exists(fsys, dir))
	assert.False(t, Exists(fsys, filepath.Join(dir, "a")))
	assert.True(t, Exists(fsys, filepath.Join(dir, "keep", "f.txt")))
	assert.False(t, Exists(fsys, filepath.Join(dir, "keep", "empty")))
}
