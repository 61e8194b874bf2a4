package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/spf13/afero"
)

// FileTree represents a directory structure for testing. String values are
// file contents, FileTree values are subdirectories.
type FileTree map[string]interface{}

// CreateTree writes tree below basePath on fsys
func CreateTree(t *testing.T, fsys filesystem.FS, basePath string, tree FileTree) {
	t.Helper()

	if err := fsys.MkdirAll(basePath, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", basePath, err)
	}

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := fsys.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
				t.Fatalf("Failed to create directory for %s: %v", fullPath, err)
			}
			if err := fsys.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			CreateTree(t, fsys, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}

// Node is one entry of a tree snapshot
type Node struct {
	Kind    string // "file", "dir" or "symlink"
	Content string // file content
	Target  string // symlink target
	Mode    fs.FileMode
}

// SnapshotTree records every entry below root keyed by slash separated
// relative path. Symlinks are recorded, not followed.
func SnapshotTree(t *testing.T, root string) map[string]Node {
	t.Helper()

	snap := make(map[string]Node)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		info, err := os.Lstat(path)
		if err != nil {
			return err
		}

		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			snap[rel] = Node{Kind: "symlink", Target: target}
		case info.IsDir():
			snap[rel] = Node{Kind: "dir", Mode: info.Mode().Perm()}
		default:
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			snap[rel] = Node{Kind: "file", Content: string(data), Mode: info.Mode().Perm()}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to snapshot %s: %v", root, err)
	}
	return snap
}

// NewMemFS returns an in-memory filesystem both as filesystem.FS and as the
// underlying afero.Fs
func NewMemFS() (filesystem.FS, afero.Fs) {
	mem := afero.NewMemMapFs()
	return filesystem.NewAferoFS(mem), mem
}
