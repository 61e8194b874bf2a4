package filesystem

import (
	"path/filepath"
)

// WalkFiles returns the paths, relative to root, of every non-directory
// entry below root in lexical order. Symlinks are reported, not followed.
func WalkFiles(fsys FS, root string) ([]string, error) {
	var files []string
	var walk func(rel string) error
	walk = func(rel string) error {
		entries, err := fsys.ReadDir(filepath.Join(root, rel))
		if err != nil {
			return err
		}
		for _, entry := range entries {
			child := filepath.Join(rel, entry.Name())
			if entry.IsDir() {
				if err := walk(child); err != nil {
					return err
				}
				continue
			}
			files = append(files, child)
		}
		return nil
	}
	if err := walk(""); err != nil {
		return nil, err
	}
	return files, nil
}

// PruneEmptyDirs removes empty directories below root, deepest first.
// root itself is kept. It returns how many directories were removed.
func PruneEmptyDirs(fsys FS, root string) (int, error) {
	var prune func(dir string) (bool, int, error)
	prune = func(dir string) (bool, int, error) {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			return false, 0, err
		}
		removed := 0
		empty := true
		for _, entry := range entries {
			if !entry.IsDir() {
				empty = false
				continue
			}
			child := filepath.Join(dir, entry.Name())
			childEmpty, n, err := prune(child)
			removed += n
			if err != nil {
				return false, removed, err
			}
			if !childEmpty {
				empty = false
				continue
			}
			if err := fsys.Remove(child); err != nil {
				return false, removed, err
			}
			removed++
		}
		return empty, removed, nil
	}

	_, removed, err := prune(root)
	return removed, err
}
