package filesystem

import (
	"errors"
	"io/fs"
	"path/filepath"
	"syscall"
)

// Move renames src to dst, creating dst's parent. When the two live on
// different devices the entry is copied and the source removed. Regular
// files and symlinks are supported in the fallback.
func Move(fsys FS, src, dst string) error {
	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	err := fsys.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}

	info, err := fsys.Lstat(src)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		target, err := fsys.Readlink(src)
		if err != nil {
			return err
		}
		if err := fsys.Symlink(target, dst); err != nil {
			return err
		}
	case info.Mode().IsRegular():
		data, err := fsys.ReadFile(src)
		if err != nil {
			return err
		}
		if err := fsys.WriteFile(dst, data, info.Mode().Perm()); err != nil {
			return err
		}
	default:
		return &fs.PathError{Op: "move", Path: src, Err: fs.ErrInvalid}
	}
	return fsys.Remove(src)
}
