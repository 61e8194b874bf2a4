package filesystem

import (
	"io/fs"
	"os"
)

var (
	_ FS = (*osFS)(nil)
	_ FS = (*aferoFS)(nil)
)

// osFS is the production FS. Every call goes straight to package os; link
// calls in particular must not be emulated.
type osFS struct{}

// NewOS returns the FS backed by the host filesystem. Afero reports an
// afero.OsFs for it, so directory walks share the same view.
func NewOS() FS { return osFS{} }

func (osFS) Stat(name string) (fs.FileInfo, error)  { return os.Stat(name) }
func (osFS) Lstat(name string) (fs.FileInfo, error) { return os.Lstat(name) }
func (osFS) ReadFile(name string) ([]byte, error)   { return os.ReadFile(name) }
func (osFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (osFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (osFS) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }
func (osFS) Remove(name string) error                     { return os.Remove(name) }
func (osFS) RemoveAll(path string) error                  { return os.RemoveAll(path) }
func (osFS) Rename(oldpath, newpath string) error         { return os.Rename(oldpath, newpath) }

func (osFS) Symlink(oldname, newname string) error { return os.Symlink(oldname, newname) }
func (osFS) Readlink(name string) (string, error)  { return os.Readlink(name) }
func (osFS) Link(oldname, newname string) error    { return os.Link(oldname, newname) }
