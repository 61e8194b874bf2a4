package installer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/arthur-debert/modstack/pkg/loadorder"
	"github.com/arthur-debert/modstack/pkg/logging"
	"github.com/arthur-debert/modstack/pkg/paths"
	"github.com/rs/zerolog"
)

// Packages changes package directories and keeps the load order in step.
// Every successful change is saved to the load order file.
type Packages struct {
	fs          filesystem.FS
	store       *loadorder.Store
	packageRoot string
	installer   Installer
	logger      zerolog.Logger
}

// NewPackages creates a package manager
func NewPackages(fsys filesystem.FS, store *loadorder.Store, packageRoot string, installer Installer) *Packages {
	return &Packages{
		fs:          fsys,
		store:       store,
		packageRoot: packageRoot,
		installer:   installer,
		logger:      logging.GetLogger("installer.packages"),
	}
}

// Install installs source and appends it to the load order, enabled
func (p *Packages) Install(ctx context.Context, source string) (string, error) {
	name, err := p.installer.Install(ctx, source)
	if err != nil {
		return "", err
	}
	if err := p.store.Append(name, loadorder.Enabled); err != nil {
		return name, err
	}
	return name, p.store.Save()
}

// Remove deletes a package directory and its load order entry
func (p *Packages) Remove(name string) error {
	if err := paths.ValidatePackageName(name); err != nil {
		return err
	}
	dir := filepath.Join(p.packageRoot, name)
	inOrder := p.store.Snapshot().Order.Index(name) >= 0
	onDisk := filesystem.Exists(p.fs, dir)
	if !inOrder && !onDisk {
		return errors.Newf(errors.ErrPackageNotFound, "package %q not found", name).
			WithDetail("package", name)
	}

	if onDisk {
		if err := p.fs.RemoveAll(dir); err != nil {
			return errors.Wrapf(err, errors.ErrPath, "failed to remove %s", dir)
		}
	}
	if inOrder {
		if err := p.store.Remove(name); err != nil {
			return err
		}
	}

	p.logger.Info().Str("package", name).Msg("Package removed")
	return p.store.Save()
}

// Rename renames a package directory and its load order entry, keeping
// position and state
func (p *Packages) Rename(oldName, newName string) error {
	if err := paths.ValidatePackageName(newName); err != nil {
		return err
	}
	if oldName == newName {
		return nil
	}

	src := filepath.Join(p.packageRoot, oldName)
	dst := filepath.Join(p.packageRoot, newName)
	if _, err := p.fs.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrPackageNotFound, "package %q not found", oldName).
				WithDetail("package", oldName)
		}
		return errors.Wrapf(err, errors.ErrPath, "failed to stat %s", src)
	}
	if _, err := p.fs.Lstat(dst); err == nil {
		return errors.Newf(errors.ErrAlreadyExists, "package %q already exists", newName).
			WithDetail("package", newName)
	}

	if err := p.fs.Rename(src, dst); err != nil {
		return errors.Wrapf(err, errors.ErrPath, "failed to rename %s", oldName)
	}

	if p.store.Snapshot().Order.Index(oldName) >= 0 {
		if err := p.store.Rename(oldName, newName); err != nil {
			if rbErr := p.fs.Rename(dst, src); rbErr != nil {
				p.logger.Error().Err(rbErr).Str("package", newName).Msg("Failed to roll back directory rename")
			}
			return err
		}
	} else if _, err := p.store.Sync(); err != nil {
		return err
	}

	p.logger.Info().Str("from", oldName).Str("to", newName).Msg("Package renamed")
	return p.store.Save()
}
