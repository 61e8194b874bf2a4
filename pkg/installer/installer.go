// Package installer places packages under the package root.
//
// Only plain directories are installed here. Archives and conditional
// installers are left to external tools, which only need to leave a new
// directory under the package root.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/arthur-debert/modstack/pkg/logging"
	"github.com/arthur-debert/modstack/pkg/paths"
	"github.com/rs/zerolog"
)

// Installer creates a package directory from source and returns its name
type Installer interface {
	Install(ctx context.Context, source string) (string, error)
}

// archiveExtensions are recognised but not installed
var archiveExtensions = []string{".zip", ".7z", ".rar", ".tar", ".tar.gz", ".tgz", ".tar.xz"}

// IsArchive reports whether name looks like a package archive
func IsArchive(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// DirectoryInstaller copies a directory into the package root
type DirectoryInstaller struct {
	fs          filesystem.FS
	packageRoot string
	copier      *filesystem.Copier
	logger      zerolog.Logger
}

// NewDirectoryInstaller creates an installer for packageRoot. Copies run
// on the OS filesystem.
func NewDirectoryInstaller(fsys filesystem.FS, packageRoot string) *DirectoryInstaller {
	return &DirectoryInstaller{
		fs:          fsys,
		packageRoot: packageRoot,
		copier:      filesystem.NewCopier(),
		logger:      logging.GetLogger("installer"),
	}
}

// UniqueName returns base if no entry of that name exists under root,
// otherwise the first free base_1, base_2, ...
func UniqueName(fsys filesystem.FS, root, base string) string {
	name := base
	for i := 1; filesystem.Exists(fsys, filepath.Join(root, name)); i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	return name
}

// Install copies source into a new package directory. Regular files are
// copied, symlinks are recreated with their original targets.
func (d *DirectoryInstaller) Install(ctx context.Context, source string) (string, error) {
	source = filepath.Clean(source)
	info, err := d.fs.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Newf(errors.ErrNotFound, "install source %s does not exist", source).
				WithDetail("source", source)
		}
		return "", errors.Wrapf(err, errors.ErrPath, "failed to stat %s", source)
	}
	if !info.IsDir() {
		if IsArchive(source) {
			return "", errors.Newf(errors.ErrNotImplemented,
				"archive installs are not supported, extract %s into a directory first", filepath.Base(source))
		}
		return "", errors.Newf(errors.ErrInvalidInput, "install source %s is not a directory", source)
	}
	if paths.IsWithin(d.packageRoot, source) {
		return "", errors.Newf(errors.ErrInvalidInput, "install source %s is already under the package root", source)
	}

	base := filepath.Base(source)
	if err := paths.ValidatePackageName(base); err != nil {
		return "", err
	}
	if err := d.fs.MkdirAll(d.packageRoot, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrPath, "failed to create package root %s", d.packageRoot)
	}

	name := UniqueName(d.fs, d.packageRoot, base)
	dest := filepath.Join(d.packageRoot, name)
	logger := d.logger.With().Str("package", name).Str("source", source).Logger()

	files, err := filesystem.WalkFiles(d.fs, source)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInstall, "failed to read %s", source)
	}

	if err := d.fs.MkdirAll(dest, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrInstall, "failed to create %s", dest)
	}

	var pairs []filesystem.CopyPair
	for _, rel := range files {
		src := filepath.Join(source, rel)
		dst := filepath.Join(dest, rel)
		if filesystem.IsSymlink(d.fs, src) {
			if err := d.copyLink(src, dst); err != nil {
				d.cleanup(dest, logger)
				return "", err
			}
			continue
		}
		pairs = append(pairs, filesystem.CopyPair{Source: src, Target: dst})
	}

	if err := d.copier.CopyAll(ctx, pairs); err != nil {
		d.cleanup(dest, logger)
		return "", errors.Wrapf(err, errors.ErrInstall, "failed to copy %s", source).
			WithDetail("package", name)
	}

	logger.Info().Int("files", len(files)).Msg("Package installed")
	return name, nil
}

func (d *DirectoryInstaller) copyLink(src, dst string) error {
	target, err := d.fs.Readlink(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInstall, "failed to read link %s", src)
	}
	if err := d.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrInstall, "failed to create %s", filepath.Dir(dst))
	}
	if err := d.fs.Symlink(target, dst); err != nil {
		return errors.Wrapf(err, errors.ErrInstall, "failed to link %s", dst)
	}
	return nil
}

func (d *DirectoryInstaller) cleanup(dest string, logger zerolog.Logger) {
	if err := d.fs.RemoveAll(dest); err != nil {
		logger.Warn().Err(err).Str("path", dest).Msg("Failed to remove partial install")
	}
}
