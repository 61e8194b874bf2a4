// Package paths provides centralized path handling for modstack.
// It resolves XDG locations for the default roots and builds the immutable
// DeploymentContext every engine call receives.
package paths

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/modstack/pkg/errors"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for modstack
	EnvDataDir = "MODSTACK_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for modstack
	EnvConfigDir = "MODSTACK_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files. The manifest file names are part of the
// on-disk format and must not change between releases.
const (
	AppDirName         = "modstack"
	PackagesDir        = "packages"
	BackupDir          = "backup"
	LoadOrderFile      = "load_order.txt"
	ConfigFile         = "config.toml"
	CopyManifestFile   = "copy_manifest.txt"
	BackupManifestFile = "backup_manifest.txt"
)

// DataDir returns the modstack data directory, honouring MODSTACK_DATA_DIR.
func DataDir() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.DataHome, AppDirName)
}

// ConfigDir returns the modstack config directory, honouring MODSTACK_CONFIG_DIR.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// DefaultConfigPath returns the user config file location
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), ConfigFile)
}

// DefaultPackageRoot returns the default package root
func DefaultPackageRoot() string {
	return filepath.Join(DataDir(), PackagesDir)
}

// DefaultBackupRoot returns the default backup root
func DefaultBackupRoot() string {
	return filepath.Join(DataDir(), BackupDir)
}

// DefaultLoadOrderPath returns the default load order file
func DefaultLoadOrderPath() string {
	return filepath.Join(DataDir(), LoadOrderFile)
}

// DeploymentContext carries the three roots an overlay run works against.
// It is a value type with unexported fields; once built it cannot change.
type DeploymentContext struct {
	packageRoot string
	targetRoot  string
	backupRoot  string
}

// NewDeploymentContext validates and normalizes the roots. All three are
// made absolute. The backup and package roots may not live inside the
// target root, since the target is swept for overlay links and restored
// path by path.
func NewDeploymentContext(packageRoot, targetRoot, backupRoot string) (DeploymentContext, error) {
	roots := map[string]*string{
		"package": &packageRoot,
		"target":  &targetRoot,
		"backup":  &backupRoot,
	}
	for name, root := range roots {
		if strings.TrimSpace(*root) == "" {
			return DeploymentContext{}, errors.Newf(errors.ErrInvalidInput, "%s root is not set", name)
		}
		abs, err := NormalizePath(*root)
		if err != nil {
			return DeploymentContext{}, err
		}
		*root = abs
	}

	if packageRoot == targetRoot || backupRoot == targetRoot || packageRoot == backupRoot {
		return DeploymentContext{}, errors.New(errors.ErrInvalidInput, "package, target and backup roots must be distinct")
	}
	if IsWithin(targetRoot, backupRoot) {
		return DeploymentContext{}, errors.Newf(errors.ErrInvalidInput, "backup root %s is inside target root %s", backupRoot, targetRoot)
	}
	if IsWithin(targetRoot, packageRoot) {
		return DeploymentContext{}, errors.Newf(errors.ErrInvalidInput, "package root %s is inside target root %s", packageRoot, targetRoot)
	}

	return DeploymentContext{
		packageRoot: packageRoot,
		targetRoot:  targetRoot,
		backupRoot:  backupRoot,
	}, nil
}

// PackageRoot returns the directory holding one subdirectory per package
func (c DeploymentContext) PackageRoot() string { return c.packageRoot }

// TargetRoot returns the tree packages are overlaid onto
func (c DeploymentContext) TargetRoot() string { return c.targetRoot }

// BackupRoot returns where displaced target files are kept
func (c DeploymentContext) BackupRoot() string { return c.backupRoot }

// ManifestDir returns the directory beside the backup root that holds the
// manifest files.
func (c DeploymentContext) ManifestDir() string { return filepath.Dir(c.backupRoot) }

// CopyManifestPath returns the path of the copy manifest
func (c DeploymentContext) CopyManifestPath() string {
	return filepath.Join(c.ManifestDir(), CopyManifestFile)
}

// BackupManifestPath returns the path of the backup manifest
func (c DeploymentContext) BackupManifestPath() string {
	return filepath.Join(c.ManifestDir(), BackupManifestFile)
}

// PackagePath returns the directory of a named package
func (c DeploymentContext) PackagePath(name string) string {
	return filepath.Join(c.packageRoot, name)
}

// TargetPath maps a target-relative path to an absolute one
func (c DeploymentContext) TargetPath(rel string) string {
	return filepath.Join(c.targetRoot, rel)
}

// BackupPath maps a target-relative path into the backup root
func (c DeploymentContext) BackupPath(rel string) string {
	return filepath.Join(c.backupRoot, rel)
}

// DirMaker creates directory trees
type DirMaker interface {
	MkdirAll(path string, perm fs.FileMode) error
}

// EnsureDirs creates the three roots on fsys if they are missing
func (c DeploymentContext) EnsureDirs(fsys DirMaker) error {
	for _, dir := range []string{c.packageRoot, c.targetRoot, c.backupRoot} {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrPath, "failed to create %s", dir)
		}
	}
	return nil
}

// NormalizePath expands ~, makes the path absolute and cleans it
func NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}
	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrPath, "failed to get absolute path for %s", path)
	}
	return filepath.Clean(abs), nil
}

// IsWithin reports whether path equals root or lies below it
func IsWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user is not expanded
	return path
}
