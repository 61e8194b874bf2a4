// Package overlay places packages onto a target tree and takes them off
// again.
//
// Deploy walks the enabled packages of a load order, moves any original
// file it is about to cover into the backup root, and links the package
// file in its place. Later packages win. Restore reads the manifests back,
// removes everything overlay controlled and moves the originals home, so a
// deploy followed by a restore leaves the target as it was.
package overlay

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/arthur-debert/modstack/pkg/logging"
	"github.com/arthur-debert/modstack/pkg/manifest"
	"github.com/arthur-debert/modstack/pkg/paths"
	"github.com/arthur-debert/modstack/pkg/plugins"
	"github.com/rs/zerolog"
)

// Options configures an Engine
type Options struct {
	Context paths.DeploymentContext
	// FS defaults to the OS filesystem
	FS filesystem.FS
	// Linker defaults to symlinks on FS
	Linker filesystem.Linker
	// Indexer defaults to plugins.Nop
	Indexer plugins.Indexer
	// PluginExtensions defaults to plugins.DefaultExtensions
	PluginExtensions []string
}

// Engine runs deployments and restores for one DeploymentContext.
// Calls must be serialized by the caller.
type Engine struct {
	ctx        paths.DeploymentContext
	fs         filesystem.FS
	linker     filesystem.Linker
	indexer    plugins.Indexer
	pluginExts []string
	manifests  *manifest.Store
	logger     zerolog.Logger
}

// NewEngine creates an engine
func NewEngine(opts Options) (*Engine, error) {
	if opts.Context.TargetRoot() == "" {
		return nil, errors.New(errors.ErrInvalidInput, "deployment context is not set")
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	linker := opts.Linker
	if linker == nil {
		var err error
		linker, err = filesystem.NewLinker(filesystem.LinkSymlink, fsys)
		if err != nil {
			return nil, err
		}
	}

	indexer := opts.Indexer
	if indexer == nil {
		indexer = plugins.Nop{}
	}

	exts := opts.PluginExtensions
	if len(exts) == 0 {
		exts = plugins.DefaultExtensions
	}

	return &Engine{
		ctx:        opts.Context,
		fs:         fsys,
		linker:     linker,
		indexer:    indexer,
		pluginExts: exts,
		manifests:  manifest.NewStore(fsys, opts.Context),
		logger:     logging.GetLogger("overlay"),
	}, nil
}

// Context returns the engine's deployment context
func (e *Engine) Context() paths.DeploymentContext { return e.ctx }

// Manifests returns the manifest store the engine writes
func (e *Engine) Manifests() *manifest.Store { return e.manifests }

// Active reports whether a deployment is currently on disk
func (e *Engine) Active() (bool, error) {
	return e.manifests.Active()
}

// isOverlayLink reports whether the entry at abs is a symlink pointing
// into the package root
func (e *Engine) isOverlayLink(abs string) bool {
	if !filesystem.IsSymlink(e.fs, abs) {
		return false
	}
	target, err := e.fs.Readlink(abs)
	if err != nil {
		return false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(abs), target)
	}
	return paths.IsWithin(e.ctx.PackageRoot(), filepath.Clean(target))
}

// Sweep removes every overlay link below the target root and returns how
// many it removed. Other symlinks are left alone.
func (e *Engine) Sweep() (int, error) {
	logger := e.logger.With().Str("operation", "sweep").Logger()
	removed := 0

	var sweep func(dir string) error
	sweep = func(dir string) error {
		entries, err := e.fs.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			abs := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				if err := sweep(abs); err != nil {
					logger.Warn().Err(err).Str("path", abs).Msg("Cannot sweep directory")
				}
				continue
			}
			if !e.isOverlayLink(abs) {
				continue
			}
			if err := e.fs.Remove(abs); err != nil {
				logger.Warn().Err(err).Str("path", abs).Msg("Cannot remove stray overlay link")
				continue
			}
			logger.Debug().Str("path", abs).Msg("Removed stray overlay link")
			removed++
		}
		return nil
	}

	if !filesystem.Exists(e.fs, e.ctx.TargetRoot()) {
		return 0, nil
	}
	if err := sweep(e.ctx.TargetRoot()); err != nil {
		return removed, errors.Wrapf(err, errors.ErrPath, "failed to sweep %s", e.ctx.TargetRoot())
	}
	return removed, nil
}

func (e *Engine) isPlugin(rel string) bool {
	return plugins.IsPlugin(rel, e.pluginExts)
}

func splitRel(rel string) []string {
	return strings.Split(rel, string(filepath.Separator))
}
