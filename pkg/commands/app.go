package commands

import (
	"github.com/arthur-debert/modstack/pkg/config"
	"github.com/arthur-debert/modstack/pkg/conflicts"
	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/arthur-debert/modstack/pkg/installer"
	"github.com/arthur-debert/modstack/pkg/loadorder"
	"github.com/arthur-debert/modstack/pkg/logging"
	"github.com/arthur-debert/modstack/pkg/overlay"
	"github.com/arthur-debert/modstack/pkg/paths"
	"github.com/arthur-debert/modstack/pkg/plugins"
	"github.com/rs/zerolog"
)

// App holds the engines built from one configuration
type App struct {
	Config         *config.Config
	FS             filesystem.FS
	Store          *loadorder.Store
	Overlay        *overlay.Engine
	ConflictEngine *conflicts.Engine
	Packages       *installer.Packages
	// Synced is what loading reconciled against the package directories
	Synced loadorder.SyncReport

	logger zerolog.Logger
}

// Options configures New
type Options struct {
	Config *config.Config
	// FS defaults to the OS filesystem
	FS filesystem.FS
	// Installer defaults to a DirectoryInstaller on the package root
	Installer installer.Installer
}

// New builds the engines and loads the load order, saving it back when
// syncing against the package directories changed it
func New(opts Options) (*App, error) {
	cfg := opts.Config
	ctx, err := cfg.Context()
	if err != nil {
		return nil, err
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	mode, err := cfg.LinkMode()
	if err != nil {
		return nil, err
	}
	linker, err := filesystem.NewLinker(mode, fsys)
	if err != nil {
		return nil, err
	}

	var indexer plugins.Indexer = plugins.Nop{}
	if cfg.Plugins.IndexFile != "" {
		indexer = plugins.NewTextIndexer(fsys, cfg.Plugins.IndexFile, cfg.Plugins.ActivePrefix, cfg.Plugins.Header)
	}

	engine, err := overlay.NewEngine(overlay.Options{
		Context:          ctx,
		FS:               fsys,
		Linker:           linker,
		Indexer:          indexer,
		PluginExtensions: cfg.Deploy.PluginExtensions,
	})
	if err != nil {
		return nil, err
	}

	scanFS, ok := filesystem.Afero(fsys)
	if !ok {
		return nil, errors.New(errors.ErrInvalidInput, "filesystem has no afero view for scanning packages")
	}
	conflictEngine := conflicts.NewEngine(
		conflicts.NewScanner(scanFS, ctx.PackageRoot(), cfg.Conflicts.Ignore, cfg.Conflicts.Workers))

	store := loadorder.NewStore(fsys, cfg.Paths.LoadOrder, ctx.PackageRoot())

	inst := opts.Installer
	if inst == nil {
		inst = installer.NewDirectoryInstaller(fsys, ctx.PackageRoot())
	}

	app := &App{
		Config:         cfg,
		FS:             fsys,
		Store:          store,
		Overlay:        engine,
		ConflictEngine: conflictEngine,
		Packages:       installer.NewPackages(fsys, store, ctx.PackageRoot(), inst),
		logger:         logging.GetLogger("commands"),
	}

	if err := app.load(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

func (a *App) load(ctx paths.DeploymentContext) error {
	if err := a.FS.MkdirAll(ctx.PackageRoot(), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrPath, "failed to create package root %s", ctx.PackageRoot())
	}
	report, err := a.Store.Load()
	if err != nil {
		return err
	}
	a.Synced = report
	if report.Changed() {
		return a.Store.Save()
	}
	return nil
}
