package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/arthur-debert/modstack/pkg/loadorder"
	"github.com/arthur-debert/modstack/pkg/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileWatcherOptions configures a FileWatcher
type FileWatcherOptions struct {
	// PackageRoot, when set, is watched for package directories being
	// added or removed, and for edits inside them
	PackageRoot string
	Debounce    time.Duration
	// OnReload is called after the store picked up an on-disk change
	OnReload func(loadorder.SyncReport)
	// OnPackagesChanged receives, once per settled burst, the packages
	// whose contents changed below the package root
	OnPackagesChanged func(names []string)
}

// FileWatcher reloads the store when its file is edited outside modstack,
// and reports packages whose contents changed
type FileWatcher struct {
	fs          filesystem.FS
	store       *loadorder.Store
	path        string
	packageRoot string
	debounce    time.Duration
	onReload    func(loadorder.SyncReport)
	onPackages  func([]string)
	watcher     *fsnotify.Watcher
	logger      zerolog.Logger
}

// NewFileWatcher starts watching the directory of the store's file, and the
// package root if one is given. The load order file's directory must exist.
func NewFileWatcher(fsys filesystem.FS, store *loadorder.Store, opts FileWatcherOptions) (*FileWatcher, error) {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create file watcher")
	}

	path := filepath.Clean(store.Path())
	dirs := []string{filepath.Dir(path)}
	if opts.PackageRoot != "" {
		dirs = append(dirs, filepath.Clean(opts.PackageRoot))
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, errors.Wrapf(err, errors.ErrPath, "failed to watch %s", dir).
				WithDetail("dir", dir)
		}
	}

	packageRoot := ""
	if opts.PackageRoot != "" {
		packageRoot = filepath.Clean(opts.PackageRoot)
	}

	f := &FileWatcher{
		fs:          fsys,
		store:       store,
		path:        path,
		packageRoot: packageRoot,
		debounce:    debounce,
		onReload:    opts.OnReload,
		onPackages:  opts.OnPackagesChanged,
		watcher:     watcher,
		logger:      logging.GetLogger("watch.files"),
	}

	// fsnotify is not recursive: every directory inside a package gets
	// its own watch
	if packageRoot != "" {
		entries, err := fsys.ReadDir(packageRoot)
		if err != nil {
			_ = watcher.Close()
			return nil, errors.Wrapf(err, errors.ErrPath, "failed to list %s", packageRoot)
		}
		for _, entry := range entries {
			if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
				f.watchTree(filepath.Join(packageRoot, entry.Name()))
			}
		}
	}
	return f, nil
}

// watchTree adds a watch for dir and every directory below it. Failures
// are logged; the package is then only seen when it is added or removed.
func (f *FileWatcher) watchTree(dir string) {
	if err := f.watcher.Add(dir); err != nil {
		f.logger.Warn().Err(err).Str("path", dir).Msg("Cannot watch package directory")
		return
	}
	entries, err := f.fs.ReadDir(dir)
	if err != nil {
		f.logger.Warn().Err(err).Str("path", dir).Msg("Cannot list package directory")
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			f.watchTree(filepath.Join(dir, entry.Name()))
		}
	}
}

// packageOf returns the package holding name, when name lies inside a
// package directory rather than directly under the package root
func (f *FileWatcher) packageOf(name string) (string, bool) {
	if f.packageRoot == "" {
		return "", false
	}
	rel, err := filepath.Rel(f.packageRoot, name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	parts := strings.SplitN(rel, string(filepath.Separator), 2)
	if len(parts) < 2 || strings.HasPrefix(parts[0], ".") {
		return "", false
	}
	return parts[0], true
}

// isNewDir reports whether ev created a directory worth watching
func (f *FileWatcher) isNewDir(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) || f.packageRoot == "" {
		return false
	}
	info, err := f.fs.Stat(ev.Name)
	return err == nil && info.IsDir() && !strings.HasPrefix(filepath.Base(ev.Name), ".")
}

// relevant reports whether ev concerns the load order file or a package
// directory
func (f *FileWatcher) relevant(ev fsnotify.Event) bool {
	name := filepath.Clean(ev.Name)
	if name == f.path {
		return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
	}
	if f.packageRoot != "" && filepath.Dir(name) == f.packageRoot {
		return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
	}
	return false
}

// Run processes events until ctx is done, then releases the watcher
func (f *FileWatcher) Run(ctx context.Context) error {
	defer func() { _ = f.watcher.Close() }()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	reload := false
	changed := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-f.watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if f.isNewDir(ev) {
				f.watchTree(name)
			}
			pkg, inPackage := f.packageOf(name)
			switch {
			case f.relevant(ev):
				reload = true
			case inPackage:
				changed[pkg] = true
			default:
				continue
			}
			f.logger.Trace().Str("path", ev.Name).Stringer("op", ev.Op).Msg("File event")
			if timer == nil {
				timer = time.NewTimer(f.debounce)
			} else {
				timer.Reset(f.debounce)
			}
			fire = timer.C

		case err, ok := <-f.watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn().Err(err).Msg("File watcher error")

		case <-fire:
			fire = nil
			if len(changed) > 0 {
				names := make([]string, 0, len(changed))
				for name := range changed {
					names = append(names, name)
				}
				sort.Strings(names)
				changed = make(map[string]bool)
				f.logger.Debug().Strs("packages", names).Msg("Package contents changed")
				if f.onPackages != nil {
					f.onPackages(names)
				}
			}
			if reload {
				reload = false
				if err := f.Reload(); err != nil {
					f.logger.Error().Err(err).Msg("Failed to reload load order")
				}
			}
		}
	}
}

// Reload re-reads the load order file unless it already matches the store,
// then re-syncs against the package directories. The synced order is saved
// back when syncing changed it.
func (f *FileWatcher) Reload() error {
	data, err := f.fs.ReadFile(f.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrLoadOrderParse, "failed to read %s", f.path)
	}

	var report loadorder.SyncReport
	if string(data) != f.store.Snapshot().Order.Format() {
		report, err = f.store.Load()
		if err != nil {
			return err
		}
		f.logger.Info().Str("path", f.path).Msg("Load order file changed, reloaded")
	} else {
		report, err = f.store.Sync()
		if err != nil {
			return err
		}
		if !report.Changed() {
			return nil
		}
	}

	if report.Changed() {
		if err := f.store.Save(); err != nil {
			return err
		}
	}

	if f.onReload != nil {
		f.onReload(report)
	}
	return nil
}
