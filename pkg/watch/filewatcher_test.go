// TEST TYPE: Integration Tests
// DEPENDENCIES: real filesystem, fsnotify
// PURPOSE: External edits of the load order file and package directories reach the store
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/modstack/pkg/conflicts"
	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/arthur-debert/modstack/pkg/loadorder"
	"github.com/arthur-debert/modstack/pkg/logging"
	"github.com/arthur-debert/modstack/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOnDisk(t *testing.T, content string, packages ...string) (*loadorder.Store, string, string) {
	t.Helper()
	base := testutil.TempDir(t)
	pkgRoot := filepath.Join(base, "packages")
	for _, p := range packages {
		testutil.CreateDir(t, pkgRoot, p)
	}
	testutil.CreateFile(t, base, "load_order.txt", content)

	path := filepath.Join(base, "load_order.txt")
	store := loadorder.NewStore(filesystem.NewOS(), path, pkgRoot)
	_, err := store.Load()
	require.NoError(t, err)
	return store, path, pkgRoot
}

func TestFileWatcher_PicksUpEdits(t *testing.T) {
	store, path, pkgRoot := setupOnDisk(t, "A\nB\n", "A", "B")

	reloads := make(chan loadorder.SyncReport, 10)
	fw, err := NewFileWatcher(filesystem.NewOS(), store, FileWatcherOptions{
		PackageRoot: pkgRoot,
		Debounce:    20 * time.Millisecond,
		OnReload: func(r loadorder.SyncReport) {
			select {
			case reloads <- r:
			default:
			}
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- fw.Run(ctx) }()

	require.NoError(t, os.WriteFile(path, []byte("B\n~A\n"), 0644))
	require.Eventually(t, func() bool {
		order := store.Snapshot().Order
		return len(order) == 2 && order[0].Name == "B" && order[1].State == loadorder.Disabled
	}, 5*time.Second, 10*time.Millisecond)

	testutil.CreateDir(t, pkgRoot, "C")
	require.Eventually(t, func() bool {
		return store.Snapshot().Order.Index("C") == 2
	}, 5*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && string(data) == "B\n~A\n~C\n"
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("file watcher did not stop")
	}
	assert.NotEmpty(t, reloads)
}

func TestFileWatcher_ReloadSkipsOwnWrites(t *testing.T) {
	store, path, pkgRoot := setupOnDisk(t, "A\nB\n", "A", "B")
	require.NoError(t, store.Save())

	var calls int
	fw := &FileWatcher{
		fs:          filesystem.NewOS(),
		store:       store,
		path:        path,
		packageRoot: pkgRoot,
		onReload:    func(loadorder.SyncReport) { calls++ },
		logger:      logging.GetLogger("test"),
	}

	before := store.Snapshot().Version
	require.NoError(t, fw.Reload())
	assert.Equal(t, 0, calls)
	assert.Equal(t, before+1, store.Snapshot().Version, "sync runs as one mutation")

	require.NoError(t, os.WriteFile(path, []byte("B\nA\n"), 0644))
	require.NoError(t, fw.Reload())
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"B", "A"}, store.Snapshot().Order.Packages())
}

func TestNewFileWatcher_MissingDirectory(t *testing.T) {
	base := testutil.TempDir(t)
	store := loadorder.NewStore(filesystem.NewOS(), filepath.Join(base, "nope", "load_order.txt"), base)

	_, err := NewFileWatcher(filesystem.NewOS(), store, FileWatcherOptions{})
	require.Error(t, err)
}

func TestFileWatcher_ReportsPackageContentChanges(t *testing.T) {
	store, path, pkgRoot := setupOnDisk(t, "A\nC\n", "A", "C")
	testutil.CreateFile(t, pkgRoot, "A/shared.txt", "a")
	testutil.CreateFile(t, pkgRoot, "C/meshes/rock.nif", "c")
	<-store.Changes()

	engine := conflicts.NewEngine(conflicts.NewScanner(afero.NewOsFs(), pkgRoot, nil, 2))
	w := NewWorker(store, engine, WorkerOptions{Debounce: 10 * time.Millisecond})

	var mu sync.Mutex
	var reported [][]string
	fw, err := NewFileWatcher(filesystem.NewOS(), store, FileWatcherOptions{
		PackageRoot: pkgRoot,
		Debounce:    20 * time.Millisecond,
		OnPackagesChanged: func(names []string) {
			mu.Lock()
			reported = append(reported, names)
			mu.Unlock()
			w.MarkChanged(names...)
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()
	go func() { _ = fw.Run(ctx) }()

	require.Eventually(t, func() bool { return w.Latest() != nil }, 5*time.Second, 10*time.Millisecond)
	assert.Empty(t, w.Latest().Graph.OverriddenBy["A"])

	// a file added below an existing subdirectory of C
	testutil.CreateFile(t, pkgRoot, "C/meshes/extra.nif", "c")
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reported) > 0
	}, 5*time.Second, 10*time.Millisecond)
	mu.Lock()
	assert.Equal(t, []string{"C"}, reported[0])
	mu.Unlock()

	// C now overrides A
	testutil.CreateFile(t, pkgRoot, "C/shared.txt", "c")
	require.Eventually(t, func() bool {
		r := w.Latest()
		return len(overriders(r, "A")) == 1 && overriders(r, "A")[0] == "C"
	}, 5*time.Second, 10*time.Millisecond)

	// content edits leave the load order file alone
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A\nC\n", string(data))
}

func TestFileWatcher_PackageOf(t *testing.T) {
	fw := &FileWatcher{packageRoot: filepath.Join("/data", "packages")}

	tests := []struct {
		path   string
		want   string
		inside bool
	}{
		{"/data/packages/A/file.txt", "A", true},
		{"/data/packages/A/sub/deep/file.txt", "A", true},
		{"/data/packages/A", "", false},
		{"/data/packages", "", false},
		{"/data/packages/.cache/file", "", false},
		{"/data/load_order.txt", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := fw.packageOf(filepath.FromSlash(tt.path))
			assert.Equal(t, tt.inside, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
