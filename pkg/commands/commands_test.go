// TEST TYPE: Integration Tests
// DEPENDENCIES: real filesystem (temp dirs)
// PURPOSE: Commands wired from configuration, end to end through the engines
package commands

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/modstack/pkg/config"
	"github.com/arthur-debert/modstack/pkg/conflicts"
	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/loadorder"
	"github.com/arthur-debert/modstack/pkg/manifest"
	"github.com/arthur-debert/modstack/pkg/queue"
	"github.com/arthur-debert/modstack/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	base     string
	packages string
	target   string
	order    string
	cfg      *config.Config
}

func newFixture(t *testing.T, order string) *fixture {
	t.Helper()
	base := testutil.TempDir(t)
	f := &fixture{
		base:     base,
		packages: filepath.Join(base, "packages"),
		target:   filepath.Join(base, "game", "Data"),
		order:    filepath.Join(base, "state", "load_order.txt"),
	}

	testutil.CreateFile(t, f.packages, "Base/meshes/rock.nif", "base rock")
	testutil.CreateFile(t, f.packages, "Base/Base.esp", "base plugin")
	testutil.CreateFile(t, f.packages, "Patch/meshes/rock.nif", "patch rock")
	testutil.CreateFile(t, f.target, "meshes/rock.nif", "vanilla rock")
	testutil.CreateFile(t, f.target, "Skyrim.esm", "master")
	if order != "" {
		testutil.CreateFile(t, filepath.Dir(f.order), filepath.Base(f.order), order)
	}

	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Paths.Packages = f.packages
	cfg.Paths.Target = f.target
	cfg.Paths.Backup = filepath.Join(base, "state", "backup")
	cfg.Paths.LoadOrder = f.order
	cfg.Plugins.IndexFile = filepath.Join(base, "state", "plugins.txt")
	cfg.Queue.Settle = 20 * time.Millisecond
	cfg.Watch.Debounce = 50 * time.Millisecond
	f.cfg = cfg
	return f
}

func (f *fixture) app(t *testing.T) *App {
	t.Helper()
	app, err := New(Options{Config: f.cfg})
	require.NoError(t, err)
	return app
}

func TestNew_SyncsLoadOrder(t *testing.T) {
	f := newFixture(t, "Base\nGone\n")
	app := f.app(t)

	assert.Equal(t, []string{"Gone"}, app.Synced.Pruned)
	assert.Equal(t, []string{"Patch"}, app.Synced.Added)
	testutil.AssertFileContent(t, f.order, "Base\n~Patch\n")
}

func TestNew_RequiresTarget(t *testing.T) {
	f := newFixture(t, "")
	f.cfg.Paths.Target = ""

	_, err := New(Options{Config: f.cfg})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestDeployStatusRestore(t *testing.T) {
	f := newFixture(t, "Base\nPatch\n")
	app := f.app(t)
	ctx := context.Background()

	before := testutil.SnapshotTree(t, f.target)

	st, err := app.Status()
	require.NoError(t, err)
	assert.False(t, st.Active)
	assert.Equal(t, manifest.Absent, st.State)
	assert.Equal(t, 2, st.Enabled)

	res, err := app.Deploy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Packages)
	assert.Equal(t, []string{"Base.esp"}, res.Plugins)
	testutil.AssertFileContent(t, filepath.Join(f.target, "meshes", "rock.nif"), "patch rock")
	testutil.AssertFileContent(t, f.cfg.Plugins.IndexFile, "*Base.esp\n")

	st, err = app.Status()
	require.NoError(t, err)
	assert.True(t, st.Active)
	assert.Equal(t, len(res.CopyManifest), st.Copied)
	assert.Equal(t, 1, st.BackedUp)

	restored, err := app.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Restored)
	assert.Equal(t, before, testutil.SnapshotTree(t, f.target))

	again, err := app.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, again.NothingToRestore)
}

func TestEditOrder(t *testing.T) {
	f := newFixture(t, "Base\n~Patch\n")
	app := f.app(t)

	require.NoError(t, app.EditOrder(Enable("Patch"), Move("Patch", 0), AddSeparator("Fixes", 1)))
	testutil.AssertFileContent(t, f.order, "Patch\n#Fixes\nBase\n")

	err := app.EditOrder(Disable("Base"), Enable("Missing"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPackageNotFound))
	testutil.AssertFileContent(t, f.order, "Patch\n#Fixes\nBase\n")
	assert.Equal(t, loadorder.Enabled, app.Store.Snapshot().Order[2].State, "failed edit rolled back")
	assert.False(t, app.Store.Snapshot().InProgress)
}

func TestSyncOrder(t *testing.T) {
	f := newFixture(t, "Base\nPatch\n")
	app := f.app(t)

	testutil.CreateDir(t, f.packages, "Late")
	report, err := app.SyncOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"Late"}, report.Added)
	testutil.AssertFileContent(t, f.order, "Base\nPatch\n~Late\n")
}

func TestPackageCommands_RedeployWhenActive(t *testing.T) {
	f := newFixture(t, "Base\n")
	app := f.app(t)
	ctx := context.Background()

	src := filepath.Join(f.base, "downloads", "Trees")
	testutil.CreateFile(t, src, "meshes/tree.nif", "tree")

	// nothing deployed: no re-deploy
	res, err := app.Install(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, "Trees", res.Name)
	assert.Nil(t, res.Redeploy)
	testutil.AssertNoFile(t, filepath.Join(f.target, "meshes", "tree.nif"))

	_, err = app.Deploy(ctx)
	require.NoError(t, err)
	testutil.AssertFileContent(t, filepath.Join(f.target, "meshes", "tree.nif"), "tree")

	res, err = app.Rename(ctx, "Trees", "Forest")
	require.NoError(t, err)
	require.NotNil(t, res.Redeploy)
	testutil.AssertFileContent(t, filepath.Join(f.target, "meshes", "tree.nif"), "tree")
	assert.Equal(t, []string{"Base", "Patch", "Forest"}, app.Store.Snapshot().Order.Packages())

	res, err = app.Remove(ctx, "Forest")
	require.NoError(t, err)
	require.NotNil(t, res.Redeploy)
	testutil.AssertNoFile(t, filepath.Join(f.target, "meshes", "tree.nif"))

	f.cfg.Deploy.ReloadOnChange = false
	_, err = app.Install(ctx, src)
	require.NoError(t, err)
	testutil.AssertNoFile(t, filepath.Join(f.target, "meshes", "tree.nif"))
}

func TestConflicts(t *testing.T) {
	f := newFixture(t, "Base\nPatch\n")
	app := f.app(t)

	res, err := app.Conflicts(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Graph.OverriddenBy["Base"], 1)
	assert.Equal(t, conflicts.Edge{Package: "Patch", Files: []string{"meshes/rock.nif"}}, res.Graph.OverriddenBy["Base"][0])
}

func TestWatch_DeploysOnEdit(t *testing.T) {
	f := newFixture(t, "Base\n~Patch\n")
	app := f.app(t)
	_, err := app.Deploy(context.Background())
	require.NoError(t, err)
	testutil.AssertFileContent(t, filepath.Join(f.target, "meshes", "rock.nif"), "base rock")

	var mu sync.Mutex
	var results []*conflicts.Result
	var outcomes []queue.Outcome

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.Watch(ctx, WatchOptions{
			Deploy: true,
			OnConflicts: func(r *conflicts.Result) {
				mu.Lock()
				results = append(results, r)
				mu.Unlock()
			},
			OnCommand: func(o queue.Outcome) {
				mu.Lock()
				outcomes = append(outcomes, o)
				mu.Unlock()
			},
		})
	}()

	// initial computation
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(results) > 0
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(f.order, []byte("Base\nPatch\n"), 0644))

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(filepath.Join(f.target, "meshes", "rock.nif"))
		return err == nil && string(data) == "patch rock"
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, outcomes)
	assert.Equal(t, ReloadKey, outcomes[0].Key)
	assert.NoError(t, outcomes[0].Err)
}
