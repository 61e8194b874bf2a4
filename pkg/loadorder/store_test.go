// TEST TYPE: Unit Tests
// DEPENDENCIES: afero MemMapFs
// PURPOSE: Store persistence, mutation flag, change notifications and edits
package loadorder

import (
	"sync"
	"testing"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T, content string, packages ...string) (*Store, filesystem.FS) {
	t.Helper()
	fsys := filesystem.NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fsys.MkdirAll("/data/packages", 0755))
	for _, p := range packages {
		require.NoError(t, fsys.MkdirAll("/data/packages/"+p, 0755))
	}
	if content != "" {
		require.NoError(t, fsys.WriteFile("/data/load_order.txt", []byte(content), 0644))
	}
	return NewStore(fsys, "/data/load_order.txt", "/data/packages"), fsys
}

func drain(s *Store) {
	select {
	case <-s.Changes():
	default:
	}
}

func TestStore_LoadAndSave(t *testing.T) {
	store, fsys := setupStore(t, "Base\n~Patch\nMissing\n", "Base", "Patch", "New")

	report, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Missing"}, report.Pruned)
	assert.Equal(t, []string{"New"}, report.Added)

	snap := store.Snapshot()
	assert.Equal(t, []string{"Base", "Patch", "New"}, snap.Order.Packages())
	assert.Equal(t, uint64(1), snap.Version)
	assert.False(t, snap.InProgress)

	require.NoError(t, store.Save())
	data, err := fsys.ReadFile("/data/load_order.txt")
	require.NoError(t, err)
	assert.Equal(t, "Base\n~Patch\n~New\n", string(data))
}

func TestStore_UnwritableNamesAreNotListed(t *testing.T) {
	store, fsys := setupStore(t, "", "Foo ", " Lead", "Bar")

	_, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Bar"}, store.Snapshot().Order.Packages())
	require.NoError(t, store.Enable("Bar"))
	require.NoError(t, store.Save())

	reloaded := NewStore(fsys, "/data/load_order.txt", "/data/packages")
	report, err := reloaded.Load()
	require.NoError(t, err)
	assert.False(t, report.Changed())
	assert.Equal(t, "Bar\n", reloaded.Snapshot().Order.Format())
}

func TestStore_LoadMissingFile(t *testing.T) {
	store, _ := setupStore(t, "", "A")

	report, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, report.Added)
	assert.Equal(t, "~A\n", store.Snapshot().Order.Format())
}

func TestStore_SnapshotIsIsolated(t *testing.T) {
	store, _ := setupStore(t, "A\nB\n", "A", "B")
	_, err := store.Load()
	require.NoError(t, err)

	snap := store.Snapshot()
	snap.Order[0].State = Disabled

	assert.Equal(t, Enabled, store.Snapshot().Order[0].State)
}

func TestStore_MutateNotifiesAndBumpsVersion(t *testing.T) {
	store, _ := setupStore(t, "A\nB\n", "A", "B")
	_, err := store.Load()
	require.NoError(t, err)
	drain(store)

	before := store.Snapshot().Version
	require.NoError(t, store.Disable("A"))

	select {
	case <-store.Changes():
	default:
		t.Fatal("expected a change notification")
	}
	assert.Equal(t, before+1, store.Snapshot().Version)
}

func TestStore_FailedMutationLeavesOrder(t *testing.T) {
	store, _ := setupStore(t, "A\nB\n", "A", "B")
	_, err := store.Load()
	require.NoError(t, err)
	drain(store)
	before := store.Snapshot()

	err = store.Mutate(func(lo *LoadOrder) error {
		(*lo)[0].State = Disabled
		return errors.New(errors.ErrInternal, "boom")
	})
	require.Error(t, err)

	after := store.Snapshot()
	assert.Equal(t, before, after)
	select {
	case <-store.Changes():
		t.Fatal("no notification expected for a failed mutation")
	default:
	}
}

func TestStore_BracketedMutation(t *testing.T) {
	store, _ := setupStore(t, "A\nB\n", "A", "B")
	_, err := store.Load()
	require.NoError(t, err)
	drain(store)

	store.BeginMutation()
	assert.True(t, store.Snapshot().InProgress)

	require.NoError(t, store.Disable("A"))
	require.NoError(t, store.Move("A", 5))
	select {
	case <-store.Changes():
		t.Fatal("no notification while the bracket is open")
	default:
	}

	store.EndMutation()
	snap := store.Snapshot()
	assert.False(t, snap.InProgress)
	assert.Equal(t, "B\n~A\n", snap.Order.Format())
	select {
	case <-store.Changes():
	default:
		t.Fatal("expected a notification after EndMutation")
	}
}

func TestStore_Edits(t *testing.T) {
	store, _ := setupStore(t, "A\nB\nC\n", "A", "B", "C")
	_, err := store.Load()
	require.NoError(t, err)

	require.NoError(t, store.Move("C", 0))
	assert.Equal(t, "C\nA\nB\n", store.Snapshot().Order.Format())

	require.NoError(t, store.AddSeparator("Patches", 2))
	require.NoError(t, store.AddSeparator("End", -1))
	assert.Equal(t, "C\nA\n#Patches\nB\n#End\n", store.Snapshot().Order.Format())

	require.NoError(t, store.Rename("B", "B2"))
	require.NoError(t, store.Disable("A"))
	require.NoError(t, store.Remove("C"))
	require.NoError(t, store.Append("D", Enabled))
	assert.Equal(t, "~A\n#Patches\nB2\n#End\nD\n", store.Snapshot().Order.Format())

	err = store.Enable("nope")
	assert.True(t, errors.IsErrorCode(err, errors.ErrPackageNotFound))

	err = store.Rename("A", "B2")
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	err = store.Append("D", Disabled)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	err = store.Move("A", -1)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestStore_ConcurrentSnapshotsDuringMutation(t *testing.T) {
	store, _ := setupStore(t, "A\nB\nC\n", "A", "B", "C")
	_, err := store.Load()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap := store.Snapshot()
				assert.Len(t, snap.Order.Packages(), 3)
			}
		}()
	}
	for j := 0; j < 100; j++ {
		require.NoError(t, store.Move("A", j%3))
	}
	wg.Wait()
}
