package overlay

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modstack/pkg/conflicts"
	"github.com/arthur-debert/modstack/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// What ends up on disk and what the conflict report says must agree.
func TestPriorityMatchesConflictReport(t *testing.T) {
	f := newFixture(t)
	f.pkg(t, "A", testutil.FileTree{"shared.txt": "from A", "a.txt": "a", "both": testutil.FileTree{"n.nif": "A n"}})
	f.pkg(t, "B", testutil.FileTree{"shared.txt": "from B", "both": testutil.FileTree{"n.nif": "B n"}})
	f.pkg(t, "C", testutil.FileTree{"shared.txt": "from C", "c.txt": "c"})
	order := parseOrder(t, "A\nB\nC\n")

	_, err := f.engine(t).Deploy(context.Background(), order)
	require.NoError(t, err)

	engine := conflicts.NewEngine(conflicts.NewScanner(afero.NewOsFs(), f.mods, conflicts.DefaultIgnore, 2))
	result, err := engine.Compute(context.Background(), order)
	require.NoError(t, err)

	for _, rel := range []string{"shared.txt", filepath.Join("both", "n.nif")} {
		winner, ok := conflicts.Winner(conflicts.Key(rel), result.Order, result.FileSets)
		require.True(t, ok)
		testutil.AssertFileContent(t, filepath.Join(f.target, rel), testutil.ReadFile(t, filepath.Join(f.mods, winner, rel)))
	}

	overriddenByA := result.Graph.OverriddenBy["A"]
	require.Len(t, overriddenByA, 2)
	assert.Equal(t, "B", overriddenByA[0].Package)
	assert.Equal(t, []string{"both/n.nif", "shared.txt"}, overriddenByA[0].Files)
	assert.Equal(t, "C", overriddenByA[1].Package)
	assert.Equal(t, []string{"shared.txt"}, overriddenByA[1].Files)
}
