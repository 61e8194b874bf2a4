// TEST TYPE: Unit Tests
// DEPENDENCIES: afero MemMapFs
// PURPOSE: Override graph computation, full and incremental
package conflicts

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modstack/pkg/loadorder"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const packageRoot = "/mods"

func writePackage(t *testing.T, fs afero.Fs, name string, files ...string) {
	t.Helper()
	dir := filepath.Join(packageRoot, name)
	require.NoError(t, fs.MkdirAll(dir, 0755))
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(name+":"+f), 0644))
	}
}

func newEngine(fs afero.Fs) *Engine {
	return NewEngine(NewScanner(fs, packageRoot, DefaultIgnore, 4))
}

func parseOrder(t *testing.T, s string) loadorder.LoadOrder {
	t.Helper()
	lo, err := loadorder.ParseString(s)
	require.NoError(t, err)
	return lo
}

func TestCompute_Scenario(t *testing.T) {
	fs := afero.NewMemMapFs()
	writePackage(t, fs, "Base", "x.txt", "y.txt")
	writePackage(t, fs, "Patch", "y.txt")

	result, err := newEngine(fs).Compute(context.Background(), parseOrder(t, "Base\nPatch\n"))
	require.NoError(t, err)

	g := result.Graph
	assert.Equal(t, []Edge{{Package: "Base", Files: []string{"y.txt"}}}, g.Overrides["Patch"])
	assert.Equal(t, []Edge{{Package: "Patch", Files: []string{"y.txt"}}}, g.OverriddenBy["Base"])
	assert.Empty(t, g.Overrides["Base"])
	assert.Empty(t, g.OverriddenBy["Patch"])
	assert.Empty(t, g.FullyOverriddenBy)
	assert.True(t, g.HasConflicts())
	assert.Equal(t, []string{"Base", "Patch"}, result.Order)
}

func TestCompute_FullOverride(t *testing.T) {
	fs := afero.NewMemMapFs()
	writePackage(t, fs, "A", "a.txt", "b.txt")
	writePackage(t, fs, "B", "a.txt", "b.txt")
	writePackage(t, fs, "C", "a.txt", "b.txt", "c.txt")

	result, err := newEngine(fs).Compute(context.Background(), parseOrder(t, "A\nB\nC\n"))
	require.NoError(t, err)

	g := result.Graph
	assert.Equal(t, map[string][]string{"A": {"B"}}, g.FullyOverriddenBy)
	assert.Equal(t, []Edge{
		{Package: "B", Files: []string{"a.txt", "b.txt"}},
		{Package: "C", Files: []string{"a.txt", "b.txt"}},
	}, g.OverriddenBy["A"])
	assert.Equal(t, []Edge{
		{Package: "A", Files: []string{"a.txt", "b.txt"}},
		{Package: "B", Files: []string{"a.txt", "b.txt"}},
	}, g.Overrides["C"])
}

func TestCompute_LaterWins(t *testing.T) {
	fs := afero.NewMemMapFs()
	writePackage(t, fs, "A", "x.txt")
	writePackage(t, fs, "B", "x.txt")

	result, err := newEngine(fs).Compute(context.Background(), parseOrder(t, "B\nA\n"))
	require.NoError(t, err)

	assert.Equal(t, "B", result.Graph.Overrides["A"][0].Package)
	assert.Equal(t, "A", result.Graph.OverriddenBy["B"][0].Package)

	winner, ok := Winner("x.txt", result.Order, result.FileSets)
	assert.True(t, ok)
	assert.Equal(t, "A", winner)

	_, ok = Winner("missing.txt", result.Order, result.FileSets)
	assert.False(t, ok)
}

func TestCompute_IgnoreListAndCase(t *testing.T) {
	fs := afero.NewMemMapFs()
	writePackage(t, fs, "A", "meta.ini", "ReadMe.txt", "Textures/Sky.dds")
	writePackage(t, fs, "B", "META.INI", "readme.txt", "textures/sky.DDS")

	result, err := newEngine(fs).Compute(context.Background(), parseOrder(t, "A\nB\n"))
	require.NoError(t, err)

	assert.Equal(t, FileSet{"textures/sky.dds": {}}, result.FileSets["A"])
	assert.Equal(t, []Edge{{Package: "A", Files: []string{"textures/sky.dds"}}}, result.Graph.Overrides["B"])
	assert.Equal(t, map[string][]string{"A": {"B"}}, result.Graph.FullyOverriddenBy)
}

func TestCompute_DisabledParticipateSeparatorsDoNot(t *testing.T) {
	fs := afero.NewMemMapFs()
	writePackage(t, fs, "A", "x.txt")
	writePackage(t, fs, "B", "x.txt")

	result, err := newEngine(fs).Compute(context.Background(), parseOrder(t, "#A\n~A\n#B\nB\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, result.Order)
	assert.Len(t, result.Graph.Overrides["B"], 1)
}

func TestCompute_MissingPackageIsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	writePackage(t, fs, "A", "x.txt")

	result, err := newEngine(fs).Compute(context.Background(), parseOrder(t, "A\nGhost\n"))
	require.NoError(t, err)
	assert.Empty(t, result.FileSets["Ghost"])
	assert.False(t, result.Graph.HasConflicts())
}

func TestCompute_EmptyPackagesDoNotFullyOverride(t *testing.T) {
	fs := afero.NewMemMapFs()
	writePackage(t, fs, "A")
	writePackage(t, fs, "B", "meta.ini")

	result, err := newEngine(fs).Compute(context.Background(), parseOrder(t, "A\nB\n"))
	require.NoError(t, err)
	assert.Empty(t, result.Graph.FullyOverriddenBy)
	assert.False(t, result.Graph.HasConflicts())
}

func TestReport(t *testing.T) {
	fs := afero.NewMemMapFs()
	writePackage(t, fs, "Base", "x.txt", "y.txt")
	writePackage(t, fs, "Alone", "z.txt")
	writePackage(t, fs, "Patch", "y.txt")

	result, err := newEngine(fs).Compute(context.Background(), parseOrder(t, "Base\nAlone\nPatch\n"))
	require.NoError(t, err)

	assert.Equal(t, []PackageReport{
		{Package: "Base", OverriddenBy: []Edge{{Package: "Patch", Files: []string{"y.txt"}}}},
		{Package: "Patch", Overrides: []Edge{{Package: "Base", Files: []string{"y.txt"}}}},
	}, result.Report())
}

func TestScanner_Cache(t *testing.T) {
	fs := afero.NewMemMapFs()
	writePackage(t, fs, "A", "x.txt")
	scanner := NewScanner(fs, packageRoot, nil, 0)

	sets, err := scanner.Sets(context.Background(), []string{"A"})
	require.NoError(t, err)
	assert.Len(t, sets["A"], 1)

	writePackage(t, fs, "A", "y.txt")
	sets, err = scanner.Sets(context.Background(), []string{"A"})
	require.NoError(t, err)
	assert.Len(t, sets["A"], 1, "cached set is reused")

	scanner.Invalidate("A")
	sets, err = scanner.Sets(context.Background(), []string{"A"})
	require.NoError(t, err)
	assert.Len(t, sets["A"], 2)
}

func TestFileSet(t *testing.T) {
	a := FileSet{"x": {}, "y": {}}
	b := FileSet{"y": {}, "z": {}}

	assert.Equal(t, []string{"x", "y"}, a.Sorted())
	assert.Equal(t, []string{"y"}, a.Intersect(b))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(FileSet{"y": {}, "x": {}}))
	assert.Equal(t, "meshes/a.nif", Key(filepath.Join("Meshes", "A.nif")))
}
