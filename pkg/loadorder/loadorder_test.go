package loadorder

import (
	"testing"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := "  Base  \n\n#Graphics\n~Textures\n*Old Textures\nPatch\n"

	lo, err := ParseString(input)
	require.NoError(t, err)

	assert.Equal(t, LoadOrder{
		{Name: "Base", State: Enabled},
		{Name: "Graphics", State: Separator},
		{Name: "Textures", State: Disabled, Marker: '~'},
		{Name: "Old Textures", State: Disabled, Marker: '*'},
		{Name: "Patch", State: Enabled},
	}, lo)

	assert.Equal(t, []string{"Base", "Textures", "Old Textures", "Patch"}, lo.Packages())
	assert.Equal(t, []string{"Base", "Patch"}, lo.Enabled())
	assert.Equal(t, 2, lo.Index("Textures"))
	assert.Equal(t, -1, lo.Index("Graphics"), "separators are not packages")
}

func TestFormatRoundTrip(t *testing.T) {
	input := "Base\n#Graphics\n~Textures\n*Old Textures\nPatch\n"

	lo, err := ParseString(input)
	require.NoError(t, err)
	assert.Equal(t, input, lo.Format())
}

func TestFormatUsesDefaultDisabledMarker(t *testing.T) {
	lo := LoadOrder{{Name: "New", State: Disabled}}
	assert.Equal(t, "~New\n", lo.Format())
}

func TestParse_EmptyDisabledName(t *testing.T) {
	_, err := ParseString("Base\n~  \n")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLoadOrderParse))
	assert.Equal(t, 2, errors.GetErrorDetails(err)["line"])
}

func TestPositionsSkipSeparators(t *testing.T) {
	lo, err := ParseString("#top\nA\n#mid\n~B\nC\n")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"A": 0, "B": 1, "C": 2}, lo.Positions())
}

func TestSync(t *testing.T) {
	lo, err := ParseString("#Core\nBase\nGone\n~Patch\nBase\n")
	require.NoError(t, err)

	synced, report := Sync(lo, []string{"Zeta", "Base", "Patch", "Alpha"})

	assert.Equal(t, "#Core\nBase\n~Patch\n~Alpha\n~Zeta\n", synced.Format())
	assert.Equal(t, []string{"Gone"}, report.Pruned)
	assert.Equal(t, []string{"Base"}, report.Duplicates)
	assert.Equal(t, []string{"Alpha", "Zeta"}, report.Added)
	assert.True(t, report.Changed())

	again, report := Sync(synced, []string{"Zeta", "Base", "Patch", "Alpha"})
	assert.Equal(t, synced, again)
	assert.False(t, report.Changed())
}
