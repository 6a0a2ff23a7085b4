package brain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_TerminalCellPresent(t *testing.T) {
	r := NewRegistry(false)

	assert.True(t, r.Contains(TerminalCellName))

	c, err := r.Lookup(TerminalCellName)
	require.NoError(t, err)
	assert.Equal(t, TerminalCellName, c.CellType())
}

func TestRegistry_Add_ExplicitName(t *testing.T) {
	r := NewRegistry(false)

	name, err := r.Add(&stubCell{typ: "stub", name: "custom"})
	require.NoError(t, err)
	assert.Equal(t, "custom", name)
	assert.True(t, r.Contains("custom"))
}

func TestRegistry_Add_DefaultNames(t *testing.T) {
	r := NewRegistry(false)

	first, err := r.Add(&stubCell{typ: "stub"})
	require.NoError(t, err)
	assert.Equal(t, "stub/0", first)

	second, err := r.Add(&stubCell{typ: "stub"})
	require.NoError(t, err)
	assert.Equal(t, "stub/1", second, "ordinal should count prior instances of the type")

	// A different type tag gets its own counter.
	other, err := r.Add(&stubCell{typ: "other"})
	require.NoError(t, err)
	assert.Equal(t, "other/0", other)
}

func TestRegistry_Add_DuplicateExplicit(t *testing.T) {
	r := NewRegistry(false)

	_, err := r.Add(&stubCell{typ: "stub", name: "twin"})
	require.NoError(t, err)

	_, err = r.Add(&stubCell{typ: "stub", name: "twin"})
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))
}

func TestRegistry_Add_ExplicitCollidesWithDerived(t *testing.T) {
	r := NewRegistry(false)

	_, err := r.Add(&stubCell{typ: "stub"}) // registers as stub/0
	require.NoError(t, err)

	_, err = r.Add(&stubCell{typ: "other", name: "stub/0"})
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))
}

func TestRegistry_Add_ExplicitNameDoesNotConsumeOrdinal(t *testing.T) {
	r := NewRegistry(false)

	// Explicit names never advance the per-type counter.
	_, err := r.Add(&stubCell{typ: "stub", name: "custom"})
	require.NoError(t, err)

	derived, err := r.Add(&stubCell{typ: "stub"})
	require.NoError(t, err)
	assert.Equal(t, "stub/0", derived)
}

func TestRegistry_Add_FailedAddDoesNotConsumeOrdinal(t *testing.T) {
	r := NewRegistry(false)

	_, err := r.Add(&stubCell{typ: "stub"}) // stub/0
	require.NoError(t, err)

	// A failed registration leaves the counter untouched.
	_, err = r.Add(&stubCell{typ: "other", name: "fixed"})
	require.NoError(t, err)
	_, err = r.Add(&stubCell{typ: "other", name: "fixed"})
	require.Error(t, err)

	next, err := r.Add(&stubCell{typ: "other"})
	require.NoError(t, err)
	assert.Equal(t, "other/0", next)
}

func TestRegistry_Lookup_StrictMiss(t *testing.T) {
	r := NewRegistry(true)

	_, err := r.Lookup("missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestRegistry_Lookup_LenientFallback(t *testing.T) {
	r := NewRegistry(false)

	_, err := r.Add(&stubCell{typ: "stub"}) // stub/0
	require.NoError(t, err)

	// Addressing by type tag alone resolves the first unnamed instance.
	c, err := r.Lookup("stub")
	require.NoError(t, err)
	assert.Equal(t, "stub", c.CellType())
}

func TestRegistry_Lookup_LenientMissAfterRetry(t *testing.T) {
	r := NewRegistry(false)

	_, err := r.Lookup("missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestRegistry_Names_Sorted(t *testing.T) {
	r := NewRegistry(false)

	_, err := r.Add(&stubCell{typ: "zeta", name: "zeta"})
	require.NoError(t, err)
	_, err = r.Add(&stubCell{typ: "alpha", name: "alpha"})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "end", "zeta"}, r.Names())
	assert.Equal(t, 3, r.Len())
}
