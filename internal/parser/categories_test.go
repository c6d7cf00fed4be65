package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCategory(t *testing.T) {
	c, ok := LookupCategory("/Autos-e-Pecas/Motos/")
	require.True(t, ok)
	assert.Equal(t, "autos-e-pecas/motos", c.Slug)
	assert.Equal(t, "Motos", c.Name)

	_, ok = LookupCategory("foguetes")
	assert.False(t, ok)
}

func TestCategorySlugs(t *testing.T) {
	slugs := CategorySlugs()
	assert.Contains(t, slugs, "autos-e-pecas")
	assert.Contains(t, slugs, "celulares")

	seen := make(map[string]bool)
	for _, s := range slugs {
		assert.False(t, seen[s], "duplicate slug %s", s)
		seen[s] = true
	}

	slugs[0] = "mutated"
	assert.NotEqual(t, "mutated", CategorySlugs()[0])
}

func TestRegions(t *testing.T) {
	assert.Len(t, GetRegions(), 27)
	assert.Len(t, RegionCodes(), 27)

	r, ok := LookupRegion(" sp ")
	require.True(t, ok)
	assert.Equal(t, "São Paulo", r.Name)

	_, ok = LookupRegion("XX")
	assert.False(t, ok)
}
