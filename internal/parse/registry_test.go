package parse

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryContents(t *testing.T) {
	want := []string{
		"aurastat", "azerite", "conduits", "duration", "enchants", "gcd",
		"itemdata", "itemrange", "itemspell", "meleerange",
		"projectilespeed", "rppm", "soulbinds", "talents", "ticktime",
	}

	assert.Equal(t, len(want), Count())
	for _, name := range want {
		unit, ok := Get(name)
		require.True(t, ok, "unit %s not registered", name)
		assert.Equal(t, name, unit.Name)
		assert.NotEmpty(t, unit.Group)
		assert.NotEmpty(t, unit.Inputs)
		assert.NotNil(t, unit.Run)
	}

	_, ok := Get("nope")
	assert.False(t, ok)
}

func TestRegistryOrdering(t *testing.T) {
	all := All()
	require.Equal(t, Count(), len(all))
	sorted := sort.SliceIsSorted(all, func(i, j int) bool {
		if all[i].Group != all[j].Group {
			return all[i].Group < all[j].Group
		}
		return all[i].Name < all[j].Name
	})
	assert.True(t, sorted)

	groups := Groups()
	assert.True(t, sort.StringsAreSorted(groups))
	total := 0
	for _, g := range groups {
		units := ByGroup(g)
		assert.NotEmpty(t, units)
		total += len(units)
	}
	assert.Equal(t, Count(), total)
}
