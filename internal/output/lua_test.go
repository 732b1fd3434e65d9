package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLuaWriter_ScalarTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SpellGCD.lua")

	w, err := NewWriter(path, TableSpec{
		Name:    "SpellGCD",
		Default: "0",
		Comment: []string{"Auto-generated spell GCD data", "Format: [SpellID] = GCDDuration"},
	}, 500)
	require.NoError(t, err)

	w.Entry(100, Float(1.5, 3))
	w.Entry(205, Float(0, 3))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	got := string(data)

	assert.Contains(t, got, "-- Auto-generated spell GCD data\n")
	assert.Contains(t, got, "local SpellGCD = {}\n")
	assert.Contains(t, got, "SpellGCD = setmetatable({}, {__index = function() return 0 end})\n")
	assert.Contains(t, got, "SpellGCD[100] = 1.500\n")
	assert.Contains(t, got, "SpellGCD[205] = 0.000\n")
	assert.Contains(t, got, "setmetatable(SpellGCD, nil)\n")
	assert.Contains(t, got, "HeroDBC.DBC.SpellGCD = SpellGCD\n")
	assert.True(t, strings.HasSuffix(got, "return SpellGCD\n"))

	// Entries come after the metatable declaration and before the freeze.
	assert.Less(t,
		strings.Index(got, "setmetatable({}"),
		strings.Index(got, "SpellGCD[100]"),
	)
	assert.Less(t,
		strings.Index(got, "SpellGCD[205]"),
		strings.Index(got, "setmetatable(SpellGCD, nil)"),
	)
}

func TestLuaWriter_GlobalOverrideAndFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ItemRange.lua")

	w, err := NewWriter(path, TableSpec{
		Name:   "ItemRange",
		Global: "ItemRangeUnfiltered",
		Footer: []string{"setmetatable(ItemRange, nil)", ""},
	}, 500)
	require.NoError(t, err)

	w.Line("ItemRange['Melee'] = {")
	w.Line("  [5] = {")
	w.Line("    12345,")
	w.Line("  },")
	w.Line("}")
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	got := string(data)

	assert.Contains(t, got, "HeroDBC.DBC.ItemRangeUnfiltered = ItemRange\n")
	assert.Contains(t, got, "return ItemRange\n")
	assert.NotContains(t, got, "__index")

	// Footer lines land between body and global assignment.
	assert.Less(t,
		strings.LastIndex(got, "setmetatable(ItemRange, nil)"),
		strings.Index(got, "HeroDBC.DBC.ItemRangeUnfiltered"),
	)
}

func TestLuaWriter_SmallBatchKeepsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batched.lua")

	w, err := NewWriter(path, TableSpec{Name: "T", Default: "0"}, 2)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		w.Entry(i, "1")
	}
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	last := -1
	for i := 1; i <= 5; i++ {
		idx := strings.Index(string(data), "T["+string(rune('0'+i))+"] = 1")
		assert.Greater(t, idx, last, "entry %d out of order", i)
		last = idx
	}
}

func TestFloatFormatting(t *testing.T) {
	assert.Equal(t, "2.500000", Float(2.5, 6))
	assert.Equal(t, "1.333", Float(1.3333333, 3))
	assert.Equal(t, "40", FloatG(40.0))
	assert.Equal(t, "7.5", FloatG(7.5))
	assert.Equal(t, "true", Bool(true))
	assert.Equal(t, "false", Bool(false))
}
