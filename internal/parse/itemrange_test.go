package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunItemRange(t *testing.T) {
	env := testEnv(t)
	writeCSV(t, env, "ItemEffect",
		"id,id_spell\n"+
			"9001,800\n"+
			"9002,801\n"+
			"9003,802\n")
	writeCSV(t, env, "SpellRange",
		"id,min_range_1,max_range_1,min_range_2,max_range_2,flag\n"+
			"1,0,5,0,0,1\n"+ // melee, boundary minimum
			"2,0,40,0,0,0\n"+ // ranged
			"3,0,4.999,0,0,0\n"+ // below the minimum, dropped
			"4,0,100.001,0,50,0\n"+ // hostile pair too long, friendly pair valid
			"5,2,40,0,0,0\n") // nonzero minimum, dropped
	writeCSV(t, env, "SpellMisc",
		"id_parent,id_range\n"+
			"800,1\n"+
			"801,2\n"+
			"802,4\n")

	require.NoError(t, runItemRange(context.Background(), env))

	got := readOutput(t, env.AddonDevFile("ItemRange.lua"))
	assert.Contains(t, got, "ItemRange['Melee'] = {")
	assert.Contains(t, got, "ItemRange['Ranged'] = {")
	assert.Contains(t, got, "[5] = {")
	assert.Contains(t, got, "9001,")
	assert.Contains(t, got, "[40] = {")
	assert.Contains(t, got, "9002,")
	assert.Contains(t, got, "[50] = {")
	assert.Contains(t, got, "9003,")
	assert.Contains(t, got, "HeroDBC.DBC.ItemRangeUnfiltered = ItemRange")
	assert.Contains(t, got, "setmetatable(ItemRange.Melee, nil)")
}

func TestRunItemRange_RangeLimits(t *testing.T) {
	env := testEnv(t)
	writeCSV(t, env, "ItemEffect", "id,id_spell\n9001,800\n")
	writeCSV(t, env, "SpellRange",
		"id,min_range_1,max_range_1,min_range_2,max_range_2,flag\n"+
			"1,0,100,0,0,0\n") // boundary maximum kept
	writeCSV(t, env, "SpellMisc", "id_parent,id_range\n800,1\n")

	require.NoError(t, runItemRange(context.Background(), env))

	got := readOutput(t, env.AddonDevFile("ItemRange.lua"))
	assert.Contains(t, got, "[100] = {")
}
