package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTickTime(t *testing.T) {
	env := testEnv(t)
	writeCSV(t, env, "SpellEffect",
		"id_parent,amplitude,id_mechanic\n"+
			"300,0,0\n"+ // no periodic component, skipped
			"300,3000,0\n"+ // first periodic effect wins
			"300,1000,0\n"+ // later effect ignored
			"200,2000,15\n"+ // static tick mechanic
			"400,500,7\n")

	require.NoError(t, runTickTime(context.Background(), env))

	got := readOutput(t, env.AddonFile("SpellTickTime.lua"))
	assert.Contains(t, got, "SpellTickTime[300] = { 3000, true }")
	assert.NotContains(t, got, "{ 1000,")
	assert.Contains(t, got, "SpellTickTime[200] = { 2000, false }")
	assert.Contains(t, got, "SpellTickTime[400] = { 500, true }")
	// Sorted by spell ID regardless of table order.
	assert.Less(t,
		indexOf(t, got, "SpellTickTime[200]"),
		indexOf(t, got, "SpellTickTime[300]"),
	)
}
