package parse

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunConduits(t *testing.T) {
	env := testEnv(t)
	writeCSV(t, env, "SpellName", "id,name\n1000,Condensed Anima Sphere\n")
	writeCSV(t, env, "SpecSetMember", "id,id_parent,id_spec\n1,7,105\n2,7,270\n")
	writeCSV(t, env, "SoulbindConduit",
		"id,id_spec_set,type\n"+
			"40,7,1\n"+
			"41,0,2\n")
	writeCSV(t, env, "SoulbindConduitRank",
		"id_parent,id_spell\n"+
			"40,1000\n"+
			"40,1000\n"+ // later rank of a processed conduit, ignored
			"41,1001\n"+ // spell name unknown, dropped
			"42,1000\n") // conduit itself unknown, dropped

	require.NoError(t, runConduits(context.Background(), env))

	var conduits []struct {
		ConduitID      int    `json:"conduitId"`
		ConduitName    string `json:"conduitName"`
		ConduitSpellID int    `json:"conduitSpellID"`
		ConduitType    int    `json:"conduitType"`
		Specs          []int  `json:"specs"`
	}
	raw := readOutput(t, env.ParsedFile("Conduits.json"))
	require.NoError(t, json.Unmarshal([]byte(raw), &conduits))

	require.Len(t, conduits, 1)
	assert.Equal(t, 40, conduits[0].ConduitID)
	assert.Equal(t, "Condensed Anima Sphere", conduits[0].ConduitName)
	assert.Equal(t, 1000, conduits[0].ConduitSpellID)
	assert.Equal(t, 1, conduits[0].ConduitType)
	assert.Equal(t, []int{105, 270}, conduits[0].Specs)

	lua := readOutput(t, env.AddonFile("SpellConduits.lua"))
	assert.Contains(t, lua, "SpellConduits[40] = 1000")
	assert.Contains(t, lua, "HeroDBC.DBC.SpellConduits = SpellConduits")
}
