package parse

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTalents(t *testing.T) {
	env := testEnv(t)
	writeCSV(t, env, "SpellName",
		"id,name\n"+
			"700,Shadow Word: Pain\n"+
			"701,Mind Blast\n")
	writeCSV(t, env, "Talent",
		"id,id_spell,class_id,spec_id,row,col\n"+
			"1,700,5,258,0,0\n"+
			"2,701,5,258,0,1\n"+
			"3,0,5,258,1,0\n"+ // no spell, skipped
			"4,702,0,258,1,1\n"+ // no class, skipped
			"5,703,5,0,2,0\n") // unnamed spell gets a placeholder

	require.NoError(t, runTalents(context.Background(), env))

	var tree map[string]map[string]map[string]map[string]struct {
		SpellID   int    `json:"spellId"`
		SpellName string `json:"spellName"`
		TalentID  int    `json:"talentId"`
	}
	raw := readOutput(t, env.ParsedFile("Talent.json"))
	require.NoError(t, json.Unmarshal([]byte(raw), &tree))

	first := tree["5"]["258"]["0"]["0"]
	assert.Equal(t, 700, first.SpellID)
	assert.Equal(t, "Shadow Word: Pain", first.SpellName)
	assert.Equal(t, 1, first.TalentID)

	assert.Equal(t, "Mind Blast", tree["5"]["258"]["0"]["1"].SpellName)
	assert.Equal(t, "Unknown_703", tree["5"]["0"]["2"]["0"].SpellName)

	// Skipped rows never create branches.
	assert.NotContains(t, tree["5"]["258"], "1")
	assert.NotContains(t, tree, "0")
}

func TestSpellNamesResolution(t *testing.T) {
	names := SpellNames{700: "Known Spell"}
	assert.Equal(t, "Known Spell", names.Name(700))
	assert.Equal(t, "Unknown_9999", names.Name(9999))
	assert.Equal(t, "Deprecated Spell", names.Name(152173))
	assert.True(t, names.Known(700))
	assert.False(t, names.Known(152173))
}
