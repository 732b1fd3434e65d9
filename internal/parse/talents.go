package parse

import (
	"context"
	"strconv"
	"strings"

	"github.com/herotc/hero-dbc-parser/internal/dbc"
	"github.com/herotc/hero-dbc-parser/internal/logging"
	"github.com/herotc/hero-dbc-parser/internal/output"
)

type talentData struct {
	SpellID   int    `json:"spellId"`
	SpellName string `json:"spellName"`
	TalentID  int    `json:"talentId"`
}

func init() {
	Register(Unit{
		Name:   "talents",
		Group:  "spell",
		Inputs: []string{"Talent", "SpellName"},
		Run:    runTalents,
	})
}

func runTalents(ctx context.Context, env Env) error {
	log := logging.FromContext(ctx)

	names, err := loadSpellNames(ctx, env)
	if err != nil {
		return err
	}

	rows, err := readTable(ctx, env, "Talent",
		"id", "id_spell", "class_id", "spec_id", "row", "col")
	if err != nil {
		return err
	}

	// Class -> spec -> row -> column, keyed as strings for stable output.
	talents := dbc.NewTree()
	processed := 0
	missing := 0
	for _, row := range rows {
		spellID, err := row.Int("id_spell")
		if err != nil || spellID == 0 {
			continue
		}
		classID, err := row.Int("class_id")
		if err != nil || classID == 0 {
			continue
		}
		talentID, _ := row.Int("id")
		specID, _ := row.Int("spec_id")
		talentRow, _ := row.Int("row")
		talentCol, _ := row.Int("col")

		name := names.Name(spellID)
		if strings.HasPrefix(name, "Unknown_") {
			missing++
		}
		talents.Put(talentData{
			SpellID:   spellID,
			SpellName: name,
			TalentID:  talentID,
		},
			strconv.Itoa(classID),
			strconv.Itoa(specID),
			strconv.Itoa(talentRow),
			strconv.Itoa(talentCol),
		)
		processed++
	}

	if err := output.WriteJSON(env.ParsedFile("Talent.json"), talents); err != nil {
		return err
	}

	log.Info("talent tree written", "talents", processed, "missing_names", missing)
	return nil
}
