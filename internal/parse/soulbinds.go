package parse

import (
	"context"
	"sort"

	"github.com/herotc/hero-dbc-parser/internal/logging"
	"github.com/herotc/hero-dbc-parser/internal/output"
)

type soulbindAbility struct {
	ConduitType int    `json:"soulbindAbilityConduitType,omitempty"`
	AbilityID   int    `json:"soulbindAbilityId"`
	Name        string `json:"soulbindAbilityName"`
	Prereq      int    `json:"soulbindAbilityPrereq,omitempty"`
	SpellID     int    `json:"soulbindAbilitySpellId,omitempty"`
}

type soulbind struct {
	SoulbindID int                             `json:"soulbindId"`
	Name       string                          `json:"soulbindName"`
	Tree       map[int]map[int]soulbindAbility `json:"soulbindTree"`
	TreeID     int                             `json:"soulbindTreeID"`
}

type covenant struct {
	CovenantID int        `json:"covenantId"`
	Name       string     `json:"covenantName"`
	Soulbinds  []soulbind `json:"soulbinds"`
}

func init() {
	Register(Unit{
		Name:   "soulbinds",
		Group:  "covenant",
		Inputs: []string{"SpellName", "GarrTalentRank", "GarrTalent", "Soulbind", "Covenant"},
		Run:    runSoulbinds,
	})
}

func runSoulbinds(ctx context.Context, env Env) error {
	log := logging.FromContext(ctx)

	names, err := loadSpellNames(ctx, env)
	if err != nil {
		return err
	}

	rankRows, err := readTable(ctx, env, "GarrTalentRank", "id_parent", "id_spell")
	if err != nil {
		return err
	}
	// Talent ID -> spell ID, later ranks overwrite earlier ones.
	treeSpells := make(map[int]int, len(rankRows))
	for _, row := range rankRows {
		talentID, err := row.Int("id_parent")
		if err != nil || talentID <= 0 {
			continue
		}
		spellID, err := row.Int("id_spell")
		if err != nil || spellID <= 0 {
			continue
		}
		treeSpells[talentID] = spellID
	}

	talentRows, err := readTable(ctx, env, "GarrTalent",
		"id", "name", "id_garr_talent_tree", "conduit_type", "id_garr_talent_prereq", "tier", "ui_order")
	if err != nil {
		return err
	}
	// Tree -> tier -> UI order.
	trees := make(map[int]map[int]map[int]soulbindAbility)
	for _, row := range talentRows {
		talentID, err := row.Int("id")
		if err != nil || talentID <= 0 {
			continue
		}
		treeID, err := row.Int("id_garr_talent_tree")
		if err != nil || treeID <= 0 {
			continue
		}
		tier, _ := row.Int("tier")
		uiOrder, _ := row.Int("ui_order")

		ability := soulbindAbility{
			AbilityID: talentID,
			Name:      row.Str("name"),
		}
		if spellID, ok := treeSpells[talentID]; ok {
			ability.SpellID = spellID
			if names.Known(spellID) {
				ability.Name = names.Name(spellID)
			}
		}
		if conduitType, err := row.Int("conduit_type"); err == nil && conduitType > 0 {
			ability.ConduitType = conduitType
		}
		if prereq, err := row.Int("id_garr_talent_prereq"); err == nil && prereq > 0 {
			ability.Prereq = prereq
		}

		if trees[treeID] == nil {
			trees[treeID] = make(map[int]map[int]soulbindAbility)
		}
		if trees[treeID][tier] == nil {
			trees[treeID][tier] = make(map[int]soulbindAbility)
		}
		trees[treeID][tier][uiOrder] = ability
	}

	soulbindRows, err := readTable(ctx, env, "Soulbind", "id", "name", "id_covenant", "id_garr_talent_tree")
	if err != nil {
		return err
	}
	soulbinds := make([]soulbind, 0, len(soulbindRows))
	covenantOf := make(map[int]int, len(soulbindRows))
	for _, row := range soulbindRows {
		soulbindID, err := row.Int("id")
		if err != nil {
			continue
		}
		treeID, err := row.Int("id_garr_talent_tree")
		if err != nil {
			continue
		}
		tree := trees[treeID]
		if tree == nil {
			tree = map[int]map[int]soulbindAbility{}
		}
		soulbinds = append(soulbinds, soulbind{
			SoulbindID: soulbindID,
			Name:       row.Str("name"),
			Tree:       tree,
			TreeID:     treeID,
		})
		if covenantID, err := row.Int("id_covenant"); err == nil && soulbindID > 0 && covenantID > 0 {
			covenantOf[soulbindID] = covenantID
		}
	}
	sort.SliceStable(soulbinds, func(i, j int) bool { return soulbinds[i].SoulbindID < soulbinds[j].SoulbindID })

	byCovenant := make(map[int][]soulbind)
	for _, sb := range soulbinds {
		if covenantID, ok := covenantOf[sb.SoulbindID]; ok {
			byCovenant[covenantID] = append(byCovenant[covenantID], sb)
		}
	}

	covenantRows, err := readTable(ctx, env, "Covenant", "id", "name")
	if err != nil {
		return err
	}
	covenants := make([]covenant, 0, len(covenantRows))
	for _, row := range covenantRows {
		covenantID, err := row.Int("id")
		if err != nil {
			continue
		}
		members := byCovenant[covenantID]
		if members == nil {
			members = []soulbind{}
		}
		covenants = append(covenants, covenant{
			CovenantID: covenantID,
			Name:       row.Str("name"),
			Soulbinds:  members,
		})
	}
	sort.SliceStable(covenants, func(i, j int) bool { return covenants[i].CovenantID < covenants[j].CovenantID })

	if err := output.WriteJSON(env.ParsedFile("Soulbinds.json"), covenants); err != nil {
		return err
	}

	log.Info("soulbind data written", "covenants", len(covenants), "soulbinds", len(soulbinds))
	return nil
}
