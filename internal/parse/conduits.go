package parse

import (
	"context"
	"sort"
	"strconv"

	"github.com/herotc/hero-dbc-parser/internal/dbc"
	"github.com/herotc/hero-dbc-parser/internal/logging"
	"github.com/herotc/hero-dbc-parser/internal/output"
)

type conduit struct {
	ConduitID      int    `json:"conduitId"`
	ConduitName    string `json:"conduitName"`
	ConduitSpellID int    `json:"conduitSpellID"`
	ConduitType    int    `json:"conduitType"`
	Specs          []int  `json:"specs"`
}

func init() {
	Register(Unit{
		Name:   "conduits",
		Group:  "covenant",
		Inputs: []string{"SpellName", "SpecSetMember", "SoulbindConduit", "SoulbindConduitRank"},
		Run:    runConduits,
	})
}

func runConduits(ctx context.Context, env Env) error {
	log := logging.FromContext(ctx)

	names, err := loadSpellNames(ctx, env)
	if err != nil {
		return err
	}

	specRows, err := readTable(ctx, env, "SpecSetMember", "id", "id_parent", "id_spec")
	if err != nil {
		return err
	}
	specSets := dbc.BuildMultiLookup(specRows, "id_parent")

	conduitRows, err := readTable(ctx, env, "SoulbindConduit", "id", "id_spec_set", "type")
	if err != nil {
		return err
	}
	infos := dbc.BuildLookup(conduitRows, "id")

	rankRows, err := readTable(ctx, env, "SoulbindConduitRank", "id_parent", "id_spell")
	if err != nil {
		return err
	}

	// First rank per conduit wins; later ranks repeat the spell.
	seen := make(map[string]bool)
	conduits := make([]conduit, 0, len(infos))
	for _, row := range rankRows {
		conduitKey := row.Str("id_parent")
		spellID, err := row.Int("id_spell")
		if err != nil || spellID <= 0 || seen[conduitKey] {
			continue
		}
		if !names.Known(spellID) {
			continue
		}
		info, ok := infos[conduitKey]
		if !ok {
			continue
		}
		conduitID, err := row.Int("id_parent")
		if err != nil {
			continue
		}
		kind, err := info.Int("type")
		if err != nil {
			continue
		}
		specs := []int{}
		if set := info.Str("id_spec_set"); set != "0" {
			for _, member := range specSets[set] {
				if specID, err := member.Int("id_spec"); err == nil && specID > 0 {
					specs = append(specs, specID)
				}
			}
		}
		conduits = append(conduits, conduit{
			ConduitID:      conduitID,
			ConduitName:    names.Name(spellID),
			ConduitSpellID: spellID,
			ConduitType:    kind,
			Specs:          specs,
		})
		seen[conduitKey] = true
	}
	sort.SliceStable(conduits, func(i, j int) bool { return conduits[i].ConduitID < conduits[j].ConduitID })

	if err := output.WriteJSON(env.ParsedFile("Conduits.json"), conduits); err != nil {
		return err
	}

	w, err := output.NewWriter(env.AddonFile("SpellConduits.lua"), output.TableSpec{
		Name:    "SpellConduits",
		Default: "0",
		Comment: []string{
			"Auto-generated conduit data",
			"Format: [ConduitID] = SpellID",
		},
	}, env.LuaBatchSize)
	if err != nil {
		return err
	}
	for _, c := range conduits {
		w.Entry(c.ConduitID, strconv.Itoa(c.ConduitSpellID))
	}
	if err := w.Close(); err != nil {
		return err
	}

	log.Info("conduit data written", "conduits", len(conduits))
	return nil
}
