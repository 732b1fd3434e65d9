package parse

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/herotc/hero-dbc-parser/internal/logging"
	"github.com/herotc/hero-dbc-parser/internal/output"
)

// Item ranges below this are contact effects, not usable ranges.
const minItemRange = 5.0

func init() {
	Register(Unit{
		Name:   "itemrange",
		Group:  "item",
		Inputs: []string{"ItemEffect", "SpellRange", "SpellMisc"},
		Run:    runItemRange,
	})
}

func runItemRange(ctx context.Context, env Env) error {
	log := logging.FromContext(ctx)

	effectRows, err := readTable(ctx, env, "ItemEffect", "id", "id_spell")
	if err != nil {
		return err
	}

	// Spell ID -> item ID, as strings straight from the tables.
	items := make(map[string]string, len(effectRows))
	for _, row := range effectRows {
		spellID := row.Str("id_spell")
		itemID := row.Str("id")
		if spellID != "" && itemID != "" {
			items[spellID] = itemID
		}
	}

	rangeRows, err := readTable(ctx, env, "SpellRange",
		"id", "min_range_1", "max_range_1", "min_range_2", "max_range_2", "flag")
	if err != nil {
		return err
	}

	type rangeData struct {
		max  float64
		flag int
	}
	ranges := make(map[string]rangeData, len(rangeRows))
	for _, row := range rangeRows {
		flag, err := row.Int("flag")
		if err != nil {
			log.Warn("dropping range row", "table", "SpellRange", "error", err)
			continue
		}
		// Hostile then friendly range pair; either can qualify.
		for _, pair := range [][2]string{{"min_range_1", "max_range_1"}, {"min_range_2", "max_range_2"}} {
			minRange, err := row.Float(pair[0])
			if err != nil {
				continue
			}
			maxRange, err := row.Float(pair[1])
			if err != nil {
				continue
			}
			if minRange == 0 && minItemRange <= maxRange && maxRange <= maxSpellRange {
				ranges[row.Str("id")] = rangeData{max: maxRange, flag: flag}
			}
		}
	}

	miscRows, err := readTable(ctx, env, "SpellMisc", "id_parent", "id_range")
	if err != nil {
		return err
	}

	// Range value -> sorted item IDs, split melee/ranged.
	grouped := map[string]map[float64][]int{
		"Melee":  {},
		"Ranged": {},
	}
	for _, row := range miscRows {
		itemID, ok := items[row.Str("id_parent")]
		if !ok {
			continue
		}
		rd, ok := ranges[row.Str("id_range")]
		if !ok {
			continue
		}
		itemIDNum, err := strconv.Atoi(itemID)
		if err != nil {
			log.Warn("dropping item range row", "item", itemID, "error", err)
			continue
		}
		kind := "Ranged"
		if rd.flag == meleeRangeFlag {
			kind = "Melee"
		}
		grouped[kind][rd.max] = append(grouped[kind][rd.max], itemIDNum)
	}
	for _, byRange := range grouped {
		for _, ids := range byRange {
			sort.Ints(ids)
		}
	}

	w, err := output.NewWriter(env.AddonDevFile("ItemRange.lua"), output.TableSpec{
		Name:   "ItemRange",
		Global: "ItemRangeUnfiltered",
		Comment: []string{
			"Auto-generated item range data",
			"Format: { [Type] = { [Range] = { ItemIDs... } } }",
		},
		Footer: []string{
			"setmetatable(ItemRange.Melee, nil)",
			"setmetatable(ItemRange.Ranged, nil)",
			"setmetatable(ItemRange, nil)",
			"",
		},
	}, env.LuaBatchSize)
	if err != nil {
		return err
	}

	w.Line("ItemRange.Melee = {}")
	w.Line("ItemRange.Ranged = {}")
	w.Line("")

	total := 0
	for _, kind := range []string{"Melee", "Ranged"} {
		byRange := grouped[kind]
		rangeValues := make([]float64, 0, len(byRange))
		for v := range byRange {
			rangeValues = append(rangeValues, v)
		}
		sort.Float64s(rangeValues)

		w.Line(fmt.Sprintf("ItemRange['%s'] = {", kind))
		for _, v := range rangeValues {
			w.Line(fmt.Sprintf("  [%s] = {", output.FloatG(v)))
			for _, id := range byRange[v] {
				w.Line(fmt.Sprintf("    %d,", id))
				total++
			}
			w.Line("  },")
		}
		w.Line("}")
	}

	if err := w.Close(); err != nil {
		return err
	}

	log.Info("item range table written", "items", total)
	return nil
}
