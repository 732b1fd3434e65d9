package parse

import (
	"context"
	"fmt"
	"sort"

	"github.com/herotc/hero-dbc-parser/internal/logging"
	"github.com/herotc/hero-dbc-parser/internal/output"
)

// meleeRangeFlag marks a range entry as melee.
const meleeRangeFlag = 1

// maxSpellRange is the longest range in yards still considered a
// targeted spell range.
const maxSpellRange = 100.0

type meleeRange struct {
	spellID  int
	isMelee  bool
	minRange int
	maxRange int
}

func init() {
	Register(Unit{
		Name:   "meleerange",
		Group:  "spell",
		Inputs: []string{"SpellRange", "SpellMisc"},
		Run:    runMeleeRange,
	})
}

func runMeleeRange(ctx context.Context, env Env) error {
	log := logging.FromContext(ctx)

	rangeRows, err := readTable(ctx, env, "SpellRange", "id", "min_range_1", "max_range_1", "flag")
	if err != nil {
		return err
	}

	type rangeData struct {
		min, max int
		flag     int
	}
	ranges := make(map[string]rangeData, len(rangeRows))
	for _, row := range rangeRows {
		minRange, err := row.Float("min_range_1")
		if err != nil {
			continue
		}
		maxRange, err := row.Float("max_range_1")
		if err != nil {
			continue
		}
		flag, err := row.Int("flag")
		if err != nil {
			continue
		}
		if 0 < maxRange && maxRange <= maxSpellRange {
			ranges[row.Str("id")] = rangeData{min: int(minRange), max: int(maxRange), flag: flag}
		}
	}

	miscRows, err := readTable(ctx, env, "SpellMisc", "id_parent", "id_range")
	if err != nil {
		return err
	}

	// First row with a valid range wins for each spell.
	seen := make(map[int]bool)
	var entries []meleeRange
	for _, row := range miscRows {
		rd, ok := ranges[row.Str("id_range")]
		if !ok {
			continue
		}
		spellID, err := row.Int("id_parent")
		if err != nil || seen[spellID] {
			continue
		}
		seen[spellID] = true
		entries = append(entries, meleeRange{
			spellID:  spellID,
			isMelee:  rd.flag == meleeRangeFlag,
			minRange: rd.min,
			maxRange: rd.max,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].spellID < entries[j].spellID })

	w, err := output.NewWriter(env.AddonFile("SpellMeleeRange.lua"), output.TableSpec{
		Name:    "SpellMeleeRange",
		Default: "{false, 0, 0}",
		Comment: []string{
			"Auto-generated spell melee range data",
			"Format: [SpellID] = { IsMelee, MinRange, MaxRange }",
		},
	}, env.LuaBatchSize)
	if err != nil {
		return err
	}
	for _, e := range entries {
		w.Entry(e.spellID, fmt.Sprintf("{ %s, %d, %d }", output.Bool(e.isMelee), e.minRange, e.maxRange))
	}
	if err := w.Close(); err != nil {
		return err
	}

	log.Info("melee range table written", "entries", len(entries))
	return nil
}
