package parse

import (
	"context"
	"sort"

	"github.com/herotc/hero-dbc-parser/internal/logging"
	"github.com/herotc/hero-dbc-parser/internal/output"
)

// effectTypeApplyAura is the SpellEffect type for aura applications.
const effectTypeApplyAura = 6

// dpsAuraSubTypes are the aura sub-types that modify damage stats.
var dpsAuraSubTypes = map[int]bool{
	29:  true, // base attributes
	137: true, // total stat percent
	189: true, // rating, gated on dpsRatingMasks
	193: true, // haste percent
	290: true, // crit percent
	318: true, // mastery percent
	471: true, // versatility percent
}

// dpsRatingMasks are the misc-value masks of rating auras that affect
// damage output.
var dpsRatingMasks = map[int]bool{
	1792:       true, // crit rating
	917504:     true, // haste rating
	33554432:   true, // mastery rating
	1879048192: true, // versatility rating
}

func isDPSAura(subType, miscValue int) bool {
	if !dpsAuraSubTypes[subType] {
		return false
	}
	if subType == 189 {
		return dpsRatingMasks[miscValue]
	}
	return true
}

type auraStat struct {
	spellID int
	isDPS   bool
}

func init() {
	Register(Unit{
		Name:   "aurastat",
		Group:  "spell",
		Inputs: []string{"SpellEffect"},
		Run:    runAuraStat,
	})
}

func runAuraStat(ctx context.Context, env Env) error {
	log := logging.FromContext(ctx)

	rows, err := readTable(ctx, env, "SpellEffect", "id_parent", "type", "sub_type", "misc_value_1")
	if err != nil {
		return err
	}

	// Stable-sort by spell so the first aura-applying effect in table
	// order wins for every spell, contiguous in the source or not.
	type parsed struct {
		spellID   int
		subType   int
		miscValue int
	}
	effects := make([]parsed, 0, len(rows))
	for _, row := range rows {
		spellID, err := row.Int("id_parent")
		if err != nil || spellID <= 0 {
			continue
		}
		effectType, err := row.Int("type")
		if err != nil || effectType != effectTypeApplyAura {
			continue
		}
		subType, err := row.Int("sub_type")
		if err != nil {
			continue
		}
		miscValue, err := row.Int("misc_value_1")
		if err != nil {
			continue
		}
		effects = append(effects, parsed{spellID: spellID, subType: subType, miscValue: miscValue})
	}
	sort.SliceStable(effects, func(i, j int) bool { return effects[i].spellID < effects[j].spellID })

	var entries []auraStat
	currentID := 0
	for _, e := range effects {
		if e.spellID == currentID {
			continue
		}
		currentID = e.spellID
		entries = append(entries, auraStat{spellID: e.spellID, isDPS: isDPSAura(e.subType, e.miscValue)})
	}

	w, err := output.NewWriter(env.AddonFile("SpellAuraStat.lua"), output.TableSpec{
		Name:    "SpellAuraStat",
		Default: "false",
		Comment: []string{
			"Auto-generated spell aura stat data",
			"Format: [SpellID] = isDPSStat",
			"true = primary/secondary stats, false = tertiary/other",
		},
	}, env.LuaBatchSize)
	if err != nil {
		return err
	}
	for _, e := range entries {
		w.Entry(e.spellID, output.Bool(e.isDPS))
	}
	if err := w.Close(); err != nil {
		return err
	}

	log.Info("aura stat table written", "entries", len(entries))
	return nil
}
