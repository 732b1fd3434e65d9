package parse

import (
	"context"
	"fmt"
	"sort"

	"github.com/herotc/hero-dbc-parser/internal/dbc"
	"github.com/herotc/hero-dbc-parser/internal/logging"
	"github.com/herotc/hero-dbc-parser/internal/output"
)

// RPPM modifier kinds, as encoded in SpellProcsPerMinuteMod.
const (
	rppmHaste = 1
	rppmCrit  = 2
	rppmClass = 3
	rppmSpec  = 4
	rppmRace  = 5
)

// maxClassID is the highest playable class ID carrying a bit in class masks.
const maxClassID = 13

var rppmKindNames = map[int]string{
	rppmHaste: "HASTE",
	rppmCrit:  "CRIT",
	rppmClass: "CLASS",
	rppmSpec:  "SPEC",
	rppmRace:  "RACE",
}

// classBit returns the class-mask bit for a class ID, or 0 for IDs
// outside the playable range.
func classBit(id int) int {
	if id < 1 || id > maxClassID {
		return 0
	}
	return 1 << (id - 1)
}

// procMods holds the resolved modifiers for one proc entry.
// Haste and crit are pure flags; class, spec and race carry a scaled
// value per category.
type procMods struct {
	flags  map[int]bool
	scaled map[int]map[int]float64
}

func newProcMods() *procMods {
	return &procMods{
		flags:  make(map[int]bool),
		scaled: make(map[int]map[int]float64),
	}
}

func (m *procMods) put(kind, category int, value float64) {
	table, ok := m.scaled[kind]
	if !ok {
		table = make(map[int]float64)
		m.scaled[kind] = table
	}
	table[category] = value
}

func init() {
	Register(Unit{
		Name:   "rppm",
		Group:  "spell",
		Inputs: []string{"SpellProcsPerMinute", "SpellProcsPerMinuteMod", "SpellAuraOptions"},
		Run:    runRPPM,
	})
}

func runRPPM(ctx context.Context, env Env) error {
	log := logging.FromContext(ctx)

	base, err := loadBasePPM(ctx, env)
	if err != nil {
		return err
	}
	mods, err := loadModPPM(ctx, env, base)
	if err != nil {
		return err
	}
	ppmIDs, err := loadPPMIDs(ctx, env)
	if err != nil {
		return err
	}

	if err := writeRPPMLua(env, ppmIDs, base, mods); err != nil {
		return err
	}
	log.Info("rppm table written", "spells", len(ppmIDs))
	return nil
}

// loadBasePPM reads the base proc rates, keeping positive values at six
// decimal places of precision.
func loadBasePPM(ctx context.Context, env Env) (map[int]float64, error) {
	rows, err := readTable(ctx, env, "SpellProcsPerMinute", "id", "ppm")
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	base := make(map[int]float64, len(rows))
	for _, row := range rows {
		id, err := row.Int("id")
		if err != nil {
			log.Warn("dropping proc row", "table", "SpellProcsPerMinute", "error", err)
			continue
		}
		ppm, err := row.Float("ppm")
		if err != nil {
			log.Warn("dropping proc row", "table", "SpellProcsPerMinute", "id", id, "error", err)
			continue
		}
		if ppm > 0 {
			base[id] = dbc.Round(ppm, 6)
		}
	}
	return base, nil
}

// loadModPPM resolves the proc modifiers against the base rates.
// Rows with a zero coefficient or an unknown parent are skipped, and a
// scaled value that does not stay positive is not recorded.
func loadModPPM(ctx context.Context, env Env, base map[int]float64) (map[int]*procMods, error) {
	rows, err := readTable(ctx, env, "SpellProcsPerMinuteMod",
		"id_parent", "unk_1", "coefficient", "id_chr_spec")
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	mods := make(map[int]*procMods)
	get := func(parent int) *procMods {
		m, ok := mods[parent]
		if !ok {
			m = newProcMods()
			mods[parent] = m
		}
		return m
	}

	for _, row := range rows {
		parent, err := row.Int("id_parent")
		if err != nil {
			log.Warn("dropping modifier row", "table", "SpellProcsPerMinuteMod", "error", err)
			continue
		}
		kind, err := row.Int("unk_1")
		if err != nil {
			log.Warn("dropping modifier row", "parent", parent, "error", err)
			continue
		}
		coeff, err := row.Float("coefficient")
		if err != nil {
			log.Warn("dropping modifier row", "parent", parent, "error", err)
			continue
		}

		baseValue, known := base[parent]
		if coeff == 0 || !known {
			continue
		}

		switch kind {
		case rppmHaste, rppmCrit:
			get(parent).flags[kind] = true

		case rppmClass:
			mask, err := row.Int("id_chr_spec")
			if err != nil {
				log.Warn("dropping class modifier", "parent", parent, "error", err)
				continue
			}
			// Greedy bit decomposition, highest class first.
			for id := maxClassID; id >= 1; id-- {
				bit := classBit(id)
				if bit == 0 || mask-bit < 0 {
					continue
				}
				if v := dbc.Round(baseValue*(1+coeff), 6); v > 0 {
					get(parent).put(rppmClass, id, v)
				}
				mask -= bit
			}

		case rppmSpec, rppmRace:
			category, err := row.Int("id_chr_spec")
			if err != nil {
				log.Warn("dropping modifier row", "parent", parent, "error", err)
				continue
			}
			if v := dbc.Round(baseValue*(1+coeff), 6); v > 0 {
				get(parent).put(kind, category, v)
			}

		default:
			log.Warn("unknown modifier kind", "parent", parent, "kind", kind)
		}
	}
	return mods, nil
}

// loadPPMIDs maps spell IDs to their proc entry via SpellAuraOptions.
func loadPPMIDs(ctx context.Context, env Env) (map[int]int, error) {
	rows, err := readTable(ctx, env, "SpellAuraOptions", "id_parent", "id_ppm")
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	ids := make(map[int]int)
	for _, row := range rows {
		ppmID, err := row.Int("id_ppm")
		if err != nil {
			log.Warn("dropping aura options row", "table", "SpellAuraOptions", "error", err)
			continue
		}
		if ppmID == 0 {
			continue
		}
		parent, err := row.Int("id_parent")
		if err != nil {
			log.Warn("dropping aura options row", "table", "SpellAuraOptions", "error", err)
			continue
		}
		ids[parent] = ppmID
	}
	return ids, nil
}

var rppmLookupFooter = []string{
	"-- Fast lookup for proc rate resolution",
	"local function GetRPPM(spellID, classID, specID)",
	"  local data = RPPMData[spellID]",
	"  if not data then return 0 end",
	"",
	"  local base = data[0]",
	"  if not base then return 0 end",
	"",
	"  if classID and data[3] and data[3][classID] then",
	"    base = data[3][classID]",
	"  end",
	"  if specID and data[4] and data[4][specID] then",
	"    base = data[4][specID]",
	"  end",
	"",
	"  return base",
	"end",
	"",
	"HeroDBC.DBC.GetRPPM = GetRPPM",
	"",
}

func writeRPPMLua(env Env, ppmIDs map[int]int, base map[int]float64, mods map[int]*procMods) error {
	w, err := output.NewWriter(env.AddonFile("SpellRPPM.lua"), output.TableSpec{
		Name:   "RPPMData",
		Global: "SpellRPPM",
		Comment: []string{
			"Generated from current client data",
			"Real procs per minute data for spells with proc effects",
		},
		Footer: rppmLookupFooter,
	}, env.LuaBatchSize)
	if err != nil {
		return err
	}

	spellIDs := make([]int, 0, len(ppmIDs))
	for id := range ppmIDs {
		spellIDs = append(spellIDs, id)
	}
	sort.Ints(spellIDs)

	for _, spellID := range spellIDs {
		ppmID := ppmIDs[spellID]
		baseValue, ok := base[ppmID]
		if !ok {
			continue
		}

		w.Line(fmt.Sprintf("RPPMData[%d] = {", spellID))
		w.Line(fmt.Sprintf("  [0] = %s,  -- Base PPM", output.Float(baseValue, 6)))
		if m, ok := mods[ppmID]; ok {
			for _, kind := range sortedKeys(m.flags) {
				w.Line(fmt.Sprintf("  [%d] = true,  -- %s scaling", kind, rppmKindNames[kind]))
			}
			for _, kind := range sortedKeys(m.scaled) {
				w.Line(fmt.Sprintf("  [%d] = {  -- %s modifiers", kind, rppmKindNames[kind]))
				table := m.scaled[kind]
				for _, category := range sortedKeys(table) {
					w.Line(fmt.Sprintf("    [%d] = %s,", category, output.Float(table[category], 6)))
				}
				w.Line("  },")
			}
		}
		w.Line("}")
	}

	return w.Close()
}

// sortedKeys returns the map's int keys in ascending order.
func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
