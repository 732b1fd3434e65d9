package parse

import (
	"context"
	"fmt"
	"sort"

	"github.com/herotc/hero-dbc-parser/internal/logging"
	"github.com/herotc/hero-dbc-parser/internal/output"
)

// staticTickMechanic is the effect mechanic whose ticks do not scale
// with haste.
const staticTickMechanic = "15"

type tickTime struct {
	spellID   int
	amplitude int
	hasted    bool
}

func init() {
	Register(Unit{
		Name:   "ticktime",
		Group:  "spell",
		Inputs: []string{"SpellEffect"},
		Run:    runTickTime,
	})
}

func runTickTime(ctx context.Context, env Env) error {
	log := logging.FromContext(ctx)

	rows, err := readTable(ctx, env, "SpellEffect", "id_parent", "amplitude", "id_mechanic")
	if err != nil {
		return err
	}

	// Stable-sort by spell so the first periodic effect in table order
	// wins for every spell.
	type parsed struct {
		spellID   int
		amplitude int
		mechanic  string
	}
	effects := make([]parsed, 0, len(rows))
	for _, row := range rows {
		spellID, err := row.Int("id_parent")
		if err != nil {
			continue
		}
		amplitude, err := row.Int("amplitude")
		if err != nil {
			continue
		}
		effects = append(effects, parsed{spellID: spellID, amplitude: amplitude, mechanic: row.Str("id_mechanic")})
	}
	sort.SliceStable(effects, func(i, j int) bool { return effects[i].spellID < effects[j].spellID })

	var entries []tickTime
	currentID := 0
	for _, e := range effects {
		if e.amplitude == 0 || e.spellID == currentID {
			continue
		}
		currentID = e.spellID
		entries = append(entries, tickTime{
			spellID:   e.spellID,
			amplitude: e.amplitude,
			hasted:    e.mechanic != staticTickMechanic,
		})
	}

	w, err := output.NewWriter(env.AddonFile("SpellTickTime.lua"), output.TableSpec{
		Name: "SpellTickTime",
		Comment: []string{
			"Auto-generated spell tick time data",
			"Format: [SpellID] = { Amplitude, Hasted }",
		},
	}, env.LuaBatchSize)
	if err != nil {
		return err
	}
	for _, e := range entries {
		w.Entry(e.spellID, fmt.Sprintf("{ %d, %s }", e.amplitude, output.Bool(e.hasted)))
	}
	if err := w.Close(); err != nil {
		return err
	}

	log.Info("tick time table written", "entries", len(entries))
	return nil
}
