package parse

import (
	"context"
	"sort"

	"github.com/herotc/hero-dbc-parser/internal/dbc"
	"github.com/herotc/hero-dbc-parser/internal/logging"
	"github.com/herotc/hero-dbc-parser/internal/output"
	"github.com/herotc/hero-dbc-parser/internal/pipeline"
)

// pandemicMultiplier is the fraction of a base duration that can be
// carried over when an effect is refreshed early.
const pandemicMultiplier = 0.3

// durationPrecision is the decimal precision for duration values.
const durationPrecision = 3

type spellDuration struct {
	spellID int
	base    float64
	max     float64
}

func init() {
	Register(Unit{
		Name:   "duration",
		Group:  "spell",
		Inputs: []string{"SpellDuration", "SpellMisc"},
		Run:    runDuration,
	})
}

func runDuration(ctx context.Context, env Env) error {
	log := logging.FromContext(ctx)

	durationRows, err := readTable(ctx, env, "SpellDuration", "id", "duration_1", "duration_2")
	if err != nil {
		return err
	}

	// Duration ID -> (base, max). Max includes the pandemic window.
	type window struct{ base, max float64 }
	durations := make(map[string]window, len(durationRows))
	for _, row := range durationRows {
		d, err := row.Float("duration_1")
		if err != nil || d <= 0 {
			continue
		}
		base := dbc.Round(d, durationPrecision)
		durations[row.Str("id")] = window{
			base: base,
			max:  base + dbc.Round(d*pandemicMultiplier, durationPrecision),
		}
	}

	miscRows, err := readTable(ctx, env, "SpellMisc", "id_parent", "id_duration")
	if err != nil {
		return err
	}

	entries, err := pipeline.Map(ctx, miscRows, env.Workers, env.ChunkSize, func(chunk []dbc.Row) []spellDuration {
		var out []spellDuration
		for _, row := range chunk {
			durationID, err := row.Int("id_duration")
			if err != nil || durationID <= 0 {
				continue
			}
			win, ok := durations[row.Str("id_duration")]
			if !ok {
				continue
			}
			spellID, err := row.Int("id_parent")
			if err != nil {
				continue
			}
			out = append(out, spellDuration{spellID: spellID, base: win.base, max: win.max})
		}
		return out
	})
	if err != nil {
		return err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].spellID < entries[j].spellID })

	w, err := output.NewWriter(env.AddonFile("SpellDuration.lua"), output.TableSpec{
		Name:    "SpellDuration",
		Default: "{0, 0}",
		Comment: []string{
			"Auto-generated spell duration data",
			"Format: [SpellID] = { BaseDuration, MaxDuration }",
			"MaxDuration includes the pandemic window (30% of base)",
		},
	}, env.LuaBatchSize)
	if err != nil {
		return err
	}
	for _, e := range entries {
		w.Entry(e.spellID, "{"+output.Float(e.base, durationPrecision)+", "+output.Float(e.max, durationPrecision)+"}")
	}
	if err := w.Close(); err != nil {
		return err
	}

	log.Info("duration table written", "entries", len(entries))
	return nil
}
