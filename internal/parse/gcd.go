package parse

import (
	"context"
	"sort"

	"github.com/herotc/hero-dbc-parser/internal/dbc"
	"github.com/herotc/hero-dbc-parser/internal/logging"
	"github.com/herotc/hero-dbc-parser/internal/output"
	"github.com/herotc/hero-dbc-parser/internal/pipeline"
)

// maxBaseGCD is the longest plausible global cooldown in seconds.
// Larger raw values are assumed to be milliseconds.
const maxBaseGCD = 1.5

// gcdPrecision is the decimal precision for cooldown values.
const gcdPrecision = 3

// gcdBands are the plausible cooldown ranges in seconds. A value has
// to fall in one of them (or be exactly zero) to be kept.
var gcdBands = [][2]float64{
	{0.1, 0.25},     // quick cast abilities
	{0.5, 1.5},      // standard cooldown abilities
	{2.0, 20.0},     // channeled spells
	{30.0, 180.0},   // long cooldown abilities
	{181.0, 2000.0}, // major cooldowns
}

func validGCD(gcd float64) bool {
	if gcd == 0 {
		return true
	}
	for _, band := range gcdBands {
		if band[0] <= gcd && gcd <= band[1] {
			return true
		}
	}
	return false
}

type spellGCD struct {
	spellID int
	gcd     float64
}

func init() {
	Register(Unit{
		Name:   "gcd",
		Group:  "spell",
		Inputs: []string{"SpellCooldowns"},
		Run:    runGCD,
	})
}

func runGCD(ctx context.Context, env Env) error {
	log := logging.FromContext(ctx)

	rows, err := readTable(ctx, env, "SpellCooldowns", "id_parent", "gcd_cooldown")
	if err != nil {
		return err
	}

	entries, err := pipeline.Map(ctx, rows, env.Workers, env.ChunkSize, func(chunk []dbc.Row) []spellGCD {
		var out []spellGCD
		for _, row := range chunk {
			spellID, err := row.Int("id_parent")
			if err != nil || spellID <= 0 {
				continue
			}
			gcd, err := row.Float("gcd_cooldown")
			if err != nil {
				continue
			}
			// Millisecond values get rescaled to seconds.
			if gcd > maxBaseGCD {
				gcd /= 1000.0
			}
			gcd = dbc.Round(gcd, gcdPrecision)
			if validGCD(gcd) {
				out = append(out, spellGCD{spellID: spellID, gcd: gcd})
			}
		}
		return out
	})
	if err != nil {
		return err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].spellID < entries[j].spellID })

	w, err := output.NewWriter(env.AddonFile("SpellGCD.lua"), output.TableSpec{
		Name:    "SpellGCD",
		Default: "0",
		Comment: []string{
			"Auto-generated spell GCD data",
			"Format: [SpellID] = GCDDuration",
		},
	}, env.LuaBatchSize)
	if err != nil {
		return err
	}
	for _, e := range entries {
		w.Entry(e.spellID, output.Float(e.gcd, gcdPrecision))
	}
	if err := w.Close(); err != nil {
		return err
	}

	log.Info("gcd table written", "entries", len(entries))
	return nil
}
