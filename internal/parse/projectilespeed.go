package parse

import (
	"context"
	"sort"
	"strconv"

	"github.com/herotc/hero-dbc-parser/internal/dbc"
	"github.com/herotc/hero-dbc-parser/internal/logging"
	"github.com/herotc/hero-dbc-parser/internal/output"
	"github.com/herotc/hero-dbc-parser/internal/pipeline"
)

type projectileSpeed struct {
	spellID int
	speed   int
}

func init() {
	Register(Unit{
		Name:   "projectilespeed",
		Group:  "spell",
		Inputs: []string{"SpellMisc"},
		Run:    runProjectileSpeed,
	})
}

func runProjectileSpeed(ctx context.Context, env Env) error {
	log := logging.FromContext(ctx)

	rows, err := readTable(ctx, env, "SpellMisc", "id_parent", "proj_speed")
	if err != nil {
		return err
	}

	entries, err := pipeline.Map(ctx, rows, env.Workers, env.ChunkSize, func(chunk []dbc.Row) []projectileSpeed {
		var out []projectileSpeed
		for _, row := range chunk {
			speed, err := row.Float("proj_speed")
			if err != nil || speed <= 0 {
				continue
			}
			spellID, err := row.Int("id_parent")
			if err != nil {
				continue
			}
			// Speeds are emitted as whole yards per second.
			out = append(out, projectileSpeed{spellID: spellID, speed: int(speed)})
		}
		return out
	})
	if err != nil {
		return err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].spellID < entries[j].spellID })

	w, err := output.NewWriter(env.AddonFile("SpellProjectileSpeed.lua"), output.TableSpec{
		Name:    "SpellProjectileSpeed",
		Default: "0",
		Comment: []string{
			"Auto-generated spell projectile speed data",
			"Format: [SpellID] = ProjectileSpeed",
		},
	}, env.LuaBatchSize)
	if err != nil {
		return err
	}
	for _, e := range entries {
		w.Entry(e.spellID, strconv.Itoa(e.speed))
	}
	if err := w.Close(); err != nil {
		return err
	}

	log.Info("projectile speed table written", "entries", len(entries))
	return nil
}
