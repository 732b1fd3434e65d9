package parse

import (
	"context"
	"sort"
	"strconv"

	"github.com/herotc/hero-dbc-parser/internal/logging"
	"github.com/herotc/hero-dbc-parser/internal/output"
)

type enchantSpell struct {
	enchantID int
	spellID   int
}

func init() {
	Register(Unit{
		Name:   "enchants",
		Group:  "spell",
		Inputs: []string{"SpellItemEnchantment"},
		Run:    runEnchants,
	})
}

func runEnchants(ctx context.Context, env Env) error {
	log := logging.FromContext(ctx)

	rows, err := readTable(ctx, env, "SpellItemEnchantment", "id", "id_property_1")
	if err != nil {
		return err
	}

	var entries []enchantSpell
	for _, row := range rows {
		spellID, err := row.Int("id_property_1")
		if err != nil || spellID <= 0 {
			continue
		}
		enchantID, err := row.Int("id")
		if err != nil {
			continue
		}
		entries = append(entries, enchantSpell{enchantID: enchantID, spellID: spellID})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].enchantID < entries[j].enchantID })

	w, err := output.NewWriter(env.AddonFile("SpellEnchants.lua"), output.TableSpec{
		Name:    "SpellEnchants",
		Default: "0",
		Comment: []string{
			"Auto-generated spell enchant data",
			"Format: [EnchantID] = SpellID",
		},
	}, env.LuaBatchSize)
	if err != nil {
		return err
	}
	for _, e := range entries {
		w.Entry(e.enchantID, strconv.Itoa(e.spellID))
	}
	if err := w.Close(); err != nil {
		return err
	}

	log.Info("enchant table written", "entries", len(entries))
	return nil
}
