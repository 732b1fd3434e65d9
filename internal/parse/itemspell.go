package parse

import (
	"context"
	"sort"
	"strconv"

	"github.com/herotc/hero-dbc-parser/internal/logging"
	"github.com/herotc/hero-dbc-parser/internal/output"
)

// On-use item effects carry trigger type zero.
const triggerTypeOnUse = 0

func init() {
	Register(Unit{
		Name:   "itemspell",
		Group:  "item",
		Inputs: []string{"ItemEffect", "ItemXItemEffect"},
		Run:    runItemSpell,
	})
}

func runItemSpell(ctx context.Context, env Env) error {
	log := logging.FromContext(ctx)

	effectRows, err := readTable(ctx, env, "ItemEffect", "id", "trigger_type", "id_spell")
	if err != nil {
		return err
	}

	effects := make(map[int]int, len(effectRows))
	for _, row := range effectRows {
		effectID, err := row.Int("id")
		if err != nil {
			continue
		}
		triggerType, err := row.Int("trigger_type")
		if err != nil {
			continue
		}
		spellID, err := row.Int("id_spell")
		if err != nil {
			continue
		}
		if triggerType == triggerTypeOnUse && spellID > 0 {
			effects[effectID] = spellID
		}
	}

	xRows, err := readTable(ctx, env, "ItemXItemEffect", "id_parent", "id_item_effect")
	if err != nil {
		return err
	}

	type itemSpell struct {
		itemID  int
		spellID int
	}
	items := make([]itemSpell, 0, len(xRows))
	for _, row := range xRows {
		itemID, err := row.Int("id_parent")
		if err != nil {
			continue
		}
		effectID, err := row.Int("id_item_effect")
		if err != nil {
			continue
		}
		if spellID, ok := effects[effectID]; ok && itemID > 0 {
			items = append(items, itemSpell{itemID: itemID, spellID: spellID})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].itemID < items[j].itemID })

	w, err := output.NewWriter(env.AddonFile("ItemSpell.lua"), output.TableSpec{
		Name:    "ItemSpell",
		Default: "0",
		Comment: []string{
			"Auto-generated item spell data",
			"Format: [ItemID] = SpellID",
		},
	}, env.LuaBatchSize)
	if err != nil {
		return err
	}
	for _, it := range items {
		w.Entry(it.itemID, strconv.Itoa(it.spellID))
	}
	if err := w.Close(); err != nil {
		return err
	}

	log.Info("item spell table written", "entries", len(items))
	return nil
}
