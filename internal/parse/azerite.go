package parse

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/herotc/hero-dbc-parser/internal/dbc"
	"github.com/herotc/hero-dbc-parser/internal/logging"
	"github.com/herotc/hero-dbc-parser/internal/output"
)

type azeriteTierUnlock struct {
	AzeriteLevel int `json:"azerite_level"`
	Tier         int `json:"tier"`
}

type azeriteItem struct {
	ItemID int                 `json:"itemId"`
	Tiers  []azeriteTierUnlock `json:"tiers"`
}

type azeriteSet struct {
	ClassID int           `json:"classId"`
	Index   int           `json:"index"`
	Items   []azeriteItem `json:"items"`
	Tier    int           `json:"tier"`
}

type azeritePower struct {
	PowerID   int          `json:"powerId"`
	Sets      []azeriteSet `json:"sets"`
	Specs     []int        `json:"specs"`
	SpellID   int          `json:"spellId"`
	SpellName string       `json:"spellName"`
}

type azeritePowerSummary struct {
	ClassesID []int  `json:"classesId"`
	PowerID   int    `json:"powerId"`
	Specs     []int  `json:"specs"`
	SpellID   int    `json:"spellId"`
	SpellName string `json:"spellName"`
	Tier      int    `json:"tier"`
}

func init() {
	Register(Unit{
		Name:  "azerite",
		Group: "item",
		Inputs: []string{
			"AzeriteEmpoweredItem", "AzeritePower", "AzeritePowerSetMember",
			"AzeriteTierUnlock", "ItemSparse", "SpecSetMember", "SpellName",
		},
		Run: runAzerite,
	})
}

// loadSpecsWhitelist reads the hand-maintained power->specs overrides
// kept next to the table dumps. Absence is not an error.
func loadSpecsWhitelist(path string) (map[string][]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string][]int{}, nil
		}
		return nil, err
	}
	whitelist := make(map[string][]int)
	if err := json.Unmarshal(data, &whitelist); err != nil {
		return nil, err
	}
	return whitelist, nil
}

func runAzerite(ctx context.Context, env Env) error {
	log := logging.FromContext(ctx)

	// The azerite subsystem left the game client after its expansion.
	// Emit the empty documents so downstream consumers keep their shape.
	if _, err := os.Stat(env.Table("AzeriteEmpoweredItem")); errors.Is(err, fs.ErrNotExist) {
		log.Info("azerite tables absent, writing empty documents")
		if err := output.WriteJSON(env.ParsedFile("AzeritePowerWithItems.json"), []azeritePower{}); err != nil {
			return err
		}
		return output.WriteJSON(env.ParsedFile("AzeritePower.json"), []azeritePowerSummary{})
	}

	whitelistPath := filepath.Join(env.GeneratedDir, "..", "..", "parsers", "AzeritePowerSpecsWhitelist.json")
	whitelist, err := loadSpecsWhitelist(whitelistPath)
	if err != nil {
		return err
	}

	names, err := loadSpellNames(ctx, env)
	if err != nil {
		return err
	}

	itemRows, err := readTable(ctx, env, "ItemSparse", "id")
	if err != nil {
		return err
	}
	knownItems := make(map[string]bool, len(itemRows))
	for _, row := range itemRows {
		knownItems[row.Str("id")] = true
	}

	empoweredRows, err := readTable(ctx, env, "AzeriteEmpoweredItem",
		"id", "id_item", "id_power_set", "id_azerite_tier_unlock")
	if err != nil {
		return err
	}
	// A power set is valid when at least one item wearing it still
	// exists in the item table.
	validSets := make(map[string]bool)
	for _, row := range empoweredRows {
		if knownItems[row.Str("id_item")] {
			validSets[row.Str("id_power_set")] = true
		}
	}
	itemsBySet := dbc.BuildMultiLookup(empoweredRows, "id_power_set")

	unlockRows, err := readTable(ctx, env, "AzeriteTierUnlock", "id", "id_parent", "tier", "azerite_level")
	if err != nil {
		return err
	}
	unlocksByParent := dbc.BuildMultiLookup(unlockRows, "id_parent")

	specRows, err := readTable(ctx, env, "SpecSetMember", "id", "id_parent", "id_spec")
	if err != nil {
		return err
	}
	specsBySet := dbc.BuildMultiLookup(specRows, "id_parent")

	powerRows, err := readTable(ctx, env, "AzeritePower", "id", "id_spell", "id_spec_set_member")
	if err != nil {
		return err
	}
	powersByID := dbc.BuildLookup(powerRows, "id")

	memberRows, err := readTable(ctx, env, "AzeritePowerSetMember",
		"id", "id_parent", "id_power", "class_id", "tier", "index")
	if err != nil {
		return err
	}
	type setMember struct {
		setID   string
		classID int
		tier    int
		index   int
	}
	membersByPower := make(map[string][]setMember)
	powerOrder := make([]string, 0)
	validPowers := make(map[string]bool)
	for _, row := range memberRows {
		powerID := row.Str("id_power")
		classID, err := row.Int("class_id")
		if err != nil {
			continue
		}
		tier, err := row.Int("tier")
		if err != nil {
			continue
		}
		index, err := row.Int("index")
		if err != nil {
			continue
		}
		membersByPower[powerID] = append(membersByPower[powerID], setMember{
			setID:   row.Str("id_parent"),
			classID: classID,
			tier:    tier,
			index:   index,
		})

		if !validSets[row.Str("id_parent")] || validPowers[powerID] {
			continue
		}
		power, ok := powersByID[powerID]
		if !ok {
			continue
		}
		spellID, err := power.Int("id_spell")
		if err != nil || spellID == 0 || !names.Known(spellID) {
			continue
		}
		validPowers[powerID] = true
		powerOrder = append(powerOrder, powerID)
	}

	powers := make([]azeritePower, 0, len(powerOrder))
	for _, powerID := range powerOrder {
		power := powersByID[powerID]
		spellID, err := power.Int("id_spell")
		if err != nil {
			continue
		}

		specs := make([]int, 0)
		if set := power.Str("id_spec_set_member"); set != "0" && set != "" {
			for _, member := range specsBySet[set] {
				if specID, err := member.Int("id_spec"); err == nil {
					specs = append(specs, specID)
				}
			}
		}
		specs = append(specs, whitelist[powerID]...)
		specs = sortedUnique(specs)

		sets := make([]azeriteSet, 0)
		for _, member := range membersByPower[powerID] {
			items := make([]azeriteItem, 0)
			for _, it := range itemsBySet[member.setID] {
				itemID, err := it.Int("id_item")
				if err != nil {
					continue
				}
				tiers := make([]azeriteTierUnlock, 0)
				for _, unlock := range unlocksByParent[it.Str("id_azerite_tier_unlock")] {
					tier, err := unlock.Int("tier")
					if err != nil {
						continue
					}
					level, err := unlock.Int("azerite_level")
					if err != nil {
						continue
					}
					tiers = append(tiers, azeriteTierUnlock{AzeriteLevel: level, Tier: tier})
				}
				items = append(items, azeriteItem{ItemID: itemID, Tiers: tiers})
			}
			if len(items) == 0 {
				continue
			}
			sets = append(sets, azeriteSet{
				ClassID: member.classID,
				Index:   member.index,
				Items:   items,
				Tier:    member.tier,
			})
		}
		if len(sets) == 0 {
			continue
		}

		id, err := strconv.Atoi(powerID)
		if err != nil {
			continue
		}
		powers = append(powers, azeritePower{
			PowerID:   id,
			Sets:      sets,
			Specs:     specs,
			SpellID:   spellID,
			SpellName: names.Name(spellID),
		})
	}

	if err := output.WriteJSON(env.ParsedFile("AzeritePowerWithItems.json"), powers); err != nil {
		return err
	}

	summaries := make([]azeritePowerSummary, 0, len(powers))
	for _, p := range powers {
		classes := make([]int, 0, len(p.Sets))
		for _, s := range p.Sets {
			classes = append(classes, s.ClassID)
		}
		summaries = append(summaries, azeritePowerSummary{
			ClassesID: sortedUnique(classes),
			PowerID:   p.PowerID,
			Specs:     p.Specs,
			SpellID:   p.SpellID,
			SpellName: p.SpellName,
			Tier:      p.Sets[0].Tier,
		})
	}
	if err := output.WriteJSON(env.ParsedFile("AzeritePower.json"), summaries); err != nil {
		return err
	}

	log.Info("azerite power data written", "powers", len(powers))
	return nil
}

func sortedUnique(values []int) []int {
	seen := make(map[int]bool, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}
