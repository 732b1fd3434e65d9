package parse

import (
	"context"
	"fmt"

	"github.com/herotc/hero-dbc-parser/internal/logging"
	"github.com/herotc/hero-dbc-parser/internal/output"
)

// Item levels carried into the addon, one per content tier.
var validItemLevels = map[int]bool{158: true, 200: true, 226: true, 233: true}

// Slots without an armor material get a flat list instead of a
// material-keyed map.
var noMaterialTypes = map[string]bool{"trinket": true, "neck": true, "finger": true, "back": true}

var itemTypeNames = map[int]string{
	1:  "head",
	2:  "neck",
	3:  "shoulders",
	5:  "chest",
	6:  "waist",
	7:  "legs",
	8:  "feet",
	9:  "wrists",
	10: "hands",
	11: "finger",
	12: "trinket",
	13: "weapon",
	14: "shield",
	15: "ranged",
	16: "back",
	17: "2hweapon",
	20: "chest",
}

var itemMaterialNames = map[int]string{
	6: "plate",
	5: "mail",
	8: "leather",
	7: "cloth",
}

var statTypeNames = map[int]string{
	3:  "agi",
	4:  "str",
	5:  "int",
	7:  "stam",
	32: "crit",
	36: "haste",
	40: "vers",
	49: "mastery",
	50: "bonus_armor",
	62: "leech",
	63: "avoidance",
	71: "agi/str/int",
	72: "agi/str",
	73: "agi/int",
	74: "str/int",
}

type itemEntry struct {
	Gems     int      `json:"gems"`
	ID       int      `json:"id"`
	Ilevel   int      `json:"ilevel"`
	Material string   `json:"material"`
	Name     string   `json:"name"`
	Source   string   `json:"source"`
	Stats    []string `json:"stats"`
	Type     string   `json:"type"`
}

func init() {
	Register(Unit{
		Name:   "itemdata",
		Group:  "item",
		Inputs: []string{"ItemSparse", "JournalEncounterItem"},
		Run:    runItemData,
	})
}

func itemSource(itemID, ilevel int, fromEncounter bool) string {
	switch {
	case ilevel == 158:
		if fromEncounter {
			return "dungeon"
		}
		return "pvp"
	case ilevel == 200:
		if fromEncounter {
			return "castle_nathria"
		}
		return "other"
	case ilevel == 226 || ilevel == 233:
		return "sanctum_of_domination"
	}
	return ""
}

func runItemData(ctx context.Context, env Env) error {
	log := logging.FromContext(ctx)

	encounterRows, err := readTable(ctx, env, "JournalEncounterItem", "id_item", "id_encounter")
	if err != nil {
		return err
	}
	encounterItems := make(map[int]bool, len(encounterRows))
	for _, row := range encounterRows {
		itemID, err := row.Int("id_item")
		if err != nil {
			continue
		}
		encounterItems[itemID] = true
	}

	itemRows, err := readTable(ctx, env, "ItemSparse",
		"id", "name", "ilevel", "quality", "inv_type", "material",
		"stat_type_1", "stat_type_2", "stat_type_3", "stat_type_4", "stat_type_5",
		"socket_color_1", "socket_color_2", "socket_color_3")
	if err != nil {
		return err
	}

	// Slot name -> material -> items, or slot name -> items for the
	// materialless slots.
	organized := make(map[string]any)
	total := 0
	for _, row := range itemRows {
		itemID, err := row.Int("id")
		if err != nil {
			continue
		}
		ilevel, err := row.Int("ilevel")
		if err != nil || !validItemLevels[ilevel] {
			continue
		}
		if _, err := row.Int("quality"); err != nil {
			continue
		}
		invType, err := row.Int("inv_type")
		if err != nil {
			continue
		}
		itemType := itemTypeNames[invType]
		if itemType == "" {
			continue
		}

		m, err := row.Int("material")
		if err != nil {
			continue
		}
		material := itemMaterialNames[m]

		stats := make([]string, 0, 5)
		for i := 1; i <= 5; i++ {
			statType, err := row.Int(fmt.Sprintf("stat_type_%d", i))
			if err != nil {
				continue
			}
			if name := statTypeNames[statType]; name != "" {
				stats = append(stats, name)
			}
		}

		gems := 0
		for i := 1; i <= 3; i++ {
			if color, err := row.Int(fmt.Sprintf("socket_color_%d", i)); err == nil && color != 0 {
				gems++
			}
		}

		entry := itemEntry{
			Gems:     gems,
			ID:       itemID,
			Ilevel:   ilevel,
			Material: material,
			Name:     row.Str("name"),
			Source:   itemSource(itemID, ilevel, encounterItems[itemID]),
			Stats:    stats,
			Type:     itemType,
		}

		if noMaterialTypes[itemType] {
			list, _ := organized[itemType].([]itemEntry)
			organized[itemType] = append(list, entry)
		} else {
			byMaterial, ok := organized[itemType].(map[string][]itemEntry)
			if !ok {
				byMaterial = make(map[string][]itemEntry)
				organized[itemType] = byMaterial
			}
			byMaterial[material] = append(byMaterial[material], entry)
		}
		total++
	}

	if err := output.WriteJSON(env.ParsedFile("ItemData.json"), organized); err != nil {
		return err
	}

	log.Info("item data written", "items", total)
	return nil
}
