package parse

import (
	"context"
	"fmt"
)

// deprecatedSpells are spell IDs that linger in talent data after the
// client dropped their names. They get a fixed placeholder instead of
// an Unknown_<id> marker so downstream diffs stay quiet.
var deprecatedSpells = map[int]string{
	152173: "Deprecated Spell",
	152262: "Deprecated Spell",
	152277: "Deprecated Spell",
	188089: "Deprecated Spell",
	196924: "Deprecated Spell",
	197690: "Deprecated Spell",
	202354: "Deprecated Spell",
	202751: "Deprecated Spell",
	210802: "Deprecated Spell",
}

// SpellNames maps spell IDs to display names.
type SpellNames map[int]string

// loadSpellNames reads SpellName.csv into a lookup. Rows with a
// non-numeric ID or an empty name are dropped.
func loadSpellNames(ctx context.Context, env Env) (SpellNames, error) {
	rows, err := readTable(ctx, env, "SpellName", "id", "name")
	if err != nil {
		return nil, err
	}

	names := make(SpellNames, len(rows))
	for _, row := range rows {
		id, err := row.Int("id")
		if err != nil || id <= 0 {
			continue
		}
		name := row.Str("name")
		if name == "" {
			continue
		}
		if _, exists := names[id]; exists {
			continue
		}
		names[id] = name
	}
	return names, nil
}

// Name resolves a spell ID to a display name. Deprecated spells get
// their placeholder; anything else unknown becomes Unknown_<id>.
func (n SpellNames) Name(id int) string {
	if name, ok := deprecatedSpells[id]; ok {
		return name
	}
	if name, ok := n[id]; ok {
		return name
	}
	return fmt.Sprintf("Unknown_%d", id)
}

// Known reports whether the client carries a name for the spell.
func (n SpellNames) Known(id int) bool {
	_, ok := n[id]
	return ok
}
