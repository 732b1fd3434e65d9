package dbc

// BuildLookup indexes rows by the value of keyCol. When several rows
// share a key the first one wins; later duplicates are dropped.
func BuildLookup(rows []Row, keyCol string) map[string]Row {
	lookup := make(map[string]Row, len(rows))
	for _, row := range rows {
		key := row[keyCol]
		if _, exists := lookup[key]; exists {
			continue
		}
		lookup[key] = row
	}
	return lookup
}

// BuildMultiLookup indexes rows by the value of keyCol, accumulating
// every row sharing a key in file order.
func BuildMultiLookup(rows []Row, keyCol string) map[string][]Row {
	lookup := make(map[string][]Row)
	for _, row := range rows {
		key := row[keyCol]
		lookup[key] = append(lookup[key], row)
	}
	return lookup
}
