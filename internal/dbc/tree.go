package dbc

// Tree is a nested string-keyed structure built up one leaf at a time.
// It serializes to a JSON object whose keys sort lexicographically at
// every level, which keeps the documents byte-stable across runs.
type Tree map[string]any

// NewTree returns an empty tree.
func NewTree() Tree {
	return make(Tree)
}

// Put stores value at the path given by keys, creating intermediate
// levels as needed. Writing to an existing path replaces the previous
// value: the last write wins.
func (t Tree) Put(value any, keys ...string) {
	if len(keys) == 0 {
		return
	}
	node := t
	for _, key := range keys[:len(keys)-1] {
		child, ok := node[key].(Tree)
		if !ok {
			child = make(Tree)
			node[key] = child
		}
		node = child
	}
	node[keys[len(keys)-1]] = value
}

// Get returns the value at the path given by keys, or false when any
// level of the path is absent.
func (t Tree) Get(keys ...string) (any, bool) {
	node := t
	for i, key := range keys {
		v, ok := node[key]
		if !ok {
			return nil, false
		}
		if i == len(keys)-1 {
			return v, true
		}
		node, ok = v.(Tree)
		if !ok {
			return nil, false
		}
	}
	return nil, false
}
