package dbc

import "testing"

func TestTreePut_CreatesLevels(t *testing.T) {
	tree := NewTree()
	tree.Put("leaf", "1", "62", "3", "2")

	v, ok := tree.Get("1", "62", "3", "2")
	if !ok {
		t.Fatal("path not found")
	}
	if v != "leaf" {
		t.Errorf("value = %v, want leaf", v)
	}
}

func TestTreePut_LastWriteWins(t *testing.T) {
	tree := NewTree()
	tree.Put("old", "1", "2")
	tree.Put("new", "1", "2")

	v, _ := tree.Get("1", "2")
	if v != "new" {
		t.Errorf("value = %v, want new", v)
	}
}

func TestTreePut_SiblingsPreserved(t *testing.T) {
	tree := NewTree()
	tree.Put("a", "1", "10")
	tree.Put("b", "1", "11")

	if v, _ := tree.Get("1", "10"); v != "a" {
		t.Errorf("sibling overwritten: %v", v)
	}
	if v, _ := tree.Get("1", "11"); v != "b" {
		t.Errorf("missing sibling: %v", v)
	}
}

func TestTreeGet_MissingPath(t *testing.T) {
	tree := NewTree()
	tree.Put("a", "1", "10")

	if _, ok := tree.Get("1", "99"); ok {
		t.Error("missing leaf should not be found")
	}
	if _, ok := tree.Get("2", "10"); ok {
		t.Error("missing branch should not be found")
	}
	// Descending through a leaf is not a valid path either.
	if _, ok := tree.Get("1", "10", "deep"); ok {
		t.Error("descending past a leaf should not be found")
	}
}
