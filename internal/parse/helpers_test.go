package parse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv builds an Env rooted in a temp dir with small worker settings.
func testEnv(t *testing.T) Env {
	t.Helper()
	root := t.TempDir()
	env := Env{
		GeneratedDir: filepath.Join(root, "generated"),
		ParsedDir:    filepath.Join(root, "parsed"),
		AddonDir:     filepath.Join(root, "addon"),
		AddonDevDir:  filepath.Join(root, "addon-dev"),
		Workers:      2,
		ChunkSize:    4,
		LuaBatchSize: 8,
	}
	if err := os.MkdirAll(env.GeneratedDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return env
}

// writeCSV drops a source table into the generated dir.
func writeCSV(t *testing.T, env Env, table, content string) {
	t.Helper()
	if err := os.WriteFile(env.Table(table), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// indexOf fails the test when sub is absent, otherwise returns its offset.
func indexOf(t *testing.T, s, sub string) int {
	t.Helper()
	i := strings.Index(s, sub)
	if i < 0 {
		t.Fatalf("missing %q", sub)
	}
	return i
}

// readOutput loads a produced file as a string.
func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
