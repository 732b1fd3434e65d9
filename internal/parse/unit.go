// Package parse holds the transformation units. Each unit reads one or
// more client tables, applies the unit's joins and filters, and writes
// a JSON document, a Lua table, or both. Units are independent: one
// failing never blocks the others.
package parse

import (
	"context"
	"path/filepath"

	"github.com/herotc/hero-dbc-parser/internal/dbc"
	"github.com/herotc/hero-dbc-parser/internal/logging"
)

// Env carries the per-run settings every unit needs.
type Env struct {
	// GeneratedDir holds the extracted client CSV tables.
	GeneratedDir string
	// ParsedDir receives JSON documents.
	ParsedDir string
	// AddonDir receives addon Lua tables.
	AddonDir string
	// AddonDevDir receives unfiltered development Lua tables.
	AddonDevDir string

	// Workers bounds the goroutines used for chunked row processing.
	Workers int
	// ChunkSize is the number of rows handed to one worker at a time.
	ChunkSize int
	// LuaBatchSize is the number of Lua entries buffered between flushes.
	LuaBatchSize int
}

// Table returns the path of a source table by bare name.
func (e Env) Table(name string) string {
	return filepath.Join(e.GeneratedDir, name+".csv")
}

// ParsedFile returns the path of a JSON output by file name.
func (e Env) ParsedFile(name string) string {
	return filepath.Join(e.ParsedDir, name)
}

// AddonFile returns the path of a Lua output by file name.
func (e Env) AddonFile(name string) string {
	return filepath.Join(e.AddonDir, name)
}

// AddonDevFile returns the path of an unfiltered Lua output by file name.
func (e Env) AddonDevFile(name string) string {
	return filepath.Join(e.AddonDevDir, name)
}

// Unit is one registered transformation.
type Unit struct {
	// Name identifies the unit in logs and the unit filter.
	Name string
	// Group clusters related units for reporting.
	Group string
	// Inputs lists the source tables the unit reads, for reporting.
	Inputs []string
	// Run executes the unit.
	Run func(ctx context.Context, env Env) error
}

// readTable loads a source table projected onto cols and logs the read.
func readTable(ctx context.Context, env Env, table string, cols ...string) ([]dbc.Row, error) {
	rows, stats, err := dbc.ReadTable(env.Table(table), cols)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug("table loaded",
		"table", table,
		"rows", stats.Rows,
		"skipped", stats.Skipped,
		"encoding", stats.Encoding,
	)
	return rows, nil
}
