package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// TableSpec describes one generated Lua table.
type TableSpec struct {
	// Name is the local Lua variable the table is built in.
	Name string

	// Global is the name the table is published under on HeroDBC.DBC.
	// Defaults to Name when empty.
	Global string

	// Default is the expression returned for missing keys while the
	// table is being consumed. Empty means no default metatable.
	Default string

	// Comment lines are written at the top of the file, prefixed "-- ".
	Comment []string

	// Footer lines are written verbatim between the table body and the
	// global assignment. Used for per-table helper functions.
	Footer []string
}

// Writer emits one Lua table file. Entries are buffered and flushed in
// batches; Close writes the footer and atomically replaces the target.
type Writer struct {
	path  string
	spec  TableSpec
	batch int

	tmp *os.File
	w   *bufio.Writer
	buf []string
	err error
}

// NewWriter starts a Lua table file at path. batchSize controls how
// many entries are buffered between flushes; values below 1 are
// treated as 1.
func NewWriter(path string, spec TableSpec, batchSize int) (*Writer, error) {
	if spec.Global == "" {
		spec.Global = spec.Name
	}
	if batchSize < 1 {
		batchSize = 1
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	lw := &Writer{
		path:  path,
		spec:  spec,
		batch: batchSize,
		tmp:   tmp,
		w:     bufio.NewWriter(tmp),
	}
	lw.header()
	return lw, nil
}

func (lw *Writer) header() {
	for _, c := range lw.spec.Comment {
		lw.line("-- " + c)
	}
	lw.line(fmt.Sprintf("local %s = {}", lw.spec.Name))
	lw.line("")
	if lw.spec.Default != "" {
		lw.line(fmt.Sprintf("%s = setmetatable({}, {__index = function() return %s end})", lw.spec.Name, lw.spec.Default))
		lw.line("")
	}
}

// Entry buffers one scalar assignment, Name[key] = value.
func (lw *Writer) Entry(key int, value string) {
	lw.buf = append(lw.buf, fmt.Sprintf("%s[%d] = %s", lw.spec.Name, key, value))
	if len(lw.buf) >= lw.batch {
		lw.flush()
	}
}

// Line buffers one raw body line, for tables with nested structure.
func (lw *Writer) Line(s string) {
	lw.buf = append(lw.buf, s)
	if len(lw.buf) >= lw.batch {
		lw.flush()
	}
}

func (lw *Writer) flush() {
	if len(lw.buf) == 0 {
		return
	}
	lw.line(strings.Join(lw.buf, "\n"))
	lw.buf = lw.buf[:0]
}

func (lw *Writer) line(s string) {
	if lw.err != nil {
		return
	}
	if _, err := lw.w.WriteString(s + "\n"); err != nil {
		lw.err = err
	}
}

// Close writes the footer, finishes the temp file and renames it over
// the target path. The temp file is removed on any failure.
func (lw *Writer) Close() error {
	lw.flush()
	lw.line("")
	if lw.spec.Default != "" {
		lw.line(fmt.Sprintf("setmetatable(%s, nil)", lw.spec.Name))
		lw.line("")
	}
	for _, f := range lw.spec.Footer {
		lw.line(f)
	}
	lw.line(fmt.Sprintf("HeroDBC.DBC.%s = %s", lw.spec.Global, lw.spec.Name))
	lw.line(fmt.Sprintf("return %s", lw.spec.Name))

	tmpName := lw.tmp.Name()
	if lw.err == nil {
		lw.err = lw.w.Flush()
	}
	if err := lw.tmp.Close(); err != nil && lw.err == nil {
		lw.err = err
	}
	if lw.err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", filepath.Base(lw.path), lw.err)
	}
	if err := os.Rename(tmpName, lw.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", filepath.Base(lw.path), err)
	}
	return nil
}

// Float formats v with a fixed number of decimal places.
func Float(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// FloatG formats v with the shortest representation that round-trips,
// dropping the trailing zeroes fixed formatting would keep.
func FloatG(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Bool formats b as a Lua boolean literal.
func Bool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
