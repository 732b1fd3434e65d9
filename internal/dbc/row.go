package dbc

import (
	"math"
	"strconv"
)

// Row is one projected table row, keyed by column name.
type Row map[string]string

// Str returns the raw cell value for col.
func (r Row) Str(col string) string {
	return r[col]
}

// Int converts the cell value for col to an int.
// Empty cells and non-numeric values are conversion errors; callers
// decide whether to skip the row or fail the unit.
func (r Row) Int(col string) (int, error) {
	return strconv.Atoi(r[col])
}

// Int64 converts the cell value for col to an int64.
func (r Row) Int64(col string) (int64, error) {
	return strconv.ParseInt(r[col], 10, 64)
}

// Float converts the cell value for col to a float64.
func (r Row) Float(col string) (float64, error) {
	return strconv.ParseFloat(r[col], 64)
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
