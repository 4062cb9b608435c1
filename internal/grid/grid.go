// Package grid manipulates the ordered row collections shown by the grid.
//
// Rows are identified by the value of a caller-chosen key field. Every
// helper returns a new collection when it changes something and never
// modifies its inputs.
package grid

import (
	"reflect"
	"time"

	"github.com/fuabioo/gridq/internal/format"
)

// NotFound is returned by FindRowIndexByID when no row matches
const NotFound = -1

// Row maps field names to values
type Row map[string]any

// Collection is an ordered list of rows in display order
type Collection []Row

// Table is the per-grid context the helpers run against
type Table struct {
	// KeyField names the field whose value uniquely identifies a row
	KeyField string `json:"keyField" yaml:"keyField"`

	// TimezoneOffset is the user's timezone offset passed to ConvertTime
	TimezoneOffset float64 `json:"timezoneOffset" yaml:"timezoneOffset"`
}

// FindRowIndexByID returns the index of the first row whose key field
// strictly equals id, or NotFound.
func (t Table) FindRowIndexByID(c Collection, id any) int {
	for i, row := range c {
		if strictEqual(row[t.KeyField], id) {
			return i
		}
	}
	return NotFound
}

// RemoveRowFromCollection returns c without the first row matching id.
// When nothing matches, c itself is returned.
func (t Table) RemoveRowFromCollection(c Collection, id any) Collection {
	idx := t.FindRowIndexByID(c, id)
	if idx == NotFound {
		return c
	}

	result := make(Collection, 0, len(c)-1)
	result = append(result, c[:idx]...)
	return append(result, c[idx+1:]...)
}

// ReplaceRowInCollection returns original with the row matching id
// replaced by the row matching id in updated. The replacement keeps the
// original position. If either collection has no match, original itself
// is returned.
func (t Table) ReplaceRowInCollection(original, updated Collection, id any) Collection {
	oidx := t.FindRowIndexByID(original, id)
	uidx := t.FindRowIndexByID(updated, id)
	if oidx == NotFound || uidx == NotFound {
		return original
	}

	result := make(Collection, len(original))
	copy(result, original)
	result[oidx] = updated[uidx]
	return result
}

// ConvertTime formats ts using the table's timezone offset
func (t Table) ConvertTime(ts time.Time) string {
	return format.ConvertTime(t.TimezoneOffset, ts)
}

// strictEqual reports whether a and b hold the same dynamic type and value.
// Maps, slices and other non-comparable values never match.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// Normalize converts every numeric value to float64, recursing into maps
// and slices, so decoded data compares the same regardless of its source.
func Normalize(v any) any {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	case Row:
		return NormalizeRow(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}

// NormalizeRow returns a copy of row with normalized values
func NormalizeRow(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = Normalize(v)
	}
	return out
}
