// Package dataset loads and saves row collections from xlsx, JSON and YAML
// files so the collection helpers can run against real data.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fuabioo/gridq/internal/constants"
	"github.com/fuabioo/gridq/internal/grid"
	"github.com/fuabioo/gridq/internal/xlsx"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrTooManyRows       = errors.New("too many rows")
	ErrInvalidID         = errors.New("invalid id")
)

// ID kinds accepted by ParseID
const (
	IDString = "string"
	IDNumber = "number"
	IDBool   = "bool"
)

// Dataset is a row collection plus the column order used for tabular output
type Dataset struct {
	Sheet   string          `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	Columns []string        `json:"columns" yaml:"columns"`
	Rows    grid.Collection `json:"rows" yaml:"rows"`
}

// New builds a dataset from rows, deriving the columns from the row keys
func New(rows grid.Collection) *Dataset {
	return &Dataset{Columns: columnsOf(rows), Rows: rows}
}

// Load reads a dataset, choosing the decoder from the file extension.
// sheet only applies to xlsx files. Collections larger than the grid's
// row limit are rejected.
func Load(path, sheet string) (*Dataset, error) {
	var ds *Dataset

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		s, err := xlsx.ReadSheet(path, sheet)
		if err != nil {
			return nil, err
		}
		ds = &Dataset{Sheet: s.Name, Columns: s.Columns, Rows: s.Rows}

	case ".json", ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		rows, err := Decode(data, ext)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		ds = New(rows)

	default:
		return nil, fmt.Errorf("%w: %s (valid: .xlsx, .json, .yaml, .yml)", ErrUnsupportedFormat, path)
	}

	if len(ds.Rows) > constants.MaxRowCount {
		return nil, fmt.Errorf("%w: %s has %d rows, limit is %d",
			ErrTooManyRows, path, len(ds.Rows), constants.MaxRowCount)
	}
	return ds, nil
}

// Decode parses a JSON or YAML array of objects into a normalized collection
func Decode(data []byte, ext string) (grid.Collection, error) {
	var raw []map[string]any

	switch strings.ToLower(ext) {
	case ".json", "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".yaml", ".yml", "yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	rows := make(grid.Collection, len(raw))
	for i, r := range raw {
		rows[i] = grid.NormalizeRow(r)
	}
	return rows, nil
}

// Save writes ds to path in the format implied by the extension.
// Existing files are replaced only when overwrite is set.
func Save(path string, ds *Dataset, overwrite bool) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" {
		return xlsx.WriteSheet(path, &xlsx.Sheet{Name: ds.Sheet, Columns: ds.Columns, Rows: ds.Rows}, overwrite)
	}

	var (
		data []byte
		err  error
	)
	switch ext {
	case ".json":
		data, err = json.MarshalIndent(ds.Rows, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(ds.Rows)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	out, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", xlsx.ErrFileExists, path)
		}
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return out.Close()
}

// ParseID converts a textual key value into the type stored in the rows.
// xlsx values are always strings; JSON and YAML numbers are float64.
func ParseID(raw, kind string) (any, error) {
	switch strings.ToLower(kind) {
	case IDString, "":
		return raw, nil
	case IDNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidID, raw)
		}
		return n, nil
	case IDBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidID, raw)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: unknown id type %q (valid: string, number, bool)", ErrInvalidID, kind)
	}
}

// Strings returns the dataset as a header row followed by one row per record
func (d *Dataset) Strings() [][]string {
	out := make([][]string, 0, len(d.Rows)+1)
	out = append(out, append([]string(nil), d.Columns...))
	for _, row := range d.Rows {
		line := make([]string, len(d.Columns))
		for i, c := range d.Columns {
			if v, ok := row[c]; ok && v != nil {
				line[i] = fmt.Sprint(v)
			}
		}
		out = append(out, line)
	}
	return out
}

// WithRows returns a copy of d holding rows, adding any new columns
func (d *Dataset) WithRows(rows grid.Collection) *Dataset {
	cols := append([]string(nil), d.Columns...)
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		seen[c] = true
	}
	var extra []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)

	return &Dataset{Sheet: d.Sheet, Columns: append(cols, extra...), Rows: rows}
}

func columnsOf(rows grid.Collection) []string {
	seen := make(map[string]bool)
	cols := []string{}
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}
