package xlsx

import (
	"fmt"
	"os"
	"strings"

	"github.com/fuabioo/gridq/internal/grid"
	"github.com/xuri/excelize/v2"
)

// OpenFile opens an xlsx file and returns the excelize handle
func OpenFile(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", path, err)
	}

	return f, nil
}

// ResolveSheetName returns the actual sheet name (with correct casing).
// An empty name resolves to the first sheet.
func ResolveSheetName(f *excelize.File, sheet string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("no sheets found in workbook")
	}
	if sheet == "" {
		return sheets[0], nil
	}

	for _, s := range sheets {
		if strings.EqualFold(s, sheet) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
}

// ReadSheet reads a worksheet into a row collection. Row 1 holds the field
// names; blank header cells are named after their column letter. Fully
// empty rows are skipped and every value is kept as text.
func ReadSheet(path, sheet string) (*Sheet, error) {
	f, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	resolved, err := ResolveSheetName(f, sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.Rows(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open row iterator: %w", err)
	}
	defer rows.Close()

	result := &Sheet{Name: resolved, Rows: grid.Collection{}}

	rowNum := 0
	for rows.Next() {
		rowNum++
		cols, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("error reading row %d: %w", rowNum, err)
		}

		if result.Columns == nil {
			names, err := headerNames(cols)
			if err != nil {
				return nil, fmt.Errorf("%w in sheet %s", err, resolved)
			}
			result.Columns = names
			continue
		}

		if isBlank(cols) {
			continue
		}

		row := make(grid.Row, len(result.Columns))
		for i, val := range cols {
			if i >= len(result.Columns) {
				break
			}
			row[result.Columns[i]] = val
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	if len(result.Columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoHeader, resolved)
	}

	return result, nil
}

// headerNames names each column after its header cell, or its column
// letter when the cell is blank. Names must be unique.
func headerNames(cols []string) ([]string, error) {
	names := make([]string, len(cols))
	seen := make(map[string]bool, len(cols))
	for i, c := range cols {
		c = strings.TrimSpace(c)
		if c == "" {
			c, _ = excelize.ColumnNumberToName(i + 1)
		}
		if seen[c] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateHeader, c)
		}
		seen[c] = true
		names[i] = c
	}
	return names, nil
}

func isBlank(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
