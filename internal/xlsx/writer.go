package xlsx

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// SaveFileAtomic saves the file atomically using temp file + rename.
// This prevents corruption if the process is interrupted.
func SaveFileAtomic(f *excelize.File, path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	tmpPath := filepath.Join(dir, filepath.Base(path)+".tmp")
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file %s: %w", tmpPath, err)
	}

	if err := f.Write(tmpFile); err != nil {
		tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write to temp file %s: %w", tmpPath, err)
	}

	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	return nil
}

// WriteSheet writes s to a new single-sheet workbook at path: a header row
// from s.Columns followed by one worksheet row per collection row. Fields
// missing from a row are left empty. An existing file is only replaced
// when overwrite is set.
func WriteSheet(path string, s *Sheet, overwrite bool) error {
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return fmt.Errorf("%w: %s", ErrFileExists, path)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check if file exists: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	name := DefaultSheetName
	if s.Name != "" && s.Name != DefaultSheetName {
		name = s.Name
		if err := f.SetSheetName(DefaultSheetName, name); err != nil {
			return fmt.Errorf("failed to rename sheet: %w", err)
		}
	}

	header := make([]any, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range s.Rows {
		cells := make([]any, len(s.Columns))
		for j, c := range s.Columns {
			cells[j] = row[c]
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, addr, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := SaveFileAtomic(f, path); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}
