package output

import (
	"fmt"
	"io"
)

// Print writes result to w in the given format
func Print(w io.Writer, result any, format string) error {
	out, err := FormatSingle(format, result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	_, err = w.Write(out)
	return err
}

// PrintRows writes header-first tabular data to w in the given format
func PrintRows(w io.Writer, rows [][]string, format string) error {
	out, err := FormatRows(format, rows)
	if err != nil {
		return fmt.Errorf("failed to format rows: %w", err)
	}

	_, err = w.Write(out)
	return err
}
