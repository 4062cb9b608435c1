package cli

import (
	"fmt"
	"log/slog"

	"github.com/fuabioo/gridq/internal/dataset"
	"github.com/fuabioo/gridq/internal/grid"
	"github.com/fuabioo/gridq/internal/output"
	"github.com/spf13/cobra"
)

// rowsResult is printed when remove or replace writes to a file
type rowsResult struct {
	File    string `json:"file" yaml:"file"`
	Rows    int    `json:"rows" yaml:"rows"`
	Changed bool   `json:"changed" yaml:"changed"`
}

// findResult is the output of rows find
type findResult struct {
	Index int      `json:"index" yaml:"index"`
	Row   grid.Row `json:"row" yaml:"row"`
}

var rowsCmd = &cobra.Command{
	Use:   "rows",
	Short: "Find, remove or replace rows by key",
	Long: `Operate on a row collection stored in an xlsx, JSON or YAML file.
Rows are matched on --key with strict equality: xlsx values are strings,
JSON and YAML numbers need --id-type number.`,
}

var rowsFindCmd = &cobra.Command{
	Use:   "find <file>",
	Short: "Print the index of the first row whose key equals --id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, table, id, err := loadRows(cmd, args[0])
		if err != nil {
			return err
		}

		result := findResult{Index: table.FindRowIndexByID(ds.Rows, id)}
		if result.Index != grid.NotFound {
			result.Row = ds.Rows[result.Index]
		}
		slog.Debug("rows.find", "file", args[0], "key", table.KeyField, "index", result.Index)

		return output.Print(cmd.OutOrStdout(), result, GetFormat())
	},
}

var rowsRemoveCmd = &cobra.Command{
	Use:   "remove <file>",
	Short: "Remove the first row whose key equals --id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, table, id, err := loadRows(cmd, args[0])
		if err != nil {
			return err
		}

		rows := table.RemoveRowFromCollection(ds.Rows, id)
		changed := len(rows) != len(ds.Rows)
		slog.Debug("rows.remove", "file", args[0], "key", table.KeyField, "changed", changed)

		return emitRows(cmd, ds.WithRows(rows), changed)
	},
}

var rowsReplaceCmd = &cobra.Command{
	Use:   "replace <file>",
	Short: "Replace the row whose key equals --id with its version from --updated",
	Long: `Replace the row whose key equals --id with the row carrying the same key in
the --updated file. The row keeps its position. When either file lacks the
key the original rows are returned unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, table, id, err := loadRows(cmd, args[0])
		if err != nil {
			return err
		}

		updatedFile, err := cmd.Flags().GetString("updated")
		if err != nil {
			return fmt.Errorf("failed to get updated flag: %w", err)
		}
		if updatedFile == "" {
			return fmt.Errorf("--updated is required")
		}
		updatedSheet, err := cmd.Flags().GetString("updated-sheet")
		if err != nil {
			return fmt.Errorf("failed to get updated-sheet flag: %w", err)
		}
		updated, err := dataset.Load(ResolveFilePath(GetBasepathFromCmd(cmd), updatedFile), updatedSheet)
		if err != nil {
			return err
		}

		changed := table.FindRowIndexByID(ds.Rows, id) != grid.NotFound &&
			table.FindRowIndexByID(updated.Rows, id) != grid.NotFound
		rows := table.ReplaceRowInCollection(ds.Rows, updated.Rows, id)
		slog.Debug("rows.replace", "file", args[0], "updated", updatedFile, "key", table.KeyField, "changed", changed)

		return emitRows(cmd, ds.WithRows(rows), changed)
	},
}

func init() {
	rowsCmd.PersistentFlags().StringP("key", "k", "Id", "Field that identifies a row")
	rowsCmd.PersistentFlags().String("id", "", "Key value of the row")
	rowsCmd.PersistentFlags().String("id-type", dataset.IDString, "Type of --id: string, number or bool")
	rowsCmd.PersistentFlags().StringP("sheet", "s", "", "Sheet name for xlsx files (default: first sheet)")

	for _, c := range []*cobra.Command{rowsRemoveCmd, rowsReplaceCmd} {
		c.Flags().StringP("output", "o", "", "Write the resulting rows to this file instead of stdout")
		c.Flags().Bool("overwrite", false, "Replace the output file if it exists")
	}
	rowsReplaceCmd.Flags().String("updated", "", "File holding the updated rows")
	rowsReplaceCmd.Flags().String("updated-sheet", "", "Sheet name for an xlsx --updated file")

	rowsCmd.AddCommand(rowsFindCmd, rowsRemoveCmd, rowsReplaceCmd)
	rootCmd.AddCommand(rowsCmd)
}

// loadRows reads the dataset named by file plus the key and id flags
func loadRows(cmd *cobra.Command, file string) (*dataset.Dataset, grid.Table, any, error) {
	var table grid.Table

	key, err := cmd.Flags().GetString("key")
	if err != nil {
		return nil, table, nil, fmt.Errorf("failed to get key flag: %w", err)
	}
	if key == "" {
		return nil, table, nil, fmt.Errorf("--key cannot be empty")
	}
	table.KeyField = key

	rawID, err := cmd.Flags().GetString("id")
	if err != nil {
		return nil, table, nil, fmt.Errorf("failed to get id flag: %w", err)
	}
	idType, err := cmd.Flags().GetString("id-type")
	if err != nil {
		return nil, table, nil, fmt.Errorf("failed to get id-type flag: %w", err)
	}
	id, err := dataset.ParseID(rawID, idType)
	if err != nil {
		return nil, table, nil, err
	}

	sheet, err := cmd.Flags().GetString("sheet")
	if err != nil {
		return nil, table, nil, fmt.Errorf("failed to get sheet flag: %w", err)
	}

	ds, err := dataset.Load(ResolveFilePath(GetBasepathFromCmd(cmd), file), sheet)
	if err != nil {
		return nil, table, nil, err
	}
	return ds, table, id, nil
}

// emitRows prints ds, or saves it when --output is set
func emitRows(cmd *cobra.Command, ds *dataset.Dataset, changed bool) error {
	if ds.Rows == nil {
		ds.Rows = grid.Collection{}
	}

	outFile, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	if outFile == "" {
		outFormat, err := output.ParseFormat(GetFormat())
		if err != nil {
			return err
		}
		if outFormat == output.FormatCSV || outFormat == output.FormatTSV {
			return output.PrintRows(cmd.OutOrStdout(), ds.Strings(), GetFormat())
		}
		return output.Print(cmd.OutOrStdout(), ds.Rows, GetFormat())
	}

	overwrite, err := cmd.Flags().GetBool("overwrite")
	if err != nil {
		return fmt.Errorf("failed to get overwrite flag: %w", err)
	}

	path := ResolveFilePath(GetBasepathFromCmd(cmd), outFile)
	if err := dataset.Save(path, ds, overwrite); err != nil {
		return err
	}
	slog.Info("rows.saved", "file", path, "rows", len(ds.Rows))

	return output.Print(cmd.OutOrStdout(), rowsResult{File: path, Rows: len(ds.Rows), Changed: changed}, GetFormat())
}
