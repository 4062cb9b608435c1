package cli

import (
	"github.com/fuabioo/gridq/internal/format"
	"github.com/fuabioo/gridq/internal/output"
	"github.com/spf13/cobra"
)

// columnType is one row of the type command's output
type columnType struct {
	Type      string  `json:"type" yaml:"type"`
	InputType string  `json:"inputType" yaml:"inputType"`
	Format    *string `json:"format" yaml:"format"`
}

var typeCmd = &cobra.Command{
	Use:   "type <column-type>...",
	Short: "Map column data types to input types and formats",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outFormat, err := output.ParseFormat(GetFormat())
		if err != nil {
			return err
		}

		if outFormat == output.FormatCSV || outFormat == output.FormatTSV {
			rows := [][]string{{"type", "inputType", "format"}}
			for _, t := range args {
				f, _ := format.ConvertFormat(t)
				rows = append(rows, []string{t, format.ConvertType(t), f})
			}
			return output.PrintRows(cmd.OutOrStdout(), rows, GetFormat())
		}

		// json and yaml keep a null format for types without one
		types := make([]columnType, 0, len(args))
		for _, t := range args {
			ct := columnType{Type: t, InputType: format.ConvertType(t)}
			if f, ok := format.ConvertFormat(t); ok {
				ct.Format = &f
			}
			types = append(types, ct)
		}
		return output.Print(cmd.OutOrStdout(), types, GetFormat())
	},
}

var columnCmd = &cobra.Command{
	Use:   "column <attrib>",
	Short: "Print the value part of a column attribute",
	Long:  `Print the text after the first colon of a column attribute such as "label:Account Name".`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Print(cmd.OutOrStdout(), format.ColumnValue(args[0]), GetFormat())
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean <text>",
	Short: "Remove single spaces next to , : { } and ;",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Print(cmd.OutOrStdout(), format.RemoveSpaces(args[0]), GetFormat())
	},
}

func init() {
	rootCmd.AddCommand(typeCmd)
	rootCmd.AddCommand(columnCmd)
	rootCmd.AddCommand(cleanCmd)
}
