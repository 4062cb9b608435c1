package cli

import (
	"fmt"
	"time"

	"github.com/fuabioo/gridq/internal/format"
	"github.com/fuabioo/gridq/internal/grid"
	"github.com/fuabioo/gridq/internal/output"
	"github.com/spf13/cobra"
)

var timeCmd = &cobra.Command{
	Use:   "time <value>",
	Short: "Convert a date-time value to an HH:MM:SS.mmmZ time value",
	Long: `Convert a date-time value to the time value the grid's time editor expects.
The value may be RFC 3339, a date-time without zone (read in --tz), YYYY-MM-DD
or epoch milliseconds. Hours are shifted by --offset divided by 2880000.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, err := cmd.Flags().GetFloat64("offset")
		if err != nil {
			return fmt.Errorf("failed to get offset flag: %w", err)
		}

		zone, err := cmd.Flags().GetString("tz")
		if err != nil {
			return fmt.Errorf("failed to get tz flag: %w", err)
		}
		loc, err := time.LoadLocation(zone)
		if err != nil {
			return fmt.Errorf("unknown timezone %q: %w", zone, err)
		}

		t, err := format.ParseDateTime(args[0], loc)
		if err != nil {
			return err
		}

		table := grid.Table{TimezoneOffset: offset}
		return output.Print(cmd.OutOrStdout(), table.ConvertTime(t), GetFormat())
	},
}

func init() {
	timeCmd.Flags().Float64("offset", 0, "User timezone offset")
	timeCmd.Flags().String("tz", "UTC", "IANA timezone the hours are read in")
	rootCmd.AddCommand(timeCmd)
}
