package cli

import (
	"github.com/fuabioo/gridq/internal/constants"
	"github.com/fuabioo/gridq/internal/output"
	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env [url]",
	Short: "Detect the hosting context of a page URL",
	Long: `Detect whether a page is a builder frame, the Lightning UI or a site, and the
base URL record links should use. Without a URL, --url or GRIDQ_URL is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		host, err := hostFromArgs(args)
		if err != nil {
			return err
		}
		return output.Print(cmd.OutOrStdout(), host, GetFormat())
	},
}

var constantsCmd = &cobra.Command{
	Use:   "constants [url]",
	Short: "Print the grid constants record",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		host, err := hostFromArgs(args)
		if err != nil {
			return err
		}
		return output.Print(cmd.OutOrStdout(), constants.New(host).Map(), GetFormat())
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(constantsCmd)
}
