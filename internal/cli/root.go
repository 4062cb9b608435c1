package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/fuabioo/gridq/internal/constants"
	"github.com/fuabioo/gridq/internal/env"
	"github.com/spf13/cobra"
)

// URLEnv is the page URL used when a command is given none
const URLEnv = "GRIDQ_URL"

var (
	formatFlag string
	debugFlag  bool
	urlFlag    string
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "gridq",
	Short: "gridq - data table helpers",
	Long: `gridq resolves where a data table is hosted, builds its constants record,
converts column metadata and edits row collections stored in xlsx, JSON or YAML files.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute(ctx context.Context, version, commit, date string) error {

	// Build version string with commit and date
	versionStr := version
	if versionStr == "" {
		versionStr = constants.VersionNumber
	}
	if commit != "" {
		versionStr += fmt.Sprintf(" (commit: %s)", commit)
	}
	if date != "" {
		versionStr += fmt.Sprintf(" built: %s", date)
	}

	return fang.Execute(ctx, rootCmd,
		fang.WithVersion(versionStr),
	)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format (json, yaml, csv, tsv)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", constants.ShowDebugInfo, "Log debug information to stderr")
	rootCmd.PersistentFlags().StringVar(&urlFlag, "url", "", "Page URL the table is hosted on (env: "+URLEnv+")")
	rootCmd.PersistentFlags().StringP("basepath", "b", "", "Base directory for relative file paths (env: GRIDQ_BASEPATH)")
}

// GetFormat returns the current format flag value
func GetFormat() string {
	return formatFlag
}

func setupLogging(cmd *cobra.Command) {
	level := slog.LevelInfo
	if debugFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

// hostFromArgs resolves the host environment from the first argument,
// the --url flag or GRIDQ_URL, in that order. No URL at all gives the
// environment of a page without a hostname.
func hostFromArgs(args []string) (env.HostEnvironment, error) {
	rawURL := urlFlag
	if len(args) > 0 {
		rawURL = args[0]
	}
	if rawURL == "" {
		rawURL = os.Getenv(URLEnv)
	}
	if rawURL == "" {
		return env.Resolve("", "", slog.Default()), nil
	}
	return env.FromURL(rawURL, slog.Default())
}
