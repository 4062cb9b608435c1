package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// BasepathEnv is the fallback for the --basepath flag
const BasepathEnv = "GRIDQ_BASEPATH"

// ResolveFilePath resolves a file path relative to a basepath.
// If basepath is empty or file is absolute, file is returned unchanged.
func ResolveFilePath(basepath, file string) string {
	if basepath == "" || file == "" {
		return file
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(basepath, file)
}

// GetBasepathFromCmd returns the basepath from the command flag,
// falling back to the GRIDQ_BASEPATH environment variable.
func GetBasepathFromCmd(cmd *cobra.Command) string {
	basepath, err := cmd.Flags().GetString("basepath")
	if err != nil {
		// Flag not registered, fall back to env
		basepath = ""
	}
	if basepath == "" {
		basepath = os.Getenv(BasepathEnv)
	}
	return basepath
}
