package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ghbrowse/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ghbrowse configuration",
	Long:  "Create a default configuration file for ghbrowse at ~/.ghbrowse/config.yaml, or at --config.",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing configuration without asking")
}

func runInit(cmd *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		var err error
		path, err = config.GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	out := cmd.OutOrStdout()

	if _, err := os.Stat(path); err == nil && !initForce {
		fmt.Fprintf(out, "⚠️  Configuration file already exists at: %s\n", path)
		response, _ := readLine(input, out, "Do you want to overwrite it? (y/N): ")
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Configuration initialization cancelled.")
			return nil
		}
	}

	if err := config.Default().SaveConfigToPath(path); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(out, "✅ Configuration file created at: %s\n", path)
	fmt.Fprintln(out, "📝 Add a GitHub token to raise the rate limit, or set GITHUB_TOKEN.")

	return nil
}
