package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ghbrowse/pkg/github"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Commands for checking the GitHub token used by ghbrowse.",
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which GitHub account the configured token belongs to",
	Long: `Validate the GitHub token from GITHUB_TOKEN or the configuration file
and show the account, token scopes and remaining rate limit.`,
	Args: cobra.NoArgs,
	RunE: runAuthStatus,
}

func init() {
	authCmd.AddCommand(authStatusCmd)
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if github.ResolveToken(appConfig) == "" {
		fmt.Fprintln(out, "ℹ️  No GitHub token configured, requests are anonymous.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, github.GetAuthInstructions())
		return nil
	}

	client, err := newClient(appConfig)
	if err != nil {
		return err
	}

	info, err := client.ValidateToken(cmd.Context())
	if err != nil {
		return fmt.Errorf("token validation failed: %w", err)
	}

	fmt.Fprintf(out, "✅ Authenticated as %s\n", info.User)
	if len(info.Scopes) > 0 {
		fmt.Fprintf(out, "   Scopes: %s\n", strings.Join(info.Scopes, ", "))
	} else {
		fmt.Fprintln(out, "   Scopes: none")
	}

	stats := client.RateLimiter().GetStats()
	if stats.Limit > 0 {
		fmt.Fprintf(out, "   Rate limit: %d/%d remaining, resets at %s\n",
			stats.Remaining, stats.Limit, stats.ResetTime.Local().Format("15:04:05"))
	}
	return nil
}
