package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ghbrowse/pkg/browse"
	"ghbrowse/pkg/fuzzy"
	"ghbrowse/pkg/github"
	"ghbrowse/pkg/logger"
)

var (
	reposPages       int
	reposInteractive bool
	reposOpen        bool
)

var reposCmd = &cobra.Command{
	Use:   "repos <username>",
	Short: "Show a user's profile and public repositories",
	Long: `Show the profile of a GitHub user followed by their public repositories.

The profile and the first page of repositories are fetched concurrently; a
profile that fails to load does not hold back the repository list. With
--interactive the repositories open in a fuzzy finder where you can load
more and pick one to print its URL, or open it in the browser with --open.`,
	Args: cobra.ExactArgs(1),
	RunE: runRepos,
}

func init() {
	reposCmd.Flags().IntVarP(&reposPages, "pages", "p", 1, "number of pages to fetch")
	reposCmd.Flags().BoolVarP(&reposInteractive, "interactive", "i", false, "browse repositories in a fuzzy finder")
	reposCmd.Flags().BoolVar(&reposOpen, "open", false, "open the selected repository in the browser")
}

func runRepos(cmd *cobra.Command, args []string) error {
	username := strings.TrimSpace(args[0])
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if reposPages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}

	client, err := newClient(appConfig)
	if err != nil {
		return err
	}

	if reposInteractive {
		return browseRepositories(cmd.Context(), cmd, client, username)
	}

	controller := newRepositoriesController(client)
	defer controller.Close()

	ctx := cmd.Context()
	controller.Start(ctx, username)
	failed := reportErrors(cmd.ErrOrStderr(), controller.ErrorEvents())
	for page := 1; page < reposPages; page++ {
		if !controller.LoadMore(ctx) {
			break
		}
		if reportErrors(cmd.ErrOrStderr(), controller.ErrorEvents()) {
			failed = true
			break
		}
	}

	out := cmd.OutOrStdout()
	printUserDetail(out, controller.Detail())

	state := controller.State()
	if len(state.Items) > 0 {
		printRepositories(out, state.Items, terminalWidth(out))
	} else if !failed {
		fmt.Fprintf(out, "%s has no public repositories\n", username)
	}
	if failed {
		return errReported
	}
	printMoreHint(cmd.ErrOrStderr(), "repositories", state.HasMore(), reposPages)
	return nil
}

func newRepositoriesController(client github.APIClient) *browse.RepositoriesController {
	return browse.NewRepositoriesController(client, browse.RepositoriesOptions{
		Logger: logrus.NewEntry(logger.GetLogger()),
	})
}

// browseRepositories runs the interactive repository list for username until
// the user cancels. It returns errReported if any failure was shown.
func browseRepositories(ctx context.Context, cmd *cobra.Command, client github.APIClient, username string) error {
	controller := newRepositoriesController(client)
	defer controller.Close()

	controller.Start(ctx, username)
	failed := reportErrors(cmd.ErrOrStderr(), controller.ErrorEvents())
	printUserDetail(cmd.ErrOrStderr(), controller.Detail())

	for {
		if err := ctx.Err(); err != nil {
			return reportedStatus(failed)
		}

		state := controller.State()
		if len(state.Items) == 0 && !state.HasMore() {
			if !failed {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s has no public repositories to browse\n", username)
			}
			return reportedStatus(failed)
		}

		choice, err := pick(cmd, fmt.Sprintf("%s/> ", username), repositoryOptions(state))
		if errors.Is(err, fuzzy.ErrCancelled) {
			return reportedStatus(failed)
		}
		if err != nil {
			return fmt.Errorf("failed to select repository: %w", err)
		}

		if choice == actionLoadMore {
			controller.LoadMore(ctx)
			if reportErrors(cmd.ErrOrStderr(), controller.ErrorEvents()) {
				failed = true
			}
			continue
		}

		repo, ok := findRepository(state.Items, choice)
		if !ok {
			continue
		}
		if reposOpen {
			if err := urlOpener.Open(repo.HTMLURL); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  %v\n", err)
				fmt.Fprintln(cmd.OutOrStdout(), repo.HTMLURL)
			}
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), repo.HTMLURL)
	}
}

func findRepository(repos []github.RepositorySummary, name string) (github.RepositorySummary, bool) {
	for _, r := range repos {
		if r.Name == name {
			return r, true
		}
	}
	return github.RepositorySummary{}, false
}
