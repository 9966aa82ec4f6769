package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ghbrowse/pkg/browse"
	"ghbrowse/pkg/fuzzy"
	"ghbrowse/pkg/github"
	"ghbrowse/pkg/logger"
)

var (
	usersQuery       string
	usersPages       int
	usersInteractive bool
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List or search GitHub users",
	Long: `List GitHub users in account order, or search them with --query.

Pages of 30 users are fetched on demand. With --interactive the list opens
in a fuzzy finder where you can load more users, start a new search or pick
a user to browse their repositories.`,
	Args: cobra.NoArgs,
	RunE: runUsers,
}

func init() {
	usersCmd.Flags().StringVarP(&usersQuery, "query", "q", "", "search users matching this query")
	usersCmd.Flags().IntVarP(&usersPages, "pages", "p", 1, "number of pages to fetch")
	usersCmd.Flags().BoolVarP(&usersInteractive, "interactive", "i", false, "browse users in a fuzzy finder")
}

func runUsers(cmd *cobra.Command, _ []string) error {
	if usersPages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}

	client, err := newClient(appConfig)
	if err != nil {
		return err
	}

	controller := browse.NewUsersController(client, browse.UsersOptions{
		SearchDebounce: appConfig.Browse.SearchDebounce,
		Logger:         logrus.NewEntry(logger.GetLogger()),
	})
	defer controller.Close()

	ctx := cmd.Context()
	if usersInteractive {
		return browseUsers(ctx, cmd, controller, client)
	}

	controller.ChangeQuery(ctx, usersQuery)
	failed := reportErrors(cmd.ErrOrStderr(), controller.ErrorEvents())
	for page := 1; !failed && page < usersPages; page++ {
		if !controller.LoadMore(ctx) {
			break
		}
		failed = reportErrors(cmd.ErrOrStderr(), controller.ErrorEvents())
	}

	state := controller.State()
	if len(state.Items) > 0 {
		printUsers(cmd.OutOrStdout(), state.Items)
	} else if !failed {
		fmt.Fprintln(cmd.OutOrStdout(), "No users found")
	}
	if failed {
		return errReported
	}
	printMoreHint(cmd.ErrOrStderr(), "users", state.HasMore(), usersPages)
	return nil
}

// browseUsers runs the interactive users list until the user cancels. It
// returns errReported if any failure was shown, including one while browsing
// a picked user's repositories.
func browseUsers(ctx context.Context, cmd *cobra.Command, controller *browse.UsersController, client github.APIClient) error {
	controller.ChangeQuery(ctx, usersQuery)
	failed := reportErrors(cmd.ErrOrStderr(), controller.ErrorEvents())

	for {
		if err := ctx.Err(); err != nil {
			return reportedStatus(failed)
		}

		prompt := "Users> "
		if usersQuery != "" {
			prompt = fmt.Sprintf("Users matching %q> ", usersQuery)
		}

		choice, err := pick(cmd, prompt, userOptions(controller.State()))
		if errors.Is(err, fuzzy.ErrCancelled) {
			return reportedStatus(failed)
		}
		if err != nil {
			return fmt.Errorf("failed to select user: %w", err)
		}

		switch choice {
		case actionLoadMore:
			controller.LoadMore(ctx)

		case actionSearch:
			query, err := readLine(input, cmd.ErrOrStderr(), "Search (empty lists all users): ")
			if err != nil {
				return reportedStatus(failed)
			}
			usersQuery = query
			controller.ChangeQuery(ctx, query)

		default:
			err := browseRepositories(ctx, cmd, client, choice)
			if errors.Is(err, errReported) {
				failed = true
			} else if err != nil {
				return err
			}
		}
		if reportErrors(cmd.ErrOrStderr(), controller.ErrorEvents()) {
			failed = true
		}
	}
}
