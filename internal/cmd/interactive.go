package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"ghbrowse/internal/browser"
	"ghbrowse/pkg/browse"
	"ghbrowse/pkg/fuzzy"
	"ghbrowse/pkg/github"
)

// Picker values for entries that are actions rather than list items.
// GitHub logins and repository names never contain ':'.
const (
	actionLoadMore = ":load-more"
	actionSearch   = ":search"
)

var (
	newPicker = func(prompt string, in io.Reader, out io.Writer) fuzzy.Picker {
		return fuzzy.NewFzfWithIO(prompt, in, out)
	}

	urlOpener browser.Opener = browser.NewOpener()

	// input is the command's stdin, buffered once per invocation and shared
	// by every prompt so piped answers are not lost between them
	input *bufio.Reader
)

// pick shows options in a fresh picker and returns the chosen value. When
// fzf cannot run, the line-based fallback reads input and lists on stderr.
func pick(cmd *cobra.Command, prompt string, options []fuzzy.Option) (string, error) {
	picker := newPicker(prompt, input, cmd.ErrOrStderr())
	if err := picker.SetOptions(options); err != nil {
		return "", err
	}
	return picker.Select()
}

func userOptions(state browse.State[github.User]) []fuzzy.Option {
	options := []fuzzy.Option{{Value: actionSearch, Description: "🔍 Search users"}}
	for _, u := range state.Items {
		options = append(options, fuzzy.Option{Value: u.Username, Description: fmt.Sprintf("#%d", u.ID)})
	}
	if state.HasMore() {
		options = append(options, fuzzy.Option{Value: actionLoadMore, Description: "⬇️  Load more"})
	}
	return options
}

func repositoryOptions(state browse.State[github.RepositorySummary]) []fuzzy.Option {
	options := make([]fuzzy.Option, 0, len(state.Items)+1)
	for _, r := range state.Items {
		desc := fmt.Sprintf("★ %d", r.StarCount)
		if r.Language != "" {
			desc += " · " + r.Language
		}
		if r.Description != "" {
			desc += " · " + truncate(r.Description, 60)
		}
		options = append(options, fuzzy.Option{Value: r.Name, Description: desc})
	}
	if state.HasMore() {
		options = append(options, fuzzy.Option{Value: actionLoadMore, Description: "⬇️  Load more"})
	}
	return options
}

// readLine prompts on out and reads one line from in
func readLine(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// reportedStatus is the result of an interactive session
func reportedStatus(failed bool) error {
	if failed {
		return errReported
	}
	return nil
}
