package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"golang.org/x/term"

	"ghbrowse/pkg/browse"
	"ghbrowse/pkg/github"
)

// terminalWidth returns the width of w when it is a terminal, or 0
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// truncate shortens s to at most limit runes, marking the cut with an ellipsis.
// limit <= 0 disables truncation.
func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

// reportErrors prints every pending error event and reports whether there were any
func reportErrors(w io.Writer, events <-chan browse.ErrorEvent) bool {
	reported := false
	for {
		select {
		case ev := <-events:
			fmt.Fprintf(w, "❌ %s\n", ev.Message)
			reported = true
		default:
			return reported
		}
	}
}

func printUsers(w io.Writer, users []github.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLOGIN\tAVATAR")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Username, u.AvatarURL)
	}
	_ = tw.Flush()
}

func printUserDetail(w io.Writer, detail github.UserDetail) {
	if detail.Username == "" {
		return
	}
	name := detail.Username
	if detail.DisplayName != "" {
		name = fmt.Sprintf("%s (%s)", detail.DisplayName, detail.Username)
	}
	fmt.Fprintf(w, "👤 %s\n", name)
	fmt.Fprintf(w, "   %d followers · %d following\n", detail.FollowerCount, detail.FollowingCount)
	if detail.AvatarURL != "" {
		fmt.Fprintf(w, "   %s\n", detail.AvatarURL)
	}
	fmt.Fprintln(w)
}

// printRepositories prints one row per repository. Descriptions are cut so
// rows fit in width columns when width is known.
func printRepositories(w io.Writer, repos []github.RepositorySummary, width int) {
	nameWidth, langWidth := len("NAME"), len("LANGUAGE")
	for _, r := range repos {
		nameWidth = max(nameWidth, utf8.RuneCountInString(r.Name))
		langWidth = max(langWidth, utf8.RuneCountInString(r.Language))
	}

	descWidth := 0
	if width > 0 {
		// name, stars, language and the padding between the four columns
		descWidth = max(width-nameWidth-langWidth-len("STARS")-6, 10)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTARS\tLANGUAGE\tDESCRIPTION")
	for _, r := range repos {
		language := r.Language
		if language == "" {
			language = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			r.Name,
			strconv.Itoa(r.StarCount),
			language,
			truncate(strings.Join(strings.Fields(r.Description), " "), descWidth),
		)
	}
	_ = tw.Flush()
}

func printMoreHint(w io.Writer, noun string, hasMore bool, pages int) {
	if !hasMore {
		return
	}
	fmt.Fprintf(w, "… more %s available, rerun with --pages %d to load them\n", noun, pages+1)
}
