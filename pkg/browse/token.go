package browse

import "fmt"

// Token describes how to fetch the next page of a listing. It is one of
// FetchSince, SearchPage, RepoPage or None.
type Token interface {
	isToken()
	fmt.Stringer
}

// FetchSince continues the plain user listing after the account with ID Since
type FetchSince struct {
	Since int64
}

// SearchPage continues a user search at the 1-based Page
type SearchPage struct {
	Query string
	Page  int
}

// RepoPage continues a user's repository listing at the 1-based Page
type RepoPage struct {
	Username string
	Page     int
}

// None marks a listing with nothing left to fetch
type None struct{}

func (FetchSince) isToken() {}
func (SearchPage) isToken() {}
func (RepoPage) isToken()   {}
func (None) isToken()       {}

func (t FetchSince) String() string { return fmt.Sprintf("since:%d", t.Since) }
func (t SearchPage) String() string { return fmt.Sprintf("search:%q page:%d", t.Query, t.Page) }
func (t RepoPage) String() string   { return fmt.Sprintf("repos:%s page:%d", t.Username, t.Page) }
func (None) String() string         { return "none" }

// IsNone reports whether t is terminal. A nil token counts as terminal.
func IsNone(t Token) bool {
	if t == nil {
		return true
	}
	_, ok := t.(None)
	return ok
}
