package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"ghbrowse/internal/browser"
	"ghbrowse/pkg/fuzzy"
)

// fakeAPI is a minimal GitHub REST API for command tests
type fakeAPI struct {
	*httptest.Server

	mu    sync.Mutex
	paths []string
	fail  map[string]int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{fail: map[string]int{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("since") == "30" {
			writeAPI(w, []interface{}{apiUser(31, "octocat")})
			return
		}
		users := []interface{}{}
		for id := 1; id <= 30; id++ {
			users = append(users, apiUser(id, fmt.Sprintf("user%d", id)))
		}
		writeAPI(w, users)
	})
	mux.HandleFunc("/search/users", func(w http.ResponseWriter, r *http.Request) {
		writeAPI(w, map[string]interface{}{
			"total_count": 1,
			"items":       []interface{}{apiUser(583231, "octocat")},
		})
	})
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		writeAPI(w, map[string]interface{}{
			"id":         583231,
			"login":      "octocat",
			"name":       "The Octocat",
			"avatar_url": "https://avatars.example.com/u/583231",
			"followers":  42,
			"following":  9,
		})
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		writeAPI(w, []interface{}{
			map[string]interface{}{
				"id":               1296269,
				"name":             "Hello-World",
				"full_name":        "octocat/Hello-World",
				"html_url":         "https://github.com/octocat/Hello-World",
				"description":      "My first repository",
				"language":         "Go",
				"stargazers_count": 80,
				"owner":            map[string]interface{}{"login": "octocat"},
			},
		})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"})
			return
		}
		w.Header().Set("X-OAuth-Scopes", "read:user")
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Remaining", "4999")
		w.Header().Set("X-RateLimit-Reset", "1893456000")
		writeAPI(w, map[string]interface{}{"id": 1, "login": "octocat"})
	})

	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.paths = append(api.paths, r.URL.Path)
		status := api.fail[r.URL.Path]
		api.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if status != 0 {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "failure"})
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(api.Close)
	return api
}

// failPath makes every request to path answer with status
func (a *fakeAPI) failPath(path string, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fail[path] = status
}

func (a *fakeAPI) requested(path string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range a.paths {
		if p == path {
			return true
		}
	}
	return false
}

func apiUser(id int, login string) map[string]interface{} {
	return map[string]interface{}{
		"id":         id,
		"login":      login,
		"avatar_url": fmt.Sprintf("https://avatars.example.com/u/%d", id),
	}
}

func writeAPI(w http.ResponseWriter, body interface{}) {
	_ = json.NewEncoder(w).Encode(body)
}

// writeTestConfig writes a config file pointing at baseURL and returns its path
func writeTestConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf("github:\n  base_url: %q\n  timeout: 5s\nlog:\n  level: warn\n", baseURL+"/")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func resetFlags() {
	configPath = ""
	logLevel = ""
	appConfig = nil

	usersQuery = ""
	usersPages = 1
	usersInteractive = false

	reposPages = 1
	reposInteractive = false
	reposOpen = false

	initForce = false
}

// executeCommand runs the root command with args and returns stdout and stderr
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GHBROWSE_BASE_URL", "")
	t.Setenv("GHBROWSE_LOG_LEVEL", "")

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// pickerScript answers picker prompts from a fixed list of choices and
// cancels once the list is exhausted
type pickerScript struct {
	mu      sync.Mutex
	choices []string
	prompts []string
	options [][]fuzzy.Option
}

func usePickerScript(t *testing.T, choices ...string) *pickerScript {
	t.Helper()
	script := &pickerScript{choices: choices}
	original := newPicker
	newPicker = func(prompt string, _ io.Reader, _ io.Writer) fuzzy.Picker {
		return &scriptedPicker{script: script, prompt: prompt}
	}
	t.Cleanup(func() { newPicker = original })
	return script
}

type scriptedPicker struct {
	script  *pickerScript
	prompt  string
	options []fuzzy.Option
}

func (p *scriptedPicker) SetOptions(options []fuzzy.Option) error {
	p.options = options
	return nil
}

func (p *scriptedPicker) SetPrompt(prompt string) {
	p.prompt = prompt
}

func (p *scriptedPicker) Select() (string, error) {
	s := p.script
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, p.prompt)
	s.options = append(s.options, p.options)
	if len(s.choices) == 0 {
		return "", fuzzy.ErrCancelled
	}
	choice := s.choices[0]
	s.choices = s.choices[1:]
	return choice, nil
}

// MockOpener records URLs instead of opening them
type MockOpener struct {
	OpenFunc func(url string) error
	Calls    []string
}

func (m *MockOpener) Open(url string) error {
	m.Calls = append(m.Calls, url)
	if m.OpenFunc != nil {
		return m.OpenFunc(url)
	}
	return nil
}

func useMockOpener(t *testing.T) *MockOpener {
	t.Helper()
	mock := &MockOpener{}
	original := urlOpener
	urlOpener = mock
	t.Cleanup(func() { urlOpener = original })
	return mock
}

var _ browser.Opener = (*MockOpener)(nil)
