package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Opener opens URLs in the user's browser
type Opener interface {
	Open(rawURL string) error
}

// DefaultOpener starts the platform's URL handler
type DefaultOpener struct {
	goos  string
	start func(name string, args ...string) error
}

// NewOpener creates an opener for the running platform
func NewOpener() *DefaultOpener {
	return &DefaultOpener{
		goos: runtime.GOOS,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// Open opens rawURL without waiting for the browser. Only absolute http
// and https URLs are accepted.
func (o *DefaultOpener) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not an http(s) URL", rawURL)
	}

	var name string
	var args []string
	switch o.goos {
	case "darwin":
		name, args = "open", []string{rawURL}
	case "linux", "freebsd", "openbsd", "netbsd":
		name, args = "xdg-open", []string{rawURL}
	case "windows":
		name, args = "rundll32", []string{"url.dll,FileProtocolHandler", rawURL}
	default:
		return fmt.Errorf("unsupported platform: %s", o.goos)
	}

	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
