package fuzzy

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	fzf "github.com/junegunn/fzf/src"
)

// FzfRunner runs fzf with prepared options
type FzfRunner interface {
	Run(opts *fzf.Options) (int, error)
}

// DefaultFzfRunner runs the embedded fzf library
type DefaultFzfRunner struct{}

// Run executes fzf with the given options
func (r *DefaultFzfRunner) Run(opts *fzf.Options) (int, error) {
	return fzf.Run(opts)
}

// FzfFinder picks an option with the embedded fzf. It falls back to a
// line-based Finder when fzf cannot start.
type FzfFinder struct {
	options  []Option
	prompt   string
	runner   FzfRunner
	fallback func(prompt string) *Finder
}

// NewFzf creates a fuzzy finder backed by fzf
func NewFzf(prompt string) *FzfFinder {
	return NewFzfWithRunner(prompt, &DefaultFzfRunner{})
}

// NewFzfWithIO creates a fuzzy finder whose fallback reads in and writes out
func NewFzfWithIO(prompt string, in io.Reader, out io.Writer) *FzfFinder {
	f := NewFzf(prompt)
	f.fallback = func(prompt string) *Finder {
		return NewWithIO(prompt, in, out)
	}
	return f
}

// NewFzfWithRunner creates a fuzzy finder with a custom runner
func NewFzfWithRunner(prompt string, runner FzfRunner) *FzfFinder {
	return &FzfFinder{
		prompt:   prompt,
		runner:   runner,
		fallback: New,
	}
}

// SetOptions sets the available options for selection
func (f *FzfFinder) SetOptions(options []Option) error {
	if options == nil {
		return fmt.Errorf("options cannot be nil")
	}

	f.options = make([]Option, len(options))
	copy(f.options, options)
	return nil
}

// SetPrompt sets the display prompt
func (f *FzfFinder) SetPrompt(prompt string) {
	f.prompt = prompt
}

// Select runs fzf over the options and returns the chosen option's Value.
// Escape or Ctrl-C yields ErrCancelled.
func (f *FzfFinder) Select() (string, error) {
	if len(f.options) == 0 {
		return "", fmt.Errorf("no options available")
	}

	// Lines are "<index>\t<label>"; only the label is displayed and searched
	args := []string{
		"--prompt=" + f.prompt + " ",
		"--height=40%",
		"--layout=reverse",
		"--no-multi",
		"--cycle",
		"--delimiter=\t",
		"--with-nth=2..",
		"--tiebreak=index",
		"--no-sort",
		"--no-mouse",
		"--border=none",
	}

	opts, err := fzf.ParseOptions(true, args)
	if err != nil {
		return "", fmt.Errorf("failed to parse fzf options: %w", err)
	}

	input := make(chan string, len(f.options))
	for i, option := range f.options {
		input <- strconv.Itoa(i) + "\t" + label(option)
	}
	close(input)

	output := make(chan string)
	opts.Input = input
	opts.Output = output

	var (
		mu       sync.Mutex
		selected []string
		done     = make(chan struct{})
	)
	go func() {
		defer close(done)
		for line := range output {
			mu.Lock()
			selected = append(selected, line)
			mu.Unlock()
		}
	}()

	exitCode, err := f.runner.Run(opts)
	close(output)
	<-done

	if err != nil {
		return f.fallbackSelect()
	}

	switch exitCode {
	case fzf.ExitOk:
	case fzf.ExitNoMatch, fzf.ExitInterrupt:
		return "", ErrCancelled
	default:
		return "", fmt.Errorf("fzf exited with code %d", exitCode)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(selected) == 0 {
		return "", ErrCancelled
	}
	return f.valueOf(selected[0])
}

// valueOf maps an fzf output line back to its option
func (f *FzfFinder) valueOf(line string) (string, error) {
	indexText, _, _ := strings.Cut(line, "\t")
	index, err := strconv.Atoi(indexText)
	if err != nil || index < 0 || index >= len(f.options) {
		return "", fmt.Errorf("unexpected fzf output %q", line)
	}
	return f.options[index].Value, nil
}

func (f *FzfFinder) fallbackSelect() (string, error) {
	finder := f.fallback(f.prompt)
	if err := finder.SetOptions(f.options); err != nil {
		return "", err
	}
	return finder.Select()
}

func label(option Option) string {
	if option.Description == "" {
		return option.Value
	}
	return option.Value + "  │  " + option.Description
}

var _ Picker = (*FzfFinder)(nil)
