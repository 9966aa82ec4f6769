package fuzzy

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the user leaves a picker without choosing
var ErrCancelled = errors.New("selection cancelled")

// Option represents a selectable entry
type Option struct {
	Value       string
	Description string
}

// Picker lets the user choose one option
type Picker interface {
	SetOptions(options []Option) error
	SetPrompt(prompt string)
	Select() (string, error)
}

// Finder is a line-based picker for terminals where fzf cannot run.
// The user either types a number or a filter narrowing the list.
type Finder struct {
	prompt  string
	options []Option
	in      *bufio.Reader
	out     io.Writer
}

// New creates a finder reading stdin and writing to stdout
func New(prompt string) *Finder {
	return NewWithIO(prompt, os.Stdin, os.Stdout)
}

// NewWithIO creates a finder on the given streams. A *bufio.Reader is read
// directly, so finders and prompts sharing one never lose buffered input.
func NewWithIO(prompt string, in io.Reader, out io.Writer) *Finder {
	r, ok := in.(*bufio.Reader)
	if !ok {
		r = bufio.NewReader(in)
	}
	return &Finder{
		prompt: prompt,
		in:     r,
		out:    out,
	}
}

// AddOption appends an option
func (f *Finder) AddOption(value, description string) {
	f.options = append(f.options, Option{Value: value, Description: description})
}

// SetOptions replaces the options
func (f *Finder) SetOptions(options []Option) error {
	if options == nil {
		return fmt.Errorf("options cannot be nil")
	}
	f.options = append([]Option(nil), options...)
	return nil
}

// SetPrompt updates the prompt message
func (f *Finder) SetPrompt(prompt string) {
	f.prompt = prompt
}

// Options returns the current options
func (f *Finder) Options() []Option {
	return f.options
}

// Select lists the options and reads the user's choice. A number picks from
// the list on screen; any other text filters it. A filter matching a single
// option picks it. An empty line or end of input cancels.
func (f *Finder) Select() (string, error) {
	if len(f.options) == 0 {
		return "", fmt.Errorf("no options available")
	}

	shown := f.options
	for {
		fmt.Fprintln(f.out, f.prompt)
		fmt.Fprintln(f.out, strings.Repeat("-", len(f.prompt)))
		for i, option := range shown {
			fmt.Fprintf(f.out, "%d. %s", i+1, option.Value)
			if option.Description != "" {
				fmt.Fprintf(f.out, " - %s", option.Description)
			}
			fmt.Fprintln(f.out)
		}
		fmt.Fprintf(f.out, "\nSelect (1-%d) or type to filter, empty to cancel: ", len(shown))

		input, err := f.in.ReadString('\n')
		input = strings.TrimSpace(input)
		if err != nil && input == "" {
			if errors.Is(err, io.EOF) {
				return "", ErrCancelled
			}
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		if input == "" {
			return "", ErrCancelled
		}

		if selection, convErr := strconv.Atoi(input); convErr == nil {
			if selection >= 1 && selection <= len(shown) {
				return shown[selection-1].Value, nil
			}
			fmt.Fprintf(f.out, "Selection %d is out of range (1-%d)\n\n", selection, len(shown))
			continue
		}

		filtered := f.filterOptions(input)
		switch len(filtered) {
		case 0:
			fmt.Fprintf(f.out, "No options match filter: %s\n\n", input)
			shown = f.options
		case 1:
			fmt.Fprintf(f.out, "Auto-selecting: %s\n", filtered[0].Value)
			return filtered[0].Value, nil
		default:
			fmt.Fprintln(f.out)
			shown = filtered
		}
	}
}

// filterOptions returns the options whose value or description contains filter, case-insensitively
func (f *Finder) filterOptions(filter string) []Option {
	filter = strings.ToLower(filter)
	var filtered []Option

	for _, option := range f.options {
		if strings.Contains(strings.ToLower(option.Value), filter) ||
			strings.Contains(strings.ToLower(option.Description), filter) {
			filtered = append(filtered, option)
		}
	}

	return filtered
}

var _ Picker = (*Finder)(nil)
