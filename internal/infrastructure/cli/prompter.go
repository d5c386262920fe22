package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Prompter runs the clarification and confirmation dialogs on stdio.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ask poses a clarification question with its ranked suggestions and
// returns the raw answer line.
func (p *Prompter) Ask(question string, suggestions []string) (string, error) {
	fmt.Fprintf(p.out, "\n%s\n", question)
	for _, s := range suggestions {
		fmt.Fprintf(p.out, "  - %s\n", s)
	}
	fmt.Fprint(p.out, "> ")
	line, err := p.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm shows the plan summary and asks for a yes/no.
func (p *Prompter) Confirm(summary string) (bool, error) {
	fmt.Fprintf(p.out, "\n%s\n", summary)
	fmt.Fprint(p.out, "Proceed? [y/N]: ")
	line, err := p.in.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// WaitForUndo holds the grace window open: pressing Enter before it closes
// requests an undo. Returns true when the user asked to undo.
func (p *Prompter) WaitForUndo(window time.Duration) bool {
	if window <= 0 {
		return false
	}
	fmt.Fprintf(p.out, "Press Enter within %ds to undo... ", int(window/time.Second))

	pressed := make(chan struct{}, 1)
	go func() {
		if _, err := p.in.ReadString('\n'); err == nil {
			pressed <- struct{}{}
		}
	}()

	select {
	case <-pressed:
		return true
	case <-time.After(window):
		fmt.Fprintln(p.out)
		return false
	}
}
