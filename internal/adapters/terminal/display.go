package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PabloGalante/farum-chat/internal/domain"
)

const (
	promptMarker   = "> "
	pendingMessage = "... generating response"
)

var quitCommands = map[string]bool{"/quit": true, "/exit": true}

// Display is a line-oriented domain.Display over a reader and a writer.
// Turns are printed once: Render only writes what it hasn't shown yet.
type Display struct {
	in  *bufio.Scanner
	out io.Writer

	mu       sync.Mutex
	onSubmit func(text string)
	pending  bool
	shown    int
	last     string
}

func NewDisplay(in io.Reader, out io.Writer) *Display {
	return &Display{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// RawInput returns the last line read.
func (d *Display) RawInput() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

func (d *Display) OnSubmit(callback func(text string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onSubmit = callback
}

func (d *Display) ShowPending(pending bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = pending
	if pending {
		fmt.Fprintln(d.out, pendingMessage)
	}
}

func (d *Display) Render(turns []domain.Turn) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.shown > len(turns) {
		d.shown = 0
	}
	for _, t := range turns[d.shown:] {
		// the user already sees what they typed
		if t.Role == domain.RoleUser {
			continue
		}
		fmt.Fprintf(d.out, "%s %s\n", label(t.Role), t.Content)
	}
	d.shown = len(turns)
}

// Run reads lines until EOF, a quit command or ctx is done, handing each
// line to the submit callback. The callback runs synchronously, so a new
// line is not read while a submission is pending. Once ctx is done Run
// returns without waiting for the reader, and no further line is submitted.
func (d *Display) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	lines, errc := d.readLines(done)

	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Fprint(d.out, promptMarker)

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(d.out)
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(d.out)
			return <-errc
		}
		if ctx.Err() != nil {
			return nil
		}

		if quitCommands[strings.TrimSpace(line)] {
			return nil
		}

		d.mu.Lock()
		d.last = line
		cb := d.onSubmit
		busy := d.pending
		d.mu.Unlock()

		if cb == nil || busy {
			continue
		}
		cb(line)
	}
}

// readLines scans the input in its own goroutine so Run can stop on ctx
// while a read is blocked. lines is closed after the scan error, if any,
// has been sent on errc.
func (d *Display) readLines(done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		for d.in.Scan() {
			select {
			case lines <- d.in.Text():
			case <-done:
				errc <- nil
				return
			}
		}
		errc <- d.in.Err()
	}()

	return lines, errc
}

func label(r domain.Role) string {
	switch r {
	case domain.RoleAssistant:
		return "Assistant:"
	case domain.RoleError:
		return "Error:"
	case domain.RoleSystem:
		return "System:"
	default:
		return "You:"
	}
}
