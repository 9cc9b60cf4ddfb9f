package ui

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/drake/gridbench/event"
	"github.com/drake/gridbench/grid"
	"github.com/drake/gridbench/session"
)

// ConsoleUI implements session.Display on plain line-oriented streams.
// Each input line is one command: t, s, c [scenario], a, p or q.
type ConsoleUI struct {
	in      io.Reader
	out     io.Writer
	actions chan event.Event

	mu       sync.Mutex // guards out and previews
	previews map[grid.Kind]string

	done     chan struct{}
	doneOnce sync.Once
}

// NewConsoleUI initializes a line based interface reading in and writing out.
func NewConsoleUI(in io.Reader, out io.Writer) *ConsoleUI {
	return &ConsoleUI{
		in:       in,
		out:      out,
		actions:  make(chan event.Event, 64),
		previews: make(map[grid.Kind]string),
		done:     make(chan struct{}),
	}
}

// Events implements session.Display.
func (c *ConsoleUI) Events() <-chan event.Event {
	return c.actions
}

// Measure prints one measurement per line.
func (c *ConsoleUI) Measure(m session.Measurement) {
	c.println(m.String())
}

// Preview stores the latest view; "p" prints it.
func (c *ConsoleUI) Preview(kind grid.Kind, view string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previews[kind] = view
}

// Status prints the status text.
func (c *ConsoleUI) Status(text string) {
	c.println("-- " + text)
}

func (c *ConsoleUI) println(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, text)
}

// Run starts the UI and blocks until done
func (c *ConsoleUI) Run() error {
	scanner := bufio.NewScanner(c.in)
	scanDone := make(chan error, 1)

	go func() {
		for scanner.Scan() {
			if !c.handle(strings.Fields(scanner.Text())) {
				scanDone <- nil
				return
			}
		}
		scanDone <- scanner.Err()
	}()

	select {
	case <-c.done:
		return nil
	case err := <-scanDone:
		c.Quit()
		return err
	}
}

// handle runs one command line and reports whether to keep reading.
func (c *ConsoleUI) handle(fields []string) bool {
	if len(fields) == 0 {
		return true
	}
	var ev event.Event
	switch fields[0] {
	case "t", "table":
		ev = event.CreateWidget(grid.Table)
	case "s", "sheet":
		ev = event.CreateWidget(grid.Sheet)
	case "c", "color":
		name := ""
		if len(fields) > 1 {
			name = fields[1]
		}
		ev = event.ColorAll(name)
	case "a", "auto":
		ev = event.Event{Type: event.AutoToggle}
	case "p", "preview":
		c.printPreviews()
		return true
	case "q", "quit":
		return false
	default:
		c.println(fmt.Sprintf("-- unknown command %q (t, s, c, a, p, q)", fields[0]))
		return true
	}

	select {
	case c.actions <- ev:
		return true
	case <-c.done:
		return false
	}
}

func (c *ConsoleUI) printPreviews() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.previews) == 0 {
		fmt.Fprintln(c.out, "-- no widgets yet")
		return
	}
	kinds := make([]string, 0, len(c.previews))
	for k := range c.previews {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(c.out, "[%s]\n%s\n", k, c.previews[grid.Kind(k)])
	}
}

// Done returns a channel that closes when the UI is done
func (c *ConsoleUI) Done() <-chan struct{} {
	return c.done
}

// Quit requests the console UI to exit.
func (c *ConsoleUI) Quit() {
	c.doneOnce.Do(func() {
		close(c.done)
	})
}
