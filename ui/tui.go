package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/drake/gridbench/event"
	"github.com/drake/gridbench/grid"
	"github.com/drake/gridbench/session"
)

// BubbleTeaUI implements session.Display using Bubble Tea.
// It bridges the session's channel-based loop with Bubble Tea's
// model/update/view event loop.
type BubbleTeaUI struct {
	program *tea.Program
	actions chan event.Event
	opts    []tea.ProgramOption

	// Synchronization for startup
	ready     chan struct{}
	readyOnce sync.Once

	// Shutdown coordination
	done     chan struct{}
	doneOnce sync.Once

	// Pending messages queued before program starts
	pendingMsgs  []tea.Msg
	pendingMsgMu sync.Mutex
}

// NewBubbleTeaUI creates a new Bubble Tea-based UI. opts replace the
// default alt-screen program options.
func NewBubbleTeaUI(opts ...tea.ProgramOption) *BubbleTeaUI {
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	return &BubbleTeaUI{
		actions: make(chan event.Event, 64),
		opts:    opts,
		ready:   make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// sendOrQueue sends a message to the program, or queues it if not ready yet.
func (b *BubbleTeaUI) sendOrQueue(msg tea.Msg) {
	select {
	case <-b.done:
		return
	case <-b.ready:
		b.program.Send(msg)
	default:
		b.pendingMsgMu.Lock()
		b.pendingMsgs = append(b.pendingMsgs, msg)
		b.pendingMsgMu.Unlock()
	}
}

// Events implements session.Display.
func (b *BubbleTeaUI) Events() <-chan event.Event {
	return b.actions
}

// Measure implements session.Display.
// Called from the session goroutine.
func (b *BubbleTeaUI) Measure(m session.Measurement) {
	b.sendOrQueue(MeasureMsg(m))
}

// Preview implements session.Display.
func (b *BubbleTeaUI) Preview(kind grid.Kind, view string) {
	b.sendOrQueue(PreviewMsg{Kind: kind, View: view})
}

// Status implements session.Display.
func (b *BubbleTeaUI) Status(text string) {
	b.sendOrQueue(StatusTextMsg(text))
}

// Run implements session.Display - starts the TUI and blocks until exit.
func (b *BubbleTeaUI) Run() error {
	select {
	case <-b.done:
		return nil
	default:
	}
	b.program = tea.NewProgram(NewModel(b.actions), b.opts...)

	// Flush messages queued before the program existed once its loop runs.
	go func() {
		b.pendingMsgMu.Lock()
		msgs := b.pendingMsgs
		b.pendingMsgs = nil
		b.pendingMsgMu.Unlock()

		for _, msg := range msgs {
			b.program.Send(msg)
		}
	}()

	b.readyOnce.Do(func() {
		close(b.ready)
	})

	// Run blocks until quit
	_, err := b.program.Run()

	b.doneOnce.Do(func() {
		close(b.done)
	})

	return err
}

// Done returns a channel that closes when the UI exits.
func (b *BubbleTeaUI) Done() <-chan struct{} {
	return b.done
}

// Quit signals the TUI to exit.
func (b *BubbleTeaUI) Quit() {
	select {
	case <-b.ready:
		if b.program != nil {
			b.program.Quit()
		}
	default:
		// Not started yet, just close done
		b.doneOnce.Do(func() {
			close(b.done)
		})
	}
}
