package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"evalcmp/internal/analysis"
)

// Controller runs the live UI and implements analysis.Observer.
type Controller struct {
	events    chan Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
}

// Start launches a live UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 256)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithInput(nil))
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// OnRunStart forwards the run header to the UI.
func (c *Controller) OnRunStart(benchmark, root string) {
	c.send(Event{Kind: EventRunStart, Benchmark: benchmark, Root: root})
}

// OnModelEvent forwards model progress to the UI.
func (c *Controller) OnModelEvent(event analysis.ModelEvent) {
	c.send(Event{Kind: EventModel, Model: event})
}

// Finish tells the UI the run is over and waits for it to exit.
func (c *Controller) Finish() {
	if c == nil {
		return
	}
	c.send(Event{Kind: EventRunEnd})
	c.Close()
	c.Wait()
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.events)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// send enqueues an event without blocking the caller.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
