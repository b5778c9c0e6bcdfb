package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line on a terminal while a slow step runs.
type spinner struct {
	w       io.Writer
	message string
	every   time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	stopped chan struct{}
}

func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{w: w, message: message, every: 80 * time.Millisecond}
}

// start begins the animation. It is a no-op once started.
func (s *spinner) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.stopped = make(chan struct{})

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(s.every)
		defer ticker.Stop()
		for i := 0; ; i++ {
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(s.message))
			select {
			case <-s.stop:
				fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
				return
			case <-ticker.C:
			}
		}
	}()
}

// halt stops the animation and clears the line. It is safe to call more
// than once and before start.
func (s *spinner) halt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	<-s.stopped
}

// withSpinner runs fn while a spinner shows message on stderr. Nothing is
// drawn when stderr is not a terminal.
func withSpinner(ctx context.Context, message string, fn func(context.Context) error) error {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return fn(ctx)
	}
	s := newSpinner(os.Stderr, message)
	s.start()
	defer s.halt()
	return fn(ctx)
}
