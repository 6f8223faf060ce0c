package dimension

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/term"
)

// DefaultPollInterval is how often Poll reads the terminal size.
const DefaultPollInterval = 200 * time.Millisecond

// Poll reads the size of the terminal behind fd every interval and feeds it
// into src until ctx is done. Read errors end polling.
func Poll(ctx context.Context, fd int, interval time.Duration, metrics CellMetrics, src *Source) error {
	if !term.IsTerminal(fd) {
		return fmt.Errorf("file descriptor %d is not a terminal", fd)
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	read := func() error {
		cols, rows, err := term.GetSize(fd)
		if err != nil {
			return fmt.Errorf("read terminal size: %w", err)
		}
		src.Set(metrics.ToViewport(cols, rows))
		return nil
	}
	if err := read(); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := read(); err != nil {
				return err
			}
		}
	}
}
