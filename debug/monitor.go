// Package debug provides runtime monitoring and diagnostics.
package debug

import (
	"context"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/drake/gridbench/grid"
	"github.com/drake/gridbench/internal/logging"
	"github.com/drake/gridbench/internal/styler"
)

// Enabled returns true if debug mode is requested (GRIDBENCH_DEBUG=1).
func Enabled() bool {
	return os.Getenv("GRIDBENCH_DEBUG") == "1"
}

// StatsSource reports scheduler statistics per widget.
type StatsSource interface {
	Stats(ctx context.Context) (map[grid.Kind]styler.Stats, error)
}

// Monitor periodically logs scheduler statistics.
type Monitor struct {
	source   StatsSource
	interval time.Duration
	clock    clockwork.Clock
	log      *logging.Logger
}

// NewMonitor creates a monitor for source. It returns nil unless enabled.
func NewMonitor(source StatsSource, log *logging.Logger, enabled bool) *Monitor {
	if !enabled {
		return nil
	}
	return &Monitor{
		source:   source,
		interval: 5 * time.Second,
		clock:    clockwork.NewRealClock(),
		log:      log,
	}
}

// Start begins the monitoring loop; it stops when ctx is done.
func (m *Monitor) Start(ctx context.Context) {
	if m == nil {
		return
	}
	go m.run(ctx)
}

func (m *Monitor) run(ctx context.Context) {
	ticker := m.clock.NewTicker(m.interval)
	defer ticker.Stop()

	m.log.Debugf("monitor: started")
	for {
		select {
		case <-ctx.Done():
			m.log.Debugf("monitor: stopped")
			return
		case <-ticker.Chan():
			m.logStats(ctx)
		}
	}
}

func (m *Monitor) logStats(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()
	stats, err := m.source.Stats(ctx)
	if err != nil {
		m.log.Debugf("monitor: stats unavailable: %v", err)
		return
	}

	kinds := make([]string, 0, len(stats))
	for k := range stats {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		s := stats[grid.Kind(k)]
		m.log.Debugf("monitor: %s state=%s queued=%d scheduled=%d applied=%d flushes=%d last=%d/%s goroutines=%d",
			k, s.State, s.Queued, s.Scheduled, s.Applied, s.Flushes,
			s.Last.Mutations, s.Last.Apply+s.Last.Render, runtime.NumGoroutine())
	}
}
