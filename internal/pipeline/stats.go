//-------------------------------------------------------------------------
//
// pgEdge Inventory Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pgEdge/pgedge-inventory/internal/logging"
)

// Stats records per-operation call counts, failures and latency.
type Stats struct {
	startTime time.Time
	ops       sync.Map // map[string]*opMetric
}

type opMetric struct {
	count      atomic.Int64
	durationNs atomic.Int64
	errors     atomic.Int64
	rows       atomic.Int64
}

// OpStats is a snapshot of one operation's metrics.
type OpStats struct {
	Name     string
	Count    int64
	Errors   int64
	Rows     int64
	Duration time.Duration
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

func (s *Stats) metric(name string) *opMetric {
	if m, ok := s.ops.Load(name); ok {
		return m.(*opMetric)
	}
	m, _ := s.ops.LoadOrStore(name, &opMetric{})
	return m.(*opMetric)
}

// Observe records one call of an operation that touched rows rows.
func (s *Stats) Observe(name string, start time.Time, rows int64, err error) {
	m := s.metric(name)
	m.count.Add(1)
	m.durationNs.Add(int64(time.Since(start)))
	m.rows.Add(rows)
	if err != nil {
		m.errors.Add(1)
	}
}

// Snapshot returns the metrics of every observed operation, sorted by name.
func (s *Stats) Snapshot() []OpStats {
	var out []OpStats
	s.ops.Range(func(key, value any) bool {
		m := value.(*opMetric)
		out = append(out, OpStats{
			Name:     key.(string),
			Count:    m.count.Load(),
			Errors:   m.errors.Load(),
			Rows:     m.rows.Load(),
			Duration: time.Duration(m.durationNs.Load()),
		})
		return true
	})
	slices.SortFunc(out, func(a, b OpStats) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// PrintSummary logs the per-operation statistics.
func (s *Stats) PrintSummary() {
	ops := s.Snapshot()
	if len(ops) == 0 {
		return
	}

	logging.Debug().
		Dur("elapsed", time.Since(s.startTime)).
		Int("operations", len(ops)).
		Msg("Pipeline summary")

	for _, op := range ops {
		var avgMs float64
		if op.Count > 0 {
			avgMs = float64(op.Duration) / float64(op.Count) / 1e6
		}
		logging.Debug().
			Str("operation", op.Name).
			Int64("count", op.Count).
			Int64("errors", op.Errors).
			Int64("rows", op.Rows).
			Float64("avg_latency_ms", avgMs).
			Msg("")
	}
}
