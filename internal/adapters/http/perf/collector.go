// Package perf keeps a bounded in-memory history of request and query
// timings for the admin performance endpoint.
package perf

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// String returns the kind name used in JSON output.
func (k EntryKind) String() string {
	if k == KindQuery {
		return "query"
	}
	return "request"
}

// Entry is a single timing record.
// Label is the matched route pattern ("GET /api/members/{id}") or the SQL
// operation label ("SELECT document").
type Entry struct {
	Kind       EntryKind
	Label      string
	StatusCode int // 0 for queries
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer of timing entries.
// When full, the oldest entries are overwritten. Aggregation happens on read.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	pos     int
	count   atomic.Int64
}

// NewCollector creates a collector with the given ring buffer capacity.
// POST: size <= 0 selects DefaultRingSize
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record appends an entry, overwriting the oldest when the buffer is full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % len(c.entries)
	c.mu.Unlock()
	c.count.Add(1)
}

// TotalRecorded returns the number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.count.Load()
}

// LabelStat aggregates timing for one route or query label.
type LabelStat struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
	TotalMs float64 `json:"totalMs"`
	Errors  int     `json:"errors,omitempty"`
}

// Snapshot is the aggregated view of the entries inside a time window.
type Snapshot struct {
	Since          time.Time   `json:"since"`
	TotalRecorded  int64       `json:"totalRecorded"`
	Requests       int         `json:"requests"`
	ServerErrors   int         `json:"serverErrors"`
	RequestP50Ms   float64     `json:"requestP50Ms"`
	RequestP95Ms   float64     `json:"requestP95Ms"`
	RequestP99Ms   float64     `json:"requestP99Ms"`
	SlowestRoutes  []LabelStat `json:"slowestRoutes"`
	SlowestQueries []LabelStat `json:"slowestQueries"`
}

// Snapshot aggregates entries recorded at or after since.
// PRE: topN > 0
// POST: Slowest lists are ordered by average duration, longest first
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := slices.Clone(c.entries)
	c.mu.Unlock()

	snap := Snapshot{Since: since, TotalRecorded: c.TotalRecorded()}
	var durations []float64
	routes := make(map[string]*LabelStat)
	queries := make(map[string]*LabelStat)

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		stats := queries
		if e.Kind == KindRequest {
			stats = routes
			snap.Requests++
			durations = append(durations, e.DurationMs)
			if e.StatusCode >= 500 {
				snap.ServerErrors++
			}
		}
		s, ok := stats[e.Label]
		if !ok {
			s = &LabelStat{Label: e.Label}
			stats[e.Label] = s
		}
		s.Count++
		s.TotalMs += e.DurationMs
		s.MaxMs = max(s.MaxMs, e.DurationMs)
		if e.StatusCode >= 500 {
			s.Errors++
		}
	}

	snap.SlowestRoutes = topByAvg(routes, topN)
	snap.SlowestQueries = topByAvg(queries, topN)
	if len(durations) > 0 {
		slices.Sort(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

func topByAvg(stats map[string]*LabelStat, n int) []LabelStat {
	list := make([]LabelStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	slices.SortFunc(list, func(a, b LabelStat) int {
		if c := cmp.Compare(b.AvgMs, a.AvgMs); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return list
}
