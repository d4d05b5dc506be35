// Package perf keeps a bounded in-process history of request and partner-store query
// timings and summarises it for GET /api/perf.
package perf

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the number of timings kept before the oldest are overwritten.
const DefaultRingSize = 10000

// Kind separates HTTP requests from database statements.
type Kind uint8

const (
	KindRequest Kind = iota
	KindQuery
)

// Entry is one timing.
// Name is "METHOD /path" for requests and "verb table" (e.g. "select partner") for queries.
type Entry struct {
	Kind     Kind
	Name     string
	Status   int // HTTP status; 0 for queries
	Failed   bool
	Duration time.Duration
	At       time.Time
}

func (e Entry) ms() float64 {
	return float64(e.Duration.Microseconds()) / 1000.0
}

// Collector is a fixed-size ring of entries. Record never allocates;
// aggregation happens on Snapshot.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	next    int

	total atomic.Int64
}

// NewCollector creates a collector holding the last size entries.
// POST: size <= 0 falls back to DefaultRingSize
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores e, overwriting the oldest entry when the ring is full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.next] = e
	c.next = (c.next + 1) % len(c.entries)
	c.mu.Unlock()
	c.total.Add(1)
}

// TotalRecorded is the number of entries ever recorded, including overwritten ones.
func (c *Collector) TotalRecorded() int64 {
	return c.total.Load()
}

// Snapshot is the /api/perf payload.
type Snapshot struct {
	Since          time.Time `json:"since"`
	TotalRequests  int64     `json:"total_requests"`
	WindowRequests int       `json:"window_requests"`
	ServerErrors   int       `json:"server_errors"`
	QueryErrors    int       `json:"query_errors"`
	RequestP50Ms   float64   `json:"request_p50_ms"`
	RequestP95Ms   float64   `json:"request_p95_ms"`
	RequestP99Ms   float64   `json:"request_p99_ms"`
	SlowestRoutes  []Stat    `json:"slowest_routes"`
	SlowestQueries []Stat    `json:"slowest_queries"`
}

// Stat aggregates the entries sharing a name.
type Stat struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Errors  int     `json:"errors"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	TotalMs float64 `json:"total_ms"`
}

func (s *Stat) add(e Entry) {
	ms := e.ms()
	s.Count++
	s.TotalMs += ms
	s.MaxMs = max(s.MaxMs, ms)
	if e.Failed {
		s.Errors++
	}
}

// Snapshot aggregates the entries recorded at or after since.
// Routes and queries are ranked by average duration and cut to topN each.
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := slices.Clone(c.entries)
	c.mu.Unlock()

	snap := Snapshot{Since: since, TotalRequests: c.TotalRecorded()}
	routes := make(map[string]*Stat)
	queries := make(map[string]*Stat)
	var durations []float64

	for _, e := range buf {
		if e.At.IsZero() || e.At.Before(since) {
			continue
		}
		group := queries
		if e.Kind == KindRequest {
			group = routes
			snap.WindowRequests++
			durations = append(durations, e.ms())
			if e.Failed {
				snap.ServerErrors++
			}
		} else if e.Failed {
			snap.QueryErrors++
		}
		s, ok := group[e.Name]
		if !ok {
			s = &Stat{Name: e.Name}
			group[e.Name] = s
		}
		s.add(e)
	}

	snap.SlowestRoutes = slowest(routes, topN)
	snap.SlowestQueries = slowest(queries, topN)
	if len(durations) > 0 {
		slices.Sort(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of sorted.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := p / 100 * float64(len(sorted)-1)
	lo, hi := int(math.Floor(idx)), int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func slowest(stats map[string]*Stat, n int) []Stat {
	list := make([]Stat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	slices.SortFunc(list, func(a, b Stat) int {
		if c := cmp.Compare(b.AvgMs, a.AvgMs); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list
}
