package check

import (
	"sort"
	"sync"
)

// Collector merges offenses across all checks and files for one run.
// It is safe for concurrent Add calls; ordering and deduplication happen
// when Offenses is read. A Collector is scoped to a single analysis run
// and discarded after its results are consumed.
type Collector struct {
	mu       sync.Mutex
	offenses []Offense
	rank     func(checkCode string) int
}

// NewCollector creates a collector. rank maps a check code to its
// registration order and breaks ties between offenses at the same
// position; a nil rank treats all checks as equal.
func NewCollector(rank func(checkCode string) int) *Collector {
	if rank == nil {
		rank = func(string) int { return 0 }
	}
	return &Collector{rank: rank}
}

// Add records one offense.
func (c *Collector) Add(o Offense) {
	c.mu.Lock()
	c.offenses = append(c.offenses, o)
	c.mu.Unlock()
}

// Len returns the number of offenses recorded so far, before dedup.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.offenses)
}

// Offenses returns the final deduplicated list. Within each file the
// order is ascending by position start; ties follow check registration
// order. Files are ordered by path so a run's output is deterministic.
func (c *Collector) Offenses() []Offense {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[offenseKey]bool, len(c.offenses))
	out := make([]Offense, 0, len(c.offenses))
	for _, o := range c.offenses {
		k := o.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, o)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Position.Start != b.Position.Start {
			return a.Position.Start < b.Position.Start
		}
		return c.rank(a.Check) < c.rank(b.Check)
	})
	return out
}
