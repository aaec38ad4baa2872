package statistics

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/caio/go-tdigest"
	"go.uber.org/atomic"
	"golang.org/x/exp/slices"
)

// Phase is one step of query processing.
type Phase string

const (
	PhaseRoute   = Phase("route")
	PhaseExecute = Phase("execute")
	PhaseMerge   = Phase("merge")
)

var Phases = []Phase{PhaseRoute, PhaseExecute, PhaseMerge}

// Collector keeps a t-digest of phase durations in milliseconds.
type Collector struct {
	mu        sync.Mutex
	digests   map[Phase]*tdigest.TDigest
	quantiles []float64

	queries atomic.Uint64
	failed  atomic.Uint64
}

var _ StatHolder = &Collector{}

func NewCollector(quantiles []float64) *Collector {
	q := slices.Clone(quantiles)
	slices.Sort(q)
	return &Collector{
		digests:   map[Phase]*tdigest.TDigest{},
		quantiles: q,
	}
}

// ParseQuantiles converts configured quantile strings, each within [0, 1].
func ParseQuantiles(q []string) ([]float64, error) {
	ret := make([]float64, 0, len(q))
	for _, s := range q {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse time quantile to float: \"%s\"", s)
		}
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("time quantile out of range: %v", v)
		}
		ret = append(ret, v)
	}
	return ret, nil
}

func (c *Collector) Quantiles() []float64 {
	return c.quantiles
}

func (c *Collector) RecordPhase(phase Phase, d time.Duration) {
	observePhase(phase, d)

	c.mu.Lock()
	defer c.mu.Unlock()

	td, ok := c.digests[phase]
	if !ok {
		td, _ = tdigest.New()
		c.digests[phase] = td
	}
	_ = td.Add(float64(d.Microseconds()) / 1000)
}

func (c *Collector) RecordQuery(failed bool) {
	observeQuery(failed)

	c.queries.Inc()
	if failed {
		c.failed.Inc()
	}
}

// TimeQuantile returns the q-th quantile of a phase in milliseconds,
// 0 when nothing was recorded.
func (c *Collector) TimeQuantile(phase Phase, q float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	td, ok := c.digests[phase]
	if !ok {
		return 0
	}
	return td.Quantile(q)
}

func (c *Collector) Queries() uint64 {
	return c.queries.Load()
}

func (c *Collector) Failed() uint64 {
	return c.failed.Load()
}
