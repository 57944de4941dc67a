// Package trace holds the sampled data of every loaded trace and answers the
// range queries the charts need: y-extents, averages and threshold tests.
package trace

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"tracegraph/internal/chart"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrUnknownTrace is returned when a handle is not in the store.
	ErrUnknownTrace = errors.New("unknown trace")
	// ErrNoData is returned when a query covers no samples at all.
	ErrNoData = errors.New("no samples")
)

// Sample is one data point of a trace.
type Sample struct {
	X float64
	Y float64
}

// Data is a loaded trace. Samples are sorted by X.
type Data struct {
	ID      string
	XType   chart.XType
	Samples []Sample
}

// Store keeps trace data addressable by handle. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	traces map[chart.Handle]*Data
	next   chart.Handle
}

// NewStore creates an empty trace store.
func NewStore() *Store {
	return &Store{
		traces: make(map[chart.Handle]*Data),
		next:   1,
	}
}

// Add stores a trace built from parallel x/y slices and returns its handle.
func (s *Store) Add(id string, xType chart.XType, xs, ys []float64) (chart.Handle, error) {
	if len(xs) != len(ys) {
		return 0, fmt.Errorf("trace %s: %d x values but %d y values", id, len(xs), len(ys))
	}

	samples := make([]Sample, len(xs))
	for i := range xs {
		samples[i] = Sample{X: xs[i], Y: ys[i]}
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].X < samples[j].X })

	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.next
	s.next++
	s.traces[h] = &Data{ID: id, XType: xType, Samples: samples}
	return h, nil
}

// Remove deletes a trace. Unknown handles are ignored.
func (s *Store) Remove(h chart.Handle) {
	s.mu.Lock()
	delete(s.traces, h)
	s.mu.Unlock()
}

// Get returns the trace for a handle.
func (s *Store) Get(h chart.Handle) (*Data, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.traces[h]
	return d, ok
}

// Len returns the number of stored traces.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.traces)
}

// SamplesIn returns the samples of h with from <= X <= to.
func (s *Store) SamplesIn(h chart.Handle, from, to float64) ([]Sample, error) {
	d, ok := s.Get(h)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTrace, h)
	}
	return d.in(from, to), nil
}

func (d *Data) in(from, to float64) []Sample {
	lo := sort.Search(len(d.Samples), func(i int) bool { return d.Samples[i].X >= from })
	hi := sort.Search(len(d.Samples), func(i int) bool { return d.Samples[i].X > to })
	return d.Samples[lo:hi]
}

func ys(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, smp := range samples {
		out[i] = smp.Y
	}
	return out
}

// YExtents returns the smallest and largest y value of the given traces
// within [from, to].
func (s *Store) YExtents(from, to float64, handles []chart.Handle) (lo, hi float64, err error) {
	var values []float64
	for _, h := range handles {
		samples, err := s.SamplesIn(h, from, to)
		if err != nil {
			return 0, 0, err
		}
		values = append(values, ys(samples)...)
	}
	if len(values) == 0 {
		return 0, 0, ErrNoData
	}
	return floats.Min(values), floats.Max(values), nil
}

// XSpan returns the x-range covered by the given traces.
func (s *Store) XSpan(handles []chart.Handle) (from, to float64, err error) {
	var xs []float64
	for _, h := range handles {
		d, ok := s.Get(h)
		if !ok {
			return 0, 0, fmt.Errorf("%w: %d", ErrUnknownTrace, h)
		}
		if n := len(d.Samples); n > 0 {
			xs = append(xs, d.Samples[0].X, d.Samples[n-1].X)
		}
	}
	if len(xs) == 0 {
		return 0, 0, ErrNoData
	}
	return floats.Min(xs), floats.Max(xs), nil
}

// Average is the mean y value of one trace over a range.
type Average struct {
	Handle chart.Handle
	Mean   float64
}

// Averages returns the mean of each trace within [from, to], sorted
// ascending by mean. Traces without samples in range are skipped.
func (s *Store) Averages(from, to float64, handles []chart.Handle) ([]Average, error) {
	out := make([]Average, 0, len(handles))
	for _, h := range handles {
		samples, err := s.SamplesIn(h, from, to)
		if err != nil {
			return nil, err
		}
		if len(samples) == 0 {
			continue
		}
		out = append(out, Average{Handle: h, Mean: stat.Mean(ys(samples), nil)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mean < out[j].Mean })
	return out, nil
}

// Exceeds reports whether any sample of h within [from, to] has |y| >= threshold.
func (s *Store) Exceeds(h chart.Handle, from, to, threshold float64) (bool, error) {
	samples, err := s.SamplesIn(h, from, to)
	if err != nil {
		return false, err
	}
	for _, smp := range samples {
		if smp.Y >= threshold || -smp.Y >= threshold {
			return true, nil
		}
	}
	return false, nil
}

// IsZero reports whether every sample of h within [from, to] is zero. A
// trace without samples in range counts as zero.
func (s *Store) IsZero(h chart.Handle, from, to float64) (bool, error) {
	samples, err := s.SamplesIn(h, from, to)
	if err != nil {
		return false, err
	}
	for _, smp := range samples {
		if smp.Y != 0 {
			return false, nil
		}
	}
	return true, nil
}
