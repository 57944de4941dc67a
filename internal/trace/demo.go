package trace

import (
	"fmt"
	"math"
	"math/rand"

	"tracegraph/internal/chart"

	"gonum.org/v1/gonum/floats"
)

// DemoOptions controls the traces generated by AddDemo.
type DemoOptions struct {
	Traces  int
	Samples int
	XType   chart.XType
	XStart  float64
	XEnd    float64
	Seed    int64
}

// DefaultDemoOptions returns four numeric traces of 500 samples over [0, 100].
func DefaultDemoOptions() DemoOptions {
	return DemoOptions{Traces: 4, Samples: 500, XType: chart.XTypeNumeric, XEnd: 100, Seed: 1}
}

// AddDemo fills the store with noisy sine traces and returns a chart showing
// all of them. Every fourth trace is flat zero.
func (s *Store) AddDemo(title string, opts DemoOptions) (chart.Chart, error) {
	if opts.Traces <= 0 || opts.Samples < 2 || opts.XEnd <= opts.XStart {
		return chart.Chart{}, fmt.Errorf("demo %q: invalid options %+v", title, opts)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	xs := floats.Span(make([]float64, opts.Samples), opts.XStart, opts.XEnd)
	span := opts.XEnd - opts.XStart

	c := chart.Chart{
		Title:  title,
		XLabel: "x",
		XType:  opts.XType,
		XRange: [2]float64{opts.XStart, opts.XEnd},
	}
	for i := 0; i < opts.Traces; i++ {
		ys := make([]float64, opts.Samples)
		if i%4 != 3 {
			amp := float64(i + 1)
			freq := float64(i+1) * 2 * math.Pi / span
			for j, x := range xs {
				ys[j] = amp*math.Sin(freq*(x-opts.XStart)) + 0.1*rng.NormFloat64() + float64(i)
			}
		}

		id := fmt.Sprintf("%s/%d", title, i)
		h, err := s.Add(id, opts.XType, xs, ys)
		if err != nil {
			return chart.Chart{}, fmt.Errorf("demo %q: %w", title, err)
		}
		c.Traces = append(c.Traces, chart.Trace{ID: id, Title: fmt.Sprintf("trace %d", i), Handle: h, Active: true})
	}
	return c, nil
}
