package trace

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"tracegraph/internal/chart"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

// Recommender suggests data windows that fit the visible traces.
// Identical requests in flight at the same time share one computation.
type Recommender struct {
	store  *Store
	logger *log.Logger
	group  singleflight.Group
}

// NewRecommender creates a recommender over the given store.
func NewRecommender(store *Store, logger *log.Logger) *Recommender {
	if logger == nil {
		logger = log.Default()
	}
	return &Recommender{store: store, logger: logger.WithPrefix("recommend")}
}

// RecommendExtents returns [xStart, xEnd] together with the y-extent of the
// given traces over that range. A flat extent is widened to one unit and a
// range without samples falls back to [0, 1].
func (r *Recommender) RecommendExtents(ctx context.Context, xStart, xEnd float64, handles []chart.Handle) (chart.Window, error) {
	if !(xEnd > xStart) {
		return chart.Window{}, fmt.Errorf("%w: x-range [%g, %g]", chart.ErrInvalidWindow, xStart, xEnd)
	}

	key := requestKey("range", xStart, xEnd, handles)
	return r.do(ctx, key, func() (chart.Window, error) {
		lo, hi, err := r.store.YExtents(xStart, xEnd, handles)
		if errors.Is(err, ErrNoData) {
			return chart.NewWindow(xStart, xEnd, 0, 1), nil
		}
		if err != nil {
			return chart.Window{}, err
		}
		return fitY(xStart, xEnd, lo, hi), nil
	})
}

// RecommendFullExtents returns the window covering every sample of the given traces.
func (r *Recommender) RecommendFullExtents(ctx context.Context, handles []chart.Handle) (chart.Window, error) {
	key := requestKey("full", 0, 0, handles)
	return r.do(ctx, key, func() (chart.Window, error) {
		from, to, err := r.store.XSpan(handles)
		if err != nil {
			return chart.Window{}, err
		}
		if to <= from {
			to = from + 1
		}
		lo, hi, err := r.store.YExtents(from, to, handles)
		if err != nil {
			return chart.Window{}, err
		}
		return fitY(from, to, lo, hi), nil
	})
}

func (r *Recommender) do(ctx context.Context, key string, fn func() (chart.Window, error)) (chart.Window, error) {
	ch := r.group.DoChan(key, func() (interface{}, error) {
		return fn()
	})

	select {
	case <-ctx.Done():
		return chart.Window{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			r.logger.Debug("recommendation failed", "key", key, "err", res.Err)
			return chart.Window{}, res.Err
		}
		w := res.Val.(chart.Window)
		r.logger.Debug("recommendation", "key", key, "window", w, "shared", res.Shared)
		return w, nil
	}
}

func fitY(xStart, xEnd, lo, hi float64) chart.Window {
	if hi <= lo {
		hi = lo + 1
	}
	return chart.NewWindow(xStart, xEnd, lo, hi)
}

func requestKey(kind string, from, to float64, handles []chart.Handle) string {
	sorted := append([]chart.Handle(nil), handles...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var b strings.Builder
	fmt.Fprintf(&b, "%s:%g:%g", kind, from, to)
	for _, h := range sorted {
		fmt.Fprintf(&b, ":%d", h)
	}
	return b.String()
}
