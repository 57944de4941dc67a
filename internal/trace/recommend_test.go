package trace

import (
	"context"
	"testing"

	"tracegraph/internal/chart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendExtents(t *testing.T) {
	s := NewStore()
	h := mustAdd(t, s, "a", []float64{0, 10, 20, 30}, []float64{4, 8, -1, 50})
	r := NewRecommender(s, nil)

	w, err := r.RecommendExtents(context.Background(), 5, 25, []chart.Handle{h})
	require.NoError(t, err)
	assert.Equal(t, chart.NewWindow(5, 25, -1, 8), w)
}

func TestRecommendExtentsFlatAndEmpty(t *testing.T) {
	s := NewStore()
	h := mustAdd(t, s, "flat", []float64{0, 1, 2}, []float64{3, 3, 3})
	r := NewRecommender(s, nil)

	w, err := r.RecommendExtents(context.Background(), 0, 2, []chart.Handle{h})
	require.NoError(t, err)
	assert.Equal(t, chart.NewWindow(0, 2, 3, 4), w)

	w, err = r.RecommendExtents(context.Background(), 100, 200, []chart.Handle{h})
	require.NoError(t, err)
	assert.Equal(t, chart.NewWindow(100, 200, 0, 1), w)
}

func TestRecommendExtentsRejectsEmptyRange(t *testing.T) {
	r := NewRecommender(NewStore(), nil)
	_, err := r.RecommendExtents(context.Background(), 2, 2, nil)
	assert.ErrorIs(t, err, chart.ErrInvalidWindow)
}

func TestRecommendFullExtents(t *testing.T) {
	s := NewStore()
	a := mustAdd(t, s, "a", []float64{-5, 0}, []float64{1, 2})
	b := mustAdd(t, s, "b", []float64{3, 9}, []float64{-4, 0})
	r := NewRecommender(s, nil)

	w, err := r.RecommendFullExtents(context.Background(), []chart.Handle{a, b})
	require.NoError(t, err)
	assert.Equal(t, chart.NewWindow(-5, 9, -4, 2), w)

	_, err = r.RecommendFullExtents(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRecommendHonoursCancelledContext(t *testing.T) {
	s := NewStore()
	h := mustAdd(t, s, "a", []float64{0, 1}, []float64{0, 1})
	r := NewRecommender(s, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Either the computation or the cancellation may win the select; a
	// cancelled context must never produce a different window.
	w, err := r.RecommendExtents(ctx, 0, 1, []chart.Handle{h})
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	} else {
		assert.Equal(t, chart.NewWindow(0, 1, 0, 1), w)
	}
}

func TestRequestKeyIgnoresHandleOrder(t *testing.T) {
	assert.Equal(t,
		requestKey("range", 0, 1, []chart.Handle{3, 1, 2}),
		requestKey("range", 0, 1, []chart.Handle{1, 2, 3}))
}
