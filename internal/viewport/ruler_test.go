package viewport

import (
	"testing"

	"tracegraph/internal/chart"

	"github.com/stretchr/testify/assert"
)

func TestRuler(t *testing.T) {
	r := NewRuler()
	_, ok := r.Get()
	assert.False(t, ok)

	r.Set(RulerValue{XType: chart.XTypeNumeric, Value: 3})
	r.Set(RulerValue{XType: chart.XTypeDatetime, Value: 7})
	v, ok := r.Get()
	assert.True(t, ok)
	assert.Equal(t, RulerValue{XType: chart.XTypeDatetime, Value: 7}, v)

	r.Clear()
	_, ok = r.Get()
	assert.False(t, ok)
}
