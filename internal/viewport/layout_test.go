package viewport

import (
	"testing"

	"tracegraph/internal/chart"
	"tracegraph/pkg/geometry"

	"github.com/stretchr/testify/assert"
)

func TestLayoutRects(t *testing.T) {
	assert.Equal(t, geometry.NewRect(65, 5, 200, 100), testLayout.Inner())
	assert.Equal(t, geometry.NewRect(65, 105, 200, 24), testLayout.XTicks())
	assert.Equal(t, geometry.NewRect(41, 5, 24, 100), testLayout.YTicks())
}

func TestLayoutTooSmall(t *testing.T) {
	l := NewLayout(50, 50, chart.DefaultStyle())
	assert.True(t, l.Inner().Empty())
	_, ok := l.Inner().ToLocal(geometry.NewPoint2D(10, 10), true, true)
	assert.False(t, ok)
}

func TestHitTest(t *testing.T) {
	tests := []struct {
		name string
		p    geometry.Point2D
		want Region
	}{
		{"inner", at(100, 50), RegionInner},
		{"inner top left", at(0, 0), RegionInner},
		{"x ticks", geometry.NewPoint2D(100, 110), RegionXTicks},
		{"x ticks first row", geometry.NewPoint2D(65, 105), RegionXTicks},
		{"y ticks", geometry.NewPoint2D(50, 50), RegionYTicks},
		{"margin", geometry.NewPoint2D(2, 2), RegionNone},
		{"right margin", geometry.NewPoint2D(266, 50), RegionNone},
		{"below ticks", geometry.NewPoint2D(100, 140), RegionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HitTest(testLayout, tt.p))
		})
	}
}
