package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManualSchedulerRunsQueuedFrames(t *testing.T) {
	s := NewManualScheduler()
	var ran []int
	s.RequestFrame(func() { ran = append(ran, 1) })
	id := s.RequestFrame(func() { ran = append(ran, 2) })
	s.RequestFrame(func() { ran = append(ran, 3) })
	s.CancelFrame(id)
	s.CancelFrame(999)

	assert.Equal(t, 2, s.Pending())
	assert.Equal(t, 2, s.Advance())
	assert.Equal(t, []int{1, 3}, ran)
	assert.Equal(t, 0, s.Pending())
}

func TestManualSchedulerDefersFramesRequestedWhileRunning(t *testing.T) {
	s := NewManualScheduler()
	count := 0
	var loop func()
	loop = func() {
		count++
		s.RequestFrame(loop)
	}
	s.RequestFrame(loop)

	assert.Equal(t, 1, s.Advance())
	assert.Equal(t, 1, s.Advance())
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, s.Pending())
}
