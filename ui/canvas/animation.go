package canvas

import (
	"time"

	"tracegraph/internal/viewport"

	"fyne.io/fyne/v2"
)

// AnimationScheduler runs viewport frame callbacks on fyne's animation
// ticks. Every tick runs the callbacks requested before it.
type AnimationScheduler struct {
	*viewport.ManualScheduler
	anim *fyne.Animation
}

var _ viewport.FrameScheduler = (*AnimationScheduler)(nil)

// NewAnimationScheduler creates a stopped scheduler.
func NewAnimationScheduler() *AnimationScheduler {
	s := &AnimationScheduler{ManualScheduler: viewport.NewManualScheduler()}
	s.anim = fyne.NewAnimation(time.Second, func(float32) { s.Advance() })
	s.anim.RepeatCount = fyne.AnimationRepeatForever
	s.anim.Curve = fyne.AnimationLinear
	return s
}

// Start begins ticking.
func (s *AnimationScheduler) Start() {
	s.anim.Start()
}

// Stop stops ticking. Queued callbacks stay queued.
func (s *AnimationScheduler) Stop() {
	s.anim.Stop()
}
