package staging

import (
	"context"
	"time"
)

// dotFrames is the number of frames of the processing indicator (0-3 dots).
const dotFrames = 4

// Animation is the handle of a running dots indicator.
type Animation struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// startAnimation calls frame with 1, 2, 3, 0, 1, ... every interval until
// Stop is called. frame runs on the animation goroutine.
func startAnimation(interval time.Duration, frame func(a *Animation, dots int)) *Animation {
	ctx, cancel := context.WithCancel(context.Background())
	a := &Animation{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(a.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		dots := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				dots = (dots + 1) % dotFrames
				frame(a, dots)
			}
		}
	}()

	return a
}

// Stop cancels the animation. It is safe to call more than once and does
// not wait for the goroutine; the controller ignores frames of stopped
// animations.
func (a *Animation) Stop() {
	if a != nil {
		a.cancel()
	}
}

// Done is closed once the animation goroutine has exited.
func (a *Animation) Done() <-chan struct{} {
	return a.done
}
