package driver

import "time"

type FrameDriverOpt func(*FrameDriver)

func WithTickLength(tickLength time.Duration) FrameDriverOpt {
	return func(d *FrameDriver) {
		d.tickLength = tickLength
	}
}

func WithQueueSize(size int) FrameDriverOpt {
	return func(d *FrameDriver) {
		d.queueSize = size
	}
}

// WithClock replaces the wall clock used to measure frames.
func WithClock(now func() time.Time) FrameDriverOpt {
	return func(d *FrameDriver) {
		d.now = now
	}
}
