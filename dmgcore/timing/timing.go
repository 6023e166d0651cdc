// Package timing carries the fixed DMG clock constants and a small frame
// limiter abstraction for host front-ends (not used by the core itself,
// which never sleeps or blocks).
package timing

import "time"

// Constants for Game Boy timing.
const (
	// CyclesPerFrame is the number of clock cycles in one 154-scanline frame.
	CyclesPerFrame = 70224
	// CPUFrequency is the DMG clock frequency in Hz.
	CPUFrequency = 4194304
)

// TargetFPS is the exact Game Boy frame rate.
func TargetFPS() float64 {
	return float64(CPUFrequency) / float64(CyclesPerFrame)
}

// FrameDuration is the target wall-clock duration of a single frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}

// Limiter paces a host's render loop to real time. The core never uses
// this; it exists for host callers that want to run a ROM at roughly its
// native speed instead of as fast as possible (cmd/dmgcore paces itself
// with its own time.Ticker instead).
type Limiter interface {
	WaitForNextFrame()
	Reset()
}

// NewNoOpLimiter returns a Limiter that never blocks, for headless/batch runs.
func NewNoOpLimiter() Limiter { return noOpLimiter{} }

type noOpLimiter struct{}

func (noOpLimiter) WaitForNextFrame() {}
func (noOpLimiter) Reset()            {}

// TickerLimiter paces frames using a time.Ticker.
type TickerLimiter struct {
	ticker *time.Ticker
}

// NewTickerLimiter creates a Limiter that blocks once per frame duration.
func NewTickerLimiter() *TickerLimiter {
	return &TickerLimiter{ticker: time.NewTicker(FrameDuration())}
}

func (t *TickerLimiter) WaitForNextFrame() { <-t.ticker.C }

func (t *TickerLimiter) Reset() { t.ticker.Reset(FrameDuration()) }

// Stop releases the underlying ticker.
func (t *TickerLimiter) Stop() { t.ticker.Stop() }
