package pkg

import (
	"sync"
	"time"
)

// DailyUsageLimit is the advisory per-day conversion allowance
const DailyUsageLimit = 3

// UsageGate tracks how many conversions a client initiated today. It is
// advisory only: the server never reads it, and a determined client can
// bypass it entirely. It exists so a UI can tell users when they have used
// up their daily allowance without a round trip.
type UsageGate struct {
	mu    sync.Mutex
	limit int
	day   string
	count int
	now   func() time.Time
}

func NewUsageGate() *UsageGate {
	return &UsageGate{limit: DailyUsageLimit, now: time.Now}
}

// rollover resets the counter when the day has changed. Caller holds mu.
func (g *UsageGate) rollover() {
	today := g.now().Format("2006-01-02")
	if g.day != today {
		g.day = today
		g.count = 0
	}
}

// RemainingToday returns how many conversions are left today, in [0, limit]
func (g *UsageGate) RemainingToday() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rollover()
	remaining := g.limit - g.count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// CanUseToday reports whether another conversion may be initiated today
func (g *UsageGate) CanUseToday() bool {
	return g.RemainingToday() > 0
}

// RecordUsage notes one initiated conversion
func (g *UsageGate) RecordUsage() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rollover()
	g.count++
}

// Reset clears today's counter
func (g *UsageGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.day = ""
	g.count = 0
}
