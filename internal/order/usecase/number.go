package usecase

import (
	"fmt"
	"sync"
	"time"
)

// numberGenerator issues ORD-<unix millis> numbers that strictly increase
// within the process, so two orders in the same millisecond never collide.
type numberGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newNumberGenerator(now func() time.Time) *numberGenerator {
	return &numberGenerator{now: now}
}

func (g *numberGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("ORD-%d", ms)
}
