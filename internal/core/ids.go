package core

import (
	"math/rand/v2"
	"strconv"
	"time"
)

// Clock allows injecting time into id generation.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// SystemClock returns a clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

type fixedClock struct {
	now time.Time
}

// FixedClock returns a clock that always returns the same instant (useful for tests).
func FixedClock(t time.Time) Clock {
	return fixedClock{now: t}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

// IDGenerator produces event ids of the form evt_<unix millis>_<0..9999>.
// Collisions are possible but negligible for a single user on one device.
type IDGenerator struct {
	clock Clock
	intN  func(n int) int
}

// NewIDGenerator returns a generator using clock and the global random source.
func NewIDGenerator(clock Clock) *IDGenerator {
	if clock == nil {
		clock = SystemClock()
	}
	return &IDGenerator{clock: clock, intN: rand.IntN}
}

// NewIDGeneratorWithSource is like NewIDGenerator with an explicit random source.
func NewIDGeneratorWithSource(clock Clock, src rand.Source) *IDGenerator {
	g := NewIDGenerator(clock)
	r := rand.New(src)
	g.intN = r.IntN
	return g
}

// NewID returns a fresh event id.
func (g *IDGenerator) NewID() string {
	millis := g.clock.Now().UnixMilli()
	return "evt_" + strconv.FormatInt(millis, 10) + "_" + strconv.Itoa(g.intN(10000))
}
