package index

import "github.com/jonboulle/clockwork"

// clock stamps each build so tests can freeze time via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the build time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
