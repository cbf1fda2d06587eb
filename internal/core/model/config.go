package model

import (
	"math/rand"
	"time"
)

// Range is a duration interval sampled uniformly.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Random returns a random duration within the range.
func (value Range) Random(rng *rand.Rand) time.Duration {
	if value.Max <= value.Min {
		return value.Min
	}
	delta := value.Max - value.Min
	return value.Min + time.Duration(rng.Int63n(int64(delta)))
}

// SplashConfig controls the cosmetic pause shown while starting up.
type SplashConfig struct {
	Chance float64
	Delay  Range
}

// SessionConfig contains runtime settings for the session loop.
type SessionConfig struct {
	TickInterval    time.Duration
	SendTimeout     time.Duration
	Splash          SplashConfig
	MockEvent       bool
	Conditional     bool
	AllowSelfUpdate bool
	WebSocketURL    string
}

// DefaultSessionConfig returns the production timings.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		TickInterval: 10 * time.Second,
		SendTimeout:  2 * time.Second,
		Splash: SplashConfig{
			Chance: 0.1,
			Delay: Range{
				Min: 500 * time.Millisecond,
				Max: 1500 * time.Millisecond,
			},
		},
		AllowSelfUpdate: true,
		WebSocketURL:    "wss://gefolge.org/api/websocket",
	}
}
