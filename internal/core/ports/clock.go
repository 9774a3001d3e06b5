package ports

import "time"

// Clock abstracts the current time so expiry checks are deterministic in
// tests.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }
