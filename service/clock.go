package service

import "time"

// Clock supplies the current time for expiry computation. Injectable so
// tests can pin or advance time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
