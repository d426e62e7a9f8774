package clock

import "time"

// Clock supplies the current time; scheduling code never calls time.Now directly
type Clock interface {
	Now() time.Time
}

// System is the wall clock in UTC
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns T; tests advance it by assigning T
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time { return f.T }

// Advance moves the fixed clock forward by d
func (f *Fixed) Advance(d time.Duration) { f.T = f.T.Add(d) }
