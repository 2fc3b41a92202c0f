package application

import "time"

// Clock abstraction supaya gampang ditest: timestamps on scans, stage
// results and reports all come from here.
type Clock interface {
	Now() time.Time
}

// SystemClock implementasi default, pakai time.Now()
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
