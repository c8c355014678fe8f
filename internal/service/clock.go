package service

import (
	"time"

	"github.com/punchamoorthee/messops/internal/domain"
)

// Clock supplies the wall-clock time used for the cancellation cutoff.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now in Location (time.Local when nil).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

func today(c Clock) domain.Date {
	return domain.DateOf(c.Now())
}
