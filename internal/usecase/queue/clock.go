package queue

import (
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

// Clock fixes "today" for the queue: the operational zone and the
// source of the current instant.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func NewClock(tz string) Clock {
	return Clock{Location: timezone.Location(tz), Now: time.Now}
}

func (c Clock) Today() string {
	return timezone.DateKey(c.Now(), c.Location)
}
