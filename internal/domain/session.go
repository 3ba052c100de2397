package domain

import "time"

// ISOLayout renders instants the way history bounds are written,
// e.g. 2024-01-31T23:59:59.999Z. Only meaningful for UTC times.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// ISOString formats t in UTC using ISOLayout.
func ISOString(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// SessionStatus is the lifecycle state of a Session.
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
)

// BreakKind distinguishes short rests from lunch breaks.
type BreakKind string

const (
	BreakRest  BreakKind = "rest"
	BreakLunch BreakKind = "lunch"
)

// Valid reports whether k is a known break kind.
func (k BreakKind) Valid() bool {
	return k == BreakRest || k == BreakLunch
}

// Punch is a clock-in or clock-out event.
type Punch struct {
	Time     time.Time `json:"time"`
	Location Location  `json:"location"`
}

// Break is a pause within a session. EndTime is nil while the break is open.
type Break struct {
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Kind      BreakKind  `json:"kind"`
}

// Open reports whether the break has not been closed yet.
func (b Break) Open() bool { return b.EndTime == nil }

// Duration returns the break length, measuring open breaks up to now.
func (b Break) Duration(now time.Time) time.Duration {
	end := now
	if b.EndTime != nil {
		end = *b.EndTime
	}
	if end.Before(b.StartTime) {
		return 0
	}
	return end.Sub(b.StartTime)
}

// Session is one clock-in to clock-out work period.
// Status is StatusCompleted iff ClockOut is set.
type Session struct {
	ID         string        `json:"id"`
	EmployeeID string        `json:"employeeId"`
	ClockIn    Punch         `json:"clockIn"`
	ClockOut   *Punch        `json:"clockOut,omitempty"`
	Status     SessionStatus `json:"status"`
	Breaks     []Break       `json:"breaks"`
}

// Active reports whether the session is still running.
func (s Session) Active() bool { return s.Status == StatusActive }

// LastBreak returns the most recently added break, if any.
func (s Session) LastBreak() (Break, bool) {
	if len(s.Breaks) == 0 {
		return Break{}, false
	}
	return s.Breaks[len(s.Breaks)-1], true
}

// OnBreak reports whether the most recent break is still open.
func (s Session) OnBreak() bool {
	b, ok := s.LastBreak()
	return ok && b.Open()
}

// Elapsed is the wall time since clock-in, ending at clock-out when completed.
func (s Session) Elapsed(now time.Time) time.Duration {
	end := now
	if s.ClockOut != nil {
		end = s.ClockOut.Time
	}
	if end.Before(s.ClockIn.Time) {
		return 0
	}
	return end.Sub(s.ClockIn.Time)
}

// Worked is Elapsed minus the time spent on breaks.
func (s Session) Worked(now time.Time) time.Duration {
	end := now
	if s.ClockOut != nil {
		end = s.ClockOut.Time
	}
	var paused time.Duration
	for _, b := range s.Breaks {
		paused += b.Duration(end)
	}
	worked := s.Elapsed(now) - paused
	if worked < 0 {
		return 0
	}
	return worked
}

// Clone returns a deep copy that shares no pointers with s.
func (s Session) Clone() Session {
	c := s
	if s.ClockOut != nil {
		out := *s.ClockOut
		c.ClockOut = &out
	}
	c.Breaks = make([]Break, len(s.Breaks))
	for i, b := range s.Breaks {
		if b.EndTime != nil {
			end := *b.EndTime
			b.EndTime = &end
		}
		c.Breaks[i] = b
	}
	return c
}
