package usecase

import (
	"strings"
	"time"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
)

// Status summarizes an employee's current session for display.
type Status struct {
	EmployeeID string
	At         time.Time
	// Session is nil when the employee is not clocked in.
	Session *domain.Session

	Worked        time.Duration // net of breaks
	OnBreak       bool
	BreakKind     domain.BreakKind
	BreakElapsed  time.Duration
	BreakOverdue  bool // open break longer than the configured break duration
	CanStartBreak bool
	NextBreakKind domain.BreakKind
	// ReminderDue is set once the clock-out reminder window has opened.
	ReminderDue bool
}

// ClockedIn reports whether the employee has a running session.
func (s Status) ClockedIn() bool { return s.Session != nil }

// Status evaluates the employee's active session at the current time.
func (uc *TimeClock) Status(employeeID string) Status {
	employeeID = strings.TrimSpace(employeeID)
	now := uc.now()
	st := Status{EmployeeID: employeeID, At: now}

	uc.mu.Lock()
	if uc.store == nil {
		uc.mu.Unlock()
		return st
	}
	active, ok := uc.store.ActiveSession(employeeID)
	settings := uc.store.Settings()
	uc.mu.Unlock()
	if !ok {
		return st
	}

	st.Session = &active
	st.Worked = active.Worked(now)
	elapsed := active.Elapsed(now)

	if b, ok := active.LastBreak(); ok && b.Open() {
		st.OnBreak = true
		st.BreakKind = b.Kind
		st.BreakElapsed = b.Duration(now)
		limit := time.Duration(settings.WorkHours.BreakDuration) * time.Minute
		st.BreakOverdue = limit > 0 && st.BreakElapsed > limit
	} else {
		st.CanStartBreak = elapsed >= MinBreakElapsed
		st.NextBreakKind = BreakKindAfter(elapsed)
	}

	st.ReminderDue = reminderDue(settings, now)
	return st
}

func reminderDue(s domain.Settings, now time.Time) bool {
	if !s.Notifications.ReminderEnabled {
		return false
	}
	end, err := s.WorkHours.EndOn(now)
	if err != nil {
		return false
	}
	remindAt := end.Add(-time.Duration(s.Notifications.ReminderTime) * time.Minute)
	return !now.Before(remindAt)
}
