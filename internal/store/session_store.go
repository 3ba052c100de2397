package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
)

// SessionStore owns all sessions and the settings singleton.
type SessionStore struct {
	state domain.State
	now   func() time.Time
	newID func() string
}

// Option customizes a SessionStore.
type Option func(*SessionStore)

// WithClock replaces time.Now as the source of command timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *SessionStore) { s.now = now }
}

// WithIDGenerator replaces the UUID generator used for new sessions.
func WithIDGenerator(fn func() string) Option {
	return func(s *SessionStore) { s.newID = fn }
}

// New returns a store seeded with a copy of state.
func New(state domain.State, opts ...Option) *SessionStore {
	s := &SessionStore{
		state: state.Clone(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	if s.state.Sessions == nil {
		s.state.Sessions = []domain.Session{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a deep copy of the whole state for persistence.
func (s *SessionStore) Snapshot() domain.State {
	return s.state.Clone()
}

// StartSession appends a new active session and returns its id. It does not
// check for an existing active session for the employee.
func (s *SessionStore) StartSession(employeeID string, loc domain.Location) string {
	sess := domain.Session{
		ID:         s.newID(),
		EmployeeID: employeeID,
		ClockIn:    domain.Punch{Time: s.now(), Location: loc},
		Status:     domain.StatusActive,
		Breaks:     []domain.Break{},
	}
	s.state.Sessions = append(s.state.Sessions, sess)
	return sess.ID
}

// EndSession records the clock-out and completes the session. It reports
// false, changing nothing, when the id is unknown.
func (s *SessionStore) EndSession(sessionID string, loc domain.Location) bool {
	sess := s.find(sessionID)
	if sess == nil {
		return false
	}
	sess.ClockOut = &domain.Punch{Time: s.now(), Location: loc}
	sess.Status = domain.StatusCompleted
	return true
}

// StartBreak appends an open break of the given kind. An already open break
// is left as is.
func (s *SessionStore) StartBreak(sessionID string, kind domain.BreakKind) bool {
	sess := s.find(sessionID)
	if sess == nil {
		return false
	}
	sess.Breaks = append(sess.Breaks, domain.Break{StartTime: s.now(), Kind: kind})
	return true
}

// EndBreak stamps the end time on the last break of the session, whether or
// not it was already closed. Earlier open breaks are never touched.
func (s *SessionStore) EndBreak(sessionID string) bool {
	sess := s.find(sessionID)
	if sess == nil || len(sess.Breaks) == 0 {
		return false
	}
	now := s.now()
	sess.Breaks[len(sess.Breaks)-1].EndTime = &now
	return true
}

// UpdateSettings replaces each settings group present in p.
func (s *SessionStore) UpdateSettings(p domain.SettingsPatch) {
	if p.Geofencing != nil {
		g := *p.Geofencing
		g.Locations = g.CopyLocations()
		s.state.Settings.Geofencing = g
	}
	if p.WorkHours != nil {
		s.state.Settings.WorkHours = *p.WorkHours
	}
	if p.Notifications != nil {
		s.state.Settings.Notifications = *p.Notifications
	}
}

// Settings returns a copy of the current settings.
func (s *SessionStore) Settings() domain.Settings {
	return s.state.Settings.Clone()
}

// IsWithinWorkLocation reports whether loc lies within the geofence radius of
// any registered work location. It is always true when geofencing is off.
func (s *SessionStore) IsWithinWorkLocation(loc domain.Location) bool {
	g := s.state.Settings.Geofencing
	if !g.Enabled {
		return true
	}
	for _, wl := range g.Locations {
		if distanceMeters(loc.Latitude, loc.Longitude, wl.Latitude, wl.Longitude) <= g.Radius {
			return true
		}
	}
	return false
}

// ActiveSession returns the most recently started session of the employee
// that is still active.
func (s *SessionStore) ActiveSession(employeeID string) (domain.Session, bool) {
	for i := len(s.state.Sessions) - 1; i >= 0; i-- {
		sess := s.state.Sessions[i]
		if sess.EmployeeID == employeeID && sess.Status == domain.StatusActive {
			return sess.Clone(), true
		}
	}
	return domain.Session{}, false
}

// Session looks a session up by id.
func (s *SessionStore) Session(sessionID string) (domain.Session, bool) {
	if sess := s.find(sessionID); sess != nil {
		return sess.Clone(), true
	}
	return domain.Session{}, false
}

// SessionHistory returns the employee's sessions, in insertion order, whose
// clock-in time rendered as ISOLayout sorts within [startDate, endDate].
// The bounds are compared as strings, not parsed.
func (s *SessionStore) SessionHistory(employeeID, startDate, endDate string) []domain.Session {
	out := []domain.Session{}
	for _, sess := range s.state.Sessions {
		if sess.EmployeeID != employeeID {
			continue
		}
		at := domain.ISOString(sess.ClockIn.Time)
		if at >= startDate && at <= endDate {
			out = append(out, sess.Clone())
		}
	}
	return out
}

func (s *SessionStore) find(sessionID string) *domain.Session {
	for i := range s.state.Sessions {
		if s.state.Sessions[i].ID == sessionID {
			return &s.state.Sessions[i]
		}
	}
	return nil
}
