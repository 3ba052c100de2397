package domain

// State is the whole persisted snapshot: {sessions, settings}.
type State struct {
	Sessions []Session `json:"sessions"`
	Settings Settings  `json:"settings"`
}

// NewState returns an empty session list with default settings.
func NewState() State {
	return State{Sessions: []Session{}, Settings: DefaultSettings()}
}

// Clone deep-copies the state.
func (s State) Clone() State {
	c := State{Sessions: make([]Session, len(s.Sessions)), Settings: s.Settings.Clone()}
	for i, sess := range s.Sessions {
		c.Sessions[i] = sess.Clone()
	}
	return c
}
