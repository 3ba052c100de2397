package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/adapter/geo"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/ports"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/usecase"
)

// HTTPServer returns a configured http.Server exposing the time clock.
// Call ListenAndServe on the returned server in a goroutine and Shutdown it on exit.
func (a *App) HTTPServer(addr string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.log.Info("http server configured", slog.String("addr", addr))
	return srv
}

// Handler returns the routed and logged API handler.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /clock-in", a.handleClock(a.uc.ClockIn))
	mux.HandleFunc("POST /clock-out", a.handleClock(a.uc.ClockOut))
	mux.HandleFunc("POST /breaks/start", a.handleBreak(a.uc.StartBreak))
	mux.HandleFunc("POST /breaks/end", a.handleBreak(a.uc.EndBreak))

	mux.HandleFunc("GET /employees/{id}/active", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := a.uc.ActiveSession(r.PathValue("id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, errorBody{Error: domain.ErrNotClockedIn.Error()})
			return
		}
		writeJSON(w, http.StatusOK, sess)
	})

	mux.HandleFunc("GET /employees/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, newStatusView(a.uc.Status(r.PathValue("id"))))
	})

	// /employees/{id}/history?from=...&to=...
	// from/to accept RFC3339 or YYYY-MM-DD.
	mux.HandleFunc("GET /employees/{id}/history", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		from, to, err := HistoryBounds(q.Get("from"), q.Get("to"), time.Now())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"from":     from,
			"to":       to,
			"sessions": a.uc.History(r.PathValue("id"), from, to),
		})
	})

	mux.HandleFunc("GET /settings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, a.uc.Settings())
	})

	mux.HandleFunc("PATCH /settings", func(w http.ResponseWriter, r *http.Request) {
		var patch domain.SettingsPatch
		if !decode(w, r, &patch) {
			return
		}
		settings, err := a.uc.UpdateSettings(r.Context(), patch)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	})

	mux.HandleFunc("POST /geofence/check", func(w http.ResponseWriter, r *http.Request) {
		var loc domain.Location
		if !decode(w, r, &loc) {
			return
		}
		if err := geo.Validate(loc); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"within": a.uc.CheckLocation(loc)})
	})

	return loggingMiddleware(a.log, mux)
}

type clockRequest struct {
	EmployeeID string `json:"employeeId"`
	// Location is the reading the client already took. Without it the
	// server's configured locator is asked.
	Location *domain.Location `json:"location,omitempty"`
}

type clockFunc func(ctx context.Context, employeeID string, locator ports.Locator) (domain.Session, error)

func (a *App) handleClock(fn clockFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clockRequest
		if !decode(w, r, &req) {
			return
		}
		locator := a.locator
		if req.Location != nil {
			loc := *req.Location
			if err := geo.Validate(loc); err != nil {
				writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
				return
			}
			if loc.Timestamp.IsZero() {
				loc.Timestamp = time.Now().UTC()
			}
			locator = geo.Fixed(loc)
		}
		sess, err := fn(r.Context(), req.EmployeeID, locator)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

type breakFunc func(ctx context.Context, employeeID string) (domain.Session, error)

func (a *App) handleBreak(fn breakFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			EmployeeID string `json:"employeeId"`
		}
		if !decode(w, r, &req) {
			return
		}
		sess, err := fn(r.Context(), req.EmployeeID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

type statusView struct {
	EmployeeID    string           `json:"employeeId"`
	At            string           `json:"at"`
	ClockedIn     bool             `json:"clockedIn"`
	Session       *domain.Session  `json:"session,omitempty"`
	WorkedSeconds int64            `json:"workedSeconds"`
	OnBreak       bool             `json:"onBreak"`
	BreakKind     domain.BreakKind `json:"breakKind,omitempty"`
	BreakSeconds  int64            `json:"breakSeconds,omitempty"`
	BreakOverdue  bool             `json:"breakOverdue"`
	CanStartBreak bool             `json:"canStartBreak"`
	NextBreakKind domain.BreakKind `json:"nextBreakKind,omitempty"`
	ReminderDue   bool             `json:"reminderDue"`
}

func newStatusView(st usecase.Status) statusView {
	return statusView{
		EmployeeID:    st.EmployeeID,
		At:            domain.ISOString(st.At),
		ClockedIn:     st.ClockedIn(),
		Session:       st.Session,
		WorkedSeconds: int64(st.Worked / time.Second),
		OnBreak:       st.OnBreak,
		BreakKind:     st.BreakKind,
		BreakSeconds:  int64(st.BreakElapsed / time.Second),
		BreakOverdue:  st.BreakOverdue,
		CanStartBreak: st.CanStartBreak,
		NextBreakKind: st.NextBreakKind,
		ReminderDue:   st.ReminderDue,
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrLocationUnavailable):
		return http.StatusServiceUnavailable
	case domain.IsPolicyViolation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAlreadyClockedIn),
		errors.Is(err, domain.ErrNotClockedIn),
		errors.Is(err, domain.ErrBreakInProgress),
		errors.Is(err, domain.ErrNoOpenBreak):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEmployeeRequired),
		errors.Is(err, domain.ErrInvalidSettings):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

// loggingMiddleware provides basic request logging.
func loggingMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.String("remote", r.RemoteAddr),
			slog.Duration("dur", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
