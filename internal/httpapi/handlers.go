package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/aretw0/fittrack/pkg/core"
	"github.com/aretw0/fittrack/pkg/date"
)

// DefaultOverviewDays is the window of /overview without ?days=.
const DefaultOverviewDays = 7

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// entryRequest logs an entry. Without calories, they are computed from the
// reference tables: quantity is grams for nutrition and minutes for exercise,
// and exercise also needs weight_kg.
type entryRequest struct {
	Date     date.Date `json:"date"`
	Category string    `json:"category"`
	Quantity float64   `json:"quantity"`
	Calories *float64  `json:"calories"`
	WeightKg float64   `json:"weight_kg"`
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.auth.Register(r.Context(), req.Username, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"user": req.Username})
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	kind := core.Kind(mux.Vars(r)["kind"])
	entries, err := s.svc.Entries(r.Context(), currentUser(r), kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) addEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, user := r.Context(), currentUser(r)
	kind := core.Kind(mux.Vars(r)["kind"])

	var (
		entry core.Entry
		err   error
	)
	switch {
	case req.Calories != nil:
		entry = core.Entry{Date: req.Date, Category: req.Category, Quantity: req.Quantity, Calories: *req.Calories}
		err = s.svc.AddEntry(ctx, user, kind, entry)
		if entry.Date.IsZero() {
			entry.Date = s.svc.Today()
		}
	case kind == core.Nutrition:
		entry, err = s.svc.LogFood(ctx, user, req.Date, req.Category, req.Quantity)
	default:
		entry, err = s.svc.LogExercise(ctx, user, req.Date, req.Category, req.Quantity, req.WeightKg)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) listDays(w http.ResponseWriter, r *http.Request) {
	days, err := s.svc.Days(r.Context(), currentUser(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) recordDay(w http.ResponseWriter, r *http.Request) {
	var sum core.DailySummary
	if err := decode(r, &sum); err != nil {
		s.writeError(w, r, err)
		return
	}
	if sum.Date.IsZero() {
		sum.Date = s.svc.Today()
	}
	if err := s.svc.RecordDay(r.Context(), currentUser(r), sum); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sum)
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	days := DefaultOverviewDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, &core.ValidationError{Field: "days", Reason: "must be a number"})
			return
		}
		days = n
	}

	o, err := s.svc.Overview(r.Context(), currentUser(r), days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type namedTable interface {
	Names() []string
}

func (s *Server) reference(w http.ResponseWriter, r *http.Request) {
	food, exercise := s.svc.ReferenceTables()
	table := food
	if mux.Vars(r)["table"] == "activities" {
		table = exercise
	}
	if table == nil {
		s.writeError(w, r, fmt.Errorf("%s: %w", mux.Vars(r)["table"], core.ErrNoReference))
		return
	}

	names := []string{}
	if nt, ok := table.(namedTable); ok {
		names = nt.Names()
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.State())
}
