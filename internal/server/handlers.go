package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "option-payoff/internal/errors"
	"option-payoff/internal/logging"
	"option-payoff/internal/models"
	"option-payoff/internal/payoff"
	"option-payoff/internal/store"
)

// AnalyzeRequest is the body of POST /api/analyze. Kind may be omitted on
// legs inside calls and puts.
type AnalyzeRequest struct {
	Calls       []models.OptionLeg     `json:"calls"`
	Puts        []models.OptionLeg     `json:"puts"`
	Underlyings []models.UnderlyingLeg `json:"underlyings"`
}

// Book builds a fresh book snapshot from the request.
func (req AnalyzeRequest) Book() (payoff.Book, error) {
	var options []models.OptionLeg
	for _, group := range []struct {
		kind models.OptionKind
		legs []models.OptionLeg
	}{{models.Call, req.Calls}, {models.Put, req.Puts}} {
		for _, leg := range group.legs {
			if leg.Kind == "" {
				leg.Kind = group.kind
			}
			if leg.Kind != group.kind {
				return payoff.Book{}, apperrors.NewInvalidLegError("kind", leg.Kind, "does not match its list")
			}
			options = append(options, leg)
		}
	}
	return payoff.NewBook(options, req.Underlyings)
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"service": "option-payoff",
	})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, payoff.Catalog)
}

// handleAnalyze analyzes the legs in the request body.
// POST /api/analyze[?curve=true]
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrInputValidation, "malformed request body"))
		return
	}

	book, err := req.Book()
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.analyze(w, r, "", book)
}

// handleListBooks lists stored books.
// GET /api/books
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.store.ListBooks(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if books == nil {
		books = []store.BookInfo{}
	}
	s.writeJSON(w, http.StatusOK, books)
}

// handleBookAnalysis analyzes a stored book.
// GET /api/books/{name}/analysis[?curve=true]
func (s *Server) handleBookAnalysis(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	book, err := s.store.LoadBook(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.analyze(w, r, name, book)
}

// handleBookHistory returns saved analyses of a book.
// GET /api/books/{name}/history[?limit=N]
func (s *Server) handleBookHistory(w http.ResponseWriter, r *http.Request) {
	filter := store.HistoryFilter{Book: chi.URLParam(r, "name"), Limit: 50}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			s.writeError(w, apperrors.Wrapf(apperrors.ErrInputValidation, "invalid limit %q", v))
			return
		}
		filter.Limit = limit
	}

	records, err := s.store.History(r.Context(), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []store.AnalysisRecord{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request, name string, book payoff.Book) {
	start := time.Now()
	log := logging.WithOperation(s.log, "analyze")
	if name != "" {
		log = logging.WithBook(log, name)
	}

	var (
		analysis *payoff.Analysis
		err      error
	)
	if r.URL.Query().Get("curve") == "true" {
		analysis, err = s.analyzer.AnalyzeWithCurve(book)
	} else {
		analysis, err = s.analyzer.Analyze(book)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	logging.LogAnalysis(log, analysis.Strategy.String(), analysis.BreakEvens, time.Since(start))
	s.writeJSON(w, http.StatusOK, analysis)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidLeg), errors.Is(err, apperrors.ErrInputValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrEmptyPortfolio):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrBookNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("Request failed")
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
