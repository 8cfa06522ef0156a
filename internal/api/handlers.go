// Package api exposes HTTP handlers for workouts, exercises and training statistics.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"example.com/trainingstats/internal/analytics"
	"example.com/trainingstats/internal/auth"
	"example.com/trainingstats/internal/domain"
	"example.com/trainingstats/internal/observability"
	"example.com/trainingstats/internal/persistence"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ExerciseCatalog is the subset of the catalog the handlers need.
type ExerciseCatalog interface {
	domain.ExerciseLookup
	Search(query string, limit int) []domain.ExerciseDefinition
	UpsertCustom(def domain.ExerciseDefinition) (domain.ExerciseDefinition, error)
}

// Handler coordinates HTTP requests with the workout and analytics services.
type Handler struct {
	workouts  *domain.Service
	stats     *analytics.Service
	exercises ExerciseCatalog
	logger    logrus.FieldLogger
}

// NewHandler builds a Handler.
func NewHandler(workouts *domain.Service, stats *analytics.Service, exercises ExerciseCatalog, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{workouts: workouts, stats: stats, exercises: exercises, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/workouts", h.workoutCollection)
	mux.HandleFunc("/v1/workouts/", h.workoutByID)
	mux.HandleFunc("/v1/exercises", h.exerciseCollection)
	mux.HandleFunc("/v1/exercises/", h.exerciseByID)
	mux.HandleFunc("/v1/stats/", h.statsReport)
	mux.HandleFunc("/healthz", healthz)
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) workoutCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.recordWorkout(w, r)
	case http.MethodGet:
		h.listWorkouts(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) workoutByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/workouts/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing workout id")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	h.getWorkout(w, r, id)
}

func (h *Handler) recordWorkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	var req RecordWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	record, replay, err := h.workouts.RecordWorkout(r.Context(), req.toInput(claims, r.Header.Get("Idempotency-Key")))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidWorkout) {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		h.logger.WithError(err).WithField("tenant_id", claims.TenantID).Error("record workout failed")
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	observability.RecordWorkoutAccepted(replay)

	status := http.StatusAccepted
	if replay {
		status = http.StatusOK
	}
	writeJSON(w, status, RecordWorkoutResponse{WorkoutID: record.ID, Replay: replay})
}

func (h *Handler) getWorkout(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsRead, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	record, err := h.workouts.GetWorkout(r.Context(), claims.TenantID, id)
	if err != nil {
		if errors.Is(err, domain.ErrWorkoutNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "workout not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.toWorkoutView(*record, unitFrom(r)))
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeWorkoutsRead, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}

	userID := userFrom(r, claims)
	limit := parseLimit(r.URL.Query().Get("limit"), defaultListLimit, maxListLimit)
	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	records, next, err := h.workouts.ListWorkouts(r.Context(), claims.TenantID, userID, cursor, limit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidWorkout) {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	unit := unitFrom(r)
	items := make([]WorkoutView, 0, len(records))
	for _, record := range records {
		items = append(items, h.toWorkoutView(record, unit))
	}
	writeJSON(w, http.StatusOK, ListWorkoutsResponse{Items: items, NextCursor: persistence.EncodeCursor(next)})
}

func (h *Handler) exerciseCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if _, ok := requireScope(w, r, auth.ScopeWorkoutsRead, auth.ScopeWorkoutsWrite, auth.ScopeStatsRead); !ok {
			return
		}
		limit := parseLimit(r.URL.Query().Get("limit"), 0, 0)
		defs := h.exercises.Search(r.URL.Query().Get("query"), limit)
		items := make([]ExerciseView, 0, len(defs))
		for _, def := range defs {
			items = append(items, toExerciseView(def))
		}
		writeJSON(w, http.StatusOK, ListExercisesResponse{Items: items})
	case http.MethodPost:
		if _, ok := requireScope(w, r, auth.ScopeWorkoutsWrite); !ok {
			return
		}
		var req CreateExerciseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
			return
		}
		def, err := h.exercises.UpsertCustom(req.toDefinition())
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, toExerciseView(def))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) exerciseByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if _, ok := requireScope(w, r, auth.ScopeWorkoutsRead, auth.ScopeWorkoutsWrite, auth.ScopeStatsRead); !ok {
		return
	}

	id, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/v1/exercises/"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "exercise id must be a uuid")
		return
	}
	def, ok := h.exercises.Find(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "exercise not found")
		return
	}
	writeJSON(w, http.StatusOK, toExerciseView(def))
}

// requireScope checks that the caller holds at least one of scopes.
func requireScope(w http.ResponseWriter, r *http.Request, scopes ...string) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	for _, scope := range scopes {
		if claims.HasScope(scope) {
			return claims, true
		}
	}
	writeError(w, http.StatusForbidden, "forbidden", "scope "+scopes[0]+" required")
	return nil, false
}

// userFrom reads user_id from the query, defaulting to the token subject.
func userFrom(r *http.Request, claims *auth.Claims) string {
	if userID := strings.TrimSpace(r.URL.Query().Get("user_id")); userID != "" {
		return userID
	}
	return claims.Subject
}

func unitFrom(r *http.Request) domain.WeightUnit {
	return domain.ParseWeightUnit(r.URL.Query().Get("unit"))
}

func parseLimit(raw string, fallback, ceiling int) int {
	limit := fallback
	if raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if ceiling > 0 && limit > ceiling {
		limit = ceiling
	}
	return limit
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func durationSeconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
