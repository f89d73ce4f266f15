package scoring

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/skillforge/fitscore/pkg/handlers"
	"github.com/skillforge/fitscore/pkg/routes"
)

// Handler provides HTTP endpoints for scoring operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "scoring"),
	}
}

// Routes returns the route group definition for scoring endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/scores",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/calculate", Handler: h.Calculate},
			{Method: "POST", Pattern: "/recalculate", Handler: h.Recalculate},
			{Method: "POST", Pattern: "/batch", Handler: h.Batch},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/participant/{id}", Handler: h.ForParticipant},
			{Method: "GET", Pattern: "/participant/{id}/history", Handler: h.History},
		},
	}
}

// Calculate computes and stores one score for a participant against a
// weight table, superseding any stored result for the pair.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var cmd CalculateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Calculate(r.Context(), cmd.ParticipantID, cmd.WeightTableID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Recalculate recomputes one participant against the given weight
// tables, or against every active table when none are given.
func (h *Handler) Recalculate(w http.ResponseWriter, r *http.Request) {
	var cmd RecalculateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	outcome, err := h.sys.RecalculateParticipant(r.Context(), cmd.ParticipantID, cmd.WeightTableIDs)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, outcome)
}

// Batch recomputes a cartesian set of participant and weight table
// pairs. Pair failures are reported in the outcome, not as an error.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var cmd BatchCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	outcome, err := h.sys.BatchRecalculate(r.Context(), cmd.ParticipantIDs, cmd.WeightTableIDs)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, outcome)
}

// Find returns a single stored result by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrResultNotFound)
		return
	}

	result, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// ForParticipant returns the participant's current results, newest first.
func (h *Handler) ForParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrResultNotFound)
		return
	}

	results, err := h.sys.ForParticipant(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, results)
}

// History returns current and superseded results for a participant,
// optionally filtered by profession activity code.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrResultNotFound)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	prof := r.URL.Query().Get("prof")

	results, err := h.sys.History(r.Context(), id, prof, limit)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, results)
}
