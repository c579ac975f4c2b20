package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/couchcryptid/flood-planner/internal/domain"
	"github.com/couchcryptid/flood-planner/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// maxRequestBytes bounds a plan request body.
const maxRequestBytes = 4 << 20

type planHandler struct {
	planner RequestPlanner
	logger  *slog.Logger
}

func (h *planHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}

	req, err := domain.ParseRequest(domain.RawEvent{Value: body})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	event, err := h.planner.PlanRequest(r.Context(), req, "http")
	switch {
	case err == nil:
		sharedobs.WriteJSON(w, http.StatusOK, event)
	case errors.Is(err, domain.ErrNegativeLake), errors.Is(err, pipeline.ErrScheduleTooLong):
		writeError(w, http.StatusBadRequest, err)
	default:
		h.logger.Error("plan request failed", "id", req.ID, "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
