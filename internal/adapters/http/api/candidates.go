package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/pitwall/internal/domain/types"
)

// CatalogDependencies defines the read operations on the catalog.
type CatalogDependencies interface {
	Catalog(ctx context.Context) (types.Catalog, error)
	Weights(ctx context.Context, racesCompleted *int) (types.Weights, error)
}

// CandidatesHandler serves the catalog and the weighting curve.
type CandidatesHandler struct {
	deps CatalogDependencies
}

// NewCandidatesHandler creates a new candidates handler.
func NewCandidatesHandler(deps CatalogDependencies) *CandidatesHandler {
	return &CandidatesHandler{deps: deps}
}

// HandleCandidates handles GET /candidates requests.
func (h *CandidatesHandler) HandleCandidates(w http.ResponseWriter, r *http.Request) {
	cat, err := h.deps.Catalog(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// HandleWeights handles GET /weights?races_completed=N requests.
func (h *CandidatesHandler) HandleWeights(w http.ResponseWriter, r *http.Request) {
	var races *int
	if raw := r.URL.Query().Get("races_completed"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: races_completed must be an integer", ErrBadRequest))
			return
		}
		races = &n
	}
	weights, err := h.deps.Weights(r.Context(), races)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weights)
}
