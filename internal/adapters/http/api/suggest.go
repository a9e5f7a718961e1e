package api

import (
	"context"
	"net/http"

	service "github.com/okian/pitwall/internal/app"
	"github.com/okian/pitwall/internal/domain/model"
	"github.com/okian/pitwall/internal/domain/transfers"
)

// SuggestDependencies defines the optimizer operations.
type SuggestDependencies interface {
	Suggest(ctx context.Context, req service.SuggestRequest) (service.Suggestion, error)
	Transfers(ctx context.Context, from, to model.Roster) (transfers.Transfers, error)
}

// SuggestHandler serves roster suggestions and transfer diffs.
type SuggestHandler struct {
	deps SuggestDependencies
}

// NewSuggestHandler creates a new suggest handler.
func NewSuggestHandler(deps SuggestDependencies) *SuggestHandler {
	return &SuggestHandler{deps: deps}
}

// HandleSuggest handles POST /suggest requests. An empty body asks for a
// suggestion from the default roster with default settings.
func (h *SuggestHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	var req service.SuggestRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	out, err := h.deps.Suggest(r.Context(), req)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type transfersRequest struct {
	From model.Roster `json:"from"`
	To   model.Roster `json:"to"`
}

// HandleTransfers handles POST /transfers requests.
func (h *SuggestHandler) HandleTransfers(w http.ResponseWriter, r *http.Request) {
	var req transfersRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	diff, err := h.deps.Transfers(r.Context(), req.From, req.To)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		transfers.Transfers
		Count int `json:"count"`
	}{diff, diff.Count()})
}
