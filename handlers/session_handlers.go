package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/ncac/pkg/ncstore"
	"p9e.in/ncac/pkg/rootcause"
	"p9e.in/ncac/pkg/session"
)

// CreateSession starts a new entry form
func (h *NCHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	writeJSON(w, http.StatusCreated, s.State())
}

// GetSession returns the current state of a form
func (h *NCHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

// DeleteSession discards a form without saving
func (h *NCHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.sessions.Delete(s.ID)
	w.WriteHeader(http.StatusNoContent)
}

// SetFieldRequest carries the new text of a field
type SetFieldRequest struct {
	Value string `json:"value"`
}

// SetFieldResponse reports validation and the resulting form state
type SetFieldResponse struct {
	Field string       `json:"field"`
	Valid bool         `json:"valid"`
	State session.View `json:"state"`
}

// SetField edits one field of the chain, by field name or column
func (h *NCHandler) SetField(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	raw := mux.Vars(r)["name"]
	name, ok := h.chain.Resolve(raw)
	if !ok {
		name = raw
	}
	var req SetFieldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	valid, err := s.SetField(name, req.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SetFieldResponse{Field: name, Valid: valid, State: s.State()})
}

// ObservationsRequest carries the free-text observations
type ObservationsRequest struct {
	Text string `json:"text"`
}

// SetObservations replaces the observations of a form
func (h *NCHandler) SetObservations(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req ObservationsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.SetObservations(req.Text)
	writeJSON(w, http.StatusOK, s.State())
}

// RootCauseRequest marks categories with their five answers
type RootCauseRequest struct {
	Categories rootcause.Analysis `json:"categories"`
}

// SetRootCause stores the Ishikawa analysis of a form
func (h *NCHandler) SetRootCause(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req RootCauseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	encoded, err := s.SetRootCause(req.Categories)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"encoded": encoded,
		"summary": rootcause.Format(req.Categories),
	})
}

// ListActions returns the pending corrective actions
func (h *NCHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Actions())
}

// AddAction appends a corrective action to a form
func (h *NCHandler) AddAction(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req session.ActionInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.AddAction(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// RemoveAction drops a pending corrective action by position
func (h *NCHandler) RemoveAction(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	i, err := indexFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.RemoveAction(i); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadRecord fills a form from the stored NC with that number
func (h *NCHandler) LoadRecord(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, err := numberFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.Load(r.Context(), n); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

// SaveRequest answers the overwrite question. Leave Overwrite unset to be
// asked when the number already exists.
type SaveRequest struct {
	Overwrite *bool `json:"overwrite"`
}

// SaveResponse reports the outcome of a save
type SaveResponse struct {
	Saved  bool                `json:"saved"`
	Result *ncstore.SaveResult `json:"result,omitempty"`
}

// Save commits a form. An existing number without an overwrite answer yields
// 409 with requiresConfirmation; an explicit false cancels.
func (h *NCHandler) Save(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req SaveRequest
	if r.Body != nil {
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, r, err)
			return
		}
	}

	asked := false
	confirm := func(int64) bool {
		if req.Overwrite == nil {
			asked = true
			return false
		}
		return *req.Overwrite
	}

	res, err := s.Save(r.Context(), confirm)
	switch {
	case errors.Is(err, ncstore.ErrCancelled) && asked:
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:                "This NC number is already registered. Resend with overwrite to replace it",
			RequiresConfirmation: true,
		})
		return
	case errors.Is(err, ncstore.ErrCancelled):
		writeJSON(w, http.StatusOK, SaveResponse{Saved: false})
		return
	case err != nil:
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SaveResponse{Saved: true, Result: res})
}
