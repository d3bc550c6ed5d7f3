package handlers

import (
	"net/http"

	"p9e.in/ncac/pkg/rootcause"
)

// ListRecords returns every stored NC without its actions
func (h *NCHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// GetRecord returns one NC with its corrective actions
func (h *NCHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	n, err := numberFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := h.store.FindByNumber(r.Context(), n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ListRevisions returns the save history of one NC number
func (h *NCHandler) ListRevisions(w http.ResponseWriter, r *http.Request) {
	n, err := numberFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	revs, err := h.store.Revisions(r.Context(), n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, revs)
}

// FormFields describes the entry chain in order
func (h *NCHandler) FormFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.chain)
}

// RootCauseCategories lists the Ishikawa categories
func (h *NCHandler) RootCauseCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": rootcause.Categories,
		"whys":       rootcause.Whys,
	})
}
