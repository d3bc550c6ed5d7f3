package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/ncac/pkg/attachments"
	"p9e.in/ncac/pkg/form"
	"p9e.in/ncac/pkg/ncstore"
	"p9e.in/ncac/pkg/session"
)

// NCHandler serves the NC registry API
type NCHandler struct {
	store      *ncstore.Store
	sessions   *session.Manager
	files      attachments.Store
	chain      form.Chain
	exportPath string
}

// NewNCHandler creates a new NC handler
func NewNCHandler(store *ncstore.Store, sessions *session.Manager, files attachments.Store, exportPath string) *NCHandler {
	return &NCHandler{
		store:      store,
		sessions:   sessions,
		files:      files,
		chain:      form.NCChain,
		exportPath: exportPath,
	}
}

const (
	msgCheckInput = "Check your input: numbers in the correct format, no empty required fields, decimals use '.'"
	msgGeneric    = "Unexpected error while processing the request"
	detailLimit   = 100
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error                string `json:"error"`
	Detail               string `json:"detail,omitempty"`
	RequiresConfirmation bool   `json:"requiresConfirmation,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

// writeError maps a domain error to a status and user-facing message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := describe(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		slog.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, body)
}

func describe(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, ncstore.ErrInvalidInput),
		errors.Is(err, form.ErrUnknownField),
		errors.Is(err, attachments.ErrInvalidName):
		return http.StatusBadRequest, ErrorResponse{Error: msgCheckInput, Detail: truncate(err.Error())}
	case errors.Is(err, ncstore.ErrDuplicate):
		return http.StatusConflict, ErrorResponse{Error: "This NC number is already registered", Detail: truncate(err.Error())}
	case errors.Is(err, form.ErrFieldLocked), errors.Is(err, session.ErrActionLocked):
		return http.StatusConflict, ErrorResponse{Error: err.Error()}
	case errors.Is(err, ncstore.ErrNotFound),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrNoSuchAction),
		errors.Is(err, attachments.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error()}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: msgGeneric, Detail: truncate(err.Error())}
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= detailLimit {
		return s
	}
	return string(r[:detailLimit])
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON: %w", ncstore.ErrInvalidInput, err)
	}
	return nil
}

func (h *NCHandler) sessionFromRequest(r *http.Request) (*session.Session, error) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", session.ErrSessionNotFound, raw)
	}
	return h.sessions.Get(id)
}

func numberFromRequest(r *http.Request) (int64, error) {
	return ncstore.ParseNumber(mux.Vars(r)["nro"])
}

func indexFromRequest(r *http.Request) (int, error) {
	raw := mux.Vars(r)["index"]
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: action index %q", ncstore.ErrInvalidInput, raw)
	}
	return i, nil
}
