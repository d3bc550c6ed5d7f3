package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/ncac/handlers"
	"p9e.in/ncac/middleware"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(h *handlers.NCHandler) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", handleHealth).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	registerSessionRoutes(api, h)
	registerRecordRoutes(api, h)
	registerExportRoutes(api, h)

	api.HandleFunc("/form/fields", h.FormFields).Methods("GET")
	api.HandleFunc("/rootcause/categories", h.RootCauseCategories).Methods("GET")

	return middleware.CORS(middleware.Recover(middleware.RequestLogger(r)))
}

// =====================================================
// Entry forms
// =====================================================
func registerSessionRoutes(api *mux.Router, h *handlers.NCHandler) {
	api.HandleFunc("/sessions", h.CreateSession).Methods("POST")

	s := api.PathPrefix("/sessions/{id}").Subrouter()
	s.HandleFunc("", h.GetSession).Methods("GET")
	s.HandleFunc("", h.DeleteSession).Methods("DELETE")
	s.HandleFunc("/fields/{name}", h.SetField).Methods("PUT")
	s.HandleFunc("/observations", h.SetObservations).Methods("PUT")
	s.HandleFunc("/rootcause", h.SetRootCause).Methods("PUT")
	s.HandleFunc("/actions", h.ListActions).Methods("GET")
	s.HandleFunc("/actions", h.AddAction).Methods("POST")
	s.HandleFunc("/actions/{index:[0-9]+}", h.RemoveAction).Methods("DELETE")
	s.HandleFunc("/attachments", h.AttachFiles).Methods("POST")
	s.HandleFunc("/load/{nro}", h.LoadRecord).Methods("POST")
	s.HandleFunc("/save", h.Save).Methods("POST")
}

// =====================================================
// Stored records
// =====================================================
func registerRecordRoutes(api *mux.Router, h *handlers.NCHandler) {
	api.HandleFunc("/nc", h.ListRecords).Methods("GET")
	api.HandleFunc("/nc/{nro}", h.GetRecord).Methods("GET")
	api.HandleFunc("/nc/{nro}/revisions", h.ListRevisions).Methods("GET")
	api.HandleFunc("/attachments/{name}", h.DownloadAttachment).Methods("GET")
}

func registerExportRoutes(api *mux.Router, h *handlers.NCHandler) {
	api.HandleFunc("/export", h.WriteExport).Methods("POST")
	api.HandleFunc("/export", h.DownloadExport).Methods("GET")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
