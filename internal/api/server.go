// Package api exposes the talent persistence and viewer endpoints over HTTP.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"talentscout/talent-service/internal/model"
	"talentscout/talent-service/internal/store"
)

// TalentStore is the persistence surface the handlers depend on.
type TalentStore interface {
	Save(ctx context.Context, record model.TalentDetail) (*model.SaveResult, error)
	List(ctx context.Context, q store.ListQuery) ([]bson.M, int64, error)
	Roles(ctx context.Context) ([]string, error)
}

// Handler bundles the HTTP handlers and their dependencies.
type Handler struct {
	store   TalentStore
	version string
}

// NewRouter builds the service mux with open CORS applied to every route.
func NewRouter(ts TalentStore, version string) http.Handler {
	h := &Handler{store: ts, version: version}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.health)
	mux.HandleFunc("/api/talent", h.talent)

	return withCORS(mux)
}

// withCORS answers preflight requests and opens the API to any origin.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Service: "talent-service",
		Version: h.version,
	})
}

// talent dispatches /api/talent by method.
func (h *Handler) talent(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.saveTalent(w, r)
	case http.MethodGet:
		h.listTalents(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[api] Response encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
