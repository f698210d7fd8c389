package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"talentscout/talent-service/internal/model"
	"talentscout/talent-service/internal/store"
)

const (
	defaultPageLimit = 12
	maxPageLimit     = 100
)

type saveResponse struct {
	Success  bool  `json:"success"`
	ID       int64 `json:"id"`
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
	Upserted int64 `json:"upserted"`
}

// saveTalent handles PUT /api/talent: an idempotent upsert of one merged
// talent record. 201 when the document was newly inserted, 200 otherwise.
func (h *Handler) saveTalent(w http.ResponseWriter, r *http.Request) {
	var record model.TalentDetail
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.store.Save(r.Context(), record)
	if err != nil {
		if errors.Is(err, store.ErrInvalidTalentID) {
			writeError(w, http.StatusBadRequest, "talent id is required and must be numeric")
			return
		}
		log.Printf("[api] Save error: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if result.Upserted > 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, saveResponse{
		Success:  true,
		ID:       result.ID,
		Matched:  result.Matched,
		Modified: result.Modified,
		Upserted: result.Upserted,
	})
}

type paginationBlock struct {
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type filtersBlock struct {
	Roles []string `json:"roles"`
}

type listResponse struct {
	Talents    []map[string]any `json:"talents"`
	Pagination paginationBlock  `json:"pagination"`
	Filters    filtersBlock     `json:"filters"`
}

// listTalents handles GET /api/talent with page/limit/search/role query
// parameters.
func (h *Handler) listTalents(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := store.ListQuery{
		Page:   queryInt(params.Get("page"), 1, 1, 0),
		Limit:  queryInt(params.Get("limit"), defaultPageLimit, 1, maxPageLimit),
		Search: params.Get("search"),
		Role:   params.Get("role"),
	}

	docs, total, err := h.store.List(r.Context(), q)
	if err != nil {
		log.Printf("[api] List error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load talents")
		return
	}

	// The roles facet is decoration for the filter dropdown; its failure
	// must not take the listing down.
	roles, err := h.store.Roles(r.Context())
	if err != nil {
		log.Printf("[api] Roles error: %v", err)
		roles = []string{}
	}

	talents := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		talents = append(talents, map[string]any(doc))
	}

	writeJSON(w, http.StatusOK, listResponse{
		Talents: talents,
		Pagination: paginationBlock{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: (total + q.Limit - 1) / q.Limit,
		},
		Filters: filtersBlock{Roles: roles},
	})
}

// queryInt parses a positive integer query parameter, clamped to
// [min, max]; max 0 means unbounded. Malformed input falls back to def.
func queryInt(s string, def, min, max int64) int64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < min {
		return def
	}
	if max > 0 && v > max {
		return max
	}
	return v
}
