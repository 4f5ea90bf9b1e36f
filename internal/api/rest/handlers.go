package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/herolabs/hokhub/internal/cache"
	"github.com/herolabs/hokhub/internal/contrib"
	"github.com/herolabs/hokhub/internal/service"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	heroService      *service.HeroService
	communityService *service.CommunityService
	cache            *cache.RedisCache
}

// NewHandler creates a new handler. cache may be nil.
func NewHandler(heroes *service.HeroService, community *service.CommunityService, redisCache *cache.RedisCache) *Handler {
	return &Handler{
		heroService:      heroes,
		communityService: community,
		cache:            redisCache,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "hokhub",
		"version": "1.0.0",
	}

	if h.cache != nil {
		if err := h.cache.HealthCheck(r.Context()); err != nil {
			response["status"] = "degraded"
			response["cache"] = "unreachable"
		} else {
			response["cache"] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetDataset returns the full merged dataset as stored, byte for byte.
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	doc, err := h.heroService.GetDatasetDoc(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load dataset", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// GetHero returns one hero by display name
func (h *Handler) GetHero(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]

	hero, err := h.heroService.GetHero(r.Context(), name)
	if err != nil {
		if errors.Is(err, contrib.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Hero not found", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch hero", err)
		return
	}

	respondJSON(w, http.StatusOK, hero)
}

// SearchHeroes returns heroes matching a name query
func (h *Handler) SearchHeroes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	heroes, err := h.heroService.SearchHeroes(r.Context(), query)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to search heroes", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"count":   len(heroes),
		"results": heroes,
	})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
