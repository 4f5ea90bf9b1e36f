package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/herolabs/hokhub/internal/auth"
	"github.com/herolabs/hokhub/internal/cache"
	"github.com/herolabs/hokhub/internal/contrib"
	"github.com/herolabs/hokhub/internal/jobs"
	"github.com/herolabs/hokhub/internal/service"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server. community and authSvc may be
// nil when the relational store is not configured; their routes are
// then left unregistered. redisCache may be nil; /health then skips the
// cache probe.
func NewServer(port string, heroes *service.HeroService, community *service.CommunityService, authSvc *auth.Service, pipeline *contrib.Pipeline, jobSvc *jobs.Service, redisCache *cache.RedisCache) *Server {
	handler := NewHandler(heroes, community, redisCache)
	contributionHandler := NewContributionHandler(pipeline, authSvc)
	jobHandler := NewJobHandler(jobSvc)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Merged dataset
	api.HandleFunc("/heroes", handler.GetDataset).Methods("GET")
	api.HandleFunc("/heroes/search", handler.SearchHeroes).Methods("GET")
	api.HandleFunc("/heroes/{name}", handler.GetHero).Methods("GET")

	// Contribution moderation
	api.HandleFunc("/contributions", contributionHandler.HandleSubmit).Methods("POST")
	api.HandleFunc("/contributions/pending", contributionHandler.HandlePending).Methods("GET")
	api.HandleFunc("/contributions/history", contributionHandler.HandleHistory).Methods("GET")
	api.HandleFunc("/contributions/approve-bulk", contributionHandler.HandleApproveBulk).Methods("POST")
	api.HandleFunc("/contributions/reject-bulk", contributionHandler.HandleRejectBulk).Methods("POST")
	api.HandleFunc("/contributions/{id}/approve", contributionHandler.HandleApprove).Methods("POST")
	api.HandleFunc("/contributions/{id}/reject", contributionHandler.HandleReject).Methods("POST")

	// Reconcile operations
	api.HandleFunc("/reconcile", jobHandler.HandleReconcileRequest).Methods("POST")
	api.HandleFunc("/reconcile/status", jobHandler.HandleReconcileStatus).Methods("GET")

	// Community (needs the relational store)
	if authSvc != nil {
		authHandler := NewAuthHandler(authSvc)
		api.HandleFunc("/auth/register", authHandler.HandleRegister).Methods("POST")
		api.HandleFunc("/auth/login", authHandler.HandleLogin).Methods("POST")
	}
	if community != nil {
		communityHandler := NewCommunityHandler(community)
		api.HandleFunc("/contributors", communityHandler.HandleLeaderboard).Methods("GET")
		api.HandleFunc("/feedback", communityHandler.HandleFeedback).Methods("POST")
	}

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
