// Package api provides the HTTP API server and handlers for the bookmark
// manager.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/openclaw/bookmark-server/internal/service"
	"github.com/openclaw/bookmark-server/internal/store"
)

const apiVersion = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     store.Store
	folders   *service.FolderService
	bookmarks *service.BookmarkService
	tags      *service.TagService
	router    *chi.Mux
	api       huma.API
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, folders *service.FolderService, bookmarks *service.BookmarkService, tags *service.TagService, logger *slog.Logger) *Server {
	s := &Server{
		store:     st,
		folders:   folders,
		bookmarks: bookmarks,
		tags:      tags,
		router:    chi.NewRouter(),
		logger:    logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Bookmark API", apiVersion)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// requestLogger logs one line per completed request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// setupRoutes registers all API operations.
func (s *Server) setupRoutes() {
	s.registerMetaRoutes()
	s.registerFolderRoutes()
	s.registerBookmarkRoutes()
	s.registerTagRoutes()

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "route not found"})
	})
}

// === Meta endpoints ===

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status    string    `json:"status" doc:"Server health status"`
	Timestamp time.Time `json:"timestamp" doc:"Server time"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

// IndexResponse describes the API for clients hitting the root path.
type IndexResponse struct {
	Name      string            `json:"name" doc:"API name"`
	Version   string            `json:"version" doc:"API version"`
	Endpoints map[string]string `json:"endpoints" doc:"Top-level endpoint index"`
}

// IndexOutput wraps the index response for Huma.
type IndexOutput struct {
	Body IndexResponse
}

func (s *Server) registerMetaRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status",
		Tags:        []string{"Meta"},
	}, s.handleHealthCheck)

	huma.Register(s.api, huma.Operation{
		OperationID: "getIndex",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "API index",
		Description: "Returns the API name, version, and endpoint index",
		Tags:        []string{"Meta"},
	}, s.handleGetIndex)
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	return &HealthOutput{
		Body: HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC(),
		},
	}, nil
}

func (s *Server) handleGetIndex(_ context.Context, _ *struct{}) (*IndexOutput, error) {
	return &IndexOutput{
		Body: IndexResponse{
			Name:    "Bookmark API",
			Version: apiVersion,
			Endpoints: map[string]string{
				"bookmarks": "/api/bookmarks",
				"folders":   "/api/folders",
				"tags":      "/api/tags",
				"health":    "/health",
			},
		},
	}, nil
}

// MessageResponse carries a confirmation message for delete endpoints.
type MessageResponse struct {
	Message string `json:"message" doc:"Confirmation message"`
}

// MessageOutput wraps a confirmation message for Huma.
type MessageOutput struct {
	Body MessageResponse
}
