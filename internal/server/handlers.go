package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/vta/internal/assistant"
	"github.com/hyperjump/vta/internal/models"
	"github.com/hyperjump/vta/internal/search"
	"github.com/hyperjump/vta/internal/storage"
	"go.uber.org/zap"
)

// bodyOverhead is the allowance for JSON framing and the question on top of the
// base64-encoded image.
const bodyOverhead = 1 << 20

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "TDS Virtual TA API",
		"version": s.version,
		"endpoints": map[string]string{
			"POST /api/":               "Submit questions to the Virtual TA",
			"GET /api/health":          "Health check endpoint",
			"GET /api/v1/posts/search": "Search archived Discourse posts",
			"GET /api/v1/status":       "Corpus and archive statistics",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   s.version,
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if limit := s.config.Assistant.MaxImageBytes; limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit*4/3+bodyOverhead)
	}
	var req models.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	resp, err := s.assistant.Ask(r.Context(), &req)
	switch {
	case err == nil:
		s.respondJSON(w, http.StatusOK, resp)
	case assistant.IsValidation(err):
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("question timed out", zap.String("request_id", requestID(r)))
		s.respondError(w, http.StatusGatewayTimeout, "request timed out")
	case errors.Is(err, context.Canceled):
		s.logger.Debug("client went away", zap.String("request_id", requestID(r)))
	default:
		s.logger.Error("question failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (s *Server) handleSearchPosts(w http.ResponseWriter, r *http.Request) {
	if s.engine == nil {
		s.respondError(w, http.StatusNotImplemented, "post archive not enabled")
		return
	}
	query := r.URL.Query().Get("q")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}
	s.logger.Debug("post search request", zap.String("query", query), zap.Int("limit", limit))

	resp, err := s.engine.SearchPosts(r.Context(), query, limit)
	if errors.Is(err, search.ErrEmptyQuery) {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	if err != nil {
		s.logger.Error("post search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res := s.assistant.Resolver()
	resp := map[string]interface{}{
		"corpus_entries":       res.EntryCount(),
		"categories":           res.CategoryCount(),
		"simulated_latency_ms": s.config.Assistant.SimulatedLatency.Milliseconds(),
		"archive_enabled":      s.storage != nil,
	}

	if s.storage != nil {
		posts, err := s.storage.CountPosts(ctx)
		if err != nil {
			s.logger.Error("status: count posts failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		runs, err := s.storage.CountRuns(ctx)
		if err != nil {
			s.logger.Error("status: count runs failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp["posts"] = posts
		resp["scrape_runs"] = runs
		resp["database_path"] = s.config.Storage.DatabasePath
		resp["bleve_index_path"] = s.config.Storage.BleveIndexPath

		diskBytes, err := storage.DiskUsageBytes(s.config.Storage.DatabasePath, s.config.Storage.BleveIndexPath)
		if err == nil {
			resp["disk_usage_bytes"] = diskBytes
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, http.StatusNotFound, "Endpoint not found")
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"detail": message})
}
