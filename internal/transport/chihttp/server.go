// Package chihttp exposes the document question-answering pipeline over
// HTTP: document ingestion, question answering, corpus statistics, and
// the operational endpoints.
package chihttp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/docsift/docsift/internal/corpus"
	"github.com/docsift/docsift/internal/domain"
	"github.com/docsift/docsift/internal/extract"
	logpkg "github.com/docsift/docsift/internal/logger"
	"github.com/docsift/docsift/internal/metrics"
	healthuc "github.com/docsift/docsift/internal/usecase/health"
	ingestuc "github.com/docsift/docsift/internal/usecase/ingest"
	planneruc "github.com/docsift/docsift/internal/usecase/planner"
)

// maxUploadBytes bounds one multipart ingest request.
const maxUploadBytes = 64 << 20

// Error codes returned in the error envelope.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeEmptyCorpus      = "empty_corpus"
	codeProviderError    = "provider_error"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Server handles the HTTP API.
type Server struct {
	ingest  *ingestuc.Service
	planner *planneruc.Service
	store   *corpus.Store
	health  *healthuc.Service
	apiKeys []string
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	ingest *ingestuc.Service,
	planner *planneruc.Service,
	store *corpus.Store,
	health *healthuc.Service,
	apiKeys []string,
	logger *zap.Logger,
) *Server {
	return &Server{
		ingest:  ingest,
		planner: planner,
		store:   store,
		health:  health,
		apiKeys: apiKeys,
		logger:  logger,
	}
}

// Router assembles the route tree with the standard middleware chain.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware())
	r.Use(requestLogger(s.logger))
	r.Use(BearerAuthMiddleware(s.apiKeys))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/documents", s.UploadDocuments)
		r.Post("/ask", s.Ask)
		r.Get("/stats", s.Stats)
	})
	r.Get("/healthz", s.Healthz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	return r
}

// UploadDocuments handles POST /v1/documents. Accepts one or more files
// under the "files" multipart field, extracts their text, and rebuilds
// the corpus from scratch.
func (s *Server) UploadDocuments(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid multipart request: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "At least one file is required")
		return
	}

	docs := make([]ingestuc.Document, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "Failed to open "+fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "Failed to read "+fh.Filename)
			return
		}

		pages, err := extract.ForName(fh.Filename).Extract(data)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, codeValidationFailed,
				"Failed to extract text from "+fh.Filename+": "+err.Error())
			return
		}
		docs = append(docs, ingestuc.Document{ID: fh.Filename, Pages: pages})
	}

	summary, err := s.ingest.Ingest(r.Context(), docs)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, summary)
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask handles POST /v1/ask. The response is always the uniform task
// result envelope; stage failures are results, not transport errors.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result := s.planner.Execute(r.Context(), req.Question)
	writeJSON(w, http.StatusOK, result)
}

type statsResponse struct {
	Documents   map[string]domain.DocumentStats `json:"documents"`
	TotalChunks int                             `json:"total_chunks"`
}

// Stats handles GET /v1/stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	view := s.store.View()
	writeJSON(w, http.StatusOK, statsResponse{
		Documents:   view.Stats(),
		TotalChunks: view.Len(),
	})
}

// Healthz handles GET /healthz.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// handleDomainError logs through the request-scoped logger so the entry
// carries the request id, falling back to the server logger when the
// handler runs outside the middleware chain.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("Domain error", zap.Error(err))

	switch {
	case errors.Is(err, domain.ErrEmptyCorpus):
		writeError(w, http.StatusUnprocessableEntity, codeEmptyCorpus, domain.ErrEmptyCorpus.Error())
	case errors.Is(err, domain.ErrEmbeddingProviderError),
		errors.Is(err, domain.ErrReasoningProviderError):
		writeError(w, http.StatusBadGateway, codeProviderError, "upstream provider error")
	default:
		log.Error("Internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
