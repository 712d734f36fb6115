package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lamachat/recall/internal/domain"
	domcfg "github.com/lamachat/recall/internal/domain/proposalconfig"
	"github.com/lamachat/recall/internal/domain/subject"
	healthuc "github.com/lamachat/recall/internal/usecase/health"
	ingestuc "github.com/lamachat/recall/internal/usecase/ingest"
	proposaluc "github.com/lamachat/recall/internal/usecase/proposal"
	configuc "github.com/lamachat/recall/internal/usecase/proposalconfig"
)

// defaultUserID is assumed when the client sends no X-User-ID header. A
// single-user desktop install never sets the header.
const defaultUserID = "local"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API for the proposal engine.
type Server struct {
	proposals     *proposaluc.Service
	configs       *configuc.Service
	ingest        *ingestuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. ingest may be nil when no analysis
// pipeline is wired.
func NewServer(
	proposals *proposaluc.Service,
	configs *configuc.Service,
	ingest *ingestuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		proposals: proposals,
		configs:   configs,
		ingest:    ingest,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		invalidConfigHandler,
		sentinelHandler(domain.ErrTopicNotFound, http.StatusNotFound, codeTopicNotFound),
		sentinelHandler(domain.ErrSubjectNotFound, http.StatusNotFound, codeSubjectNotFound),
		sentinelHandler(domain.ErrProposalNotFound, http.StatusNotFound, codeProposalNotFound),
		sentinelHandler(domain.ErrConfigNotFound, http.StatusNotFound, codeConfigNotFound),
		sentinelHandler(domain.ErrExtractionProviderError,
			http.StatusBadGateway, codeExtractionProviderError),
		sentinelHandler(domain.ErrComputation, http.StatusInternalServerError, codeComputationFailed),
	}
	return s
}

// Routes registers all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/topics/{topicID}/proposals", s.GetProposals)
	r.Post("/topics/{topicID}/analyze", s.AnalyzeTopic)
	r.Get("/config", s.GetConfig)
	r.Patch("/config", s.UpdateConfig)
	r.Get("/config/versions", s.ListConfigVersions)
	r.Get("/config/versions/{hash}", s.GetConfigVersion)
	r.Post("/proposals/dismiss", s.DismissProposal)
	r.Post("/proposals/share", s.ShareProposal)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// userID resolves the calling user from the X-User-ID header.
func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return defaultUserID
}

// GetProposals handles POST /topics/{topicID}/proposals.
func (s *Server) GetProposals(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "topicID")

	var req proposalsRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	current, err := subjectsFromRequest(topicID, req.Subjects)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	result, err := s.proposals.GetForTopic(r.Context(), userID(r), topicID, current, req.ForceRefresh)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultToResponse(result))
}

// AnalyzeTopic handles POST /topics/{topicID}/analyze.
func (s *Server) AnalyzeTopic(w http.ResponseWriter, r *http.Request) {
	if s.ingest == nil {
		writeError(w, http.StatusNotImplemented, codeBadRequest, "analysis pipeline not configured")
		return
	}

	topicID := chi.URLParam(r, "topicID")

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "messages is required")
		return
	}

	subj, err := s.ingest.AnalyzeTopic(r.Context(), topicID, req.Description, req.Messages)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, subjectToResponse(subj))
}

// GetConfig handles GET /config.
func (s *Server) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, isDefault, err := s.configs.Get(r.Context(), userID(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, configEnvelope{
		Config:      configToResponse(cfg),
		IsDefault:   isDefault,
		VersionHash: cfg.VersionHash(),
	})
}

// UpdateConfig handles PATCH /config. Unknown fields are rejected.
func (s *Server) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var patch domcfg.Patch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	cfg, hash, err := s.configs.Update(r.Context(), userID(r), patch)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updateConfigResponse{
		Success:     true,
		Config:      configToResponse(cfg),
		VersionHash: hash,
	})
}

// ListConfigVersions handles GET /config/versions.
func (s *Server) ListConfigVersions(w http.ResponseWriter, r *http.Request) {
	hashes, err := s.configs.ListVersions(r.Context(), userID(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, versionListResponse{Versions: hashes})
}

// GetConfigVersion handles GET /config/versions/{hash}.
func (s *Server) GetConfigVersion(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")

	cfg, err := s.configs.Version(r.Context(), userID(r), hash)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, configEnvelope{
		Config:      configToResponse(cfg),
		VersionHash: hash,
	})
}

// DismissProposal handles POST /proposals/dismiss.
func (s *Server) DismissProposal(w http.ResponseWriter, r *http.Request) {
	var req dismissRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	remaining, err := s.proposals.Dismiss(r.Context(), req.ProposalID, req.TopicID, req.PastSubjectID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dismissResponse{
		Success:        true,
		RemainingCount: remaining,
	})
}

// ShareProposal handles POST /proposals/share.
func (s *Server) ShareProposal(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	content, err := s.proposals.Share(
		r.Context(), req.ProposalID, req.TopicID, req.PastSubjectID, req.IncludeMessages)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, shareResponse{
		Success: true,
		Content: sharedContentToResponse(content),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	var ice *domain.InvalidConfigError
	if errors.As(err, &ice) {
		return ice.Error()
	}

	sentinels := []error{
		domain.ErrTopicNotFound,
		domain.ErrSubjectNotFound,
		domain.ErrProposalNotFound,
		domain.ErrConfigNotFound,
		domain.ErrInvalidConfig,
		domain.ErrExtractionProviderError,
		domain.ErrComputation,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidConfigHandler handles ErrInvalidConfig with the offending field in the body.
func invalidConfigHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrInvalidConfig) {
		return false
	}
	var ice *domain.InvalidConfigError
	if errors.As(err, &ice) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"code":    codeValidationFailed,
			"message": msg,
			"field":   ice.Field,
		})
		return true
	}
	writeError(w, http.StatusBadRequest, codeValidationFailed, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// subjectsFromRequest builds the current subject set passed inline by the
// client. A nil request slice means "resolve from the store".
func subjectsFromRequest(topicID string, items []subjectRequest) ([]subject.Subject, error) {
	if items == nil {
		return nil, nil
	}
	out := make([]subject.Subject, 0, len(items))
	for _, item := range items {
		subj, err := subjectFromRequest(topicID, item)
		if err != nil {
			return nil, err
		}
		out = append(out, subj)
	}
	return out, nil
}
