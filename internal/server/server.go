package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/thinksmartgroup/Search-AI/internal/correlate"
	"github.com/thinksmartgroup/Search-AI/internal/sink"
)

const maxPayloadBytes = 1 << 20 // 1 MiB per callback delivery

// Config holds configuration for the ingress server.
type Config struct {
	// Addr is the address to listen on (e.g., ":8080").
	Addr string

	// IngestRatePerSecond bounds callback deliveries per source host.
	IngestRatePerSecond int
}

// Server exposes the engine over HTTP: the webhook ingress the enrichment
// service delivers to, a read view of the sink, and the resolve endpoint
// that runs a full dispatch-and-wait.
type Server struct {
	config   Config
	logger   *zap.Logger
	sink     *sink.Sink
	resolver *correlate.Resolver // nil when dispatch is not configured
	archive  *sink.Archive       // nil when archiving is disabled
	limiter  *sourceRateLimiter
	server   *http.Server
}

// New creates a Server. resolver and archive may be nil.
func New(config Config, callbackSink *sink.Sink, resolver *correlate.Resolver, archive *sink.Archive, logger *zap.Logger) *Server {
	perSecond := config.IngestRatePerSecond
	if perSecond <= 0 {
		perSecond = 100
	}
	return &Server{
		config:   config,
		logger:   logger.Named("server"),
		sink:     callbackSink,
		resolver: resolver,
		archive:  archive,
		limiter:  newSourceRateLimiter(perSecond),
	}
}

// Handler returns the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /callbacks", s.handleIngest)
	mux.HandleFunc("GET /callbacks", s.handleRecords)
	mux.HandleFunc("POST /resolve", s.handleResolve)
	mux.HandleFunc("POST /dispatch", s.handleDispatch)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Start starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:        s.config.Addr,
		Handler:     s.Handler(),
		ReadTimeout: 10 * time.Second,
		// Resolve holds the connection for a full wait budget, so the write
		// timeout must comfortably exceed it.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.evictLimiters(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.config.Addr))
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) evictLimiters(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.limiter.Evict(time.Hour)
		}
	}
}

// handleIngest is the webhook ingress. The enrichment service POSTs result
// payloads here, with the correlation token (if any) riding on the callback
// URL's query string.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	source, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		source = r.RemoteAddr
	}
	if !s.limiter.Allow(source) {
		s.logger.Warn("Callback delivery rate limited", zap.String("source", source))
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limited"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}

	token := r.URL.Query().Get("token")
	ingested, err := s.sink.Ingest(body, token)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"ingested": ingested})
}

// handleRecords returns the full ordered sink contents.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sink.Snapshot())
}

// resolveRequest is the body of POST /resolve and POST /dispatch.
type resolveRequest struct {
	// Name and Website describe the company the caller wants enriched,
	// used for heuristic matching when the service drops the token.
	Name    string `json:"name"`
	Website string `json:"website"`

	// Identifier is what the enrichment service is asked to look up
	// (typically a profile URL or slug). Falls back to Website when empty.
	Identifier string `json:"identifier"`
}

func (req *resolveRequest) identifier() string {
	if req.Identifier != "" {
		return req.Identifier
	}
	return req.Website
}

// resolveResponse is the body answered by POST /resolve.
type resolveResponse struct {
	Outcome   string          `json:"outcome"`
	Candidate json.RawMessage `json:"candidate"`
}

// handleResolve runs a full dispatch-and-wait and answers with the resolved
// candidate or the not-found sentinel. It never answers 5xx for "no match"
// because a timeout is a legitimate outcome, not a server fault.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if s.resolver == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "enrichment dispatch is not configured"})
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	if req.identifier() == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "identifier or website is required"})
		return
	}

	candidate, outcome, err := s.resolver.Resolve(r.Context(), req.Name, req.Website, req.identifier())
	if err != nil {
		s.logger.Error("Dispatch failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	if outcome == correlate.OutcomeResolved && s.archive != nil {
		if err := s.archive.SaveCandidate(r.Context(), candidate, ""); err != nil {
			s.logger.Warn("Failed to archive candidate", zap.Error(err))
		}
	}

	encoded, err := json.Marshal(candidate)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "encoding failure"})
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{Outcome: string(outcome), Candidate: encoded})
}

// handleDispatch fires an enrichment request without waiting, answering the
// correlation token so the records can be inspected later.
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	if s.resolver == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "enrichment dispatch is not configured"})
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	if req.identifier() == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "identifier or website is required"})
		return
	}

	token, err := s.resolver.DispatchOnly(r.Context(), req.identifier())
	if err != nil {
		s.logger.Error("Dispatch failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"token": token})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

