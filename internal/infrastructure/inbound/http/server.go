package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sophialabs/catapult/internal/domain/trace"
	"github.com/sophialabs/catapult/internal/infrastructure/ports"
	"github.com/sophialabs/catapult/internal/infrastructure/usecases"
)

// AdminPrefix is reserved for daemon endpoints; inputs under it are never resolved.
const AdminPrefix = "/__admin"

const defaultTraceLast = 10

// Server is the redirect daemon's HTTP handler.
type Server struct {
	router    *chi.Mux
	resolveUC *usecases.ResolveUseCase
	traceBuf  *trace.RingBuffer
	logger    ports.Logger
}

// NewServer creates a new Server.
func NewServer(resolveUC *usecases.ResolveUseCase, traceBuf *trace.RingBuffer, logger ports.Logger) *Server {
	s := &Server{
		resolveUC: resolveUC,
		traceBuf:  traceBuf,
		logger:    logger,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route(AdminPrefix, func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/trace", s.handleGetTrace)
	})

	r.Get("/*", s.handleRedirect)
	r.Head("/*", s.handleRedirect)

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleRedirect resolves the request path, minus one leading slash, as it
// appeared on the wire. Percent-escapes are kept so captured text stays
// valid inside the redirect target.
func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	input := strings.TrimPrefix(r.URL.EscapedPath(), "/")

	res, err := s.resolveUC.Execute(r.Context(), usecases.SourceHTTP, input)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, err.Error())
		return
	}

	if !res.Matched {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Location", res.Redirect)
	w.WriteHeader(http.StatusFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleGetTrace(w http.ResponseWriter, r *http.Request) {
	n := defaultTraceLast
	if lastParam := r.URL.Query().Get("last"); lastParam != "" {
		if parsed, err := strconv.Atoi(lastParam); err == nil && parsed > 0 {
			n = parsed
		}
	}

	entries := s.traceBuf.Last(n)
	if entries == nil {
		entries = []trace.Entry{}
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, entries)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request served",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.EscapedPath(),
			"remote", r.RemoteAddr,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
