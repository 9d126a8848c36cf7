// Package web provides the HTTP API for the visitor register.
package web

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/evcraddock/visitor-register/internal/feedback"
	"github.com/evcraddock/visitor-register/internal/logging"
	"github.com/evcraddock/visitor-register/internal/metrics"
	"github.com/evcraddock/visitor-register/internal/prereg"
	"github.com/evcraddock/visitor-register/internal/visitor"
)

// AdminTokenHeader carries the admin token on admin requests.
const AdminTokenHeader = "X-Admin-Token"

// VisitorService is the visitor lifecycle used by the API.
type VisitorService interface {
	CheckIn(ctx context.Context, in visitor.CheckInInput) (*visitor.Visitor, error)
	CheckOut(ctx context.Context, contact string) (*visitor.Visitor, error)
	Search(ctx context.Context, query string) ([]visitor.HistoryEntry, error)
	Stats(ctx context.Context) (visitor.Stats, error)
	Export(ctx context.Context) (string, error)
}

// PreregService is the pre-registration workflow used by the API.
type PreregService interface {
	Submit(ctx context.Context, in prereg.SubmitInput) (*prereg.Preregistration, error)
	ListPending(ctx context.Context) ([]*prereg.Preregistration, error)
	Approve(ctx context.Context, id int64) (*prereg.Approval, error)
	Decline(ctx context.Context, id int64) error
}

// FeedbackService accepts feedback submissions.
type FeedbackService interface {
	Submit(ctx context.Context, in feedback.Input) (*feedback.Feedback, error)
}

// Config holds API settings.
type Config struct {
	// BaseURL is the public URL encoded into pre-registration QR codes.
	BaseURL string
	// AdminToken, when set, is required on admin endpoints.
	AdminToken string
}

// Server is the API HTTP server.
type Server struct {
	visitors VisitorService
	preregs  PreregService
	feedback FeedbackService
	metrics  *metrics.Metrics
	config   Config
	router   chi.Router
}

// NewServer creates an API server over the given services.
func NewServer(cfg Config, visitors VisitorService, preregs PreregService, fb FeedbackService, m *metrics.Metrics) *Server {
	s := &Server{
		visitors: visitors,
		preregs:  preregs,
		feedback: fb,
		metrics:  m,
		config:   cfg,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(logging.RequestID)
	r.Use(logging.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/checkin", s.apiCheckIn)
		r.Post("/checkout", s.apiCheckOut)
		r.Get("/history", s.apiHistory)
		r.Get("/stats", s.apiStats)
		r.Post("/feedback", s.apiFeedback)
		r.Post("/generate-qr", s.apiGenerateQR)
		r.Post("/preregister", s.apiPreregister)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/export", s.apiExport)
			r.Get("/preregistrations", s.apiListPreregistrations)
			r.Post("/preregistrations/{id}/approve", s.apiApprove)
			r.Post("/preregistrations/{id}/decline", s.apiDecline)
		})
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// NewHTTPServer builds an http.Server for handler with the server timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// requireAdmin rejects requests without the configured admin token. It
// allows everything when no token is configured.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.AdminToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		got := r.Header.Get(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.config.AdminToken)) != 1 {
			apiError(w, "admin token required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// instrument records request latency by route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveRequest(r.Method, route, status, time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
