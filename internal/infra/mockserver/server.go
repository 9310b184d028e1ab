// Package mockserver serves fixture orders over the v1, v2 and compat
// endpoints so probes and demos have a deterministic target.
package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/ports"
	"github.com/aalvaropc/ordercompat/internal/usecase/adapter"
)

// Routes served by the mock.
const (
	PathV1           = "/api/v1/orders"
	PathV1Deprecated = "/api/v1/orders/deprecated"
	PathV2           = "/api/v2/orders"
	PathCompat       = "/api/compat/orders"
)

const (
	// HeaderRequestID is set on every response.
	HeaderRequestID = "X-Request-Id"
	// HeaderCompatIssues lists the issues the compat endpoint detected.
	HeaderCompatIssues = "X-Compat-Issues"

	// DeprecatedUser always gets the 410 answer from the v1 endpoint.
	DeprecatedUser = "999"

	defaultUser = "000"
)

type Server struct {
	fixtures     ports.FixtureSource
	adapter      *adapter.Adapter
	log          *slog.Logger
	v1Deprecated bool
	newID        func() string
}

type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithV1Deprecated makes the v1 endpoint answer 410 for every user.
func WithV1Deprecated(v bool) Option {
	return func(s *Server) { s.v1Deprecated = v }
}

// WithRequestID replaces the uuid request id generator (tests).
func WithRequestID(gen func() string) Option {
	return func(s *Server) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func New(fx ports.FixtureSource, opts ...Option) *Server {
	s := &Server{
		fixtures: fx,
		log:      slog.New(slog.DiscardHandler),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.adapter = adapter.New(s.log)
	return s
}

// Handler returns the routed handler wrapped in request-id and logging
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+PathV1, s.handleV1)
	mux.HandleFunc("GET "+PathV1Deprecated, s.handleV1Deprecated)
	mux.HandleFunc("GET "+PathV2, s.handleV2)
	mux.HandleFunc("GET "+PathCompat, s.handleCompat)
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	})
	return s.middleware(mux)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully. ready, when non-nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return &domain.OpError{
			Op:   "mockserver.listen",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	s.log.Info("mockserver.started", "addr", ln.Addr().String(), "v1_deprecated", s.v1Deprecated)
	if ready != nil {
		ready(ln.Addr())
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("mockserver.stopped")
	return nil
}

func (s *Server) handleV1(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if s.v1Deprecated || user == DeprecatedUser {
		writeDeprecated(w)
		return
	}
	legacy := adapter.MapToLegacy(s.fixtures.Order(user), true)
	writeJSON(w, http.StatusOK, legacy)
}

func (s *Server) handleV1Deprecated(w http.ResponseWriter, _ *http.Request) {
	writeDeprecated(w)
}

func (s *Server) handleV2(w http.ResponseWriter, r *http.Request) {
	order, _ := s.order(r)
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleCompat(w http.ResponseWriter, r *http.Request) {
	order, requested := s.order(r)
	res := s.adapter.Adapt(order, requested)
	if res.Issues.Len() > 0 {
		w.Header().Set(HeaderCompatIssues, strings.Join(res.Issues.Strings(), ","))
	}
	writeJSON(w, http.StatusOK, res.Legacy)
}

// order returns the v2 order for the request, with lineItems only when
// includeItems was requested.
func (s *Server) order(r *http.Request) (domain.OrderV2, bool) {
	requested := domain.ParseIncludeItems(r.URL.Query().Get("includeItems"))
	o := s.fixtures.Order(userID(r))
	if !requested {
		o = o.WithoutLineItems()
	}
	return o, requested
}

func userID(r *http.Request) string {
	if u := strings.TrimSpace(r.URL.Query().Get("userId")); u != "" {
		return u
	}
	return defaultUser
}

func writeDeprecated(w http.ResponseWriter) {
	writeJSON(w, http.StatusGone, map[string]string{
		"error":   domain.ErrorAPIVersionDeprecated,
		"message": domain.DeprecationMessage,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		b = []byte(`{"error":"INTERNAL"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
