package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/postbox/internal/logging"
	"github.com/dmitrijs2005/postbox/internal/server/mailbox"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsProvider reports store size for the gauges.
type StatsProvider interface {
	Stats() mailbox.Stats
}

// Server serves /metrics and /healthz over HTTP.
type Server struct {
	address  string
	provider StatsProvider
	logger   logging.Logger
}

func NewServer(address string, provider StatsProvider, l logging.Logger) *Server {
	return &Server{
		address:  address,
		provider: provider,
		logger:   l.With("module", "metrics"),
	}
}

// Router builds the HTTP routes. Gauges are refreshed from the store on
// every scrape.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	metricsHandler := promhttp.Handler()
	r.Handle("/metrics", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.refresh()
		metricsHandler.ServeHTTP(w, req)
	})).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	return r
}

func (s *Server) refresh() {
	if s.provider == nil {
		return
	}
	st := s.provider.Stats()
	UsersTotal.Set(float64(st.Users))
	PendingMessages.Set(float64(st.PendingMessages))
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve handles HTTP on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping metrics server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting metrics server", "address", ln.Addr().String())

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
