package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/phonebook/internal/config"
	"github.com/roach88/phonebook/internal/record"
)

// RecordStore is the storage the handlers need. *store.Store implements it.
type RecordStore interface {
	List(ctx context.Context, kind record.Kind, filter record.Filter) ([]record.Record, error)
	Get(ctx context.Context, kind record.Kind, id string) (record.Record, error)
	SearchPrefix(ctx context.Context, kind record.Kind, prefix string) ([]record.Record, error)
	InsertIfAbsent(ctx context.Context, rec record.Record) (bool, error)
	InsertManyIfAbsent(ctx context.Context, recs []record.Record) ([]record.Record, error)
	Update(ctx context.Context, kind record.Kind, id string, patch record.Patch) (record.Record, error)
	Delete(ctx context.Context, kind record.Kind, id string) (record.Record, error)
	DeleteMany(ctx context.Context, kind record.Kind, ids []string) ([]record.Record, error)
}

// Server routes phonebook requests to a RecordStore.
type Server struct {
	store  RecordStore
	log    zerolog.Logger
	ids    record.IDGenerator
	router *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithIDGenerator replaces the UUID generator used for new records.
func WithIDGenerator(ids record.IDGenerator) Option {
	return func(s *Server) { s.ids = ids }
}

// NewServer builds a server with routes for every record kind.
func NewServer(st RecordStore, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		store:  st,
		log:    log,
		ids:    record.UUIDGenerator{},
		router: mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, kind := range record.Kinds {
		s.registerKind(kind)
	}
	return s
}

func (s *Server) registerKind(kind record.Kind) {
	h := &kindHandler{server: s, kind: kind}
	base := "/" + kind.Name

	s.router.HandleFunc(base, h.handleList).Methods(http.MethodGet)
	s.router.HandleFunc(base, h.handleCreate).Methods(http.MethodPost)
	s.router.HandleFunc(base, h.handleDeleteMany).Methods(http.MethodDelete)

	// Must precede the {id} routes: mux matches in registration order.
	s.router.HandleFunc(base+"/name_starts_with={prefix:[^/]*}", h.handleSearchPath).Methods(http.MethodGet)

	s.router.HandleFunc(base+"/{id}", h.handleGet).Methods(http.MethodGet)
	s.router.HandleFunc(base+"/{id}", h.handleUpdate).Methods(http.MethodPut)
	s.router.HandleFunc(base+"/{id}", h.handleDelete).Methods(http.MethodDelete)
}

// Handler returns the router wrapped with request logging. Every request
// gets a request id (echoed in X-Request-Id) and an access log line.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	h = hlog.NewHandler(s.log)(h)
	return h
}

// Run listens on cfg.Addr and serves until ctx is cancelled, then shuts down
// gracefully within cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context, cfg config.ServerConfig) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	return s.Serve(ctx, ln, cfg)
}

// Serve is Run on an existing listener. The listener is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener, cfg config.ServerConfig) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("serving")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
