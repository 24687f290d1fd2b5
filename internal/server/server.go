package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/drakos74/free-cover/internal/config"
	"github.com/drakos74/free-cover/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type Action string

type Method string

const (
	Api Action = "api"

	GET  Method = http.MethodGet
	POST Method = http.MethodPost

	// maxBody is the largest request body accepted by the api routes.
	maxBody = 1 << 20
)

// ErrBadRequest is returned by handlers for request payloads that cannot be decoded.
var ErrBadRequest = errors.New("bad request")

type Handler func(r *http.Request) ([]byte, int, error)

type Route struct {
	Action  Action
	Path    string
	Method  Method
	Exec    Handler
	Limited bool
}

// Pattern returns the url path of the route.
func (r Route) Pattern() string {
	if r.Path != "" {
		return fmt.Sprintf("/%s/%s", r.Action, r.Path)
	}
	return fmt.Sprintf("/%s", r.Action)
}

type Server struct {
	name    string
	cfg     config.Server
	debug   bool
	limiter *rate.Limiter
	metrics *metrics.Metrics
	routes  []Route
}

func NewServer(name string, cfg config.Server) *Server {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	return &Server{
		name:    name,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, max(cfg.Burst, 1)),
		metrics: metrics.Observer,
		routes:  make([]Route, 0),
	}
}

// Debug sets the server to debug mode
func (s *Server) Debug() *Server {
	s.debug = true
	return s
}

// WithMetrics replaces the default metrics observer.
func (s *Server) WithMetrics(m *metrics.Metrics) *Server {
	s.metrics = m
	return s
}

// Add adds the given routes to the server
func (s *Server) Add(route ...Route) *Server {
	s.routes = append(s.routes, route...)
	return s
}

func (s *Server) handle(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if Method(r.Method) != route.Method {
			s.code(w, errorBody(fmt.Errorf("method %s not allowed", r.Method)), http.StatusMethodNotAllowed)
			return
		}
		if route.Limited && !s.limiter.Allow() {
			s.code(w, errorBody(errors.New("rate limit exceeded")), http.StatusTooManyRequests)
			return
		}
		b, code, err := route.Exec(r)
		if err != nil {
			s.error(w, err, code)
		} else if code != http.StatusOK {
			s.code(w, b, code)
		} else {
			s.respond(w, b)
		}
	}
}

// Handler assembles the routes, the metrics endpoint and the static files into a single handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, route := range s.routes {
		pattern := route.Pattern()
		mux.Handle(pattern, s.instrument(pattern, s.handle(route)))
	}
	mux.Handle("/metrics", s.metrics.Handler())
	mux.Handle("/", s.instrument("static", Static(s.cfg.StaticDir)))
	return Chain(Recovery, CORS, Logger(s.debug))(mux)
}

// Run starts the server on the configured port and blocks until the context is done.
func (s *Server) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("could not start server: %w", err)
	}
	return s.Serve(ctx, l)
}

// Serve accepts connections on the listener until the context is done,
// then shuts the server down gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		defer close(errs)
		log.Info().Str("server", s.name).Str("address", l.Addr().String()).Msg("starting server")
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("could not serve: %w", err)
		}
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdown, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	log.Info().Str("server", s.name).Dur("timeout", timeout).Msg("shutting down server")
	if err := srv.Shutdown(shutdown); err != nil {
		return fmt.Errorf("could not shut down server: %w", err)
	}
	return <-errs
}

func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrap(w)
		next.ServeHTTP(wrapped, r)
		s.metrics.Request(route, r.Method, wrapped.status, time.Since(start))
	})
}

func (s *Server) code(w http.ResponseWriter, b []byte, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	s.write(w, b)
}

func (s *Server) respond(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "application/json")
	s.write(w, b)
}

func (s *Server) write(w http.ResponseWriter, b []byte) {
	_, err := w.Write(b)
	if err != nil {
		log.Error().Err(err).Msg("could not write response")
	}
}

func (s *Server) error(w http.ResponseWriter, err error, code int) {
	if code < http.StatusBadRequest {
		code = http.StatusInternalServerError
	}
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Int("code", code).Msg("error for http request")
	} else {
		log.Debug().Err(err).Int("code", code).Msg("rejected http request")
	}
	s.code(w, errorBody(err), code)
}

func errorBody(err error) []byte {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return b
}

// JsonRead decodes the request body into v.
// An empty body leaves v untouched.
func JsonRead(r *http.Request, debug bool, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return fmt.Errorf("could not read body: %w: %w", err, ErrBadRequest)
	}
	if debug {
		log.Info().
			Str("url", fmt.Sprintf("%+v", r.URL)).
			Str("remote-address", r.RemoteAddr).
			Str("method", r.Method).
			Str("body", string(body)).
			Msg("received payload")
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("could not decode body: %w: %w", err, ErrBadRequest)
		}
	}
	return nil
}
