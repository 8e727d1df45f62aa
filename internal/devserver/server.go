// Package devserver serves an asset directory over HTTP for local sessions
// and logs file changes under it.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-stageload/internal/assets"
	"github.com/alnah/go-stageload/internal/fileutil"
	"github.com/alnah/go-stageload/internal/logging"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// ErrAddrInUse indicates the listen address could not be bound.
var ErrAddrInUse = errors.New("address unavailable")

// Options configures a Server.
type Options struct {
	Addr   string      // Listen address, e.g. "127.0.0.1:8000"
	Root   string      // Directory to serve (empty = built-in assets)
	Watch  bool        // Log changes under Root
	Logger *log.Logger // nil = discard
}

// Server is a static asset server.
type Server struct {
	addr    string
	root    string
	watch   bool
	logger  *log.Logger
	handler http.Handler
}

// New checks opts and builds the file handler.
func New(opts Options) (*Server, error) {
	s := &Server{
		addr:   opts.Addr,
		watch:  opts.Watch,
		logger: opts.Logger,
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}

	var files http.Handler
	if opts.Root == "" {
		files = http.FileServerFS(assets.StaticFS())
	} else {
		if !fileutil.DirExists(opts.Root) {
			return nil, fmt.Errorf("%w: %q is not a directory", assets.ErrInvalidBasePath, opts.Root)
		}
		root, err := fileutil.ResolveRoot(opts.Root)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", assets.ErrInvalidBasePath, err)
		}
		s.root = root
		files = http.FileServer(http.Dir(root))
	}
	s.handler = s.logRequests(files)
	return s, nil
}

// Root returns the served directory, empty for built-in assets.
func (s *Server) Root() string {
	return s.root
}

// Handler returns the HTTP handler serving assets.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Listen binds the configured address.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAddrInUse, s.addr, err)
	}
	return ln, nil
}

// Run serves on ln until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, ln net.Listener) error {
	if s.watch && s.root != "" {
		w, err := NewWatcher(s.root, s.logger)
		if err != nil {
			return fmt.Errorf("watching %s: %w", s.root, err)
		}
		defer func() { _ = w.Close() }()
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	s.logger.Info("serving assets", "addr", ln.Addr().String(), "root", s.describeRoot())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) describeRoot() string {
	if s.root == "" {
		return "embedded"
	}
	return s.root
}

// statusRecorder captures the response code for request logs.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start))
	})
}
