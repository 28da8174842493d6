// README: API server; wraps the router with CORS and owns the listener lifecycle.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

type Server struct {
	srv *http.Server
	log *zap.Logger
}

// NewServer allows credentialed cross-origin requests only for an explicit origin list.
// A wildcard (or empty) list serves any origin without credentials.
func NewServer(cfg ServerConfig, handler http.Handler, log *zap.Logger) *Server {
	wildcard := len(cfg.CORSOrigins) == 0 || lo.Contains(cfg.CORSOrigins, "*")
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID", "Content-Disposition"},
		AllowCredentials: !wildcard,
	})
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           c.Handler(handler),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log.Named("server"),
	}
}

// Handler exposes the CORS-wrapped handler (used by tests).
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start binds the listener synchronously so bind errors surface to the caller,
// then serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.log.Info("listening", zap.String("addr", ln.Addr().String()))
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("serve", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
