package server

import (
	gocontext "context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/thomiceli/gistsearch/internal/config"
	"github.com/thomiceli/gistsearch/internal/search"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	echo *echo.Echo

	dev      bool
	searcher *search.Searcher
}

func NewServer(isDev bool) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = isDev

	s := &Server{echo: e, dev: isDev, searcher: search.NewFromConfig()}

	s.useCustomContext()
	s.registerMiddlewares()
	s.echo.HTTPErrorHandler = s.errorHandler

	s.registerRoutes()

	return s
}

func (s *Server) Start() {
	addr := config.GetHttpAddr()

	log.Info().Msg("Starting HTTP server on http://" + addr)
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

// Stop waits for in-flight searches to finish, up to shutdownTimeout.
func (s *Server) Stop() {
	log.Info().Msg("Stopping HTTP server...")

	ctx, cancel := gocontext.WithTimeout(gocontext.Background(), shutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to stop HTTP server")
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
