// Package httpapi exposes the gateway over HTTP: chat streaming,
// widget action handling, fact review, and attachment upload.
package httpapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/cekat/assistant-gateway/pkg/attach"
	"github.com/cekat/assistant-gateway/pkg/facts"
	"github.com/cekat/assistant-gateway/pkg/session"
	"github.com/cekat/assistant-gateway/pkg/widget"
)

// Server is the gateway API server.
type Server struct {
	echo        *echo.Echo
	addr        string
	sessions    *session.Manager
	widgets     *widget.Router
	facts       facts.Store
	attachments attach.Store
	log         zerolog.Logger
}

// NewServer wires the API server over the given components.
func NewServer(addr string, sessions *session.Manager, widgets *widget.Router, factStore facts.Store, attachments attach.Store, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	server := &Server{
		echo:        e,
		addr:        addr,
		sessions:    sessions,
		widgets:     widgets,
		facts:       factStore,
		attachments: attachments,
		log:         log.With().Str("component", "httpapi").Logger(),
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	s.echo.POST("/chat/:thread", s.handleChat)
	s.echo.POST("/api/widget-action", s.handleWidgetAction)

	s.echo.GET("/facts", s.listFacts)
	s.echo.POST("/facts/:id/save", s.saveFact)
	s.echo.POST("/facts/:id/discard", s.discardFact)

	s.echo.POST("/attachments", s.createAttachment)
	s.echo.POST("/attachments/:id", s.uploadAttachment)
	s.echo.GET("/attachments/:id/download", s.downloadAttachment)
}

// Start runs the server until an interrupt, then shuts down
// gracefully.
func (s *Server) Start() error {
	go func() {
		if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
			s.log.Fatal().Err(err).Msg("Server failed")
		}
	}()
	s.log.Info().Str("addr", s.addr).Msg("API server listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
