package httpserver

import (
	"time"

	"github.com/farepilot/farepilot/internal/core/ports"
	customMiddleware "github.com/farepilot/farepilot/internal/infrastructure/httpserver/middleware"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type ServerDeps struct {
	SearchService     ports.SearchService
	EnrichmentService ports.EnrichmentService
	OfferService      ports.OfferService
	HealthCheckers    []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	searchSvc      ports.SearchService
	enrichmentSvc  ports.EnrichmentService
	offerSvc       ports.OfferService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		searchSvc:      deps.SearchService,
		enrichmentSvc:  deps.EnrichmentService,
		offerSvc:       deps.OfferService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
