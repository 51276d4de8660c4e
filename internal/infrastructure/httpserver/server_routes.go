package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")

	flights := api.Group("/flights")
	flights.POST("/search", s.searchFlights)

	offers := api.Group("/offers")
	offers.POST("/combo", s.bestCombo)
}
