package http_api

import "github.com/gin-gonic/gin"

// routes sets up the routes for the HTTP server.
func (s *HTTPServer) routes() {
	s.router.GET("/healthz", s.healthz)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := s.router.Group("/api/v1")

	api.GET("/tokens", s.getTokens)
	api.GET("/tokens/:id", s.getToken)
	api.PUT("/tab", s.setTab)
	api.POST("/sort", s.toggleSort)
	api.DELETE("/sort", s.clearSort)
	api.GET("/stream", s.priceStream)

	api.POST("/wallet/connect", s.connectWallet)
	api.POST("/wallet/disconnect", s.disconnectWallet)
	api.GET("/wallet", s.getWallet)
	api.POST("/wallet/trade", s.trade)
	api.POST("/wallet/funds", s.addFunds)

	api.GET("/profile", s.getProfile)
	api.PATCH("/profile", s.updateProfile)
	api.DELETE("/profile", s.resetProfile)

	api.GET("/currencies", s.getCurrencies)
}
