package http_api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tokenpulse/tokenpulse/internal/currency"
	"github.com/tokenpulse/tokenpulse/internal/dashboard"
	"github.com/tokenpulse/tokenpulse/internal/ledger"
	"github.com/tokenpulse/tokenpulse/internal/models"
	"github.com/tokenpulse/tokenpulse/internal/payment"
)

// TabRequest represents the JSON body for switching the active tab
type TabRequest struct {
	Tab string `json:"tab" binding:"required"`
}

// SortRequest represents the JSON body for a column header click
type SortRequest struct {
	Column string `json:"column" binding:"required"`
}

// TradeRequest represents the JSON body for a simulated trade
type TradeRequest struct {
	TokenID string  `json:"token_id" binding:"required"`
	Amount  float64 `json:"amount" binding:"required"`
	Action  string  `json:"action" binding:"required,oneof=buy sell"`
}

// TradeResponse represents the success response for a trade
type TradeResponse struct {
	Success bool               `json:"success"`
	Trade   *models.Trade      `json:"trade"`
	Wallet  models.WalletState `json:"wallet"`
}

// errorStatus maps application errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrTokenNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, ledger.ErrInsufficientTokenBalance):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrNotConnected):
		return http.StatusUnauthorized
	case errors.Is(err, payment.ErrInvalidPIN):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrInvalidAction),
		errors.Is(err, dashboard.ErrInvalidAmount),
		errors.Is(err, dashboard.ErrInvalidTab),
		errors.Is(err, dashboard.ErrInvalidColumn),
		errors.Is(err, currency.ErrUnknownCurrency),
		errors.Is(err, payment.ErrInvalidMethod),
		errors.Is(err, payment.ErrInvalidUPI),
		errors.Is(err, payment.ErrInvalidCard),
		errors.Is(err, payment.ErrInvalidAmount):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail writes the error response for err.
func (s *HTTPServer) fail(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	body := gin.H{
		"success": false,
		"error":   err.Error(),
	}
	if kind := ledger.Kind(err); kind != "" {
		body["kind"] = kind
	}
	c.JSON(status, body)
}

func (s *HTTPServer) badRequest(c *gin.Context, err error) {
	s.logger.Debug("Invalid request body", "error", err)
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Invalid request body: " + err.Error(),
	})
}

// healthz reports liveness and whether the feed is live.
func (s *HTTPServer) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"ready":  s.dashboard.Ready(),
	})
}

// getTokens is a handler for the token table.
func (s *HTTPServer) getTokens(c *gin.Context) {
	listing, err := s.dashboard.Tokens(c.Query("currency"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (s *HTTPServer) getToken(c *gin.Context) {
	token, err := s.dashboard.Token(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

func (s *HTTPServer) setTab(c *gin.Context) {
	var req TabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	tab, err := s.dashboard.SetTab(req.Tab)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tab": tab})
}

func (s *HTTPServer) toggleSort(c *gin.Context) {
	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	desc, err := s.dashboard.ToggleSort(req.Column)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sort": desc})
}

func (s *HTTPServer) clearSort(c *gin.Context) {
	s.dashboard.ClearSort()
	c.JSON(http.StatusOK, gin.H{"success": true, "sort": nil})
}

func (s *HTTPServer) connectWallet(c *gin.Context) {
	state, err := s.dashboard.ConnectWallet(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *HTTPServer) disconnectWallet(c *gin.Context) {
	c.JSON(http.StatusOK, s.dashboard.DisconnectWallet())
}

func (s *HTTPServer) getWallet(c *gin.Context) {
	c.JSON(http.StatusOK, s.dashboard.Wallet())
}

func (s *HTTPServer) trade(c *gin.Context) {
	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	trade, state, err := s.dashboard.Trade(req.TokenID, req.Amount, models.TradeAction(req.Action))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, TradeResponse{Success: true, Trade: trade, Wallet: state})
}

func (s *HTTPServer) addFunds(c *gin.Context) {
	var req models.FundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	result, err := s.dashboard.AddFunds(req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *HTTPServer) getProfile(c *gin.Context) {
	profile, err := s.dashboard.Profile()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// updateProfile merges the body into the profile. When only the profile
// store fails the merged profile is still returned, with a warning.
func (s *HTTPServer) updateProfile(c *gin.Context) {
	var patch models.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.badRequest(c, err)
		return
	}
	profile, err := s.dashboard.UpdateProfile(patch)
	if err != nil && profile == nil {
		s.fail(c, err)
		return
	}
	body := gin.H{"success": true, "profile": profile}
	if err != nil {
		body["warning"] = err.Error()
	}
	c.JSON(http.StatusOK, body)
}

// resetProfile deletes the stored profile and answers with the default one.
func (s *HTTPServer) resetProfile(c *gin.Context) {
	profile, err := s.dashboard.ResetProfile()
	if err != nil && profile == nil {
		s.fail(c, err)
		return
	}
	body := gin.H{"success": true, "profile": profile}
	if err != nil {
		body["warning"] = err.Error()
	}
	c.JSON(http.StatusOK, body)
}

func (s *HTTPServer) getCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, s.dashboard.Currencies())
}
