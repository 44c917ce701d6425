package http_api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenpulse/tokenpulse/internal/catalog"
	"github.com/tokenpulse/tokenpulse/internal/config"
	"github.com/tokenpulse/tokenpulse/internal/dashboard"
	"github.com/tokenpulse/tokenpulse/internal/identity"
	"github.com/tokenpulse/tokenpulse/internal/models"
	"github.com/tokenpulse/tokenpulse/internal/observability"
	"github.com/tokenpulse/tokenpulse/internal/repository"
	"github.com/tokenpulse/tokenpulse/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, tick time.Duration, probability float64) *HTTPServer {
	t.Helper()
	cfg := &config.Config{
		UseMemoryStore:        true,
		FeedTickInterval:      tick,
		FeedUpdateProbability: probability,
		FeedSeed:              1,
		WalletSeedUSD:         10_000,
		WalletSeed:            1,
		INRRate:               83.5,
	}
	metrics := observability.NewMetrics("")
	d, err := dashboard.NewDashboard(catalog.Default(), repository.NewMemoryDB(), identity.NewMockProvider(),
		nil, metrics, logger.NewNopLogger(), cfg)
	require.NoError(t, err)
	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(d.Stop)
	require.Eventually(t, d.Ready, time.Second, 5*time.Millisecond)

	return newHTTPServer(d, metrics, 0, logger.NewNopLogger())
}

// staticServer never ticks, so prices stay at their catalog values.
func staticServer(t *testing.T) *HTTPServer {
	return newTestServer(t, time.Hour, 0.3)
}

func do(t *testing.T, s *HTTPServer, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var out map[string]interface{}
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHealthz(t *testing.T) {
	s := staticServer(t)
	rec, body := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ready"])
}

func TestTokensEndpoints(t *testing.T) {
	s := staticServer(t)

	rec, body := do(t, s, http.MethodGet, "/api/v1/tokens", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["loading"])
	assert.Equal(t, "New pairs", body["tab"])
	tokens := body["tokens"].([]interface{})
	require.Len(t, tokens, 5)
	assert.Equal(t, "sol-surfer", tokens[0].(map[string]interface{})["id"])

	rec, body = do(t, s, http.MethodGet, "/api/v1/tokens?currency=EUR", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])

	rec, _ = do(t, s, http.MethodPut, "/api/v1/tab", `{"tab":"Migrated"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	_, body = do(t, s, http.MethodGet, "/api/v1/tokens?currency=INR", "")
	assert.Equal(t, "INR", body["currency"])
	for _, tok := range body["tokens"].([]interface{}) {
		assert.Equal(t, "Migrated", tok.(map[string]interface{})["status"])
	}

	rec, _ = do(t, s, http.MethodPut, "/api/v1/tab", `{"tab":"Trending"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = do(t, s, http.MethodPut, "/api/v1/tab", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSortEndpoints(t *testing.T) {
	s := staticServer(t)

	_, body := do(t, s, http.MethodPost, "/api/v1/sort", `{"column":"price"}`)
	sortDesc := body["sort"].(map[string]interface{})
	assert.Equal(t, "price", sortDesc["column"])
	assert.Equal(t, "descending", sortDesc["direction"])

	_, body = do(t, s, http.MethodPost, "/api/v1/sort", `{"column":"price"}`)
	assert.Equal(t, "ascending", body["sort"].(map[string]interface{})["direction"])

	rec, _ := do(t, s, http.MethodPost, "/api/v1/sort", `{"column":"icon"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, http.MethodDelete, "/api/v1/sort", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	_, body = do(t, s, http.MethodGet, "/api/v1/tokens", "")
	assert.Nil(t, body["sort"])
}

func TestTokenByID(t *testing.T) {
	s := staticServer(t)

	rec, body := do(t, s, http.MethodGet, "/api/v1/tokens/solana", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SOL", body["ticker"])
	assert.Len(t, body["priceHistory"], 1)

	rec, body = do(t, s, http.MethodGet, "/api/v1/tokens/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "TokenNotFound", body["kind"])
}

func TestWalletEndpoints(t *testing.T) {
	s := staticServer(t)

	rec, body := do(t, s, http.MethodPost, "/api/v1/wallet/trade", `{"token_id":"solana","amount":1,"action":"buy"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "NotConnected", body["kind"])

	rec, body = do(t, s, http.MethodPost, "/api/v1/wallet/connect", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["connected"])
	assert.Len(t, body["account"], 42)

	rec, body = do(t, s, http.MethodPost, "/api/v1/wallet/trade", `{"token_id":"solana","amount":1,"action":"buy"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 9_847.6, body["wallet"].(map[string]interface{})["usd_balance"])

	tests := []struct {
		name   string
		body   string
		status int
		kind   string
	}{
		{"insufficient funds", `{"token_id":"wrapped-btc","amount":1,"action":"buy"}`, http.StatusPaymentRequired, "InsufficientFunds"},
		{"insufficient tokens", `{"token_id":"usd-coin","amount":5,"action":"sell"}`, http.StatusConflict, "InsufficientTokenBalance"},
		{"unknown token", `{"token_id":"nope","amount":1,"action":"buy"}`, http.StatusNotFound, "TokenNotFound"},
		{"bad action", `{"token_id":"solana","amount":1,"action":"hold"}`, http.StatusBadRequest, ""},
		{"negative amount", `{"token_id":"solana","amount":-1,"action":"buy"}`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, s, http.MethodPost, "/api/v1/wallet/trade", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			if tt.kind != "" {
				assert.Equal(t, tt.kind, body["kind"])
			}
		})
	}

	_, body = do(t, s, http.MethodGet, "/api/v1/wallet", "")
	assert.Equal(t, 9_847.6, body["usd_balance"], "failed trades change nothing")

	rec, body = do(t, s, http.MethodPost, "/api/v1/wallet/disconnect", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["connected"])
}

func TestFundsEndpoint(t *testing.T) {
	s := staticServer(t)
	do(t, s, http.MethodPost, "/api/v1/wallet/connect", "")

	rec, _ := do(t, s, http.MethodPost, "/api/v1/wallet/funds", `{"amount":835,"currency":"INR","method":"UPI","upi_id":"ada@bank","pin":"0000"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = do(t, s, http.MethodPost, "/api/v1/wallet/funds", `{"amount":50,"method":"Card","card_number":"1","expiry":"12/29","cvv":"123","pin":"1234"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body := do(t, s, http.MethodPost, "/api/v1/wallet/funds", `{"amount":835,"currency":"INR","method":"UPI","upi_id":"ada@bank","pin":"1234"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10.0, body["credited_usd"])
	assert.Equal(t, 10_010.0, body["usd_balance"])
}

func TestProfileEndpoints(t *testing.T) {
	s := staticServer(t)

	rec, _ := do(t, s, http.MethodGet, "/api/v1/profile", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	do(t, s, http.MethodPost, "/api/v1/wallet/connect", "")

	rec, body := do(t, s, http.MethodGet, "/api/v1/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body["name"], "Trader 0x")

	rec, body = do(t, s, http.MethodPatch, "/api/v1/profile", `{"name":"Ada","country":"GB","email":"ada@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := body["profile"].(map[string]interface{})
	assert.Equal(t, "Ada", profile["name"])
	assert.Equal(t, "GB", profile["country"])

	rec, _ = do(t, s, http.MethodPatch, "/api/v1/profile", `{"country":"FR"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = do(t, s, http.MethodPatch, "/api/v1/profile", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = do(t, s, http.MethodDelete, "/api/v1/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	profile = body["profile"].(map[string]interface{})
	assert.Contains(t, profile["name"], "Trader 0x")
	assert.Empty(t, profile["country"])

	do(t, s, http.MethodPost, "/api/v1/wallet/disconnect", "")
	rec, _ = do(t, s, http.MethodDelete, "/api/v1/profile", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCurrenciesAndMetrics(t *testing.T) {
	s := staticServer(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/currencies", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.CurrencyInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "INR", list[1].Code)

	do(t, s, http.MethodPost, "/api/v1/wallet/connect", "")
	do(t, s, http.MethodPost, "/api/v1/wallet/trade", `{"token_id":"solana","amount":1,"action":"buy"}`)

	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tokenpulse_ledger_trades_total{action="buy"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	s := staticServer(t)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/profile", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPriceStream(t *testing.T) {
	s := newTestServer(t, 10*time.Millisecond, 1)
	ts := httptest.NewServer(s.router)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg PriceMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "price_update", msg.Type)
	assert.NotEmpty(t, msg.TokenID)
	assert.Contains(t, []models.Direction{models.DirectionUp, models.DirectionDown}, msg.Direction)
	assert.Positive(t, msg.Price)

	require.NoError(t, s.Shutdown())
}
