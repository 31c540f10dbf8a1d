package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/banker/internal/api"
	"github.com/mcoot/banker/internal/api/apierr"
	"github.com/mcoot/banker/internal/api/middleware"
	"github.com/mcoot/banker/internal/api/response"
	"github.com/mcoot/banker/internal/factory"
	"github.com/mcoot/banker/internal/model"
)

// testServer wraps the router with a test app
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWithLimit(t, nil)
}

func newTestServerWithLimit(t *testing.T, limit *middleware.RateLimitConfig) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:    app.Logger,
		Session:   app.Session,
		Players:   app.Players,
		Recorder:  app.Recorder,
		Rules:     app.Rules,
		Hub:       app.Hub,
		Metrics:   app.Metrics,
		RateLimit: limit,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reqBody io.Reader = http.NoBody
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) createPlayer(t *testing.T, name string) response.PlayerView {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/players", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[response.PlayerView](t, rr)
}

func (ts *testServer) apply(id model.PlayerID, op map[string]any) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, "/api/v1/players/"+string(id)+"/operations", op)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func assertError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, rr.Code)
	resp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, code, resp.Error.Code)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestCreatePlayer(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players", map[string]string{"name": "  Alice ", "avatar": "red"})
	require.Equal(t, http.StatusCreated, rr.Code)

	view := decode[response.PlayerView](t, rr)
	assert.Equal(t, model.PlayerID("id-0001"), view.ID)
	assert.Equal(t, "Alice", view.Name)
	assert.Equal(t, model.AvatarRed, view.Avatar)
	assert.Equal(t, model.CurrencyHUF, view.Currency)
	assert.Equal(t, int64(238000), view.Cash)
	assert.Equal(t, int64(3000000), view.Account)
	assert.Equal(t, int64(3238000), view.Derived.NetWorth)
	assert.Equal(t, 0, view.Derived.WealthGoalPercent)
	assert.NotNil(t, view.Derived.Notifications)
}

func TestCreatePlayerDefaultsAvatar(t *testing.T) {
	ts := newTestServer(t)

	view := ts.createPlayer(t, "Alice")
	assert.Equal(t, model.AvatarGreen, view.Avatar)
}

func TestCreatePlayerValidation(t *testing.T) {
	ts := newTestServer(t)
	ts.createPlayer(t, "Alice")

	assertError(t, ts.request(http.MethodPost, "/api/v1/players", map[string]string{"name": "   "}),
		http.StatusBadRequest, apierr.CodeInvalidName)
	assertError(t, ts.request(http.MethodPost, "/api/v1/players", map[string]string{"name": "Alice"}),
		http.StatusBadRequest, apierr.CodeDuplicateName)
	assertError(t, ts.request(http.MethodPost, "/api/v1/players", map[string]string{"name": "Bob", "avatar": "purple"}),
		http.StatusBadRequest, apierr.CodeInvalidAvatar)
	assertError(t, ts.request(http.MethodPost, "/api/v1/players", map[string]string{"nickname": "Bob"}),
		http.StatusBadRequest, apierr.CodeInvalidRequest)
}

func TestListPlayers(t *testing.T) {
	ts := newTestServer(t)
	ts.createPlayer(t, "Alice")
	ts.createPlayer(t, "Bob")

	rr := ts.request(http.MethodGet, "/api/v1/players", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.PlayersResponse](t, rr)
	require.Len(t, resp.Players, 2)
	assert.Equal(t, "Alice", resp.Players[0].Name)
	assert.Equal(t, "Bob", resp.Players[1].Name)
	assert.Equal(t, model.CurrencyHUF, resp.Currency)
	assert.Equal(t, "Ft", resp.Profile.Symbol)
}

func TestListPlayersETag(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")

	first := ts.request(http.MethodGet, "/api/v1/players", nil)
	tag := first.Header().Get("ETag")
	require.NotEmpty(t, tag)

	rr := ts.request(http.MethodGet, "/api/v1/players", nil, "If-None-Match", tag)
	assert.Equal(t, http.StatusNotModified, rr.Code)
	assert.Empty(t, rr.Body.String())

	// Any change produces a new version
	require.Equal(t, http.StatusOK, ts.apply(alice.ID, map[string]any{"kind": "landing_start"}).Code)

	rr = ts.request(http.MethodGet, "/api/v1/players", nil, "If-None-Match", tag)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEqual(t, tag, rr.Header().Get("ETag"))
}

func TestGetPlayer(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/players/"+string(alice.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Alice", decode[response.PlayerView](t, rr).Name)

	assertError(t, ts.request(http.MethodGet, "/api/v1/players/ghost", nil),
		http.StatusNotFound, apierr.CodePlayerNotFound)
}

func TestDeletePlayer(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")

	rr := ts.request(http.MethodDelete, "/api/v1/players/"+string(alice.ID), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	assertError(t, ts.request(http.MethodDelete, "/api/v1/players/"+string(alice.ID), nil),
		http.StatusNotFound, apierr.CodePlayerNotFound)
}

func TestApplyOperation(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")

	rr := ts.apply(alice.ID, map[string]any{"kind": "withdraw", "amount": 50000})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := decode[response.OperationResponse](t, rr)
	assert.Equal(t, int64(288000), resp.Player.Cash)
	assert.Equal(t, int64(2950000), resp.Player.Account)
	require.NotNil(t, resp.Transaction)
	assert.Equal(t, int64(50000), resp.Transaction.CashAmount)
	assert.Equal(t, int64(-50000), resp.Transaction.AccountAmount)
	assert.Equal(t, "Withdrawal", resp.Transaction.Description)
	assert.Equal(t, model.OpWithdraw, resp.Transaction.Kind)
}

func TestApplyOperationDerivedState(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")

	rr := ts.apply(alice.ID, map[string]any{"kind": "buy_apartment_installment"})
	require.Equal(t, http.StatusOK, rr.Code)

	view := decode[response.OperationResponse](t, rr).Player
	assert.True(t, view.HasApartment)
	assert.Equal(t, int64(9000000), view.Loans.Apartment.Remaining)
	assert.Equal(t, 0, view.Derived.ApartmentLoanProgress)
	assert.Equal(t, 1, view.Derived.ActiveLoansCount)
	assert.Equal(t, int64(90000), view.Derived.MonthlyLoanTotal)
	assert.Equal(t, 20, view.Derived.WealthGoalPercent)
}

func TestApplyOperationAfterCurrencySwitch(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")

	rr := ts.request(http.MethodPut, "/api/v1/currency", map[string]string{"currency": "EUR"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.apply(alice.ID, map[string]any{"kind": "buy_apartment_installment"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	view := decode[response.OperationResponse](t, rr).Player
	assert.Equal(t, int64(20000), view.Loans.Apartment.Remaining)
	assert.Equal(t, 0, view.Derived.ApartmentLoanProgress)
	assert.Equal(t, int64(500), view.Derived.MonthlyLoanTotal)
	assert.Empty(t, view.Derived.Notifications)

	// Listing measures the same loan the same way
	rr = ts.request(http.MethodGet, "/api/v1/players", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	players := decode[response.PlayersResponse](t, rr).Players
	require.Len(t, players, 1)
	assert.Equal(t, 0, players[0].Derived.ApartmentLoanProgress)
	assert.Empty(t, players[0].Derived.Notifications)
}

func TestApplyOperationCustom(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")

	rr := ts.apply(alice.ID, map[string]any{
		"kind":        "custom",
		"amount":      -1000,
		"description": "Parking fine",
		"target":      "cash",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Parking fine (cash)", decode[response.OperationResponse](t, rr).Transaction.Description)
}

func TestApplyOperationErrors(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")

	assertError(t, ts.apply(alice.ID, map[string]any{"kind": "withdraw", "amount": 99999999}),
		http.StatusConflict, apierr.CodeInsufficientFunds)
	assertError(t, ts.apply(alice.ID, map[string]any{"kind": "withdraw"}),
		http.StatusBadRequest, apierr.CodeInvalidAmount)
	assertError(t, ts.apply(alice.ID, map[string]any{"kind": "toggle_furniture"}),
		http.StatusConflict, apierr.CodeFurnitureNeedsHome)
	assertError(t, ts.apply(alice.ID, map[string]any{"kind": "pay_car_loan"}),
		http.StatusConflict, apierr.CodeLoanNotActive)
	assertError(t, ts.apply(alice.ID, map[string]any{"kind": "buy_insurance", "insurance": "flood"}),
		http.StatusBadRequest, apierr.CodeUnknownInsurance)
	assertError(t, ts.apply(alice.ID, map[string]any{"kind": "teleport"}),
		http.StatusBadRequest, apierr.CodeUnknownOperation)
	assertError(t, ts.apply("ghost", map[string]any{"kind": "landing_start"}),
		http.StatusNotFound, apierr.CodePlayerNotFound)
	assertError(t, ts.apply(alice.ID, map[string]any{"kind": "custom", "amount": int64(math.MaxInt64), "target": "account"}),
		http.StatusBadRequest, apierr.CodeInvalidAmount)

	// Nothing was recorded
	rr := ts.request(http.MethodGet, "/api/v1/transactions", nil)
	assert.Empty(t, decode[response.TransactionsResponse](t, rr).Transactions)
}

func TestListTransactions(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")

	for _, kind := range []string{"pass_through_start", "landing_start", "accrue_interest"} {
		ts.app.MockClock.Advance(time.Second)
		require.Equal(t, http.StatusOK, ts.apply(alice.ID, map[string]any{"kind": kind}).Code)
	}

	rr := ts.request(http.MethodGet, "/api/v1/transactions", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	txs := decode[response.TransactionsResponse](t, rr).Transactions
	require.Len(t, txs, 3)
	assert.Equal(t, model.OpAccrueInterest, txs[0].Kind)
	assert.Equal(t, model.OpPassThroughStart, txs[2].Kind)

	rr = ts.request(http.MethodGet, "/api/v1/transactions?limit=2", nil)
	txs = decode[response.TransactionsResponse](t, rr).Transactions
	require.Len(t, txs, 2)
	assert.Equal(t, model.OpLandingStart, txs[1].Kind)

	assertError(t, ts.request(http.MethodGet, "/api/v1/transactions?limit=abc", nil),
		http.StatusBadRequest, apierr.CodeInvalidRequest)
}

func TestCurrency(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/currency", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, model.CurrencyHUF, decode[response.CurrencyResponse](t, rr).Currency)

	rr = ts.request(http.MethodPut, "/api/v1/currency", map[string]string{"currency": "EUR"})
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[response.CurrencyResponse](t, rr)
	assert.Equal(t, model.CurrencyEUR, resp.Currency)
	assert.Equal(t, int64(18000), resp.Profile.StartCash)

	assertError(t, ts.request(http.MethodPut, "/api/v1/currency", map[string]string{"currency": "USD"}),
		http.StatusBadRequest, apierr.CodeUnknownCurrency)

	// New players start from the new profile
	assert.Equal(t, int64(10000), ts.createPlayer(t, "Alice").Account)
}

func TestListCurrencies(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/currencies", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.CurrenciesResponse](t, rr)
	assert.Equal(t, model.CurrencyHUF, resp.Active)
	require.Len(t, resp.Currencies, 2)
	assert.Equal(t, model.CurrencyHUF, resp.Currencies[0].Code)
	assert.Equal(t, model.CurrencyEUR, resp.Currencies[1].Code)
}

func TestReset(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")
	require.Equal(t, http.StatusOK, ts.apply(alice.ID, map[string]any{"kind": "landing_start"}).Code)

	assertError(t, ts.request(http.MethodPost, "/api/v1/reset", map[string]bool{"confirm": false}),
		http.StatusPreconditionRequired, apierr.CodeConfirmationRequired)

	rr := ts.request(http.MethodPost, "/api/v1/reset", map[string]bool{"confirm": true})
	assert.Equal(t, http.StatusNoContent, rr.Code)

	players := decode[response.PlayersResponse](t, ts.request(http.MethodGet, "/api/v1/players", nil))
	assert.Empty(t, players.Players)
	txs := decode[response.TransactionsResponse](t, ts.request(http.MethodGet, "/api/v1/transactions", nil))
	assert.Empty(t, txs.Transactions)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")
	ts.apply(alice.ID, map[string]any{"kind": "deposit", "amount": 1000})
	ts.apply(alice.ID, map[string]any{"kind": "deposit", "amount": 0})

	rr := ts.request(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, `banker_operations_total{kind="deposit",outcome="applied"} 1`)
	assert.Contains(t, body, `banker_operations_total{kind="deposit",outcome="rejected"} 1`)
	assert.Contains(t, body, `path="/api/v1/players/{id}/operations"`)
}

func TestRateLimit(t *testing.T) {
	ts := newTestServerWithLimit(t, &middleware.RateLimitConfig{PerSecond: 0.001, Burst: 2, IdleTTL: time.Minute})

	ts.createPlayer(t, "Alice")
	ts.createPlayer(t, "Bob")

	assertError(t, ts.request(http.MethodPost, "/api/v1/players", map[string]string{"name": "Carol"}),
		http.StatusTooManyRequests, apierr.CodeRateLimited)

	// Reads are not limited
	assert.Equal(t, http.StatusOK, ts.request(http.MethodGet, "/api/v1/players", nil).Code)
}

func TestEventStream(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 64)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	waitFor := func(prefix string) string {
		t.Helper()
		timeout := time.After(2 * time.Second)
		for {
			select {
			case line, ok := <-lines:
				require.True(t, ok, "stream closed waiting for %q", prefix)
				if strings.HasPrefix(line, prefix) {
					return line
				}
			case <-timeout:
				t.Fatalf("timed out waiting for %q", prefix)
			}
		}
	}

	waitFor("event: connected")
	require.Eventually(t, func() bool { return ts.app.Hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	ts.createPlayer(t, "Alice")

	waitFor("event: player-created")
	data := waitFor("data: ")
	assert.Contains(t, data, `"name":"Alice"`)
}
