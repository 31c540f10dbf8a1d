package e2e_test

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/banker/internal/api"
	"github.com/mcoot/banker/internal/api/middleware"
	"github.com/mcoot/banker/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	binaryPath := filepath.Join(t.TempDir(), "banker-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/banker")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{binaryPath: binaryPath, serverURL: serverURL}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{"--output", "json"}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "BANKER_SERVER="+r.serverURL)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runJSON(t *testing.T, result any, args ...string) {
	t.Helper()
	out, err := r.run(args...)
	require.NoError(t, err, out)
	require.NoError(t, json.Unmarshal([]byte(out), result), out)
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// startTestServer runs the full API with in-memory storage
func startTestServer(t *testing.T) string {
	t.Helper()

	app, err := factory.New(factory.Config{StorageType: factory.StorageTypeMemory})
	require.NoError(t, err)
	go app.Hub.Run()

	limit := middleware.DefaultRateLimitConfig()
	server := httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:    app.Logger,
		Session:   app.Session,
		Players:   app.Players,
		Recorder:  app.Recorder,
		Rules:     app.Rules,
		Hub:       app.Hub,
		Metrics:   app.Metrics,
		RateLimit: &limit,
	}))

	t.Cleanup(func() {
		server.Close()
		_ = app.Close()
	})
	return server.URL
}

// Response types for JSON parsing
type playerResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Avatar       string `json:"avatar"`
	Currency     string `json:"currency"`
	Cash         int64  `json:"cash"`
	Account      int64  `json:"account"`
	HasApartment bool   `json:"hasApartment"`
	HasCar       bool   `json:"hasCar"`
	HasFurniture bool   `json:"hasFurniture"`
	Loans        struct {
		Apartment struct {
			Active    bool  `json:"active"`
			Remaining int64 `json:"remaining"`
		} `json:"apartment"`
	} `json:"loans"`
	Derived struct {
		Won               bool `json:"won"`
		WealthGoalPercent int  `json:"wealthGoalPercent"`
	} `json:"derived"`
}

type operationResponse struct {
	Player      playerResponse `json:"player"`
	Transaction struct {
		Description   string `json:"description"`
		CashAmount    int64  `json:"cashAmount"`
		AccountAmount int64  `json:"accountAmount"`
	} `json:"transaction"`
}

type playersResponse struct {
	Currency string           `json:"currency"`
	Players  []playerResponse `json:"players"`
}

type transactionsResponse struct {
	Transactions []struct {
		PlayerName  string `json:"playerName"`
		Description string `json:"description"`
	} `json:"transactions"`
}

type currencyResponse struct {
	Currency string `json:"currency"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func TestCLI_HealthCheck(t *testing.T) {
	runner := newCLIRunner(t, startTestServer(t))

	var result healthResponse
	runner.runJSON(t, &result, "health")
	assert.Equal(t, "ok", result.Status)
}

func TestCLI_PlayerCommands(t *testing.T) {
	runner := newCLIRunner(t, startTestServer(t))

	var alice playerResponse
	runner.runJSON(t, &alice, "players", "add", "--name", "Alice", "--avatar", "red")
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, "red", alice.Avatar)
	assert.Equal(t, "HUF", alice.Currency)
	assert.Len(t, alice.ID, 26)

	var shown playerResponse
	runner.runJSON(t, &shown, "players", "show", alice.ID)
	assert.Equal(t, alice.ID, shown.ID)

	var list playersResponse
	runner.runJSON(t, &list, "players", "list")
	require.Len(t, list.Players, 1)

	_, err := runner.run("players", "delete", alice.ID)
	require.NoError(t, err)

	runner.runJSON(t, &list, "players", "list")
	assert.Empty(t, list.Players)
}

func TestCLI_InstallmentFlow(t *testing.T) {
	runner := newCLIRunner(t, startTestServer(t))

	var p playerResponse
	runner.runJSON(t, &p, "players", "add", "--name", "Bob")

	var bought operationResponse
	runner.runJSON(t, &bought, "op", "buy_apartment_installment", p.ID)
	assert.True(t, bought.Player.HasApartment)
	assert.True(t, bought.Player.Loans.Apartment.Active)
	assert.Equal(t, int64(9000000), bought.Player.Loans.Apartment.Remaining)
	assert.Equal(t, int64(-2000000), bought.Transaction.AccountAmount)

	var paid operationResponse
	runner.runJSON(t, &paid, "op", "pay_apartment_loan", p.ID)
	assert.Equal(t, int64(9000000-90000), paid.Player.Loans.Apartment.Remaining)

	var furnished operationResponse
	runner.runJSON(t, &furnished, "op", "toggle_furniture", p.ID)
	assert.True(t, furnished.Player.HasFurniture)

	var txs transactionsResponse
	runner.runJSON(t, &txs, "tx", "list", "--limit", "2")
	require.Len(t, txs.Transactions, 2)
	assert.Equal(t, "Bob", txs.Transactions[0].PlayerName)
}

func TestCLI_CurrencyAndReset(t *testing.T) {
	runner := newCLIRunner(t, startTestServer(t))

	var cur currencyResponse
	runner.runJSON(t, &cur, "currency", "set", "EUR")
	assert.Equal(t, "EUR", cur.Currency)

	var p playerResponse
	runner.runJSON(t, &p, "players", "add", "--name", "Eve")
	assert.Equal(t, int64(18000), p.Cash)

	out, err := runner.run("reset")
	require.Error(t, err)
	assert.Contains(t, out, "--yes")

	_, err = runner.run("reset", "--yes")
	require.NoError(t, err)

	runner.runJSON(t, &cur, "currency", "get")
	assert.Equal(t, "HUF", cur.Currency)

	var list playersResponse
	runner.runJSON(t, &list, "players", "list")
	assert.Empty(t, list.Players)
}

func TestCLI_ErrorHandling(t *testing.T) {
	runner := newCLIRunner(t, startTestServer(t))

	out, err := runner.run("players", "show", "missing")
	require.Error(t, err)
	assert.Contains(t, out, "PLAYER_NOT_FOUND")

	var p playerResponse
	runner.runJSON(t, &p, "players", "add", "--name", "Dan")

	out, err = runner.run("op", "withdraw", p.ID, "--amount", "999999999")
	require.Error(t, err)
	assert.Contains(t, out, "INSUFFICIENT_FUNDS")

	out, err = runner.run("op", "buy_insurance", p.ID, "--insurance", "dragon")
	require.Error(t, err)
	assert.True(t, strings.Contains(out, "UNKNOWN_INSURANCE"), out)

	out, err = runner.run("currency", "set", "GBP")
	require.Error(t, err)
	assert.Contains(t, out, "UNKNOWN_CURRENCY")
}
