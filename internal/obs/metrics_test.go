package obs

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/banker/internal/model"
)

func TestObserveOperation(t *testing.T) {
	m := NewMetrics()

	m.ObserveOperation(model.OpDeposit, OutcomeApplied)
	m.ObserveOperation(model.OpDeposit, OutcomeApplied)
	m.ObserveOperation(model.OpDeposit, OutcomeRejected)

	assert.Equal(t, 2.0, promtestutil.ToFloat64(m.operationsTotal.WithLabelValues("deposit", OutcomeApplied)))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.operationsTotal.WithLabelValues("deposit", OutcomeRejected)))
}

func TestInstrumentUsesRouteTemplate(t *testing.T) {
	m := NewMetrics()

	r := mux.NewRouter()
	r.Use(m.Instrument)
	r.HandleFunc("/players/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/players/"+id, nil))
	}

	assert.Equal(t, 3.0, promtestutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/players/{id}", "404")))
	assert.Equal(t, 0.0, promtestutil.ToFloat64(m.httpInFlight))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.ObserveOperation(model.OpWithdraw, OutcomeApplied)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `banker_operations_total{kind="withdraw",outcome="applied"} 1`)
}
