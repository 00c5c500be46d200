package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesRegisteredCollectors(t *testing.T) {
	m := New()
	m.OrdersAccepted.WithLabelValues("SYM1", "buy", "limit").Inc()
	m.TradesExecuted.WithLabelValues("SYM1").Inc()
	m.BookDepth.WithLabelValues("SYM1", "bid").Set(3)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "orderbook_orders_accepted_total")
	assert.Contains(t, body, "orderbook_trades_executed_total")
	assert.Contains(t, body, "orderbook_book_depth")
}

func TestNewCanBeCalledMultipleTimesWithoutPanicking(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
