package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realm-exchange/orderbook/internal/book"
	"github.com/realm-exchange/orderbook/internal/logging"
	"github.com/realm-exchange/orderbook/internal/model"
)

func TestListSymbolsSorted(t *testing.T) {
	reg := New([]string{"SYM3", "SYM1", "SYM2"}, book.Config{}, logging.Nop())
	defer reg.StopAll()

	assert.Equal(t, []string{"SYM1", "SYM2", "SYM3"}, reg.ListSymbols())
}

func TestGetUnknownSymbol(t *testing.T) {
	reg := New([]string{"SYM1"}, book.Config{}, logging.Nop())
	defer reg.StopAll()

	_, err := reg.Get("SYM404")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestGetKnownSymbol(t *testing.T) {
	reg := New([]string{"SYM1"}, book.Config{}, logging.Nop())
	defer reg.StopAll()

	b, err := reg.Get("SYM1")
	require.NoError(t, err)
	assert.Equal(t, "SYM1", b.Symbol())
}

func TestOnCommitRoutesEachBookUnderItsOwnSymbol(t *testing.T) {
	reg := New([]string{"SYM1", "SYM2"}, book.Config{}, logging.Nop())
	defer reg.StopAll()

	var mu sync.Mutex
	seen := make(map[string]string)
	reg.OnCommit(func(symbol string, order model.Order, _ []model.Trade, _ model.Snapshot) {
		mu.Lock()
		seen[symbol] = order.ID
		mu.Unlock()
	})

	b1, err := reg.Get("SYM1")
	require.NoError(t, err)
	b2, err := reg.Get("SYM2")
	require.NoError(t, err)

	order1, _, err := b1.Submit(model.Order{Symbol: "SYM1", Side: model.Buy, Kind: model.Limit, Price: 100, Qty: 1})
	require.NoError(t, err)
	order2, _, err := b2.Submit(model.Order{Symbol: "SYM2", Side: model.Buy, Kind: model.Limit, Price: 200, Qty: 1})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, order1.ID, seen["SYM1"])
	assert.Equal(t, order2.ID, seen["SYM2"])
}
