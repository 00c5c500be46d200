// Package registry maps symbol identifiers to their order books. It is
// built once at startup and never mutated afterward.
package registry

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/realm-exchange/orderbook/internal/book"
	"github.com/realm-exchange/orderbook/internal/logging"
	"github.com/realm-exchange/orderbook/internal/model"
)

// ErrUnknownSymbol is returned when a symbol is not registered.
var ErrUnknownSymbol = errors.New("registry: unknown symbol")

// Registry is a fixed symbol -> *book.OrderBook table.
type Registry struct {
	books   map[string]*book.OrderBook
	symbols []string
}

// New builds a book for each symbol and returns the registry. Books are
// created eagerly and the symbol set is fixed for the registry's
// lifetime, so it needs no lock of its own.
func New(symbols []string, cfg book.Config, log *logging.Logger) *Registry {
	books := make(map[string]*book.OrderBook, len(symbols))
	sorted := make([]string, len(symbols))
	copy(sorted, symbols)
	sort.Strings(sorted)

	for _, sym := range sorted {
		perSymbolCfg := cfg
		perSymbolCfg.Symbol = sym
		books[sym] = book.New(perSymbolCfg, log.With(logging.F("symbol", sym)))
	}

	return &Registry{books: books, symbols: sorted}
}

// ListSymbols returns the registered symbols in a stable, sorted order.
func (r *Registry) ListSymbols() []string {
	out := make([]string, len(r.symbols))
	copy(out, r.symbols)
	return out
}

// OnCommit registers fn against every book in the registry, so fn is
// invoked synchronously, from that book's own actor goroutine, right
// after each order it accepts commits. Must be called once, before any
// order is submitted through any book.
func (r *Registry) OnCommit(fn func(symbol string, order model.Order, trades []model.Trade, snap model.Snapshot)) {
	for sym, b := range r.books {
		sym, b := sym, b
		b.OnCommit(func(o model.Order, t []model.Trade, s model.Snapshot) {
			fn(sym, o, t, s)
		})
	}
}

// Get returns the book for symbol, or ErrUnknownSymbol.
func (r *Registry) Get(symbol string) (*book.OrderBook, error) {
	b, ok := r.books[symbol]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSymbol, "symbol %q", symbol)
	}
	return b, nil
}

// StopAll terminates every book's actor goroutine. Used on shutdown.
func (r *Registry) StopAll() {
	for _, b := range r.books {
		b.Stop()
	}
}
