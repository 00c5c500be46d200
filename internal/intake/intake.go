// Package intake implements the request-intake facade: validate, mint
// identifiers, drive the target order book, and hand the result to the
// notifier.
package intake

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/realm-exchange/orderbook/internal/book"
	"github.com/realm-exchange/orderbook/internal/logging"
	"github.com/realm-exchange/orderbook/internal/metrics"
	"github.com/realm-exchange/orderbook/internal/model"
	"github.com/realm-exchange/orderbook/internal/notify"
	"github.com/realm-exchange/orderbook/internal/registry"
)

// Request describes an order to place, as received from any caller
// (HTTP transport, the startup seeder, tests).
type Request struct {
	UserID string
	Symbol string
	Side   model.Side
	Kind   model.Kind
	Price  float64
	Qty    float64
}

// Result is what a caller of PlaceOrder gets back.
type Result struct {
	OrderID string
	Filled  bool
	Trades  []model.Trade
}

// Facade validates and routes orders into the registry, then publishes
// the resulting event to the notifier.
type Facade struct {
	registry *registry.Registry
	notifier *notify.Notifier
	metrics  *metrics.Metrics
	log      *logging.Logger
}

// New builds a Facade over the given registry and notifier, and wires
// itself into the registry's commit callback so that metrics recording
// and event publication happen synchronously with each book's match,
// in exact commit order, rather than in a second unsynchronized
// round-trip made from the calling goroutine.
func New(reg *registry.Registry, notifier *notify.Notifier, m *metrics.Metrics, log *logging.Logger) *Facade {
	f := &Facade{registry: reg, notifier: notifier, metrics: m, log: log}
	reg.OnCommit(f.handleCommit)
	return f
}

// PlaceOrder looks up the target book, validates the request, and
// submits the order for matching. Metrics and the outgoing event are
// recorded by handleCommit, invoked by the book's own actor goroutine
// as part of Submit, so they are never reordered relative to the
// commit that produced them.
func (f *Facade) PlaceOrder(req Request) (Result, error) {
	b, err := f.registry.Get(req.Symbol)
	if err != nil {
		f.log.Warn("order rejected: unknown symbol", logging.F("symbol", req.Symbol))
		return Result{}, err
	}

	if err := validate(req); err != nil {
		f.log.Warn("order rejected: validation failed", logging.F("symbol", req.Symbol), logging.F("err", err.Error()))
		return Result{}, err
	}

	order := model.Order{
		ID:     uuid.NewString(),
		UserID: req.UserID,
		Symbol: req.Symbol,
		Side:   req.Side,
		Kind:   req.Kind,
		Price:  req.Price,
		Qty:    req.Qty,
	}

	start := time.Now()
	accepted, trades, err := b.Submit(order)
	if f.metrics != nil {
		f.metrics.MatchDuration.WithLabelValues(req.Symbol).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return Result{}, err
	}

	return Result{OrderID: accepted.ID, Filled: len(trades) > 0, Trades: trades}, nil
}

// handleCommit runs inside the owning book's actor goroutine,
// immediately after order commits. It must not block: metrics
// increments are in-memory counters, and Publish is a non-blocking
// fan-out, so neither performs real I/O here.
func (f *Facade) handleCommit(symbol string, order model.Order, trades []model.Trade, snap model.Snapshot) {
	if f.metrics != nil {
		f.metrics.OrdersAccepted.WithLabelValues(symbol, order.Side.String(), order.Kind.String()).Inc()
		for _, t := range trades {
			f.metrics.TradesExecuted.WithLabelValues(symbol).Inc()
			f.metrics.TradeQuantity.WithLabelValues(symbol).Add(t.Qty)
		}
		f.metrics.BookDepth.WithLabelValues(symbol, "bid").Set(float64(len(snap.Bids)))
		f.metrics.BookDepth.WithLabelValues(symbol, "ask").Set(float64(len(snap.Asks)))
	}

	f.notifier.Publish(notify.Event{
		Type:     "order_event",
		Symbol:   symbol,
		Order:    order,
		Trades:   trades,
		Snapshot: snap,
	})
}

func validate(req Request) error {
	if req.Qty <= 0 {
		return &book.ValidationError{Reason: "qty must be positive"}
	}
	if req.Kind == model.Limit && req.Price <= 0 {
		return &book.ValidationError{Reason: "limit order requires a positive price"}
	}
	if req.Side != model.Buy && req.Side != model.Sell {
		return &book.ValidationError{Reason: "unrecognised side"}
	}
	if req.Kind != model.Limit && req.Kind != model.Market {
		return &book.ValidationError{Reason: "unrecognised kind"}
	}
	return nil
}

// IsValidationError reports whether err is a validation failure, for
// transport-layer status code mapping.
func IsValidationError(err error) bool {
	var ve *book.ValidationError
	return errors.As(err, &ve)
}

// IsUnknownSymbol reports whether err is an unknown-symbol failure.
func IsUnknownSymbol(err error) bool {
	return errors.Is(err, registry.ErrUnknownSymbol)
}
