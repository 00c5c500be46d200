// Package book implements the per-symbol order book: the priority
// queues for both sides, the process_order matching algorithm, the
// bounded trade history, and the single-actor concurrency discipline
// that serialises mutation per symbol.
package book

import (
	"time"

	"github.com/google/uuid"

	"github.com/realm-exchange/orderbook/internal/logging"
	"github.com/realm-exchange/orderbook/internal/model"
	"github.com/realm-exchange/orderbook/internal/queue"
)

// Config controls per-book parameters.
type Config struct {
	Symbol        string
	TradeHistory  int // ring buffer capacity
	SnapshotDepth int // default depth for Snapshot when 0 is requested
	RecentDefault int // default n for RecentTrades when 0 is requested
}

type requestKind int

const (
	reqSubmit requestKind = iota
	reqSnapshot
	reqRecentTrades
	reqStop
)

type submitResult struct {
	order  model.Order
	trades []model.Trade
	err    error
}

type request struct {
	kind   requestKind
	order  model.Order
	depth  int
	n      int
	respCh chan submitResult
	snapCh chan model.Snapshot
	tradCh chan []model.Trade
}

// OrderBook owns one symbol's bids, asks, and trade history. All
// mutation and consistent reads happen inside a single goroutine (run);
// that goroutine's serial request channel is the book's mutual
// exclusion primitive — no lock is ever taken on book state.
type OrderBook struct {
	cfg      Config
	bids     *queue.PriorityQueue
	asks     *queue.PriorityQueue
	trades   *tradeHistory
	seq      int64
	reqCh    chan request
	stopped  chan struct{}
	log      *logging.Logger
	now      func() time.Time
	onCommit func(model.Order, []model.Trade, model.Snapshot)
}

// New constructs a book for one symbol and starts its actor goroutine.
func New(cfg Config, log *logging.Logger) *OrderBook {
	if cfg.TradeHistory <= 0 {
		cfg.TradeHistory = 1000
	}
	if cfg.SnapshotDepth <= 0 {
		cfg.SnapshotDepth = 10
	}
	if cfg.RecentDefault <= 0 {
		cfg.RecentDefault = 200
	}
	ob := &OrderBook{
		cfg:     cfg,
		bids:    queue.New(true),
		asks:    queue.New(false),
		trades:  newTradeHistory(cfg.TradeHistory),
		reqCh:   make(chan request),
		stopped: make(chan struct{}),
		log:     log,
		now:     time.Now,
	}
	go ob.run()
	return ob
}

// Symbol returns the symbol this book was created for.
func (ob *OrderBook) Symbol() string { return ob.cfg.Symbol }

// OnCommit registers fn to be called synchronously, from the book's own
// actor goroutine, immediately after each order is accepted — before
// Submit returns to its caller. fn receives the accepted order, any
// trades it produced, and a snapshot taken in the same instant, so
// callers driving several PlaceOrder calls concurrently for the same
// symbol still observe fn invoked in exact commit order with no
// intervening state. fn must not block or perform I/O; it runs under
// the same discipline as the rest of run(). Must be called once, before
// the first Submit.
func (ob *OrderBook) OnCommit(fn func(model.Order, []model.Trade, model.Snapshot)) {
	ob.onCommit = fn
}

// Stop terminates the actor goroutine. Safe to call once.
func (ob *OrderBook) Stop() {
	select {
	case ob.reqCh <- request{kind: reqStop}:
	case <-ob.stopped:
	}
	<-ob.stopped
}

// Submit validates and matches a candidate order. The Order passed in
// must already have Qty/Kind/Price/Side/Symbol/UserID set by the caller
// (the intake facade); Submit sets Remaining to Qty, assigns ArrivalSeq
// and Ts, and assigns an ID when the order has none. It returns the
// accepted order (with final Remaining) and any trades produced.
func (ob *OrderBook) Submit(o model.Order) (model.Order, []model.Trade, error) {
	resp := make(chan submitResult, 1)
	select {
	case ob.reqCh <- request{kind: reqSubmit, order: o, respCh: resp}:
	case <-ob.stopped:
		return model.Order{}, nil, ErrClosed
	}
	res := <-resp
	return res.order, res.trades, res.err
}

// Snapshot returns an aggregated, depth-bounded view of both sides. A
// depth of 0 uses the book's configured default.
func (ob *OrderBook) Snapshot(depth int) (model.Snapshot, error) {
	snapCh := make(chan model.Snapshot, 1)
	select {
	case ob.reqCh <- request{kind: reqSnapshot, depth: depth, snapCh: snapCh}:
	case <-ob.stopped:
		return model.Snapshot{}, ErrClosed
	}
	return <-snapCh, nil
}

// RecentTrades returns the last n trades, most-recent-last. n of 0 uses
// the book's configured default.
func (ob *OrderBook) RecentTrades(n int) ([]model.Trade, error) {
	tradCh := make(chan []model.Trade, 1)
	select {
	case ob.reqCh <- request{kind: reqRecentTrades, n: n, tradCh: tradCh}:
	case <-ob.stopped:
		return nil, ErrClosed
	}
	return <-tradCh, nil
}

func (ob *OrderBook) run() {
	defer close(ob.stopped)
	for req := range ob.reqCh {
		switch req.kind {
		case reqSubmit:
			order, trades, err := ob.processSubmit(req.order)
			if err == nil && ob.onCommit != nil {
				ob.onCommit(order, trades, ob.snapshotLocked(ob.cfg.SnapshotDepth))
			}
			req.respCh <- submitResult{order: order, trades: trades, err: err}
		case reqSnapshot:
			depth := req.depth
			if depth <= 0 {
				depth = ob.cfg.SnapshotDepth
			}
			req.snapCh <- ob.snapshotLocked(depth)
		case reqRecentTrades:
			n := req.n
			if n <= 0 {
				n = ob.cfg.RecentDefault
			}
			req.tradCh <- ob.trades.recent(n)
		case reqStop:
			return
		}
	}
}

func (ob *OrderBook) processSubmit(o model.Order) (model.Order, []model.Trade, error) {
	if o.Qty <= 0 {
		return model.Order{}, nil, validationErrorf("qty must be positive, got %v", o.Qty)
	}
	if o.Kind == model.Limit && o.Price <= 0 {
		return model.Order{}, nil, validationErrorf("limit order requires a positive price, got %v", o.Price)
	}

	ob.seq++
	o.ArrivalSeq = ob.seq
	o.Ts = ob.now()
	o.Remaining = o.Qty
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	trades := ob.processOrder(&o)
	ob.log.Info("order accepted",
		logging.F("symbol", o.Symbol),
		logging.F("order_id", o.ID),
		logging.F("side", o.Side.String()),
		logging.F("kind", o.Kind.String()),
		logging.F("trades", len(trades)),
	)
	return o, trades, nil
}

// processOrder matches order greedily against the opposite side at
// each maker's price, then rests any unfilled limit residual on its
// own side. Market orders never rest.
func (ob *OrderBook) processOrder(order *model.Order) []model.Trade {
	var opp, resting *queue.PriorityQueue
	if order.Side == model.Buy {
		opp, resting = ob.asks, ob.bids
	} else {
		opp, resting = ob.bids, ob.asks
	}

	var trades []model.Trade
	for order.Remaining > 0 {
		top := opp.Peek()
		if top == nil {
			break
		}
		if top.Remaining <= 0 {
			opp.Pop()
			continue
		}
		if !priceCrosses(order, top) {
			break
		}

		q := min(order.Remaining, top.Remaining)
		p := top.Price // maker price

		order.Remaining -= q
		top.Remaining -= q

		buyID, sellID := order.ID, top.ID
		if order.Side == model.Sell {
			buyID, sellID = top.ID, order.ID
		}
		t := model.Trade{
			ID:          uuid.NewString(),
			Symbol:      order.Symbol,
			BuyOrderID:  buyID,
			SellOrderID: sellID,
			Price:       p,
			Qty:         q,
			Ts:          ob.now(),
		}
		ob.trades.append(t)
		trades = append(trades, t)

		if top.Remaining <= 0 {
			opp.Pop()
		}
	}

	if order.Remaining > 0 && order.Kind == model.Limit {
		resting.Push(&model.Order{
			ID:         order.ID,
			UserID:     order.UserID,
			Symbol:     order.Symbol,
			Side:       order.Side,
			Kind:       order.Kind,
			Price:      order.Price,
			Qty:        order.Qty,
			Remaining:  order.Remaining,
			ArrivalSeq: order.ArrivalSeq,
			Ts:         order.Ts,
		})
	}

	return trades
}

// priceCrosses reports whether taker is willing to trade against maker's
// resting price: market orders always cross, limit orders cross only
// when their price is no worse than maker's.
func priceCrosses(taker, maker *model.Order) bool {
	if taker.Kind == model.Market {
		return true
	}
	if taker.Side == model.Buy {
		return taker.Price >= maker.Price
	}
	return taker.Price <= maker.Price
}

func (ob *OrderBook) snapshotLocked(depth int) model.Snapshot {
	return model.Snapshot{
		Bids: ob.bids.Levels(depth),
		Asks: ob.asks.Levels(depth),
	}
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
