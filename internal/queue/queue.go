// Package queue implements the per-side price-time priority queue that
// backs an order book: a container/heap over (price, arrival sequence,
// order) with the ordering direction fixed at construction.
package queue

import (
	"container/heap"

	"github.com/realm-exchange/orderbook/internal/model"
)

// PriorityQueue orders resting orders by price-time priority. Bids are
// constructed to prefer higher prices, asks lower prices; ties always
// break on ascending ArrivalSeq.
type PriorityQueue struct {
	h priceTimeHeap
}

// New builds an empty queue. isBid selects the price direction: true
// orders descending by price (best bid highest), false ascending (best
// ask lowest).
func New(isBid bool) *PriorityQueue {
	q := &PriorityQueue{h: priceTimeHeap{isBid: isBid}}
	heap.Init(&q.h)
	return q
}

// Len reports the number of entries, live or exhausted, in the queue.
func (q *PriorityQueue) Len() int { return q.h.Len() }

// Push inserts an order. O(log n).
func (q *PriorityQueue) Push(o *model.Order) {
	heap.Push(&q.h, o)
}

// Peek returns the top of the queue without removing it, or nil if empty.
// O(1).
func (q *PriorityQueue) Peek() *model.Order {
	if len(q.h.orders) == 0 {
		return nil
	}
	return q.h.orders[0]
}

// Pop removes and returns the top of the queue, or nil if empty.
// O(log n).
func (q *PriorityQueue) Pop() *model.Order {
	if len(q.h.orders) == 0 {
		return nil
	}
	return heap.Pop(&q.h).(*model.Order)
}

// Levels aggregates live orders (Remaining > 0) into price levels in
// priority order, stopping once maxDepth distinct price levels have been
// produced. It does not mutate the queue.
func (q *PriorityQueue) Levels(maxDepth int) []model.PriceLevel {
	if maxDepth <= 0 {
		return nil
	}
	// Copy the underlying slice so heap.Pop-based draining below doesn't
	// disturb the live queue.
	scratch := make([]*model.Order, len(q.h.orders))
	copy(scratch, q.h.orders)
	work := priceTimeHeap{orders: scratch, isBid: q.h.isBid}
	heap.Init(&work)

	levels := make([]model.PriceLevel, 0, maxDepth)
	for work.Len() > 0 && len(levels) < maxDepth {
		o := heap.Pop(&work).(*model.Order)
		if o.Remaining <= 0 {
			continue
		}
		price := o.Price
		total := o.Remaining
		for work.Len() > 0 && work.orders[0].Price == price {
			next := heap.Pop(&work).(*model.Order)
			if next.Remaining > 0 {
				total += next.Remaining
			}
		}
		if total > 0 {
			levels = append(levels, model.PriceLevel{Price: price, Qty: total})
		}
	}
	return levels
}

// priceTimeHeap is the container/heap.Interface implementation backing
// PriorityQueue. It intentionally holds no per-entry wrapper struct: an
// *model.Order already carries its own ArrivalSeq, so no external index
// bookkeeping is needed since this queue never supports remove-by-id
// (spec: lazy skipping of exhausted top-of-queue entries is sufficient).
type priceTimeHeap struct {
	orders []*model.Order
	isBid  bool
}

func (h priceTimeHeap) Len() int { return len(h.orders) }

func (h priceTimeHeap) Less(i, j int) bool {
	a, b := h.orders[i], h.orders[j]
	if a.Price != b.Price {
		if h.isBid {
			return a.Price > b.Price
		}
		return a.Price < b.Price
	}
	return a.ArrivalSeq < b.ArrivalSeq
}

func (h priceTimeHeap) Swap(i, j int) { h.orders[i], h.orders[j] = h.orders[j], h.orders[i] }

func (h *priceTimeHeap) Push(x any) {
	h.orders = append(h.orders, x.(*model.Order))
}

func (h *priceTimeHeap) Pop() any {
	old := h.orders
	n := len(old)
	o := old[n-1]
	old[n-1] = nil
	h.orders = old[:n-1]
	return o
}
