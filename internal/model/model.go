// Package model defines the value objects shared across the matching core:
// orders, trades, and the small enums that describe them.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Side is the direction of an order.
type Side int

const (
	// Buy indicates a bid.
	Buy Side = iota
	// Sell indicates an ask.
	Sell
)

// String renders the side the way the wire protocol spells it.
func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// MarshalJSON renders Side as its wire string ("buy"/"sell") rather
// than the underlying int.
func (s Side) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses Side from its wire string form.
func (s *Side) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch strings.ToLower(v) {
	case "buy":
		*s = Buy
	case "sell":
		*s = Sell
	default:
		return fmt.Errorf("model: unrecognised side %q", v)
	}
	return nil
}

// Kind distinguishes limit orders, which may rest on the book, from
// market orders, which never do.
type Kind int

const (
	// Limit orders carry a price and may rest if not immediately filled.
	Limit Kind = iota
	// Market orders match at any price and are discarded if unfilled.
	Market
)

// String renders the kind the way the wire protocol spells it.
func (k Kind) String() string {
	if k == Limit {
		return "limit"
	}
	return "market"
}

// MarshalJSON renders Kind as its wire string ("limit"/"market") rather
// than the underlying int.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON parses Kind from its wire string form.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch strings.ToLower(v) {
	case "limit":
		*k = Limit
	case "market":
		*k = Market
	default:
		return fmt.Errorf("model: unrecognised kind %q", v)
	}
	return nil
}

// Order is a request to trade a symbol. Remaining is the only field that
// mutates after creation; it decreases monotonically as the order is
// matched and never exceeds Qty.
type Order struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Symbol     string    `json:"symbol"`
	Side       Side      `json:"side"`
	Kind       Kind      `json:"kind"`
	Price      float64   `json:"price"` // ignored for Market orders
	Qty        float64   `json:"qty"`
	Remaining  float64   `json:"remaining"`
	ArrivalSeq int64     `json:"arrival_seq"`
	Ts         time.Time `json:"timestamp"`
}

// Live reports whether the order still has quantity to fill.
func (o *Order) Live() bool {
	return o.Remaining > 0
}

// Trade is an immutable record of a single match between two orders.
type Trade struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	BuyOrderID  string    `json:"buy_order_id"`
	SellOrderID string    `json:"sell_order_id"`
	Price       float64   `json:"price"`
	Qty         float64   `json:"qty"`
	Ts          time.Time `json:"timestamp"`
}

// PriceLevel is one aggregated row of a book snapshot.
type PriceLevel struct {
	Price float64 `json:"price"`
	Qty   float64 `json:"qty"`
}

// Snapshot is a point-in-time, depth-bounded view of both sides of a
// book. Bids are sorted descending by price, asks ascending.
type Snapshot struct {
	Bids []PriceLevel `json:"bids"`
	Asks []PriceLevel `json:"asks"`
}
