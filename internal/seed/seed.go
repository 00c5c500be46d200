// Package seed provides the startup liquidity seeder: for each symbol,
// a handful of resting limit orders so the book has visible depth
// before any real traffic arrives.
package seed

import (
	"math/rand"

	"github.com/realm-exchange/orderbook/internal/intake"
	"github.com/realm-exchange/orderbook/internal/logging"
	"github.com/realm-exchange/orderbook/internal/model"
)

const (
	ordersPerSide = 5
	bidBase       = 100.0
	askBase       = 115.0
	priceJitter   = 5.0
)

// Run submits ordersPerSide buy and sell limit orders for each symbol
// through facade, exactly as any other caller would — seeded orders are
// ordinary limit orders subject to matching on arrival.
func Run(facade *intake.Facade, symbols []string, log *logging.Logger, rng *rand.Rand) {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	for _, sym := range symbols {
		for i := 0; i < ordersPerSide; i++ {
			price := bidBase + rng.Float64()*priceJitter + float64(i)
			qty := 10 + float64(i)
			submit(facade, log, sym, model.Buy, price, qty)
		}
		for i := 0; i < ordersPerSide; i++ {
			price := askBase + rng.Float64()*priceJitter + float64(i)
			qty := 8 + float64(i)
			submit(facade, log, sym, model.Sell, price, qty)
		}
	}
}

func submit(facade *intake.Facade, log *logging.Logger, symbol string, side model.Side, price, qty float64) {
	_, err := facade.PlaceOrder(intake.Request{
		UserID: "seed",
		Symbol: symbol,
		Side:   side,
		Kind:   model.Limit,
		Price:  price,
		Qty:    qty,
	})
	if err != nil {
		log.Warn("seed order rejected", logging.F("symbol", symbol), logging.F("err", err.Error()))
	}
}
