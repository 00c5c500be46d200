// Command exchanged runs the multi-symbol order book service: it loads
// configuration, builds the registry of ten symbols, seeds each book
// with initial liquidity, and serves the HTTP/WebSocket transport.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"

	"github.com/realm-exchange/orderbook/internal/book"
	"github.com/realm-exchange/orderbook/internal/config"
	"github.com/realm-exchange/orderbook/internal/intake"
	"github.com/realm-exchange/orderbook/internal/logging"
	"github.com/realm-exchange/orderbook/internal/metrics"
	"github.com/realm-exchange/orderbook/internal/notify"
	"github.com/realm-exchange/orderbook/internal/registry"
	"github.com/realm-exchange/orderbook/internal/seed"
	"github.com/realm-exchange/orderbook/internal/transport"
)

// symbolCount matches original_source/server.py's SYM1..SYM10 universe.
const symbolCount = 10

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.New(cfg.Development)
	defer logger.Sync()

	symbols := make([]string, symbolCount)
	for i := 0; i < symbolCount; i++ {
		symbols[i] = fmt.Sprintf("SYM%d", i+1)
	}

	reg := registry.New(symbols, book.Config{
		TradeHistory:  cfg.TradeHistorySize,
		SnapshotDepth: cfg.SnapshotDepth,
		RecentDefault: cfg.RecentTradesDefault,
	}, logger)
	defer reg.StopAll()

	m := metrics.New()
	notifier := notify.New()
	facade := intake.New(reg, notifier, m, logger)

	seed.Run(facade, symbols, logger, rand.New(rand.NewSource(1)))

	srv := transport.New(reg, facade, notifier, m, logger, transport.Config{
		AuthToken:  cfg.AuthToken,
		CORSOrigin: cfg.CORSOrigin,
	})

	logger.Info("listening", logging.F("addr", cfg.Addr), logging.F("symbols", len(symbols)))
	if err := http.ListenAndServe(cfg.Addr, srv.Routes()); err != nil {
		logger.Error(err)
		log.Fatal(err)
	}
}
