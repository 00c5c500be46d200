// Package transport exposes the exchange's operations over HTTP and
// WebSocket: symbol listing, order submission, book snapshots, recent
// trades, and a live event stream.
package transport

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/realm-exchange/orderbook/internal/intake"
	"github.com/realm-exchange/orderbook/internal/logging"
	"github.com/realm-exchange/orderbook/internal/metrics"
	"github.com/realm-exchange/orderbook/internal/model"
	"github.com/realm-exchange/orderbook/internal/notify"
	"github.com/realm-exchange/orderbook/internal/registry"
)

// Server wires the registry, intake facade, notifier and metrics into
// an http.Handler.
type Server struct {
	registry   *registry.Registry
	facade     *intake.Facade
	notifier   *notify.Notifier
	metrics    *metrics.Metrics
	log        *logging.Logger
	upgrader   websocket.Upgrader
	authToken  string
	corsOrigin string
}

// Config controls transport-level knobs not owned by the matching core.
type Config struct {
	AuthToken  string
	CORSOrigin string
}

// New builds a Server.
func New(reg *registry.Registry, facade *intake.Facade, notifier *notify.Notifier, m *metrics.Metrics, log *logging.Logger, cfg Config) *Server {
	return &Server{
		registry:   reg,
		facade:     facade,
		notifier:   notifier,
		metrics:    m,
		log:        log,
		upgrader:   websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		authToken:  cfg.AuthToken,
		corsOrigin: cfg.CORSOrigin,
	}
}

// Routes returns the composed http.Handler for the whole service.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/symbols", s.withCORS(s.withAuth(http.HandlerFunc(s.handleSymbols))))
	mux.Handle("/orderbook/", s.withCORS(s.withAuth(http.HandlerFunc(s.handleOrderbook))))
	mux.Handle("/trades/", s.withCORS(s.withAuth(http.HandlerFunc(s.handleTrades))))
	mux.Handle("/order", s.withCORS(s.withAuth(http.HandlerFunc(s.handleOrder))))
	mux.Handle("/ws", s.withCORS(s.withAuth(http.HandlerFunc(s.handleWS))))
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token != s.authToken {
			writeError(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.registry.ListSymbols())
}

func (s *Server) handleOrderbook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	symbol := strings.TrimPrefix(r.URL.Path, "/orderbook/")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	b, err := s.registry.Get(symbol)
	if err != nil {
		writeError(w, http.StatusNotFound, "symbol not found")
		return
	}
	depth := parseIntQuery(r, "depth", 0)
	snap, err := b.Snapshot(depth)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	symbol := strings.TrimPrefix(r.URL.Path, "/trades/")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	b, err := s.registry.Get(symbol)
	if err != nil {
		writeError(w, http.StatusNotFound, "symbol not found")
		return
	}
	n := parseIntQuery(r, "n", 0)
	trades, err := b.RecentTrades(n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, trades)
}

type orderRequest struct {
	UserID string  `json:"user_id"`
	Symbol string  `json:"symbol"`
	Side   string  `json:"side"`
	Kind   string  `json:"kind"`
	Price  float64 `json:"price"`
	Qty    float64 `json:"qty"`
}

type orderResponse struct {
	OrderID string        `json:"order_id"`
	Filled  bool          `json:"filled"`
	Trades  []model.Trade `json:"trades"`
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	side, err := parseSide(req.Side)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	kind, err := parseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.facade.PlaceOrder(intake.Request{
		UserID: req.UserID,
		Symbol: req.Symbol,
		Side:   side,
		Kind:   kind,
		Price:  req.Price,
		Qty:    req.Qty,
	})
	if err != nil {
		switch {
		case intake.IsUnknownSymbol(err):
			writeError(w, http.StatusNotFound, "symbol not found")
		case intake.IsValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.log.Error(err, logging.F("symbol", req.Symbol))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, orderResponse{OrderID: result.OrderID, Filled: result.Filled, Trades: result.Trades})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := s.notifier.Subscribe(32)
	defer s.notifier.Unsubscribe(sub)

	for event := range sub.Events() {
		if err := conn.WriteJSON(event); err != nil {
			return
		}
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"symbols": len(s.registry.ListSymbols()),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func parseSide(v string) (model.Side, error) {
	switch strings.ToLower(v) {
	case "buy", "bid", "b":
		return model.Buy, nil
	case "sell", "ask", "s":
		return model.Sell, nil
	default:
		return 0, errUnrecognised("side", v)
	}
}

func parseKind(v string) (model.Kind, error) {
	switch strings.ToLower(v) {
	case "", "limit", "lmt":
		return model.Limit, nil
	case "market", "mkt":
		return model.Market, nil
	default:
		return 0, errUnrecognised("kind", v)
	}
}

func errUnrecognised(field, value string) error {
	return &unrecognisedFieldError{field: field, value: value}
}

type unrecognisedFieldError struct {
	field string
	value string
}

func (e *unrecognisedFieldError) Error() string {
	return "unrecognised " + e.field + ": " + e.value
}

func parseIntQuery(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
