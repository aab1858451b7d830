package rpc

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"flipnet/core"
	"flipnet/observability"
	"flipnet/observability/logging"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
	rateLimitWindow = time.Minute
	// maxMutationsPerWindow bounds state-changing calls per source address.
	maxMutationsPerWindow = 30
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
	codeRateLimited    = -32020
)

type rateLimiter struct {
	count       int
	windowStart time.Time
}

// Server exposes the node over a JSON-RPC 2.0 endpoint plus a websocket event
// stream.
type Server struct {
	node *core.Node
	log  *slog.Logger

	mu           sync.Mutex
	rateLimiters map[string]*rateLimiter
	authToken    string
}

// NewServer creates an RPC server for the node. An empty auth token rejects
// every mutating call; operators must configure one.
func NewServer(node *core.Node, authToken string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		node:         node,
		log:          log,
		rateLimiters: make(map[string]*rateLimiter),
		authToken:    strings.TrimSpace(authToken),
	}
}

// Router mounts the RPC endpoint and the websocket event stream.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/", s.handle)
	r.Get("/ws/events", s.handleEventsWS)
	return r
}

// Start serves the router on addr until the listener fails.
func (s *Server) Start(addr string) error {
	s.log.Info("starting JSON-RPC server", "addr", addr)
	return http.ListenAndServe(addr, s.Router())
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: &RPCError{Code: code, Message: message}}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

// handlerEntry binds a method name to its handler and access class.
type handlerEntry struct {
	fn       func(w http.ResponseWriter, req *RPCRequest)
	mutating bool
}

func (s *Server) handlers() map[string]handlerEntry {
	return map[string]handlerEntry{
		"stake_stake":          {s.handleStakeStake, true},
		"stake_requestUnstake": {s.handleStakeRequestUnstake, true},
		"stake_withdraw":       {s.handleStakeWithdraw, true},
		"stake_claimRewards":   {s.handleStakeClaimRewards, true},
		"stake_pendingRewards": {s.handleStakePendingRewards, false},
		"stake_sharesOf":       {s.handleStakeSharesOf, false},
		"stake_totalShares":    {s.handleStakeTotalShares, false},
		"stake_queue":          {s.handleStakeQueue, false},

		"wager_quote":            {s.handleWagerQuote, false},
		"wager_place":            {s.handleWagerPlace, true},
		"wager_cancel":           {s.handleWagerCancel, true},
		"wager_claim":            {s.handleWagerClaim, true},
		"wager_get":              {s.handleWagerGet, false},
		"wager_epoch":            {s.handleWagerEpoch, false},
		"wager_reservation":      {s.handleWagerReservation, false},
		"wager_fallbackBalance":  {s.handleWagerFallbackBalance, false},
		"wager_params":           {s.handleWagerParams, false},
		"wager_setSelfExclusion": {s.handleWagerSetSelfExclusion, true},
		"wager_updateParams":     {s.handleWagerUpdateParams, true},

		"token_balance":       {s.handleTokenBalance, false},
		"token_supply":        {s.handleTokenSupply, false},
		"token_allowance":     {s.handleTokenAllowance, false},
		"token_transfer":      {s.handleTokenTransfer, true},
		"token_approve":       {s.handleTokenApprove, true},
		"token_permit":        {s.handleTokenPermit, true},
		"token_setDenylisted": {s.handleTokenSetDenylisted, true},

		"oracle_pending": {s.handleOraclePending, false},
		"oracle_fulfill": {s.handleOracleFulfill, true},

		"events_recent": {s.handleEventsRecent, false},
	}
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "unable to read request body")
		return
	}
	var req RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload")
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported JSON-RPC version")
		return
	}
	entry, ok := s.handlers()[req.Method]
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, "method not found")
		return
	}
	if entry.mutating {
		if rpcErr := s.requireAuth(r); rpcErr != nil {
			s.log.Warn("rejected RPC call",
				"method", req.Method,
				"reason", rpcErr.Message,
				logging.MaskField("authorization", r.Header.Get("Authorization")))
			writeError(w, http.StatusUnauthorized, req.ID, rpcErr.Code, rpcErr.Message)
			return
		}
		if !s.allowSource(clientSource(r), time.Now()) {
			writeError(w, http.StatusTooManyRequests, req.ID, codeRateLimited, "rate limit exceeded")
			return
		}
	}
	started := time.Now()
	entry.fn(w, &req)
	observability.RPCMetrics().Record(req.Method, "handled", time.Since(started))
}

func (s *Server) requireAuth(r *http.Request) *RPCError {
	if s.authToken == "" {
		return &RPCError{Code: codeUnauthorized, Message: "RPC authentication token not configured"}
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing Authorization header"}
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return &RPCError{Code: codeUnauthorized, Message: "Authorization header must use Bearer scheme"}
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing bearer token"}
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
		return &RPCError{Code: codeUnauthorized, Message: "invalid RPC credentials"}
	}
	return nil
}

func (s *Server) allowSource(source string, now time.Time) bool {
	if source == "" {
		source = "unknown"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	limiter, ok := s.rateLimiters[source]
	if !ok {
		limiter = &rateLimiter{windowStart: now}
		s.rateLimiters[source] = limiter
	}
	if now.Sub(limiter.windowStart) >= rateLimitWindow {
		limiter.windowStart = now
		limiter.count = 0
	}
	if limiter.count >= maxMutationsPerWindow {
		return false
	}
	limiter.count++
	return true
}

func clientSource(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			candidate := strings.TrimSpace(parts[0])
			if candidate != "" {
				return candidate
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
