// internal/api/handlers.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
	"github.com/rovshanmuradov/bonding-curve/internal/storage"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

func (s *Server) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Millisecond).String(),
	})
}

func (s *Server) getConfigHandler(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.engine.Config(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) initializeHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	var params types.ConfigParams
	if !s.decode(w, r, &params) {
		return
	}

	cfg, err := s.engine.Initialize(r.Context(), caller, params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cfg)
}

func (s *Server) updateConfigHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	var params types.ConfigParams
	if !s.decode(w, r, &params) {
		return
	}

	cfg, err := s.engine.UpdateConfiguration(r.Context(), caller, params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) listPoolsHandler(w http.ResponseWriter, r *http.Request) {
	pools, err := s.engine.Pools(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if pools == nil {
		pools = []*types.LiquidityPool{}
	}
	writeJSON(w, http.StatusOK, pools)
}

func (s *Server) createPoolHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req CreatePoolRequest
	if !s.decode(w, r, &req) {
		return
	}
	token, err := solana.PublicKeyFromBase58(req.Token)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("token: %w", curve.ErrInvalidInput))
		return
	}

	pool, err := s.engine.CreatePool(r.Context(), caller, token)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pool)
}

func (s *Server) getPoolHandler(w http.ResponseWriter, r *http.Request) {
	addr, ok := s.poolParam(w, r)
	if !ok {
		return
	}
	pool, err := s.engine.Pool(r.Context(), addr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

func (s *Server) addLiquidityHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	addr, ok := s.poolParam(w, r)
	if !ok {
		return
	}

	pool, err := s.engine.AddLiquidity(r.Context(), caller, addr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

func (s *Server) removeLiquidityHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	addr, ok := s.poolParam(w, r)
	if !ok {
		return
	}

	pool, err := s.engine.RemoveLiquidity(r.Context(), caller, addr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

func (s *Server) buyHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	addr, ok := s.poolParam(w, r)
	if !ok {
		return
	}
	var req TradeRequest
	if !s.decode(w, r, &req) {
		return
	}

	minOut := req.MinOutputAmount
	if req.Slippage != nil && minOut == 0 {
		plan, err := s.engine.PreviewBuy(r.Context(), addr, req.Amount)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		minOut = types.MinOutputAmount(plan.AmountOut, *req.Slippage)
	}

	res, err := s.engine.Buy(r.Context(), caller, addr, req.Amount, minOut)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) sellHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	addr, ok := s.poolParam(w, r)
	if !ok {
		return
	}
	var req TradeRequest
	if !s.decode(w, r, &req) {
		return
	}

	minOut := req.MinOutputAmount
	if req.Slippage != nil && minOut == 0 {
		plan, err := s.engine.PreviewSell(r.Context(), addr, req.Amount)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		minOut = types.MinOutputAmount(plan.Payout, *req.Slippage)
	}

	res, err := s.engine.Sell(r.Context(), caller, addr, req.Amount, minOut)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) quoteBuyHandler(w http.ResponseWriter, r *http.Request) {
	addr, ok := s.poolParam(w, r)
	if !ok {
		return
	}
	amount, ok := s.amountParam(w, r)
	if !ok {
		return
	}

	out, err := s.engine.CalculateBuyAmount(r.Context(), addr, amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := BuyQuoteResponse{AmountIn: amount, AmountOut: out}
	if plan, err := s.engine.PreviewBuy(r.Context(), addr, amount); err == nil {
		resp.Preview = &plan
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) quoteSellHandler(w http.ResponseWriter, r *http.Request) {
	addr, ok := s.poolParam(w, r)
	if !ok {
		return
	}
	amount, ok := s.amountParam(w, r)
	if !ok {
		return
	}

	out, err := s.engine.CalculateSellAmount(r.Context(), addr, amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := SellQuoteResponse{AmountIn: amount, AmountOut: out}
	if plan, err := s.engine.PreviewSell(r.Context(), addr, amount); err == nil {
		resp.Preview = &plan
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) marketCapHandler(w http.ResponseWriter, r *http.Request) {
	addr, ok := s.poolParam(w, r)
	if !ok {
		return
	}
	mc, err := s.engine.CalculateMarketCap(r.Context(), addr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MarketCapResponse{Pool: addr.String(), MarketCap: mc})
}

func (s *Server) tradesHandler(w http.ResponseWriter, r *http.Request) {
	addr, ok := s.poolParam(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	limit, err1 := intParam(q.Get("limit"))
	offset, err2 := intParam(q.Get("offset"))
	if err1 != nil || err2 != nil {
		s.writeError(w, r, fmt.Errorf("limit/offset: %w", curve.ErrInvalidInput))
		return
	}
	limit, offset = storage.NormalizePage(limit, offset)

	trades, err := s.engine.Trades(r.Context(), addr, limit, offset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if trades == nil {
		trades = []*types.TradeRecord{}
	}
	writeJSON(w, http.StatusOK, TradesResponse{Pool: addr.String(), Limit: limit, Offset: offset, Trades: trades})
}

func (s *Server) createTokenHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	var req CreateTokenRequest
	if !s.decode(w, r, &req) {
		return
	}

	info, err := s.engine.CreateToken(r.Context(), caller, req.Name, req.Symbol, req.OffChainID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// caller пишет ответ сам, если заголовок отсутствует или некорректен
func (s *Server) caller(w http.ResponseWriter, r *http.Request) (solana.PublicKey, bool) {
	raw := r.Header.Get(CallerHeader)
	if raw == "" {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: errMissingCaller.Error()})
		return solana.PublicKey{}, false
	}
	key, err := solana.PublicKeyFromBase58(raw)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: errInvalidCaller.Error()})
		return solana.PublicKey{}, false
	}
	return key, true
}

func (s *Server) poolParam(w http.ResponseWriter, r *http.Request) (solana.PublicKey, bool) {
	key, err := solana.PublicKeyFromBase58(chi.URLParam(r, "pool"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("pool address: %w", curve.ErrInvalidInput))
		return solana.PublicKey{}, false
	}
	return key, true
}

func (s *Server) amountParam(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	amount, err := strconv.ParseUint(r.URL.Query().Get("amount"), 10, 64)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("amount: %w", curve.ErrInvalidAmount))
		return 0, false
	}
	return amount, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
