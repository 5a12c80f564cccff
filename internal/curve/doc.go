// Package curve implements the bonding-curve pricing engine.
//
// The cumulative cost of selling n normalized token units is n²/proportion,
// where a normalized unit is raw tokens / (1e6 * 1e9). All formulas are pure
// functions over a State and reproduce IEEE-754 double arithmetic of the
// deployed program bit for bit; every result is rounded half away from zero
// before it is used to move assets.
//
// Key functions:
//
//   - BuyAmount, SellAmount, MarketCap: read-only quotes.
//   - CostBetween: the inverse curve used by the sell-limit clamp.
//   - PlanBuy, PlanSell: fee composition, clamp and refund around the quotes.
//   - State.ApplyBuy, State.ApplySell: reserve evolution after a commit.
//
// Usage example:
//
//	s := curve.State{TotalSupply: 1e18, ReserveToken: 1e18, ReserveExchange: 1e9}
//	plan, err := curve.PlanBuy(s, curve.DefaultProportion, 100, 1_000_000_000)
//	if err != nil {
//	    return err
//	}
//	next, err := s.ApplyBuy(plan)
package curve
