// Package amm implements the bonding-curve operations on top of the pure
// pricing functions in package curve.
//
// An Engine owns no state of its own. Configuration and pools live in a
// storage.Store, balances live in a ledger.Ledger, and every committed change
// is announced on an events.Publisher.
//
// Supported operations:
//   - Initialize, UpdateConfiguration: the configuration singleton
//   - CreatePool, AddLiquidity, RemoveLiquidity: pool lifecycle
//   - Buy, Sell: trading against the curve
//   - CalculateBuyAmount, CalculateSellAmount, CalculateMarketCap,
//     PreviewBuy, PreviewSell: read-only quotes
//   - CreateToken: issuing a new mint with a creation fee
//
// Operations on the same pool are serialized. Configuration changes wait for
// in-flight operations and block new ones until they are saved.
package amm
