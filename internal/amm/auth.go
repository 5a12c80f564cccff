// internal/amm/auth.go
package amm

import (
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

// Role is the identity an operation requires from its caller.
type Role int

const (
	RoleNone Role = iota
	RoleAdmin
	RoleCreator
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleCreator:
		return "creator"
	default:
		return "none"
	}
}

// authorize is the single authorization check; it runs before any mutation.
func authorize(role Role, cfg *types.CurveConfiguration, pool *types.LiquidityPool, caller solana.PublicKey) error {
	switch role {
	case RoleAdmin:
		if cfg == nil || caller.IsZero() || !cfg.Admin.Equals(caller) {
			return curve.ErrInvalidAuthority
		}
	case RoleCreator:
		if pool == nil || caller.IsZero() || !pool.Creator.Equals(caller) {
			return curve.ErrNotCreator
		}
	}
	return nil
}
