// internal/amm/address.go
package amm

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/bonding-curve/internal/curve"
)

// Сиды адресов совпадают с программой
const (
	ConfigSeed = "CurveConfiguration"
	PoolSeed   = "liquidity_pool"
	MintSeed   = "mint"
)

// ConfigAddress derives the configuration account address.
func ConfigAddress(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress([][]byte{[]byte(ConfigSeed)}, programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive config address: %w", err)
	}
	return addr, bump, nil
}

// PoolAddress derives the pool address for a token / exchange-token pair.
func PoolAddress(programID, token, exchangeToken solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(PoolSeed), token.Bytes(), exchangeToken.Bytes()},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive pool address: %w", err)
	}
	return addr, bump, nil
}

// MintAddress derives the address of a token created by creator under offChainID.
func MintAddress(programID, creator solana.PublicKey, offChainID string) (solana.PublicKey, uint8, error) {
	if len(offChainID) == 0 || len(offChainID) > solana.MaxSeedLength {
		return solana.PublicKey{}, 0, fmt.Errorf("off-chain id must be 1..%d bytes: %w", solana.MaxSeedLength, curve.ErrInvalidInput)
	}
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(MintSeed), creator.Bytes(), []byte(offChainID)},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive mint address: %w", err)
	}
	return addr, bump, nil
}
