// internal/ledger/ledger.go
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrUnknownMint is returned for a mint the ledger has never seen.
	ErrUnknownMint = errors.New("unknown mint")
	// ErrMintExists is returned when a mint is created twice.
	ErrMintExists = errors.New("mint already exists")
)

// NativeDecimals is the precision of the native asset (lamports).
const NativeDecimals = 9

// Transfer moves Amount of Mint from one owner to another.
type Transfer struct {
	Mint   solana.PublicKey `json:"mint"`
	From   solana.PublicKey `json:"from"`
	To     solana.PublicKey `json:"to"`
	Amount uint64           `json:"amount"`
}

func (t Transfer) String() string {
	return fmt.Sprintf("%d of %s: %s -> %s", t.Amount, t.Mint, t.From, t.To)
}

// Reverse returns the transfer that undoes t.
func (t Transfer) Reverse() Transfer {
	return Transfer{Mint: t.Mint, From: t.To, To: t.From, Amount: t.Amount}
}

// Reverse returns the inverse of a batch in reverse order.
func Reverse(batch []Transfer) []Transfer {
	out := make([]Transfer, 0, len(batch))
	for i := len(batch) - 1; i >= 0; i-- {
		out = append(out, batch[i].Reverse())
	}
	return out
}

// Ledger is the asset-transfer collaborator. Apply is all-or-nothing: either
// every transfer of the batch is executed or none is.
type Ledger interface {
	Apply(ctx context.Context, transfers ...Transfer) error
	Balance(ctx context.Context, mint, owner solana.PublicKey) (uint64, error)
	Decimals(ctx context.Context, mint solana.PublicKey) (uint8, error)
	// Mint creates a new mint and issues amount to the recipient.
	Mint(ctx context.Context, mint, to solana.PublicKey, amount uint64, decimals uint8) error
}
