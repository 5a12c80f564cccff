// =============================
// File: internal/curve/errors.go
// =============================
package curve

import (
	"errors"
	"fmt"
)

// Kind groups error codes by how a caller should react to them.
type Kind int

const (
	KindInvalidInput Kind = iota
	KindAuthorization
	KindInsufficientResource
	KindSlippage
	KindHalt
	KindArithmetic
	KindState
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindAuthorization:
		return "authorization"
	case KindInsufficientResource:
		return "insufficient_resource"
	case KindSlippage:
		return "slippage"
	case KindHalt:
		return "halt"
	case KindArithmetic:
		return "arithmetic"
	default:
		return "state"
	}
}

// Code is the numeric program error code. Custom codes start at 6000 the same
// way the on-chain program numbers them, so 6024 == 0x1788 is MinOutputAmountNotMet.
type Code uint32

const customCodeOffset Code = 6000

// Error is a terminal failure of a curve operation.
type Error struct {
	Code Code
	Name string
	Msg  string
	kind Kind
}

func newError(ordinal Code, name, msg string, kind Kind) *Error {
	return &Error{Code: customCodeOffset + ordinal, Name: name, Msg: msg, kind: kind}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Msg)
}

// Kind returns the error category.
func (e *Error) Kind() Kind {
	return e.kind
}

// Порядок кодов совпадает с программой, менять нельзя
var (
	ErrDuplicateTokenNotAllowed      = newError(0, "DuplicateTokenNotAllowed", "Duplicate tokens are not allowed", KindInvalidInput)
	ErrFailedToAllocateShares        = newError(1, "FailedToAllocateShares", "Failed to allocate shares", KindState)
	ErrFailedToDeallocateShares      = newError(2, "FailedToDeallocateShares", "Failed to deallocate shares", KindState)
	ErrInsufficientShares            = newError(3, "InsufficientShares", "Insufficient shares", KindInsufficientResource)
	ErrInsufficientFunds             = newError(4, "InsufficientFunds", "Insufficient funds to swap", KindInsufficientResource)
	ErrInvalidAmount                 = newError(5, "InvalidAmount", "Invalid amount to swap", KindInvalidInput)
	ErrInvalidFee                    = newError(6, "InvalidFee", "Invalid fee", KindInvalidInput)
	ErrFailedToAddLiquidity          = newError(7, "FailedToAddLiquidity", "Failed to add liquidity", KindState)
	ErrFailedToRemoveLiquidity       = newError(8, "FailedToRemoveLiquidity", "Failed to remove liquidity", KindState)
	ErrNotEnoughToRemove             = newError(9, "NotEnoughToRemove", "Sold token is not enough to remove pool", KindState)
	ErrNotCreator                    = newError(10, "NotCreator", "Not a pool creator", KindAuthorization)
	ErrOverflowOrUnderflowOccurred   = newError(11, "OverflowOrUnderflowOccurred", "Overflow or underflow occured", KindArithmetic)
	ErrTokenAmountToSellTooBig       = newError(12, "TokenAmountToSellTooBig", "Token amount is too big to sell", KindInsufficientResource)
	ErrNotEnoughExchangeTokenInVault = newError(13, "NotEnoughExchangeTokenInVault", "Exchange Token is not enough in vault", KindInsufficientResource)
	ErrNotEnoughTokenInVault         = newError(14, "NotEnoughTokenInVault", "Token is not enough in vault", KindInsufficientResource)
	ErrNegativeNumber                = newError(15, "NegativeNumber", "Amount is negative", KindArithmetic)
	ErrMintInitializationFailed      = newError(16, "MintInitializationFailed", "Failed to initialize mint", KindState)
	ErrMintFailed                    = newError(17, "MintFailed", "Failed to mint tokens", KindState)
	ErrInvalidDecimalValue           = newError(18, "InvalidDecimalValue", "Invalid decimal value", KindInvalidInput)
	ErrInvalidInput                  = newError(19, "InvalidInput", "Invalid input parameters", KindInvalidInput)
	ErrInvalidAuthority              = newError(20, "InvalidAuthority", "Invalid authority", KindAuthorization)
	ErrInvalidOwner                  = newError(21, "InvalidOwner", "Invalid owner", KindAuthorization)
	ErrInvalidExchangeTokenMint      = newError(22, "InvalidExchangeTokenMint", "Invalid exchange token mint", KindInvalidInput)
	ErrInvalidInitialTokenForPool    = newError(23, "InvalidInitialTokenForPool", "Invalid initial token for pool", KindInvalidInput)
	ErrMinOutputAmountNotMet         = newError(24, "MinOutputAmountNotMet", "Min output amount not met", KindSlippage)
	ErrLockdown                      = newError(25, "Lockdown", "Lockdown", KindHalt)

	// Off-chain additions, numbered after the program's own codes.
	ErrConfigNotInitialized     = newError(26, "ConfigNotInitialized", "Curve configuration is not initialized", KindState)
	ErrConfigAlreadyInitialized = newError(27, "ConfigAlreadyInitialized", "Curve configuration already exists", KindState)
	ErrPoolNotFound             = newError(28, "PoolNotFound", "Liquidity pool not found", KindState)
	ErrPoolAlreadyExists        = newError(29, "PoolAlreadyExists", "Liquidity pool already exists", KindState)
)

// AsError extracts the curve error from a wrapped chain.
func AsError(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// KindOf returns the category of err, or KindState for foreign errors.
func KindOf(err error) Kind {
	if ce, ok := AsError(err); ok {
		return ce.kind
	}
	return KindState
}

// IsSlippageError reports whether err is a slippage floor violation.
func IsSlippageError(err error) bool {
	return errors.Is(err, ErrMinOutputAmountNotMet)
}
