package ledger

import "errors"

type (
	// AccountID identifies a balance-holding account
	AccountID string

	// CurrencyID identifies an asset. The native currency carries rewards,
	// every other id may serve as review collateral.
	CurrencyID uint32

	// Balance is an amount of a single currency
	Balance uint64
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")

	// Returned by Transfer when the sender would be left below the minimum balance
	// and the transfer was requested with keep-alive semantics
	ErrKeepAlive = errors.New("transfer would kill the sender account")

	// Returned by Transfer when the receiving account does not exist yet
	// and the amount is too small to create it
	ErrBelowMinimum = errors.New("amount below minimum balance for a new account")
)

// Ledger is the balance collaborator the engine is parameterized over.
// It holds free and reserved balances per (currency, account).
//
// The engine never assumes exclusive access to balances, so reserved amounts
// may have been tampered with externally between calls. Consistency is
// re-validated by the engine before every payout.
type Ledger interface {
	// MinimumBalance is the smallest balance an entry may hold without being reaped
	MinimumBalance(currency CurrencyID) Balance

	ReservedBalance(currency CurrencyID, account AccountID) Balance
	FreeBalance(currency CurrencyID, account AccountID) Balance

	// CanReserve tells whether Reserve would succeed, without mutating anything
	CanReserve(currency CurrencyID, account AccountID, amount Balance) bool

	// Reserve moves amount from the free into the reserved balance
	Reserve(currency CurrencyID, account AccountID, amount Balance) error

	// Unreserve moves up to amount back into the free balance and returns the
	// part that was NOT released because the reserve was too small. Never fails.
	Unreserve(currency CurrencyID, account AccountID, amount Balance) (shortfall Balance)

	// Transfer moves amount between free balances. With keepAlive the sender
	// must stay at or above the minimum balance, otherwise the sender entry may
	// be reaped when it drops below the minimum.
	Transfer(currency CurrencyID, from, to AccountID, amount Balance, keepAlive bool) error

	// Issue creates new native supply and hands it out as an imbalance token
	// that must be consumed exactly once
	Issue(amount Balance) *Imbalance

	// ResolveCreating credits an imbalance to the account's free native balance,
	// creating the account if needed, and consumes the token
	ResolveCreating(account AccountID, imbalance *Imbalance)
}

// TreasurySink absorbs newly minted supply. Called once per mint.
type TreasurySink interface {
	OnUnbalanced(imbalance *Imbalance)
}
