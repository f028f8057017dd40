package account

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrInsufficientFunds = errors.New("insufficient funds for withdrawal")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrEmptyHolder       = errors.New("holder name cannot be empty")
	ErrEmptyPinHash      = errors.New("pin hash cannot be empty")
)

// OpeningBalance is the balance of every new account. It carries two decimal
// places so a fresh account renders as 0.00.
var OpeningBalance = decimal.New(0, -2)

// Account represents a bank account. ID is zero until the store assigns one.
type Account struct {
	ID        int64           `json:"id"`
	Holder    string          `json:"holder"`
	PinHash   []byte          `json:"-"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewAccount creates an unsaved account with the opening balance
func NewAccount(holder string, pinHash []byte) (*Account, error) {
	if strings.TrimSpace(holder) == "" {
		return nil, ErrEmptyHolder
	}
	if len(pinHash) == 0 {
		return nil, ErrEmptyPinHash
	}

	now := time.Now().UTC()
	return &Account{
		Holder:    holder,
		PinHash:   pinHash,
		Balance:   OpeningBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsNew reports whether the account has not been stored yet
func (a *Account) IsNew() bool {
	return a.ID == 0
}

// Equal compares accounts by identity. Unsaved accounts equal nothing.
func (a *Account) Equal(other *Account) bool {
	if a == nil || other == nil || a.IsNew() || other.IsNew() {
		return false
	}
	return a.ID == other.ID
}

// Deposit adds the specified amount to the account balance
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	a.Balance = a.Balance.Add(amount)
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Withdraw subtracts the specified amount from the account balance
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if !a.CanWithdraw(amount) {
		return ErrInsufficientFunds
	}

	a.Balance = a.Balance.Sub(amount)
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// CanWithdraw checks if the account has sufficient funds for a withdrawal
func (a *Account) CanWithdraw(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// Clone returns a copy that shares no mutable state with a.
func (a *Account) Clone() *Account {
	c := *a
	if a.PinHash != nil {
		c.PinHash = append([]byte(nil), a.PinHash...)
	}
	return &c
}
