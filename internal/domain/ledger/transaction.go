package ledger

import (
	"time"

	"github.com/river-banking-ledger/internal/domain/account"
	"github.com/shopspring/decimal"
)

// Kind is derived from the shape of a Transaction and never stored.
type Kind int

const (
	KindInvalid Kind = iota
	KindDeposit
	KindWithdrawal
	KindTransfer
)

func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	case KindTransfer:
		return "transfer"
	default:
		return "invalid"
	}
}

// Transaction is the canonical record of one completed ledger event.
//
// Amount is signed from the author's point of view: positive for a deposit,
// negative for a withdrawal and for a transfer, where Author is the payer and
// Target the payee. Target and TargetBalance are set only for transfers.
// ID and Timestamp are assigned by the store on insert.
type Transaction struct {
	ID            int64            `json:"id"`
	Timestamp     time.Time        `json:"timestamp"`
	Amount        decimal.Decimal  `json:"amount"`
	Author        *account.Account `json:"author"`
	AuthorBalance decimal.Decimal  `json:"author_balance"`
	Target        *account.Account `json:"target,omitempty"`
	TargetBalance *decimal.Decimal `json:"target_balance,omitempty"`
}

// NewDeposit records amount credited to author. author must already hold its
// post-deposit balance.
func NewDeposit(author *account.Account, amount decimal.Decimal) *Transaction {
	return &Transaction{
		Amount:        amount.Abs(),
		Author:        author,
		AuthorBalance: author.Balance,
	}
}

// NewWithdrawal records amount debited from author.
func NewWithdrawal(author *account.Account, amount decimal.Decimal) *Transaction {
	return &Transaction{
		Amount:        amount.Abs().Neg(),
		Author:        author,
		AuthorBalance: author.Balance,
	}
}

// NewTransfer records amount moved from payer to payee, both already holding
// their post-transfer balances.
func NewTransfer(payer, payee *account.Account, amount decimal.Decimal) *Transaction {
	payeeBalance := payee.Balance
	return &Transaction{
		Amount:        amount.Abs().Neg(),
		Author:        payer,
		AuthorBalance: payer.Balance,
		Target:        payee,
		TargetBalance: &payeeBalance,
	}
}

// Kind classifies the record by target presence and amount sign.
func (t *Transaction) Kind() Kind {
	if t.Target != nil {
		if t.TargetBalance == nil || !t.Amount.IsNegative() {
			return KindInvalid
		}
		return KindTransfer
	}
	switch {
	case t.Amount.IsPositive():
		return KindDeposit
	case t.Amount.IsNegative():
		return KindWithdrawal
	default:
		return KindInvalid
	}
}

// Involves reports whether the account is the author or the target.
func (t *Transaction) Involves(accountID int64) bool {
	if t.Author != nil && t.Author.ID == accountID {
		return true
	}
	return t.Target != nil && t.Target.ID == accountID
}

// Equal compares records by identity. Unsaved records equal nothing.
func (t *Transaction) Equal(other *Transaction) bool {
	if t == nil || other == nil || t.ID == 0 || other.ID == 0 {
		return false
	}
	return t.ID == other.ID
}
