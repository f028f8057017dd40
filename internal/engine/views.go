package engine

import (
	"time"

	"github.com/river-banking-ledger/internal/domain/shared"
)

// AccountSummary identifies an account without exposing its balance.
type AccountSummary struct {
	Number int64  `json:"number"`
	Holder string `json:"holder"`
}

// AccountDetail is the public form of an account.
type AccountDetail struct {
	Number  int64  `json:"number"`
	Holder  string `json:"holder"`
	Balance string `json:"balance"`
}

// TransactionView is a transaction as seen from one account. Type decides
// which optional fields are set: Direction for transfers, then Payee on
// outgoing and Payer on incoming ones.
type TransactionView struct {
	TransactionID int64                    `json:"transaction-id"`
	Type          shared.TransactionType   `json:"type"`
	Direction     shared.TransferDirection `json:"direction,omitempty"`
	Timestamp     time.Time                `json:"timestamp"`
	Amount        string                   `json:"amount"`
	Balance       string                   `json:"balance"`
	Payer         *AccountSummary          `json:"payer,omitempty"`
	Payee         *AccountSummary          `json:"payee,omitempty"`
}

// History is an account together with its transactions, most recent first.
type History struct {
	Account AccountDetail     `json:"account"`
	History []TransactionView `json:"history"`
}
