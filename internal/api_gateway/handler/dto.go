package handler

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/river-banking-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Request fields are pointers so that an absent field can be told apart from
// a zero value and reported as missing.

// CreateAccountRequest represents a request to create a new account
type CreateAccountRequest struct {
	Holder *string `json:"holder"`
	Pin    *string `json:"pin"`
}

func (r *CreateAccountRequest) Validate() error {
	return shared.ValidateFields(
		shared.NewField("holder", r.Holder, validation.NotNil, shared.NotBlank),
		shared.NewField("pin", r.Pin, validation.NotNil, shared.PinFormat),
	)
}

// DepositRequest represents a request to deposit into an account
type DepositRequest struct {
	AccountNumber *int64           `json:"account-number"`
	Amount        *decimal.Decimal `json:"amount"`
}

func (r *DepositRequest) Validate() error {
	return shared.ValidateFields(
		shared.NewField("account-number", r.AccountNumber, validation.NotNil),
		shared.NewField("amount", r.Amount, validation.NotNil, shared.PositiveAmount),
	)
}

// WithdrawalRequest represents a request to withdraw from an account
type WithdrawalRequest struct {
	AccountNumber *int64           `json:"account-number"`
	Amount        *decimal.Decimal `json:"amount"`
	Pin           *string          `json:"pin"`
}

func (r *WithdrawalRequest) Validate() error {
	return shared.ValidateFields(
		shared.NewField("account-number", r.AccountNumber, validation.NotNil),
		shared.NewField("amount", r.Amount, validation.NotNil, shared.PositiveAmount),
		shared.NewField("pin", r.Pin, validation.NotNil, shared.PinFormat),
	)
}

// TransferRequest represents a request to move money between two accounts
type TransferRequest struct {
	PayerNumber *int64           `json:"payer-number"`
	PayeeNumber *int64           `json:"payee-number"`
	Amount      *decimal.Decimal `json:"amount"`
	Pin         *string          `json:"pin"`
}

func (r *TransferRequest) Validate() error {
	return shared.ValidateFields(
		shared.NewField("payer-number", r.PayerNumber, validation.NotNil),
		shared.NewField("payee-number", r.PayeeNumber, validation.NotNil),
		shared.NewField("amount", r.Amount, validation.NotNil, shared.PositiveAmount),
		shared.NewField("pin", r.Pin, validation.NotNil, shared.PinFormat),
	)
}

// CommandAcceptedResponse acknowledges a queued ledger command. The outcome
// is published on the result topic under the same request ID.
type CommandAcceptedResponse struct {
	RequestID uuid.UUID `json:"request_id"`
	Status    string    `json:"status"`
}

const commandStatusAccepted = "ACCEPTED"
