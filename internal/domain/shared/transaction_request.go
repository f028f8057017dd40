package shared

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionCommand is a ledger operation submitted over Kafka.
// Which account fields are required depends on Type.
type TransactionCommand struct {
	RequestID     uuid.UUID       `json:"request_id"`
	Type          CommandType     `json:"type"`
	AccountNumber int64           `json:"account_number,omitempty"`
	PayerNumber   int64           `json:"payer_number,omitempty"`
	PayeeNumber   int64           `json:"payee_number,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Pin           string          `json:"pin,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// CommandError is the wire form of a typed ledger failure.
type CommandError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TransactionResult reports the outcome of a TransactionCommand.
// Transaction holds the projected view when Status is COMPLETED.
type TransactionResult struct {
	RequestID     uuid.UUID     `json:"request_id"`
	Status        CommandStatus `json:"status"`
	Transaction   any           `json:"transaction,omitempty"`
	Error         *CommandError `json:"error,omitempty"`
	CorrelationID string        `json:"correlation_id,omitempty"`
	ProcessedAt   time.Time     `json:"processed_at"`
}
