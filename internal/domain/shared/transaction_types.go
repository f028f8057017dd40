package shared

// TransactionType is the kind of a ledger transaction as shown to clients.
// It is derived from the stored record, never persisted.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "Deposit"
	TransactionTypeWithdrawal TransactionType = "Withdrawal"
	TransactionTypeTransfer   TransactionType = "Transfer"
)

// TransferDirection tells whether a transfer left or reached the viewing account.
type TransferDirection string

const (
	DirectionIncoming TransferDirection = "Incoming"
	DirectionOutgoing TransferDirection = "Outgoing"
)

// CommandType selects the ledger operation requested by an asynchronous command.
type CommandType string

const (
	CommandTypeDeposit  CommandType = "DEPOSIT"
	CommandTypeWithdraw CommandType = "WITHDRAW"
	CommandTypeTransfer CommandType = "TRANSFER"
)

// CommandStatus is the outcome reported for an asynchronous command.
type CommandStatus string

const (
	CommandStatusCompleted CommandStatus = "COMPLETED"
	CommandStatusRejected  CommandStatus = "REJECTED"
)
