// Package engine applies deposits, withdrawals and transfers to accounts and
// renders the resulting records as client views.
//
// Every mutating operation runs inside one store transaction: the balance
// updates and the transaction record are committed together or not at all.
// Accounts are row-locked in ascending ID order, so concurrent operations on
// overlapping accounts serialize without deadlocking.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/river-banking-ledger/internal/domain/account"
	"github.com/river-banking-ledger/internal/domain/ledger"
	"github.com/river-banking-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ValidPin reports whether pin has exactly four ASCII digits.
func ValidPin(pin string) bool {
	return shared.PinPattern.MatchString(pin)
}

type Engine struct {
	logger    *slog.Logger
	store     ledger.Store
	hasher    Hasher
	formatter Formatter
	projector *Projector
	locker    AccountLocker
}

// NewEngine wires the engine. locker may be nil, in which case only the
// store's row locks serialize concurrent operations.
func NewEngine(logger *slog.Logger, store ledger.Store, hasher Hasher, formatter Formatter, locker AccountLocker) *Engine {
	if locker == nil {
		locker = noopLocker{}
	}
	return &Engine{
		logger:    logger,
		store:     store,
		hasher:    hasher,
		formatter: formatter,
		projector: NewProjector(formatter),
		locker:    locker,
	}
}

func (e *Engine) Projector() *Projector {
	return e.projector
}

// CreateAccount opens an account with a zero balance.
func (e *Engine) CreateAccount(ctx context.Context, holder, pin string) (*account.Account, error) {
	if strings.TrimSpace(holder) == "" {
		return nil, shared.NewMissingField("holder")
	}
	if !ValidPin(pin) {
		return nil, shared.NewMalformedPin(pin)
	}

	acc, err := account.NewAccount(holder, e.hasher.Hash(pin))
	if err != nil {
		return nil, shared.NewValidation(err.Error())
	}

	saved, err := e.store.Accounts().Save(ctx, acc)
	if err != nil {
		return nil, e.unknown(ctx, "Failed to create account", err)
	}

	e.logger.InfoContext(ctx, "Account created", "account_id", saved.ID)
	return saved, nil
}

// GetAllAccounts returns the accounts in store order.
func (e *Engine) GetAllAccounts(ctx context.Context) ([]*account.Account, error) {
	accounts, err := e.store.Accounts().FindAll(ctx)
	if err != nil {
		return nil, e.unknown(ctx, "Failed to list accounts", err)
	}
	return accounts, nil
}

// Deposit credits amount to the account and returns the deposit view.
func (e *Engine) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*TransactionView, error) {
	var saved *ledger.Transaction

	err := e.mutate(ctx, []int64{accountID}, func(tx ledger.Store, locked map[int64]*account.Account) error {
		acc, ok := locked[accountID]
		if !ok {
			return shared.NewAccountNotFound(accountID)
		}
		if err := requirePositive(amount); err != nil {
			return err
		}

		if err := acc.Deposit(amount); err != nil {
			return shared.NewValidation(err.Error())
		}

		var err error
		saved, err = e.persist(ctx, tx, ledger.NewDeposit(acc, amount), acc)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "Deposit completed", "transaction_id", saved.ID, "account_id", accountID)
	return e.view(saved, accountID)
}

// Withdraw debits amount from the account after checking funds and then
// the PIN, in that order.
func (e *Engine) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, pin string) (*TransactionView, error) {
	var saved *ledger.Transaction

	err := e.mutate(ctx, []int64{accountID}, func(tx ledger.Store, locked map[int64]*account.Account) error {
		acc, ok := locked[accountID]
		if !ok {
			return shared.NewAccountNotFound(accountID)
		}
		if err := e.authorizeDebit(acc, amount, pin); err != nil {
			return err
		}

		if err := acc.Withdraw(amount); err != nil {
			return shared.NewValidation(err.Error())
		}

		var err error
		saved, err = e.persist(ctx, tx, ledger.NewWithdrawal(acc, amount), acc)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "Withdrawal completed", "transaction_id", saved.ID, "account_id", accountID)
	return e.view(saved, accountID)
}

// Transfer moves amount from payer to payee and returns the payer's
// outgoing view. A transfer to the same account is rejected before any
// lookup.
func (e *Engine) Transfer(ctx context.Context, payerID, payeeID int64, amount decimal.Decimal, pin string) (*TransactionView, error) {
	if payerID == payeeID {
		return nil, shared.NewLoopbackTransfer(payerID)
	}

	var saved *ledger.Transaction

	err := e.mutate(ctx, []int64{payerID, payeeID}, func(tx ledger.Store, locked map[int64]*account.Account) error {
		payer, ok := locked[payerID]
		if !ok {
			return shared.NewPayerNotFound(payerID)
		}
		payee, ok := locked[payeeID]
		if !ok {
			return shared.NewPayeeNotFound(payeeID)
		}
		if err := e.authorizeDebit(payer, amount, pin); err != nil {
			return err
		}

		if err := payer.Withdraw(amount); err != nil {
			return shared.NewValidation(err.Error())
		}
		if err := payee.Deposit(amount); err != nil {
			return shared.NewValidation(err.Error())
		}

		var err error
		saved, err = e.persist(ctx, tx, ledger.NewTransfer(payer, payee, amount), payer, payee)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "Transfer completed",
		"transaction_id", saved.ID,
		"payer_id", payerID,
		"payee_id", payeeID,
	)
	return e.view(saved, payerID)
}

// GetHistory returns the account with its transactions, most recent first.
// An account without transactions yields an empty, non-nil list.
func (e *Engine) GetHistory(ctx context.Context, accountID int64) (*History, error) {
	acc, err := e.store.Accounts().FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			return nil, shared.NewAccountNotFound(accountID)
		}
		return nil, e.unknown(ctx, "Failed to load account", err)
	}

	txs, err := e.store.Transactions().FindAllByAccount(ctx, accountID)
	if err != nil {
		return nil, e.unknown(ctx, "Failed to load transactions", err)
	}

	views, err := e.projector.ProjectAll(txs, accountID)
	if err != nil {
		return nil, e.unknown(ctx, "Failed to project transactions", err)
	}

	return &History{Account: e.projector.Detail(acc), History: views}, nil
}

// mutateFunc receives the transaction-bound store and the accounts that were
// found, keyed by ID. Missing accounts are absent from the map.
type mutateFunc func(tx ledger.Store, locked map[int64]*account.Account) error

// mutate runs fn in one store transaction after locking ids in ascending
// order. Typed ledger errors returned by fn pass through unchanged.
func (e *Engine) mutate(ctx context.Context, ids []int64, fn mutateFunc) error {
	ordered := slices.Clone(ids)
	slices.Sort(ordered)

	unlock, err := e.locker.Lock(ctx, ordered...)
	if err != nil {
		return e.unknown(ctx, "Failed to acquire account locks", err)
	}
	defer unlock()

	err = e.store.InTx(ctx, func(tx ledger.Store) error {
		locked := make(map[int64]*account.Account, len(ordered))
		for _, id := range ordered {
			acc, err := tx.Accounts().LockForUpdate(ctx, id)
			if err != nil {
				if errors.Is(err, account.ErrAccountNotFound{}) {
					continue
				}
				return err
			}
			locked[id] = acc
		}
		return fn(tx, locked)
	})
	if err == nil {
		return nil
	}

	var typed *shared.Error
	if errors.As(err, &typed) {
		e.logger.InfoContext(ctx, "Operation rejected", "kind", typed.Kind.String(), "reason", typed.Message)
		return typed
	}
	return e.unknown(ctx, "Ledger transaction failed", err)
}

func (e *Engine) authorizeDebit(acc *account.Account, amount decimal.Decimal, pin string) error {
	if err := requirePositive(amount); err != nil {
		return err
	}
	if !acc.CanWithdraw(amount) {
		return shared.NewInsufficientFunds(acc.ID, e.formatter.Format(amount), e.formatter.Format(acc.Balance))
	}
	if !e.hasher.Matches(pin, acc.PinHash) {
		return shared.NewWrongPin(acc.ID, pin)
	}
	return nil
}

func (e *Engine) persist(ctx context.Context, tx ledger.Store, record *ledger.Transaction, accounts ...*account.Account) (*ledger.Transaction, error) {
	for _, acc := range accounts {
		if _, err := tx.Accounts().Save(ctx, acc); err != nil {
			return nil, err
		}
	}
	return tx.Transactions().Save(ctx, record)
}

func (e *Engine) view(tx *ledger.Transaction, perspective int64) (*TransactionView, error) {
	v, err := e.projector.Project(tx, perspective)
	if err != nil {
		return nil, shared.NewUnknown(err)
	}
	return &v, nil
}

func (e *Engine) unknown(ctx context.Context, msg string, err error) *shared.Error {
	e.logger.ErrorContext(ctx, msg, "error", err)
	return shared.NewUnknown(err)
}

func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewNonPositiveAmount(amount.String())
	}
	return nil
}
