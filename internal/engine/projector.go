package engine

import (
	"fmt"

	"github.com/river-banking-ledger/internal/domain/account"
	"github.com/river-banking-ledger/internal/domain/ledger"
	"github.com/river-banking-ledger/internal/domain/shared"
)

// Projector derives client views from stored records.
type Projector struct {
	formatter Formatter
}

func NewProjector(formatter Formatter) *Projector {
	return &Projector{formatter: formatter}
}

func (p *Projector) Summary(acc *account.Account) AccountSummary {
	return AccountSummary{Number: acc.ID, Holder: acc.Holder}
}

func (p *Projector) Detail(acc *account.Account) AccountDetail {
	return AccountDetail{
		Number:  acc.ID,
		Holder:  acc.Holder,
		Balance: p.formatter.Format(acc.Balance),
	}
}

// Details projects a list of accounts, keeping their order.
func (p *Projector) Details(accounts []*account.Account) []AccountDetail {
	out := make([]AccountDetail, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, p.Detail(acc))
	}
	return out
}

// Project renders tx from the point of view of perspective, which must be the
// author or, for transfers, the target. Anything else wraps
// shared.ErrIllegalArgument.
func (p *Projector) Project(tx *ledger.Transaction, perspective int64) (TransactionView, error) {
	switch tx.Kind() {
	case ledger.KindDeposit:
		if tx.Author.ID != perspective {
			return TransactionView{}, p.notInvolved(tx, perspective)
		}
		return p.deposit(tx), nil
	case ledger.KindWithdrawal:
		if tx.Author.ID != perspective {
			return TransactionView{}, p.notInvolved(tx, perspective)
		}
		return p.withdrawal(tx), nil
	case ledger.KindTransfer:
		switch perspective {
		case tx.Author.ID:
			return p.outgoing(tx), nil
		case tx.Target.ID:
			return p.incoming(tx), nil
		default:
			return TransactionView{}, p.notInvolved(tx, perspective)
		}
	default:
		return TransactionView{}, fmt.Errorf("%w: transaction %d", ledger.ErrInvalidTransaction, tx.ID)
	}
}

// ProjectAll keeps the input order.
func (p *Projector) ProjectAll(txs []*ledger.Transaction, perspective int64) ([]TransactionView, error) {
	views := make([]TransactionView, 0, len(txs))
	for _, tx := range txs {
		view, err := p.Project(tx, perspective)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (p *Projector) deposit(tx *ledger.Transaction) TransactionView {
	return TransactionView{
		TransactionID: tx.ID,
		Type:          shared.TransactionTypeDeposit,
		Timestamp:     tx.Timestamp,
		Amount:        p.formatter.Format(tx.Amount),
		Balance:       p.formatter.Format(tx.AuthorBalance),
	}
}

func (p *Projector) withdrawal(tx *ledger.Transaction) TransactionView {
	return TransactionView{
		TransactionID: tx.ID,
		Type:          shared.TransactionTypeWithdrawal,
		Timestamp:     tx.Timestamp,
		Amount:        p.formatter.Format(tx.Amount.Abs()),
		Balance:       p.formatter.Format(tx.AuthorBalance),
	}
}

func (p *Projector) outgoing(tx *ledger.Transaction) TransactionView {
	payee := p.Summary(tx.Target)
	return TransactionView{
		TransactionID: tx.ID,
		Type:          shared.TransactionTypeTransfer,
		Direction:     shared.DirectionOutgoing,
		Timestamp:     tx.Timestamp,
		Amount:        p.formatter.Format(tx.Amount.Abs()),
		Balance:       p.formatter.Format(tx.AuthorBalance),
		Payee:         &payee,
	}
}

func (p *Projector) incoming(tx *ledger.Transaction) TransactionView {
	payer := p.Summary(tx.Author)
	return TransactionView{
		TransactionID: tx.ID,
		Type:          shared.TransactionTypeTransfer,
		Direction:     shared.DirectionIncoming,
		Timestamp:     tx.Timestamp,
		Amount:        p.formatter.Format(tx.Amount.Abs()),
		Balance:       p.formatter.Format(*tx.TargetBalance),
		Payer:         &payer,
	}
}

func (p *Projector) notInvolved(tx *ledger.Transaction, perspective int64) error {
	return fmt.Errorf("%w: account %d took no part in transaction %d", shared.ErrIllegalArgument, perspective, tx.ID)
}
