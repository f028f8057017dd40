package service

import (
	"context"
	"log/slog"

	"github.com/river-banking-ledger/internal/engine"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	ledger Ledger
	logger *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(logger *slog.Logger, ledger Ledger) AccountService {
	return &AccountServiceImpl{
		ledger: ledger,
		logger: logger,
	}
}

func (s *AccountServiceImpl) CreateAccount(ctx context.Context, holder, pin string) (*engine.AccountDetail, error) {
	acc, err := s.ledger.CreateAccount(ctx, holder, pin)
	if err != nil {
		return nil, err
	}

	detail := s.ledger.Projector().Detail(acc)
	return &detail, nil
}

func (s *AccountServiceImpl) GetAllAccounts(ctx context.Context) ([]engine.AccountDetail, error) {
	accounts, err := s.ledger.GetAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "Listed accounts", "count", len(accounts))
	return s.ledger.Projector().Details(accounts), nil
}
