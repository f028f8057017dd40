package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/river-banking-ledger/internal/domain/account"
	"github.com/river-banking-ledger/internal/domain/ledger"
)

// memState is an in-memory ledger used to drive the engine end to end.
// InTx holds mu for the whole transaction and restores a snapshot on error.
type memState struct {
	mu            sync.Mutex
	accounts      map[int64]*account.Account
	txs           []*ledger.Transaction
	nextAccountID int64
	nextTxID      int64
	clock         time.Time

	failTxSave error
	lockCalls  []int64
}

type memStore struct {
	st   *memState
	inTx bool
}

func newMemStore() *memStore {
	return &memStore{st: &memState{
		accounts:      map[int64]*account.Account{},
		nextAccountID: 1000,
		clock:         time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}}
}

func (s *memStore) guard() func() {
	if s.inTx {
		return func() {}
	}
	s.st.mu.Lock()
	return s.st.mu.Unlock
}

func (s *memStore) Accounts() account.Repository    { return memAccounts{s} }
func (s *memStore) Transactions() ledger.Repository { return memTransactions{s} }
func (s *memStore) Ping(context.Context) error      { return nil }

func (s *memStore) InTx(ctx context.Context, fn func(tx ledger.Store) error) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	accounts := make(map[int64]*account.Account, len(s.st.accounts))
	for id, acc := range s.st.accounts {
		accounts[id] = acc.Clone()
	}
	txs := append([]*ledger.Transaction(nil), s.st.txs...)
	nextAccountID, nextTxID, clock := s.st.nextAccountID, s.st.nextTxID, s.st.clock

	if err := fn(&memStore{st: s.st, inTx: true}); err != nil {
		s.st.accounts = accounts
		s.st.txs = txs
		s.st.nextAccountID, s.st.nextTxID, s.st.clock = nextAccountID, nextTxID, clock
		return err
	}
	return nil
}

// seed stores an account directly, bypassing the engine.
func (s *memStore) seed(holder string, pinHash []byte, balance string) *account.Account {
	defer s.guard()()
	s.st.nextAccountID++
	acc := &account.Account{
		ID:      s.st.nextAccountID,
		Holder:  holder,
		PinHash: pinHash,
		Balance: dec(balance),
	}
	s.st.accounts[acc.ID] = acc.Clone()
	return acc
}

func (s *memStore) balance(id int64) string {
	defer s.guard()()
	return s.st.accounts[id].Balance.String()
}

func (s *memStore) txCount() int {
	defer s.guard()()
	return len(s.st.txs)
}

type memAccounts struct{ s *memStore }

func (r memAccounts) Save(_ context.Context, acc *account.Account) (*account.Account, error) {
	defer r.s.guard()()
	stored := acc.Clone()
	if stored.IsNew() {
		r.s.st.nextAccountID++
		stored.ID = r.s.st.nextAccountID
	}
	r.s.st.accounts[stored.ID] = stored
	return stored.Clone(), nil
}

func (r memAccounts) FindByID(_ context.Context, id int64) (*account.Account, error) {
	defer r.s.guard()()
	acc, ok := r.s.st.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound{AccountID: id}
	}
	return acc.Clone(), nil
}

func (r memAccounts) FindAll(_ context.Context) ([]*account.Account, error) {
	defer r.s.guard()()
	out := make([]*account.Account, 0, len(r.s.st.accounts))
	for _, acc := range r.s.st.accounts {
		out = append(out, acc.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memAccounts) LockForUpdate(ctx context.Context, id int64) (*account.Account, error) {
	if !r.s.inTx {
		return nil, errors.New("LockForUpdate outside a transaction")
	}
	r.s.st.lockCalls = append(r.s.st.lockCalls, id)
	return r.FindByID(ctx, id)
}

type memTransactions struct{ s *memStore }

func (r memTransactions) Save(_ context.Context, tx *ledger.Transaction) (*ledger.Transaction, error) {
	defer r.s.guard()()
	if r.s.st.failTxSave != nil {
		return nil, r.s.st.failTxSave
	}
	r.s.st.nextTxID++
	r.s.st.clock = r.s.st.clock.Add(time.Second)
	stored := *tx
	stored.ID = r.s.st.nextTxID
	stored.Timestamp = r.s.st.clock
	r.s.st.txs = append(r.s.st.txs, &stored)
	out := stored
	return &out, nil
}

func (r memTransactions) FindAllByAccount(_ context.Context, accountID int64) ([]*ledger.Transaction, error) {
	defer r.s.guard()()
	var out []*ledger.Transaction
	for _, tx := range r.s.st.txs {
		if tx.Involves(accountID) {
			c := *tx
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}
