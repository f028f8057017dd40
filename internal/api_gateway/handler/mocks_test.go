package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/river-banking-ledger/internal/api_gateway/middleware"
	"github.com/river-banking-ledger/internal/domain/shared"
	"github.com/river-banking-ledger/internal/engine"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CorrelationID())
	return r
}

func newRequest(method, path, body string) (*http.Request, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req, httptest.NewRecorder()
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req, rr := newRequest(method, path, body)
	router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, holder, pin string) (*engine.AccountDetail, error) {
	args := m.Called(ctx, holder, pin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.AccountDetail), args.Error(1)
}

func (m *MockAccountService) GetAllAccounts(ctx context.Context) ([]engine.AccountDetail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]engine.AccountDetail), args.Error(1)
}

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Deposit(ctx context.Context, accountNumber int64, amount decimal.Decimal) (*engine.TransactionView, error) {
	args := m.Called(ctx, accountNumber, amount.String())
	return viewOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTransactionService) Withdraw(ctx context.Context, accountNumber int64, amount decimal.Decimal, pin string) (*engine.TransactionView, error) {
	args := m.Called(ctx, accountNumber, amount.String(), pin)
	return viewOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTransactionService) Transfer(ctx context.Context, payerNumber, payeeNumber int64, amount decimal.Decimal, pin string) (*engine.TransactionView, error) {
	args := m.Called(ctx, payerNumber, payeeNumber, amount.String(), pin)
	return viewOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTransactionService) GetHistory(ctx context.Context, accountNumber int64) (*engine.History, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.History), args.Error(1)
}

func viewOrNil(v any) *engine.TransactionView {
	if v == nil {
		return nil
	}
	return v.(*engine.TransactionView)
}

type MockCommandService struct {
	mock.Mock
}

func (m *MockCommandService) SubmitCommand(ctx context.Context, cmd shared.TransactionCommand) (*shared.TransactionCommand, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.TransactionCommand), args.Error(1)
}
