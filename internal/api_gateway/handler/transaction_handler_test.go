package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/river-banking-ledger/internal/domain/shared"
	"github.com/river-banking-ledger/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTransactionRouter(svc *MockTransactionService) *gin.Engine {
	h := NewTransactionHandler(newTestLogger(), svc)
	router := setupTestRouter()
	router.GET("/transactions", h.GetHistory)
	router.POST("/transactions/deposit", h.Deposit)
	router.POST("/transactions/withdraw", h.Withdraw)
	router.POST("/transactions/transfer", h.Transfer)
	return router
}

func TestTransactionHandler_GetHistory(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockTransactionService)
		ts := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
		svc.On("GetHistory", mock.Anything, int64(1001)).Return(&engine.History{
			Account: engine.AccountDetail{Number: 1001, Holder: "Wolf", Balance: "$ 10"},
			History: []engine.TransactionView{{
				TransactionID: 7,
				Type:          shared.TransactionTypeDeposit,
				Timestamp:     ts,
				Amount:        "$ 10",
				Balance:       "$ 10",
			}},
		}, nil).Once()

		rr := doJSON(newTransactionRouter(svc), http.MethodGet, "/transactions?account=1001", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{
			"account": {"number":1001,"holder":"Wolf","balance":"$ 10"},
			"history": [{
				"transaction-id": 7,
				"type": "Deposit",
				"timestamp": "2024-05-01T09:30:00Z",
				"amount": "$ 10",
				"balance": "$ 10"
			}]
		}`, rr.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("MissingParam", func(t *testing.T) {
		for _, path := range []string{"/transactions", "/transactions?account="} {
			svc := new(MockTransactionService)
			rr := doJSON(newTransactionRouter(svc), http.MethodGet, path, "")

			assert.Equal(t, http.StatusBadRequest, rr.Code, path)
			resp := decodeError(t, rr)
			assert.Equal(t, 1, resp.Error)
			assert.Equal(t, "Missing account parameter.", resp.Message)
		}
	})

	t.Run("InvalidParam", func(t *testing.T) {
		svc := new(MockTransactionService)
		rr := doJSON(newTransactionRouter(svc), http.MethodGet, "/transactions?account=abc", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeError(t, rr)
		assert.Equal(t, 0, resp.Error)
		assert.Equal(t, `Invalid "abc" value for field account`, resp.Message)
	})

	t.Run("AccountNotFound", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("GetHistory", mock.Anything, int64(42)).Return(nil, shared.NewAccountNotFound(42)).Once()

		rr := doJSON(newTransactionRouter(svc), http.MethodGet, "/transactions?account=42", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		resp := decodeError(t, rr)
		assert.Equal(t, 101, resp.Error)
		assert.Equal(t, "Account with number 42 not found", resp.Message)
	})
}

func TestTransactionHandler_Deposit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("Deposit", mock.Anything, int64(1001), "10.25").Return(&engine.TransactionView{
			TransactionID: 3,
			Type:          shared.TransactionTypeDeposit,
			Amount:        "$ 10.25",
			Balance:       "$ 10.25",
		}, nil).Once()

		rr := doJSON(newTransactionRouter(svc), http.MethodPost, "/transactions/deposit",
			`{"account-number":1001,"amount":10.25}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"transaction-id":3`)
		svc.AssertExpectations(t)
	})

	t.Run("AmountAsString", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("Deposit", mock.Anything, int64(1001), "0.1").
			Return(&engine.TransactionView{TransactionID: 4}, nil).Once()

		rr := doJSON(newTransactionRouter(svc), http.MethodPost, "/transactions/deposit",
			`{"account-number":1001,"amount":"0.1"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		svc.AssertExpectations(t)
	})

	tests := []struct {
		name    string
		body    string
		code    int
		message string
	}{
		{"MissingAccount", `{"amount":1}`, 2, "Missing account-number field."},
		{"MissingAmount", `{"account-number":1001}`, 2, "Missing amount field."},
		{"ZeroAmount", `{"account-number":1001,"amount":0}`, 0, "The amount must be greater than zero (provided: 0)."},
		{"NegativeAmount", `{"account-number":1001,"amount":-5}`, 0, "The amount must be greater than zero (provided: -5)."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockTransactionService)
			rr := doJSON(newTransactionRouter(svc), http.MethodPost, "/transactions/deposit", tc.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			resp := decodeError(t, rr)
			assert.Equal(t, tc.code, resp.Error)
			assert.Equal(t, tc.message, resp.Message)
			svc.AssertNotCalled(t, "Deposit", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestTransactionHandler_Withdraw(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("Withdraw", mock.Anything, int64(1001), "2.5", "1234").Return(&engine.TransactionView{
			TransactionID: 5,
			Type:          shared.TransactionTypeWithdrawal,
			Amount:        "$ 2.5",
			Balance:       "$ 7.5",
		}, nil).Once()

		rr := doJSON(newTransactionRouter(svc), http.MethodPost, "/transactions/withdraw",
			`{"account-number":1001,"amount":2.5,"pin":"1234"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"type":"Withdrawal"`)
		svc.AssertExpectations(t)
	})

	t.Run("MissingPin", func(t *testing.T) {
		svc := new(MockTransactionService)
		rr := doJSON(newTransactionRouter(svc), http.MethodPost, "/transactions/withdraw",
			`{"account-number":1001,"amount":2.5}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Missing pin field.", decodeError(t, rr).Message)
	})

	t.Run("WrongPin", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("Withdraw", mock.Anything, int64(1001), "2.5", "9999").
			Return(nil, shared.NewWrongPin(1001, "9999")).Once()

		rr := doJSON(newTransactionRouter(svc), http.MethodPost, "/transactions/withdraw",
			`{"account-number":1001,"amount":2.5,"pin":"9999"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeError(t, rr)
		assert.Equal(t, 4, resp.Error)
		assert.Equal(t, `The pin provided for account number 1001 is wrong (provided: "9999")`, resp.Message)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("Withdraw", mock.Anything, int64(1001), "50", "1234").
			Return(nil, shared.NewInsufficientFunds(1001, "$ 50", "$ 7.5")).Once()

		rr := doJSON(newTransactionRouter(svc), http.MethodPost, "/transactions/withdraw",
			`{"account-number":1001,"amount":50,"pin":"1234"}`)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, 201, decodeError(t, rr).Error)
	})
}

func TestTransactionHandler_Transfer(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("Transfer", mock.Anything, int64(1001), int64(1002), "2.5", "1234").Return(&engine.TransactionView{
			TransactionID: 6,
			Type:          shared.TransactionTypeTransfer,
			Direction:     shared.DirectionOutgoing,
			Amount:        "$ 2.5",
			Balance:       "$ 7.5",
			Payee:         &engine.AccountSummary{Number: 1002, Holder: "Fox"},
		}, nil).Once()

		rr := doJSON(newTransactionRouter(svc), http.MethodPost, "/transactions/transfer",
			`{"payer-number":1001,"payee-number":1002,"amount":2.5,"pin":"1234"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"payee":{"number":1002,"holder":"Fox"}`)
		assert.NotContains(t, rr.Body.String(), `"payer"`)
		svc.AssertExpectations(t)
	})

	t.Run("MissingPayee", func(t *testing.T) {
		svc := new(MockTransactionService)
		rr := doJSON(newTransactionRouter(svc), http.MethodPost, "/transactions/transfer",
			`{"payer-number":1001,"amount":2.5,"pin":"1234"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Missing payee-number field.", decodeError(t, rr).Message)
	})

	t.Run("Loopback", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("Transfer", mock.Anything, int64(1001), int64(1001), "1", "1234").
			Return(nil, shared.NewLoopbackTransfer(1001)).Once()

		rr := doJSON(newTransactionRouter(svc), http.MethodPost, "/transactions/transfer",
			`{"payer-number":1001,"payee-number":1001,"amount":1,"pin":"1234"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, 5, decodeError(t, rr).Error)
	})

	t.Run("PayeeNotFound", func(t *testing.T) {
		svc := new(MockTransactionService)
		svc.On("Transfer", mock.Anything, int64(1001), int64(9), "1", "1234").
			Return(nil, shared.NewPayeeNotFound(9)).Once()

		rr := doJSON(newTransactionRouter(svc), http.MethodPost, "/transactions/transfer",
			`{"payer-number":1001,"payee-number":9,"amount":1,"pin":"1234"}`)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, 103, decodeError(t, rr).Error)
	})
}
