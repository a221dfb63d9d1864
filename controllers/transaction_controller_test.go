package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Evarmedia/jumbly-BE-sub000/db"
	"github.com/Evarmedia/jumbly-BE-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) BorrowItem(ctx context.Context, tenantID, itemID, projectID string, qty int64) (*models.Transaction, error) {
	args := m.Called(ctx, tenantID, itemID, projectID, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockLedger) ReturnItem(ctx context.Context, tenantID, itemID, projectID string, qty int64) (*models.Transaction, error) {
	args := m.Called(ctx, tenantID, itemID, projectID, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockLedger) ListTransactions(ctx context.Context, tenantID string, f db.TransactionFilter) (db.ListTransactionsResult, error) {
	args := m.Called(ctx, tenantID, f)
	return args.Get(0).(db.ListTransactionsResult), args.Error(1)
}

func (m *MockLedger) FindTransactionByID(ctx context.Context, tenantID, id string) (*models.Transaction, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockLedger) ReconcileInventory(ctx context.Context, tenantID string) (*db.ReconcileReport, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.ReconcileReport), args.Error(1)
}

func (m *MockLedger) CreateNotification(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func newTestRouter(ledger Ledger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	tc := &TransactionController{Ledger: ledger, Log: zap.NewNop()}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "user-1")
		c.Set("tenantID", "tenant-1")
	})
	r.POST("/api/transactions/borrow", tc.Borrow)
	r.POST("/api/transactions/return", tc.Return)
	r.GET("/api/transactions", tc.ListTransactions)
	r.GET("/api/transactions/reconcile", tc.Reconcile)
	r.GET("/api/transactions/:transaction_id", tc.GetTransaction)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBorrowCreated(t *testing.T) {
	ledger := new(MockLedger)
	txn := &models.Transaction{
		ID: "txn-1", TenantID: "tenant-1", ItemID: "item-1", ProjectID: "proj-1",
		Quantity: 4, Action: models.ActionBorrow, Date: time.Now().UTC(),
	}
	ledger.On("BorrowItem", mock.Anything, "tenant-1", "item-1", "proj-1", int64(4)).Return(txn, nil)
	ledger.On("CreateNotification", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil)

	w := doJSON(t, newTestRouter(ledger), http.MethodPost, "/api/transactions/borrow",
		`{"item_id":"item-1","project_id":"proj-1","quantity":4}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Message     string             `json:"message"`
		Transaction models.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "txn-1", resp.Transaction.ID)
	require.Equal(t, models.ActionBorrow, resp.Transaction.Action)
	ledger.AssertExpectations(t)
}

func TestBorrowMissingFieldsRejected(t *testing.T) {
	ledger := new(MockLedger)
	r := newTestRouter(ledger)

	for _, body := range []string{
		`{}`,
		`{"item_id":"item-1","quantity":4}`,
		`{"item_id":"item-1","project_id":"proj-1"}`,
		`{"item_id":"item-1","project_id":"proj-1","quantity":0}`,
	} {
		w := doJSON(t, r, http.MethodPost, "/api/transactions/borrow", body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
	// The ledger is never reached when binding fails.
	ledger.AssertNotCalled(t, "BorrowItem")
}

func TestBorrowInsufficientStock(t *testing.T) {
	ledger := new(MockLedger)
	ledger.On("BorrowItem", mock.Anything, "tenant-1", "item-1", "proj-1", int64(5)).
		Return(nil, db.ErrInsufficientStock)

	w := doJSON(t, newTestRouter(ledger), http.MethodPost, "/api/transactions/borrow",
		`{"item_id":"item-1","project_id":"proj-1","quantity":5}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	ledger.AssertNotCalled(t, "CreateNotification")
}

func TestBorrowItemNotFound(t *testing.T) {
	ledger := new(MockLedger)
	ledger.On("BorrowItem", mock.Anything, "tenant-1", "missing", "proj-1", int64(1)).
		Return(nil, db.ErrItemNotFound)

	w := doJSON(t, newTestRouter(ledger), http.MethodPost, "/api/transactions/borrow",
		`{"item_id":"missing","project_id":"proj-1","quantity":1}`)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestReturnOverReturnRejected(t *testing.T) {
	ledger := new(MockLedger)
	ledger.On("ReturnItem", mock.Anything, "tenant-1", "item-1", "proj-1", int64(5)).
		Return(nil, db.ErrOverReturn)

	w := doJSON(t, newTestRouter(ledger), http.MethodPost, "/api/transactions/return",
		`{"item_id":"item-1","project_id":"proj-1","quantity":5}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReturnAllocationNotFound(t *testing.T) {
	ledger := new(MockLedger)
	ledger.On("ReturnItem", mock.Anything, "tenant-1", "item-1", "proj-1", int64(1)).
		Return(nil, db.ErrAllocationNotFound)

	w := doJSON(t, newTestRouter(ledger), http.MethodPost, "/api/transactions/return",
		`{"item_id":"item-1","project_id":"proj-1","quantity":1}`)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTransactionsEmptyIs404(t *testing.T) {
	ledger := new(MockLedger)
	ledger.On("ListTransactions", mock.Anything, "tenant-1", mock.AnythingOfType("db.TransactionFilter")).
		Return(db.ListTransactionsResult{}, nil)

	w := doJSON(t, newTestRouter(ledger), http.MethodGet, "/api/transactions", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTransactionsPassesFilters(t *testing.T) {
	ledger := new(MockLedger)
	ledger.On("ListTransactions", mock.Anything, "tenant-1", db.TransactionFilter{
		ItemID: "item-1", Action: models.ActionBorrow, Page: 2, Size: 10,
	}).Return(db.ListTransactionsResult{
		Transactions: []models.Transaction{{ID: "txn-1"}},
		Total:        11,
	}, nil)

	w := doJSON(t, newTestRouter(ledger), http.MethodGet,
		"/api/transactions?item_id=item-1&action=borrow&page=2&size=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	ledger.AssertExpectations(t)
}

func TestGetTransactionNotFound(t *testing.T) {
	ledger := new(MockLedger)
	ledger.On("FindTransactionByID", mock.Anything, "tenant-1", "nope").
		Return(nil, db.ErrTransactionNotFound)

	w := doJSON(t, newTestRouter(ledger), http.MethodGet, "/api/transactions/nope", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestBorrowSucceedsWhenNotificationFails(t *testing.T) {
	ledger := new(MockLedger)
	txn := &models.Transaction{ID: "txn-1", Quantity: 1, Action: models.ActionBorrow}
	ledger.On("BorrowItem", mock.Anything, "tenant-1", "item-1", "proj-1", int64(1)).Return(txn, nil)
	ledger.On("CreateNotification", mock.Anything, mock.Anything).Return(db.ErrNotificationNotFound)

	w := doJSON(t, newTestRouter(ledger), http.MethodPost, "/api/transactions/borrow",
		`{"item_id":"item-1","project_id":"proj-1","quantity":1}`)

	require.Equal(t, http.StatusCreated, w.Code)
}
