package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Evarmedia/jumbly-BE-sub000/app"
	"github.com/Evarmedia/jumbly-BE-sub000/db"
	"github.com/Evarmedia/jumbly-BE-sub000/metrics"
	"github.com/Evarmedia/jumbly-BE-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ledger is the slice of the repository the transaction API needs. *db.Repo
// implements it; tests substitute a mock.
type Ledger interface {
	BorrowItem(ctx context.Context, tenantID, itemID, projectID string, qty int64) (*models.Transaction, error)
	ReturnItem(ctx context.Context, tenantID, itemID, projectID string, qty int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, tenantID string, f db.TransactionFilter) (db.ListTransactionsResult, error)
	FindTransactionByID(ctx context.Context, tenantID, id string) (*models.Transaction, error)
	ReconcileInventory(ctx context.Context, tenantID string) (*db.ReconcileReport, error)
	CreateNotification(ctx context.Context, n *models.Notification) error
}

type TransactionController struct {
	Ledger Ledger
	Log    *zap.Logger
}

func NewTransactionController(s *Srv) *TransactionController {
	return &TransactionController{Ledger: s.Repo, Log: s.Log}
}

type ledgerRequest struct {
	ItemID    string `json:"item_id" binding:"required"`
	ProjectID string `json:"project_id" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required"`
}

func (tc *TransactionController) Borrow(c *gin.Context) {
	tc.mutate(c, models.ActionBorrow, tc.Ledger.BorrowItem)
}

func (tc *TransactionController) Return(c *gin.Context) {
	tc.mutate(c, models.ActionReturn, tc.Ledger.ReturnItem)
}

type ledgerOp func(ctx context.Context, tenantID, itemID, projectID string, qty int64) (*models.Transaction, error)

func (tc *TransactionController) mutate(c *gin.Context, action string, op ledgerOp) {
	var in ledgerRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"message": err.Error()})
		return
	}

	userID, tenantID := app.Identity(c)
	txn, err := op(c.Request.Context(), tenantID, in.ItemID, in.ProjectID, in.Quantity)
	if err != nil {
		status, outcome := ledgerErrStatus(err)
		metrics.RecordLedgerOperation(action, outcome)
		if outcome == "error" {
			tc.Log.Error("ledger operation failed",
				zap.String("action", action),
				zap.String("item", in.ItemID),
				zap.String("project", in.ProjectID),
				zap.Error(err))
		}
		c.JSON(status, app.H{"message": err.Error()})
		return
	}
	metrics.RecordLedgerOperation(action, "ok")

	tc.notify(c.Request.Context(), tenantID, userID, txn)
	c.JSON(http.StatusCreated, app.H{"message": action + " successful", "transaction": txn})
}

// notify writes the peripheral record outside the ledger transaction; a failure
// here never fails the request.
func (tc *TransactionController) notify(ctx context.Context, tenantID, userID string, txn *models.Transaction) {
	typ := models.NotifyBorrow
	verb := "borrowed for"
	if txn.Action == models.ActionReturn {
		typ = models.NotifyReturn
		verb = "returned from"
	}
	n := &models.Notification{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		UserID:   &userID,
		Type:     typ,
		Message:  fmt.Sprintf("%d unit(s) of item %s %s project %s", txn.Quantity, txn.ItemID, verb, txn.ProjectID),
	}
	if err := tc.Ledger.CreateNotification(ctx, n); err != nil {
		tc.Log.Warn("notification write failed", zap.String("transaction", txn.ID), zap.Error(err))
	}
}

func ledgerErrStatus(err error) (int, string) {
	switch {
	case errors.Is(err, db.ErrInvalidQuantity),
		errors.Is(err, db.ErrInsufficientStock),
		errors.Is(err, db.ErrOverReturn):
		return http.StatusBadRequest, "rejected"
	case errors.Is(err, db.ErrItemNotFound),
		errors.Is(err, db.ErrProjectNotFound),
		errors.Is(err, db.ErrAllocationNotFound):
		return http.StatusNotFound, "rejected"
	default:
		return http.StatusInternalServerError, "error"
	}
}

func (tc *TransactionController) ListTransactions(c *gin.Context) {
	_, tenantID := app.Identity(c)
	page, size := pageParams(c)

	res, err := tc.Ledger.ListTransactions(c.Request.Context(), tenantID, db.TransactionFilter{
		ItemID:    c.Query("item_id"),
		ProjectID: c.Query("project_id"),
		Action:    c.Query("action"),
		Page:      page,
		Size:      size,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"message": err.Error()})
		return
	}
	if len(res.Transactions) == 0 {
		c.JSON(http.StatusNotFound, app.H{"message": "no transactions found"})
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "ok", "transactions": res.Transactions, "total": res.Total})
}

func (tc *TransactionController) GetTransaction(c *gin.Context) {
	_, tenantID := app.Identity(c)
	txn, err := tc.Ledger.FindTransactionByID(c.Request.Context(), tenantID, c.Param("transaction_id"))
	if err != nil {
		if errors.Is(err, db.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, app.H{"message": "transaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "ok", "transaction": txn})
}

// Reconcile replays the audit log against the materialized balances. Admin only.
func (tc *TransactionController) Reconcile(c *gin.Context) {
	_, tenantID := app.Identity(c)
	report, err := tc.Ledger.ReconcileInventory(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"message": err.Error()})
		return
	}
	msg := "ledger consistent"
	if len(report.Drift) > 0 {
		msg = "drift detected"
	}
	c.JSON(http.StatusOK, app.H{"message": msg, "report": report})
}
