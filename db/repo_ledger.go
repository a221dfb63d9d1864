package db

import (
	"context"
	"errors"
	"time"

	"github.com/Evarmedia/jumbly-BE-sub000/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrInsufficientStock   = errors.New("insufficient pool quantity")
	ErrOverReturn          = errors.New("cannot return more than currently allocated")
	ErrAllocationNotFound  = errors.New("no allocation for this project and item")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// BorrowItem moves qty units from the tenant pool to a project allocation and
// appends the audit row, all inside one database transaction. The item row is
// locked first, then the allocation row; ReturnItem takes the same locks in the
// same order, so two concurrent calls against one item serialize instead of
// racing past the availability check.
func (r *Repo) BorrowItem(ctx context.Context, tenantID, itemID, projectID string, qty int64) (*models.Transaction, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	var txn *models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.Item
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&it, "id = ? AND tenant_id = ?", itemID, tenantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}
		var pr models.Project
		if err := tx.First(&pr, "id = ? AND tenant_id = ?", projectID, tenantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}
		if it.Quantity < qty {
			return ErrInsufficientStock
		}

		if err := tx.Model(&models.Item{}).
			Where("id = ?", it.ID).
			Update("quantity", gorm.Expr("quantity - ?", qty)).Error; err != nil {
			return err
		}

		var alloc models.ProjectInventory
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&alloc, "project_id = ? AND item_id = ?", projectID, itemID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			alloc = models.ProjectInventory{
				ID:        uuid.NewString(),
				ProjectID: projectID,
				ItemID:    itemID,
				Quantity:  qty,
			}
			if err := tx.Create(&alloc).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&models.ProjectInventory{}).
				Where("id = ?", alloc.ID).
				Update("quantity", gorm.Expr("quantity + ?", qty)).Error; err != nil {
				return err
			}
		}

		t := &models.Transaction{
			ID:        uuid.NewString(),
			TenantID:  tenantID,
			ItemID:    itemID,
			ProjectID: projectID,
			Quantity:  qty,
			Action:    models.ActionBorrow,
			Date:      time.Now().UTC(),
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		txn = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// ReturnItem moves qty units from a project allocation back to the pool. The
// allocation row is deleted when it reaches exactly zero; a return larger than
// the current balance is rejected whole.
func (r *Repo) ReturnItem(ctx context.Context, tenantID, itemID, projectID string, qty int64) (*models.Transaction, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	var txn *models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Same lock order as BorrowItem: item first, allocation second.
		var it models.Item
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&it, "id = ? AND tenant_id = ?", itemID, tenantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		var alloc models.ProjectInventory
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&alloc, "project_id = ? AND item_id = ?", projectID, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAllocationNotFound
			}
			return err
		}
		if alloc.Quantity < qty {
			return ErrOverReturn
		}

		if alloc.Quantity == qty {
			if err := tx.Delete(&models.ProjectInventory{}, "id = ?", alloc.ID).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Model(&models.ProjectInventory{}).
				Where("id = ?", alloc.ID).
				Update("quantity", gorm.Expr("quantity - ?", qty)).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Item{}).
			Where("id = ?", it.ID).
			Update("quantity", gorm.Expr("quantity + ?", qty)).Error; err != nil {
			return err
		}

		t := &models.Transaction{
			ID:        uuid.NewString(),
			TenantID:  tenantID,
			ItemID:    itemID,
			ProjectID: projectID,
			Quantity:  qty,
			Action:    models.ActionReturn,
			Date:      time.Now().UTC(),
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		txn = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// Allocation returns the current balance for (project, item). The second return
// distinguishes "no allocation" from a real zero so callers never have to infer
// state from row absence.
func (r *Repo) Allocation(ctx context.Context, projectID, itemID string) (*models.ProjectInventory, bool, error) {
	var alloc models.ProjectInventory
	err := r.DB.WithContext(ctx).
		First(&alloc, "project_id = ? AND item_id = ?", projectID, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &alloc, true, nil
}

type TransactionFilter struct {
	ItemID    string
	ProjectID string
	Action    string
	Page      int
	Size      int
}

type ListTransactionsResult struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int64                `json:"total"`
}

func (r *Repo) ListTransactions(ctx context.Context, tenantID string, f TransactionFilter) (ListTransactionsResult, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Size <= 0 || f.Size > 100 {
		f.Size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Transaction{}).Where("tenant_id = ?", tenantID)
	if f.ItemID != "" {
		tx = tx.Where("item_id = ?", f.ItemID)
	}
	if f.ProjectID != "" {
		tx = tx.Where("project_id = ?", f.ProjectID)
	}
	if f.Action != "" {
		tx = tx.Where("action = ?", f.Action)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListTransactionsResult{}, err
	}

	var txns []models.Transaction
	if err := tx.Preload("Item").Preload("Project").
		Order("date DESC").
		Offset((f.Page - 1) * f.Size).
		Limit(f.Size).
		Find(&txns).Error; err != nil {
		return ListTransactionsResult{}, err
	}
	return ListTransactionsResult{Transactions: txns, Total: total}, nil
}

func (r *Repo) FindTransactionByID(ctx context.Context, tenantID, id string) (*models.Transaction, error) {
	var t models.Transaction
	err := r.DB.WithContext(ctx).Preload("Item").Preload("Project").
		First(&t, "id = ? AND tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
