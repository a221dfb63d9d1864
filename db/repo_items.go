package db

import (
	"context"
	"errors"
	"strings"

	"github.com/Evarmedia/jumbly-BE-sub000/models"

	"gorm.io/gorm"
)

var (
	ErrItemNotFound  = errors.New("item not found")
	ErrDuplicateItem = errors.New("item name already exists for this tenant")
	ErrItemAllocated = errors.New("item has open allocations")
)

func (r *Repo) CreateItem(ctx context.Context, it *models.Item) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Item{}).
		Where("tenant_id = ? AND LOWER(name) = ?", it.TenantID, strings.ToLower(it.Name)).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrDuplicateItem
	}
	return r.DB.WithContext(ctx).Create(it).Error
}

func (r *Repo) FindItemByID(ctx context.Context, tenantID, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).
		First(&it, "id = ? AND tenant_id = ?", id, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

type ListItemsResult struct {
	Items []models.Item `json:"items"`
	Total int64         `json:"total"`
}

func (r *Repo) ListItems(ctx context.Context, tenantID, q string, page, size int) (ListItemsResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Item{}).Where("tenant_id = ?", tenantID)
	if q = strings.TrimSpace(q); q != "" {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListItemsResult{}, err
	}

	var items []models.Item
	if err := tx.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&items).Error; err != nil {
		return ListItemsResult{}, err
	}
	return ListItemsResult{Items: items, Total: total}, nil
}

// UpdateItem edits name/description and, for direct stock corrections, the pool
// quantity. Borrow/return never go through here.
func (r *Repo) UpdateItem(ctx context.Context, tenantID, id string, updates map[string]interface{}) (*models.Item, error) {
	if name, ok := updates["name"].(string); ok {
		var n int64
		if err := r.DB.WithContext(ctx).Model(&models.Item{}).
			Where("tenant_id = ? AND LOWER(name) = ? AND id <> ?", tenantID, strings.ToLower(name), id).
			Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, ErrDuplicateItem
		}
	}
	res := r.DB.WithContext(ctx).Model(&models.Item{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrItemNotFound
	}
	return r.FindItemByID(ctx, tenantID, id)
}

// DeleteItem refuses while any project still holds units of the item.
func (r *Repo) DeleteItem(ctx context.Context, tenantID, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.ProjectInventory{}).
			Where("item_id = ?", id).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrItemAllocated
		}
		res := tx.Where("id = ? AND tenant_id = ?", id, tenantID).Delete(&models.Item{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrItemNotFound
		}
		return nil
	})
}
