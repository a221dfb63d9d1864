package db

import (
	"context"
	"errors"

	"github.com/Evarmedia/jumbly-BE-sub000/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

func (r *Repo) CreateNotification(ctx context.Context, n *models.Notification) error {
	return r.DB.WithContext(ctx).Create(n).Error
}

type ListNotificationsResult struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
}

// ListNotifications returns the user's own notifications plus tenant-wide ones.
func (r *Repo) ListNotifications(ctx context.Context, tenantID, userID string, unreadOnly bool, page, size int) (ListNotificationsResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("tenant_id = ? AND (user_id IS NULL OR user_id = ?)", tenantID, userID)
	if unreadOnly {
		tx = tx.Where("read = FALSE")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListNotificationsResult{}, err
	}

	var ns []models.Notification
	if err := tx.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&ns).Error; err != nil {
		return ListNotificationsResult{}, err
	}
	return ListNotificationsResult{Notifications: ns, Total: total}, nil
}

func (r *Repo) MarkNotificationRead(ctx context.Context, tenantID, userID, id string) error {
	res := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND tenant_id = ? AND (user_id IS NULL OR user_id = ?)", id, tenantID, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// Feedback

func (r *Repo) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	return r.DB.WithContext(ctx).Create(f).Error
}

type ListFeedbackResult struct {
	Feedback []models.Feedback `json:"feedback"`
	Total    int64             `json:"total"`
}

func (r *Repo) ListFeedback(ctx context.Context, tenantID string, page, size int) (ListFeedbackResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Feedback{}).Where("tenant_id = ?", tenantID)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListFeedbackResult{}, err
	}

	var fs []models.Feedback
	if err := tx.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&fs).Error; err != nil {
		return ListFeedbackResult{}, err
	}
	return ListFeedbackResult{Feedback: fs, Total: total}, nil
}
