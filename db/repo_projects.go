package db

import (
	"context"
	"errors"

	"github.com/Evarmedia/jumbly-BE-sub000/models"

	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

func (r *Repo) CreateProject(ctx context.Context, p *models.Project) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *Repo) FindProjectByID(ctx context.Context, tenantID, id string) (*models.Project, error) {
	var p models.Project
	if err := r.DB.WithContext(ctx).
		First(&p, "id = ? AND tenant_id = ?", id, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

type ListProjectsResult struct {
	Projects []models.Project `json:"projects"`
	Total    int64            `json:"total"`
}

func (r *Repo) ListProjects(ctx context.Context, tenantID string, page, size int) (ListProjectsResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Project{}).Where("tenant_id = ?", tenantID)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListProjectsResult{}, err
	}

	var projects []models.Project
	if err := tx.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&projects).Error; err != nil {
		return ListProjectsResult{}, err
	}
	return ListProjectsResult{Projects: projects, Total: total}, nil
}

// ProjectAllocations lists the current balances for one project.
func (r *Repo) ProjectAllocations(ctx context.Context, tenantID, projectID string) ([]models.ProjectInventory, error) {
	if _, err := r.FindProjectByID(ctx, tenantID, projectID); err != nil {
		return nil, err
	}
	var allocs []models.ProjectInventory
	err := r.DB.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("updated_at DESC").
		Find(&allocs).Error
	return allocs, err
}
