package app

import (
	"context"

	"github.com/Evarmedia/jumbly-BE-sub000/config"
	"github.com/Evarmedia/jumbly-BE-sub000/db"
	"github.com/Evarmedia/jumbly-BE-sub000/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BootstrapFirstAdmin creates the first tenant and admin account on an empty
// database so a fresh deployment can log in. No-op once any user exists.
func BootstrapFirstAdmin(ctx context.Context, cfg config.Config, repo *db.Repo, log *zap.Logger) {
	if cfg.BootstrapEmail == "" || cfg.BootstrapPassword == "" {
		return
	}
	n, err := repo.CountUsers(ctx)
	if err != nil || n > 0 {
		return
	}

	tenant, err := repo.FindTenantByName(ctx, cfg.BootstrapTenant)
	if err != nil {
		tenant, err = repo.CreateTenant(ctx, cfg.BootstrapTenant)
		if err != nil {
			log.Error("bootstrap tenant failed", zap.Error(err))
			return
		}
	}

	role, err := repo.FindRoleByName(ctx, models.RoleAdmin)
	if err != nil {
		log.Error("bootstrap role lookup failed", zap.Error(err))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.BootstrapPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("bootstrap hash failed", zap.Error(err))
		return
	}

	u := &models.User{
		ID:           uuid.NewString(),
		TenantID:     tenant.ID,
		RoleID:       role.ID,
		Email:        cfg.BootstrapEmail,
		PasswordHash: string(hash),
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		log.Error("bootstrap admin failed", zap.Error(err))
		return
	}
	log.Info("created first admin", zap.String("email", u.Email), zap.String("tenant", tenant.Name))
}
