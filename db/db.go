package db

import (
	"fmt"
	"log"

	"github.com/Evarmedia/jumbly-BE-sub000/config"
	"github.com/Evarmedia/jumbly-BE-sub000/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB(cfg config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBPort,
	)

	var err error
	// Ownership is enforced by tenant_id filters at the repo boundary, not by
	// foreign keys; the append-only transaction log must outlive catalog rows.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Tenant{}, &models.Role{}, &models.User{},
		&models.Item{}, &models.Project{},
		&models.ProjectInventory{}, &models.Transaction{},
		&models.Notification{}, &models.Feedback{},
	); err != nil {
		return err
	}

	// Item names are unique per tenant, case-insensitive.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_tenant_name
	  ON %s (tenant_id, LOWER(name));
	`, models.ItemTable, models.ItemTable)).Error; err != nil {
		return err
	}

	// At most one allocation row per (project, item).
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_project_item
	  ON %s (project_id, item_id);
	`, models.ProjectInventoryTable, models.ProjectInventoryTable)).Error; err != nil {
		return err
	}

	// The pool can never go negative and no zero-quantity allocation persists;
	// the ledger enforces both, the constraints are the backstop.
	for _, stmt := range []string{
		fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s_quantity_nonnegative;`,
			models.ItemTable, models.ItemTable),
		fmt.Sprintf(`ALTER TABLE %s ADD CONSTRAINT %s_quantity_nonnegative CHECK (quantity >= 0);`,
			models.ItemTable, models.ItemTable),
		fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s_quantity_positive;`,
			models.ProjectInventoryTable, models.ProjectInventoryTable),
		fmt.Sprintf(`ALTER TABLE %s ADD CONSTRAINT %s_quantity_positive CHECK (quantity > 0);`,
			models.ProjectInventoryTable, models.ProjectInventoryTable),
		fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s_quantity_positive;`,
			models.TransactionTable, models.TransactionTable),
		fmt.Sprintf(`ALTER TABLE %s ADD CONSTRAINT %s_quantity_positive CHECK (quantity >= 1);`,
			models.TransactionTable, models.TransactionTable),
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	// Ledger listings are always date-descending within a tenant.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_tenant_date_desc
	  ON %s (tenant_id, date DESC);
	`, models.TransactionTable, models.TransactionTable)).Error; err != nil {
		return err
	}

	return seedRoles(db)
}
