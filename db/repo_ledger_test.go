package db

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Evarmedia/jumbly-BE-sub000/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testDB      *gorm.DB
	pgContainer *postgres.PostgresContainer
)

// TestMain sets up the test database before running tests.
func TestMain(m *testing.M) {
	ctx := context.Background()

	var dsn string
	var err error

	if host := os.Getenv("TEST_DB_HOST"); host != "" {
		port := os.Getenv("TEST_DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("TEST_DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("TEST_DB_PASSWORD")
		if password == "" {
			password = "postgres"
		}
		name := os.Getenv("TEST_DB_NAME")
		if name == "" {
			name = "test_db"
		}
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, name)
	} else {
		pgContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("test_db"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			fmt.Printf("Failed to start PostgreSQL container: %v\n", err)
			os.Exit(1)
		}
		dsn, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Printf("Failed to get connection string: %v\n", err)
			_ = pgContainer.Terminate(ctx)
			os.Exit(1)
		}
	}

	testDB, err = gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
		os.Exit(1)
	}
	if err := Migrate(testDB); err != nil {
		fmt.Printf("Failed to migrate: %v\n", err)
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
		os.Exit(1)
	}

	code := m.Run()
	if pgContainer != nil {
		_ = pgContainer.Terminate(ctx)
	}
	os.Exit(code)
}

type fixture struct {
	tenantID  string
	projectID string
	itemID    string
}

// seedLedger creates a tenant with one project and one item holding qty units.
func seedLedger(t *testing.T, qty int64) fixture {
	t.Helper()
	repo := NewRepo(testDB)
	ctx := context.Background()

	tenant, err := repo.CreateTenant(ctx, "tenant-"+uuid.NewString())
	require.NoError(t, err)

	project := &models.Project{
		ID: uuid.NewString(), TenantID: tenant.ID, StatusID: "active", Name: "proj-" + uuid.NewString(),
	}
	require.NoError(t, repo.CreateProject(ctx, project))

	item := &models.Item{
		ID: uuid.NewString(), TenantID: tenant.ID, Name: "item-" + uuid.NewString(), Quantity: qty,
	}
	require.NoError(t, repo.CreateItem(ctx, item))

	return fixture{tenantID: tenant.ID, projectID: project.ID, itemID: item.ID}
}

func itemQty(t *testing.T, itemID string) int64 {
	t.Helper()
	var it models.Item
	require.NoError(t, testDB.First(&it, "id = ?", itemID).Error)
	return it.Quantity
}

func TestBorrowMovesPoolToAllocation(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 10)

	txn, err := repo.BorrowItem(ctx, f.tenantID, f.itemID, f.projectID, 4)
	require.NoError(t, err)
	require.Equal(t, models.ActionBorrow, txn.Action)
	require.Equal(t, int64(4), txn.Quantity)

	require.Equal(t, int64(6), itemQty(t, f.itemID))
	alloc, ok, err := repo.Allocation(ctx, f.projectID, f.itemID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(4), alloc.Quantity)
}

func TestReturnRestoresPoolAndDeletesAllocationAtZero(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 10)

	_, err := repo.BorrowItem(ctx, f.tenantID, f.itemID, f.projectID, 4)
	require.NoError(t, err)

	txn, err := repo.ReturnItem(ctx, f.tenantID, f.itemID, f.projectID, 4)
	require.NoError(t, err)
	require.Equal(t, models.ActionReturn, txn.Action)

	require.Equal(t, int64(10), itemQty(t, f.itemID))
	_, ok, err := repo.Allocation(ctx, f.projectID, f.itemID)
	require.NoError(t, err)
	require.False(t, ok, "allocation row must be gone after the last unit is returned")
}

func TestPartialReturnKeepsAllocation(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 10)

	_, err := repo.BorrowItem(ctx, f.tenantID, f.itemID, f.projectID, 6)
	require.NoError(t, err)
	_, err = repo.ReturnItem(ctx, f.tenantID, f.itemID, f.projectID, 2)
	require.NoError(t, err)

	require.Equal(t, int64(6), itemQty(t, f.itemID))
	alloc, ok, err := repo.Allocation(ctx, f.projectID, f.itemID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(4), alloc.Quantity)
}

func TestRepeatedBorrowAccumulates(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 10)

	_, err := repo.BorrowItem(ctx, f.tenantID, f.itemID, f.projectID, 3)
	require.NoError(t, err)
	_, err = repo.BorrowItem(ctx, f.tenantID, f.itemID, f.projectID, 2)
	require.NoError(t, err)

	require.Equal(t, int64(5), itemQty(t, f.itemID))
	alloc, ok, err := repo.Allocation(ctx, f.projectID, f.itemID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(5), alloc.Quantity)
}

func TestBorrowInsufficientPoolRejectedWithoutStateChange(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 3)

	_, err := repo.BorrowItem(ctx, f.tenantID, f.itemID, f.projectID, 5)
	require.ErrorIs(t, err, ErrInsufficientStock)

	require.Equal(t, int64(3), itemQty(t, f.itemID))
	_, ok, err := repo.Allocation(ctx, f.projectID, f.itemID)
	require.NoError(t, err)
	require.False(t, ok)

	var n int64
	require.NoError(t, testDB.Model(&models.Transaction{}).
		Where("item_id = ?", f.itemID).Count(&n).Error)
	require.Zero(t, n, "rejected borrow must not append an audit row")
}

func TestOverReturnRejectedWithoutStateChange(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 10)

	_, err := repo.BorrowItem(ctx, f.tenantID, f.itemID, f.projectID, 2)
	require.NoError(t, err)

	_, err = repo.ReturnItem(ctx, f.tenantID, f.itemID, f.projectID, 5)
	require.ErrorIs(t, err, ErrOverReturn)

	require.Equal(t, int64(8), itemQty(t, f.itemID))
	alloc, ok, err := repo.Allocation(ctx, f.projectID, f.itemID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(2), alloc.Quantity)
}

func TestNonPositiveQuantityRejected(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 10)

	for _, qty := range []int64{0, -3} {
		_, err := repo.BorrowItem(ctx, f.tenantID, f.itemID, f.projectID, qty)
		require.ErrorIs(t, err, ErrInvalidQuantity)
		_, err = repo.ReturnItem(ctx, f.tenantID, f.itemID, f.projectID, qty)
		require.ErrorIs(t, err, ErrInvalidQuantity)
	}
}

func TestReturnWithoutAllocationRejected(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 10)

	_, err := repo.ReturnItem(ctx, f.tenantID, f.itemID, f.projectID, 1)
	require.ErrorIs(t, err, ErrAllocationNotFound)
}

func TestBorrowUnknownItemOrProject(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 10)

	_, err := repo.BorrowItem(ctx, f.tenantID, uuid.NewString(), f.projectID, 1)
	require.ErrorIs(t, err, ErrItemNotFound)

	_, err = repo.BorrowItem(ctx, f.tenantID, f.itemID, uuid.NewString(), 1)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestCrossTenantBorrowRejected(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 10)
	other := seedLedger(t, 10)

	// A caller from another tenant cannot see the item at all.
	_, err := repo.BorrowItem(ctx, other.tenantID, f.itemID, other.projectID, 1)
	require.ErrorIs(t, err, ErrItemNotFound)
	require.Equal(t, int64(10), itemQty(t, f.itemID))
}

func TestEveryMutationAppendsOneAuditRow(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 10)

	_, err := repo.BorrowItem(ctx, f.tenantID, f.itemID, f.projectID, 4)
	require.NoError(t, err)
	_, err = repo.ReturnItem(ctx, f.tenantID, f.itemID, f.projectID, 1)
	require.NoError(t, err)

	var txns []models.Transaction
	require.NoError(t, testDB.
		Where("item_id = ?", f.itemID).
		Order("date ASC").
		Find(&txns).Error)
	require.Len(t, txns, 2)
	require.Equal(t, models.ActionBorrow, txns[0].Action)
	require.Equal(t, int64(4), txns[0].Quantity)
	require.Equal(t, models.ActionReturn, txns[1].Action)
	require.Equal(t, int64(1), txns[1].Quantity)
}

func TestListTransactionsOrderAndFilter(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 10)

	_, err := repo.BorrowItem(ctx, f.tenantID, f.itemID, f.projectID, 3)
	require.NoError(t, err)
	_, err = repo.ReturnItem(ctx, f.tenantID, f.itemID, f.projectID, 1)
	require.NoError(t, err)

	res, err := repo.ListTransactions(ctx, f.tenantID, TransactionFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(2), res.Total)
	// Date descending: the return came last.
	require.Equal(t, models.ActionReturn, res.Transactions[0].Action)
	require.NotNil(t, res.Transactions[0].Item)
	require.NotNil(t, res.Transactions[0].Project)

	res, err = repo.ListTransactions(ctx, f.tenantID, TransactionFilter{Action: models.ActionBorrow})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Total)

	// Another tenant sees nothing.
	other := seedLedger(t, 1)
	res, err = repo.ListTransactions(ctx, other.tenantID, TransactionFilter{})
	require.NoError(t, err)
	require.Zero(t, res.Total)
}

func TestFindTransactionByID(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 10)

	txn, err := repo.BorrowItem(ctx, f.tenantID, f.itemID, f.projectID, 2)
	require.NoError(t, err)

	got, err := repo.FindTransactionByID(ctx, f.tenantID, txn.ID)
	require.NoError(t, err)
	require.Equal(t, txn.ID, got.ID)
	require.NotNil(t, got.Item)
	require.NotNil(t, got.Project)

	_, err = repo.FindTransactionByID(ctx, f.tenantID, uuid.NewString())
	require.ErrorIs(t, err, ErrTransactionNotFound)

	// Not visible from another tenant.
	other := seedLedger(t, 1)
	_, err = repo.FindTransactionByID(ctx, other.tenantID, txn.ID)
	require.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestConcurrentBorrowsNeverOverdraw(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 10)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, qty := range []int64{6, 7} {
		wg.Add(1)
		go func(i int, qty int64) {
			defer wg.Done()
			_, errs[i] = repo.BorrowItem(ctx, f.tenantID, f.itemID, f.projectID, qty)
		}(i, qty)
	}
	wg.Wait()

	// 6+7 > 10: the row lock forces one of the two to lose.
	var failed int
	for _, err := range errs {
		if err != nil {
			require.ErrorIs(t, err, ErrInsufficientStock)
			failed++
		}
	}
	require.Equal(t, 1, failed)

	pool := itemQty(t, f.itemID)
	require.GreaterOrEqual(t, pool, int64(0))
	alloc, ok, err := repo.Allocation(ctx, f.projectID, f.itemID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(10), pool+alloc.Quantity, "pool conservation")
}

func TestReconcileCleanAfterAnySequence(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 20)

	_, err := repo.BorrowItem(ctx, f.tenantID, f.itemID, f.projectID, 5)
	require.NoError(t, err)
	_, err = repo.BorrowItem(ctx, f.tenantID, f.itemID, f.projectID, 3)
	require.NoError(t, err)
	_, err = repo.ReturnItem(ctx, f.tenantID, f.itemID, f.projectID, 4)
	require.NoError(t, err)

	report, err := repo.ReconcileInventory(ctx, f.tenantID)
	require.NoError(t, err)
	require.Empty(t, report.Drift)
	require.Equal(t, 1, report.CheckedAllocations)
}

func TestReconcileDetectsDrift(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 20)

	_, err := repo.BorrowItem(ctx, f.tenantID, f.itemID, f.projectID, 5)
	require.NoError(t, err)

	// Corrupt the materialized balance behind the ledger's back.
	require.NoError(t, testDB.Model(&models.ProjectInventory{}).
		Where("project_id = ? AND item_id = ?", f.projectID, f.itemID).
		Update("quantity", 3).Error)

	report, err := repo.ReconcileInventory(ctx, f.tenantID)
	require.NoError(t, err)
	require.Len(t, report.Drift, 1)
	require.Equal(t, f.itemID, report.Drift[0].ItemID)
	require.Equal(t, int64(5), report.Drift[0].LedgerQty)
	require.Equal(t, int64(3), report.Drift[0].RecordedQty)
}

func TestDeleteItemBlockedWhileAllocated(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 10)

	_, err := repo.BorrowItem(ctx, f.tenantID, f.itemID, f.projectID, 1)
	require.NoError(t, err)

	require.ErrorIs(t, repo.DeleteItem(ctx, f.tenantID, f.itemID), ErrItemAllocated)

	_, err = repo.ReturnItem(ctx, f.tenantID, f.itemID, f.projectID, 1)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteItem(ctx, f.tenantID, f.itemID))
}

func TestDuplicateItemNamePerTenant(t *testing.T) {
	repo := NewRepo(testDB)
	ctx := context.Background()
	f := seedLedger(t, 1)

	var existing models.Item
	require.NoError(t, testDB.First(&existing, "id = ?", f.itemID).Error)

	dup := &models.Item{ID: uuid.NewString(), TenantID: f.tenantID, Name: existing.Name, Quantity: 1}
	require.ErrorIs(t, repo.CreateItem(ctx, dup), ErrDuplicateItem)

	// Case-insensitive duplicate is also rejected.
	upper := &models.Item{
		ID: uuid.NewString(), TenantID: f.tenantID,
		Name: strings.ToUpper(existing.Name), Quantity: 1,
	}
	require.ErrorIs(t, repo.CreateItem(ctx, upper), ErrDuplicateItem)

	// Same name in a different tenant is fine.
	other := seedLedger(t, 1)
	ok := &models.Item{ID: uuid.NewString(), TenantID: other.tenantID, Name: existing.Name, Quantity: 1}
	require.NoError(t, repo.CreateItem(ctx, ok))
}
