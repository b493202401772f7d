// Package integration runs the shop services against a real PostgreSQL
// started with testcontainers.
package integration

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/migration"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
	"github.com/shopfront/backend/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testDBName     = "shop_test"
	testDBUser     = "postgres"
	testDBPassword = "admin123"
)

var (
	sharedContainer   *tcpostgres.PostgresContainer
	sharedContainerMu sync.Mutex
)

// TestDB is a migrated database inside a PostgreSQL container
type TestDB struct {
	*persistence.Database
	Container *tcpostgres.PostgresContainer
	t         *testing.T
}

// NewTestDB starts a fresh container for t and applies every migration.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	skipIfShort(t)

	container := startContainer(t)
	tdb := connect(t, container)
	migrate(t, tdb)

	t.Cleanup(func() {
		tdb.close()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})
	return tdb
}

// NewSharedTestDB reuses one container per package. Tables are truncated
// before the test runs, so tests using it must not run in parallel.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()
	skipIfShort(t)

	sharedContainerMu.Lock()
	first := sharedContainer == nil
	if first {
		sharedContainer = startContainer(t)
	}
	container := sharedContainer
	sharedContainerMu.Unlock()

	tdb := connect(t, container)
	if first {
		migrate(t, tdb)
	}
	tdb.CleanTables()
	t.Cleanup(tdb.close)
	return tdb
}

// CleanupSharedContainer terminates the shared container, call it from TestMain.
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = sharedContainer.Terminate(ctx)
		sharedContainer = nil
	}
}

// CleanTables truncates every table except the migration bookkeeping.
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to get table names")

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %q CASCADE", table)).Error; err != nil {
			tdb.t.Logf("Warning: Failed to truncate table %s: %v", table, err)
		}
	}
}

// WithTransaction runs fn in a transaction that is always rolled back.
func (tdb *TestDB) WithTransaction(fn func(tx *gorm.DB)) {
	tdb.t.Helper()

	tx := tdb.DB.Begin()
	require.NoError(tdb.t, tx.Error, "Failed to begin transaction")
	defer tx.Rollback()

	fn(tx)
}

func (tdb *TestDB) close() {
	if err := tdb.Close(); err != nil {
		tdb.t.Logf("Warning: Failed to close database: %v", err)
	}
}

func skipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
}

func startContainer(t *testing.T) *tcpostgres.PostgresContainer {
	t.Helper()

	container, err := tcpostgres.Run(context.Background(),
		"postgres:16-alpine",
		tcpostgres.WithDatabase(testDBName),
		tcpostgres.WithUsername(testDBUser),
		tcpostgres.WithPassword(testDBPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	return container
}

func connect(t *testing.T, container *tcpostgres.PostgresContainer) *TestDB {
	t.Helper()
	ctx := context.Background()

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	log := gormlogger.Discard
	if os.Getenv("TEST_DB_DEBUG") != "" {
		log = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:          "postgres",
		Host:            host,
		Port:            port.Int(),
		User:            testDBUser,
		Password:        testDBPassword,
		DBName:          testDBName,
		SSLMode:         "disable",
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}, log)
	require.NoError(t, err, "Failed to connect to database")

	return &TestDB{Database: db, Container: container, t: t}
}

func migrate(t *testing.T, tdb *TestDB) {
	t.Helper()

	sqlDB, err := tdb.DB.DB()
	require.NoError(t, err)

	m, err := migration.NewFromFS(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")
}
