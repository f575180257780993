package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds the connection used by the integration tests
type TestDatabaseSetup struct {
	DB *database.DB
}

const testSchema = `
CREATE TABLE IF NOT EXISTS employees (
	id          TEXT PRIMARY KEY,
	company_id  TEXT NOT NULL,
	user_id     TEXT,
	manager_id  TEXT,
	full_name   TEXT NOT NULL,
	id_card     TEXT,
	department  TEXT,
	region      TEXT,
	branch      TEXT,
	location    TEXT,
	deleted_at  TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS activities (
	id            TEXT PRIMARY KEY,
	employee_id   TEXT NOT NULL REFERENCES employees(id),
	company_id    TEXT NOT NULL,
	date          DATE NOT NULL,
	time_interval TEXT NOT NULL,
	description   TEXT NOT NULL,
	status        TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);
`

// NewTestDatabase connects to TEST_DATABASE_URL and skips the test when it is unset
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := database.NewPostgreSQLDB(context.Background(), database.PoolConfig{DSN: dsn})
	require.NoError(t, err, "failed to connect to test database")

	_, err = db.Exec(context.Background(), testSchema)
	require.NoError(t, err, "failed to create test schema")

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(context.Background()))

	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes all rows from the tables the tests touch
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"activities", "employees"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}
