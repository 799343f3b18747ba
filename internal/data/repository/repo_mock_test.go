package repository

import (
	"context"
	"testing"

	"station-dispatch/pkg/database"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// mockDB adapts pgxmock's pool to database.PgxIface. Only Begin needs
// translating: pgx.Tx already satisfies database.Tx.
type mockDB struct {
	pgxmock.PgxPoolIface
}

func (m *mockDB) Begin(ctx context.Context) (database.Tx, error) {
	return m.PgxPoolIface.Begin(ctx)
}

func newMockDB(t *testing.T) (*mockDB, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return &mockDB{PgxPoolIface: mock}, mock
}
