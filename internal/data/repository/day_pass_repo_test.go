package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"station-dispatch/internal/data/entity"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayPassInsertIfAbsent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDayPassRepository(db, testLogger())

	pass := &entity.DayPass{
		ID:        uuid.New(),
		VehicleID: uuid.New(),
		PassDate:  time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Fee:       10000,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	insertPattern := regexp.QuoteMeta("INSERT INTO day_passes")

	t.Run("fresh insert", func(t *testing.T) {
		mock.ExpectExec(insertPattern).
			WithArgs(pass.ID, pass.VehicleID, pass.PassDate, pass.Fee, pass.IsActive, pass.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		created, err := repo.InsertIfAbsent(context.Background(), pass)
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("already exists", func(t *testing.T) {
		mock.ExpectExec(insertPattern).
			WithArgs(pass.ID, pass.VehicleID, pass.PassDate, pass.Fee, pass.IsActive, pass.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))

		created, err := repo.InsertIfAbsent(context.Background(), pass)
		require.NoError(t, err)
		assert.False(t, created)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
