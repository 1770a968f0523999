package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"claimrelay/internal/types"
)

func TestAPIKeyRepository_FindActiveByPrefix(t *testing.T) {
	db := new(mockDBTX)
	repo := NewAPIKeyRepository(db)

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	used := created.Add(24 * time.Hour)

	rows := &stringMockRows{
		scanFns: []func(dest ...any) error{
			func(dest ...any) error {
				*dest[0].(*int64) = 7
				*dest[1].(*string) = "ci-pipeline"
				*dest[2].(*string) = "crk_12ab"
				*dest[3].(*string) = "$2a$10$hash"
				*dest[4].(**time.Time) = &used
				*dest[5].(*time.Time) = created
				return nil
			},
			func(dest ...any) error {
				*dest[0].(*int64) = 8
				*dest[1].(*string) = "ops-dashboard"
				*dest[2].(*string) = "crk_12ab"
				*dest[3].(*string) = "$2a$10$otherhash"
				*dest[4].(**time.Time) = nil
				*dest[5].(*time.Time) = created
				return nil
			},
		},
	}
	db.On("Query", mock.Anything, mock.AnythingOfType("string"), []any{"crk_12ab"}).Return(rows, nil)

	keys, err := repo.FindActiveByPrefix(context.Background(), "crk_12ab")
	require.NoError(t, err)
	require.Len(t, keys, 2)

	assert.Equal(t, int64(7), keys[0].ID)
	assert.Equal(t, "ci-pipeline", keys[0].Name)
	require.NotNil(t, keys[0].LastUsedAt)
	assert.Equal(t, used, *keys[0].LastUsedAt)

	assert.Equal(t, int64(8), keys[1].ID)
	assert.Nil(t, keys[1].LastUsedAt)
	db.AssertExpectations(t)
}

func TestAPIKeyRepository_FindActiveByPrefix_QueryError(t *testing.T) {
	db := new(mockDBTX)
	repo := NewAPIKeyRepository(db)

	db.On("Query", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(nil, errors.New("connection refused"))

	_, err := repo.FindActiveByPrefix(context.Background(), "crk_12ab")
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeInternalDB, appErr.Code)
}

func TestAPIKeyRepository_TouchUsed(t *testing.T) {
	db := new(mockDBTX)
	repo := NewAPIKeyRepository(db)

	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), []any{int64(7)}).
		Return(pgconn.CommandTag{}, nil)

	require.NoError(t, repo.TouchUsed(context.Background(), 7))
	db.AssertExpectations(t)
}

func TestAPIKeyRepository_TouchUsed_ExecError(t *testing.T) {
	db := new(mockDBTX)
	repo := NewAPIKeyRepository(db)

	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.CommandTag{}, errors.New("deadlock detected"))

	err := repo.TouchUsed(context.Background(), 7)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeInternalDB, appErr.Code)
}
