package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"finfetcher/internal/platform/config"
)

func TestDialectorFor(t *testing.T) {
	t.Parallel()

	for _, driver := range []string{"", "sqlite", "postgres"} {
		open, err := DialectorFor(driver)
		require.NoError(t, err, driver)
		assert.NotNil(t, open, driver)
	}

	_, err := DialectorFor("mysql")
	assert.Error(t, err)
}

func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	db, err := ConnectWithRetry(context.Background(), "test-dsn", time.Second, time.Millisecond, func(dsn string) (*gorm.DB, error) {
		attempts++
		assert.Equal(t, "test-dsn", dsn)
		return mockDB, nil
	})

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 1, attempts)
}

func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	db, err := ConnectWithRetry(context.Background(), "test-dsn", time.Second, 5*time.Millisecond, func(string) (*gorm.DB, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	})

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 3, attempts)
}

func TestConnectWithRetry_Timeout(t *testing.T) {
	t.Parallel()

	refused := errors.New("connection refused")
	attempts := 0
	_, err := ConnectWithRetry(context.Background(), "test-dsn", 20*time.Millisecond, 5*time.Millisecond, func(string) (*gorm.DB, error) {
		attempts++
		return nil, refused
	})

	assert.ErrorIs(t, err, refused)
	assert.GreaterOrEqual(t, attempts, 1)
}

func TestConnectWithRetry_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ConnectWithRetry(ctx, "test-dsn", time.Minute, time.Second, func(string) (*gorm.DB, error) {
		return nil, errors.New("connection refused")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen_SQLiteMigrates(t *testing.T) {
	t.Parallel()

	db, err := Open(context.Background(), config.DBConfig{Driver: "sqlite", DSN: ":memory:", ConnectTimeout: time.Second, AutoMigrate: true})
	require.NoError(t, err)

	for _, table := range []string{"candles", "fetch_states", "symbols"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
