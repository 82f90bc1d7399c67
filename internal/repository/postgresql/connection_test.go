package postgresql_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/kurochkinivan/receipt_reporter/internal/config"
	"github.com/kurochkinivan/receipt_reporter/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	ping := func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}

	retry := postgresql.Retry(slog.New(slog.DiscardHandler), ping, 5, time.Millisecond)

	require.NoError(t, retry(context.Background()))
	assert.Equal(t, 3, calls)
}

func TestRetry_GivesUp(t *testing.T) {
	t.Parallel()

	calls := 0
	ping := func(context.Context) error {
		calls++
		return errors.New("connection refused")
	}

	retry := postgresql.Retry(slog.New(slog.DiscardHandler), ping, 2, time.Millisecond)

	require.Error(t, retry(context.Background()))
	assert.Equal(t, 3, calls)
}

func TestRetry_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ping := func(context.Context) error { return errors.New("connection refused") }

	retry := postgresql.Retry(slog.New(slog.DiscardHandler), ping, 5, time.Hour)

	require.ErrorIs(t, retry(ctx), context.Canceled)
}

func TestConnectionURL(t *testing.T) {
	t.Parallel()

	url := postgresql.ConnectionURL(config.PostgreSQL{
		Host:     "db",
		Port:     "5432",
		Username: "user",
		Password: "p@ss",
		DBName:   "receipts",
	})

	assert.True(t, strings.HasPrefix(url, "postgres://user:p%40ss@db:5432/receipts"))
	assert.Contains(t, url, "sslmode=disable")
}
