package database_test

import (
	"context"
	"io"
	"testing"

	"github.com/deppfellow/events-api/internal/database"
	"github.com/deppfellow/events-api/internal/database/dbtest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsCreateSchema(t *testing.T) {
	pool := dbtest.NewMigratedPool(t)
	ctx := context.Background()

	var version int32
	require.NoError(t, pool.QueryRow(ctx, `SELECT version FROM schema_version`).Scan(&version))
	assert.Equal(t, int32(2), version)

	_, err := pool.Exec(ctx, `
INSERT INTO events (id, name, starts_at, ends_at)
VALUES ('bad-window', 'x', '2026-01-02T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "events_ends_at_check")
}

func TestMigrateIsIdempotent(t *testing.T) {
	pool := dbtest.NewMigratedPool(t)
	logger := zerolog.New(io.Discard)

	require.NoError(t, database.MigrateDSN(context.Background(), &logger, pool.Config().ConnString()))
}

func TestTicketsCascadeWithEvent(t *testing.T) {
	pool := dbtest.NewMigratedPool(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `INSERT INTO events (id, name, starts_at) VALUES ('e1', 'Gig', NOW())`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
INSERT INTO tickets (id, event_id, holder_name, holder_email, price, status)
VALUES ('t1', 'e1', 'Ada', 'ada@example.com', 12.50, 'paid')`)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `DELETE FROM events WHERE id = 'e1'`)
	require.NoError(t, err)

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&count))
	assert.Zero(t, count)
}
