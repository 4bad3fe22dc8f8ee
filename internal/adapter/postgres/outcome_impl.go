package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/stale-reviver/internal/entity"
)

const schema = `
CREATE TABLE IF NOT EXISTS revival_outcomes (
	id             BIGSERIAL PRIMARY KEY,
	run_started_at TIMESTAMPTZ NOT NULL,
	url            TEXT NOT NULL,
	status         TEXT NOT NULL,
	reason         TEXT NOT NULL DEFAULT '',
	attempts       INTEGER NOT NULL,
	duration_ms    BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS revival_outcomes_run_idx ON revival_outcomes (run_started_at);
CREATE TABLE IF NOT EXISTS revival_failures (
	url                    TEXT PRIMARY KEY,
	failure_reason         TEXT NOT NULL,
	last_attempt_timestamp TIMESTAMPTZ NOT NULL,
	retry_count            INTEGER NOT NULL DEFAULT 1
);`

const (
	insertOutcomeSQL = `
		INSERT INTO revival_outcomes (run_started_at, url, status, reason, attempts, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6);`

	upsertFailureSQL = `
		INSERT INTO revival_failures (url, failure_reason, last_attempt_timestamp, retry_count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (url) DO UPDATE SET
			failure_reason = EXCLUDED.failure_reason,
			last_attempt_timestamp = EXCLUDED.last_attempt_timestamp,
			retry_count = revival_failures.retry_count + 1;`

	deleteFailureSQL = `DELETE FROM revival_failures WHERE url = $1;`
)

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// OutcomeRepoImpl provides a concrete implementation for the OutcomeRepository interface using PostgreSQL.
type OutcomeRepoImpl struct {
	db DB
}

// NewOutcomeRepo creates a new instance of OutcomeRepoImpl.
func NewOutcomeRepo(db DB) *OutcomeRepoImpl {
	return &OutcomeRepoImpl{db: db}
}

// EnsureSchema creates the outcome tables if they do not exist.
func (r *OutcomeRepoImpl) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveRun appends every outcome to revival_outcomes in one batch. FAILED
// URLs are upserted into revival_failures with retry_count incremented on
// conflict; OK URLs are removed from it.
func (r *OutcomeRepoImpl) SaveRun(ctx context.Context, summary entity.Summary) error {
	if len(summary.Outcomes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, o := range summary.Outcomes {
		batch.Queue(insertOutcomeSQL,
			summary.StartedAt,
			o.URL,
			string(o.Status),
			o.Reason,
			o.Attempts,
			o.Duration.Milliseconds(),
		)
		if o.OK() {
			batch.Queue(deleteFailureSQL, o.URL)
		} else {
			batch.Queue(upsertFailureSQL, o.URL, o.Reason, summary.StartedAt)
		}
	}

	br := r.db.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("save outcome batch (statement %d): %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close outcome batch: %w", err)
	}
	return nil
}
