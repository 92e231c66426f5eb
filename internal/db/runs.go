package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/edvin/launchpad/internal/model"
)

// ErrRunNotFound is returned when no run matches the given ID.
var ErrRunNotFound = errors.New("provision run not found")

// DB is the subset of pgxpool.Pool the run store uses, split out so tests
// can substitute a mock.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row
}

// RunStore persists orchestration run history. The full result document
// is stored as JSONB next to the queryable summary columns.
type RunStore struct {
	db DB
}

func NewRunStore(db DB) *RunStore {
	return &RunStore{db: db}
}

// Insert records one completed orchestration run.
func (s *RunStore) Insert(ctx context.Context, run model.ProvisionRun) error {
	resultJSON, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("marshal run result: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO provision_runs
			(id, slug, company_name, success, fully_verified, platform_url, error, result, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		run.ID, run.Slug, run.CompanyName, run.Success, run.FullyVerified,
		run.PlatformURL, run.Error, resultJSON, run.StartedAt, run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert provision run: %w", err)
	}
	return nil
}

// GetByID returns one run including its full result document.
func (s *RunStore) GetByID(ctx context.Context, id string) (*model.ProvisionRun, error) {
	var run model.ProvisionRun
	var resultJSON []byte
	err := s.db.QueryRow(ctx, `
		SELECT id, slug, company_name, success, fully_verified, platform_url, error, result, started_at, completed_at
		FROM provision_runs WHERE id = $1`, id,
	).Scan(&run.ID, &run.Slug, &run.CompanyName, &run.Success, &run.FullyVerified,
		&run.PlatformURL, &run.Error, &resultJSON, &run.StartedAt, &run.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get provision run %s: %w", id, err)
	}

	if len(resultJSON) > 0 {
		if err := json.Unmarshal(resultJSON, &run.Result); err != nil {
			return nil, fmt.Errorf("unmarshal run result: %w", err)
		}
	}
	return &run, nil
}

// List returns run summaries newest first, without result documents.
func (s *RunStore) List(ctx context.Context, limit int) ([]model.ProvisionRun, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, slug, company_name, success, fully_verified, platform_url, error, started_at, completed_at
		FROM provision_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list provision runs: %w", err)
	}
	defer rows.Close()

	var runs []model.ProvisionRun
	for rows.Next() {
		var run model.ProvisionRun
		if err := rows.Scan(&run.ID, &run.Slug, &run.CompanyName, &run.Success, &run.FullyVerified,
			&run.PlatformURL, &run.Error, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan provision run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
