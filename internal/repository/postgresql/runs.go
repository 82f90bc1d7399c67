package postgresql

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

const TableRuns = "runs"

type RunsRepository struct {
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

func NewRunsRepository(pool *pgxpool.Pool) *RunsRepository {
	return &RunsRepository{
		pool: pool,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *RunsRepository) SaveRun(ctx context.Context, run *domain.RunRecord) error {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Insert(TableRuns).
		Columns(
			"id",
			"model",
			"input_dir",
			"started_at",
			"total",
			"succeeded",
			"failed",
			"elapsed_ms",
		).
		Values(
			run.ID,
			run.Model,
			run.InputDir,
			run.StartedAt,
			run.Total,
			run.Succeeded,
			run.Failed,
			run.ElapsedMS,
		).
		ToSql()
	if err != nil {
		return createQueryError(err)
	}

	if _, err := db.Exec(ctx, sql, args...); err != nil {
		return executeQueryError(err)
	}

	return nil
}

func (r *RunsRepository) Run(ctx context.Context, id string) (*domain.RunRecord, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select(
			"id",
			"model",
			"input_dir",
			"started_at",
			"total",
			"succeeded",
			"failed",
			"elapsed_ms",
		).
		From(TableRuns).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	run, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[domain.RunRecord])
	if err != nil {
		return nil, notFoundError(err)
	}

	return run, nil
}
