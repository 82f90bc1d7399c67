package postgresql

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kurochkinivan/receipt_reporter/internal/domain"
)

const TableOutcomes = "outcomes"

var outcomeColumns = []string{
	"run_id",
	"n",
	"file_name",
	"file_path",
	"status",
	"payload",
	"error_kind",
	"error_message",
	"attempts",
	"elapsed_ms",
}

type OutcomesRepository struct {
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

func NewOutcomesRepository(pool *pgxpool.Pool) *OutcomesRepository {
	return &OutcomesRepository{
		pool: pool,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// OutcomesByRun returns one page of a run's outcomes in input order and the
// total number of outcomes of that run.
func (r *OutcomesRepository) OutcomesByRun(
	ctx context.Context,
	runID string,
	limit, offset uint64,
) ([]*domain.OutcomeRecord, int, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select("COUNT(*)").
		From(TableOutcomes).
		Where(sq.Eq{"run_id": runID}).
		ToSql()
	if err != nil {
		return nil, -1, createQueryError(err)
	}

	var total int
	if err := db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, -1, scanRowError(err)
	}

	sql, args, err = r.qb.
		Select(outcomeColumns...).
		From(TableOutcomes).
		Where(sq.Eq{"run_id": runID}).
		OrderBy("n ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, -1, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, -1, executeQueryError(err)
	}

	outcomes, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[domain.OutcomeRecord])
	if err != nil {
		return nil, -1, collectRowsError(err)
	}

	return outcomes, total, nil
}

func (r *OutcomesRepository) SaveOutcomes(ctx context.Context, outcomes ...*domain.OutcomeRecord) error {
	db := extractDB(ctx, r.pool)

	copied, err := db.CopyFrom(ctx, pgx.Identifier{TableOutcomes}, outcomeColumns,
		pgx.CopyFromSlice(len(outcomes), func(i int) ([]any, error) {
			o := outcomes[i]

			var payload any
			if o.Payload != nil {
				payload = string(o.Payload)
			}

			return []any{
				o.RunID,
				o.N,
				o.FileName,
				o.FilePath,
				string(o.Status),
				payload,
				o.ErrorKind,
				o.ErrorMessage,
				o.Attempts,
				o.ElapsedMS,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to save outcomes: %w", err)
	}

	if copied != int64(len(outcomes)) {
		return fmt.Errorf("failed to save outcomes: copied %d rows, expected %d", copied, len(outcomes))
	}

	return nil
}
