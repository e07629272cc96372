package operationtypes

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockmaster-erp/stockmaster/internal/platform/httpx"
	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]OperationType, int, error)
	Get(ctx context.Context, id int64) (OperationType, error)
	Create(ctx context.Context, opType OperationType) (OperationType, error)
	Update(ctx context.Context, id int64, opType OperationType) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const opTypeColumns = `id, name, code, sequence_prefix, description, default_source_location_id, default_destination_location_id, created_at, updated_at`

func scanOpType(row pgx.Row) (OperationType, error) {
	var ot OperationType
	err := row.Scan(&ot.ID, &ot.Name, &ot.Code, &ot.SequencePrefix, &ot.Description,
		&ot.DefaultSourceLocation, &ot.DefaultDestinationLocation, &ot.CreatedAt, &ot.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return OperationType{}, httpx.ErrNotFound
	}
	return ot, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]OperationType, int, error) {
	query := `SELECT ` + opTypeColumns + ` FROM operation_types WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM operation_types WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		clause := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR code ILIKE $` + strconv.Itoa(argCount) + `)`
		query += clause
		countQuery += clause
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY name ASC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, filters.Offset())
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []OperationType
	for rows.Next() {
		var ot OperationType
		if err := rows.Scan(&ot.ID, &ot.Name, &ot.Code, &ot.SequencePrefix, &ot.Description,
			&ot.DefaultSourceLocation, &ot.DefaultDestinationLocation, &ot.CreatedAt, &ot.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, ot)
	}
	return list, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (OperationType, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+opTypeColumns+` FROM operation_types WHERE id = $1`, id)
	return scanOpType(row)
}

func (r *repository) Create(ctx context.Context, opType OperationType) (OperationType, error) {
	now := time.Now()
	row := r.pool.QueryRow(ctx,
		`INSERT INTO operation_types (name, code, sequence_prefix, description, default_source_location_id, default_destination_location_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 RETURNING `+opTypeColumns,
		opType.Name, opType.Code, opType.SequencePrefix, opType.Description,
		opType.DefaultSourceLocation, opType.DefaultDestinationLocation, now)
	created, err := scanOpType(row)
	if err != nil {
		return OperationType{}, mapPgError(err)
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id int64, opType OperationType) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE operation_types SET name = $1, code = $2, sequence_prefix = $3, description = $4,
		        default_source_location_id = $5, default_destination_location_id = $6, updated_at = $7
		 WHERE id = $8`,
		opType.Name, opType.Code, opType.SequencePrefix, opType.Description,
		opType.DefaultSourceLocation, opType.DefaultDestinationLocation, time.Now(), id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM operation_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	return err
}
