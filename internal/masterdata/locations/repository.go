package locations

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

// ListFilters extends the common filters with location specific ones.
type ListFilters struct {
	shared.ListFilters
	UsageType string
	Active    *bool
}

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Location, int, error)
	Get(ctx context.Context, id int64) (Location, error)
	Children(ctx context.Context, id int64) ([]Location, error)
	StockLevels(ctx context.Context, id int64) ([]StockLevel, error)
	Create(ctx context.Context, location Location) (Location, error)
	Update(ctx context.Context, id int64, location Location) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const locationColumns = `id, name, parent_id, barcode, usage_type, is_active, created_at, updated_at`

func scanLocation(row pgx.Row) (Location, error) {
	var l Location
	err := row.Scan(&l.ID, &l.Name, &l.ParentID, &l.Barcode, &l.UsageType, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Location{}, httpx.ErrNotFound
	}
	return l, err
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Location, int, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM locations WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		clause := ` AND name ILIKE $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.UsageType != "" {
		argCount++
		clause := ` AND usage_type = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, filters.UsageType)
	}
	if filters.Active != nil {
		argCount++
		clause := ` AND is_active = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *filters.Active)
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

	var list []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name, &l.ParentID, &l.Barcode, &l.UsageType, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, l)
	}
	return list, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Location, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id)
	return scanLocation(row)
}

func (r *repository) Children(ctx context.Context, id int64) ([]Location, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+locationColumns+` FROM locations WHERE parent_id = $1 ORDER BY name ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name, &l.ParentID, &l.Barcode, &l.UsageType, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *repository) StockLevels(ctx context.Context, id int64) ([]StockLevel, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.sku, p.name, q.quantity, q.reserved_quantity
		 FROM stock_quants q
		 JOIN products p ON p.id = q.product_id
		 WHERE q.location_id = $1
		 ORDER BY p.sku ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []StockLevel
	for rows.Next() {
		var lv StockLevel
		if err := rows.Scan(&lv.ProductID, &lv.ProductSKU, &lv.ProductName, &lv.Quantity, &lv.Reserved); err != nil {
			return nil, err
		}
		levels = append(levels, lv)
	}
	return levels, rows.Err()
}

func (r *repository) Create(ctx context.Context, location Location) (Location, error) {
	now := time.Now()
	row := r.pool.QueryRow(ctx,
		`INSERT INTO locations (name, parent_id, barcode, usage_type, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)
		 RETURNING `+locationColumns,
		location.Name, location.ParentID, location.Barcode, location.UsageType, location.IsActive, now)
	created, err := scanLocation(row)
	if err != nil {
		return Location{}, mapPgError(err)
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id int64, location Location) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE locations SET name = $1, parent_id = $2, barcode = $3, usage_type = $4, is_active = $5, updated_at = $6
		 WHERE id = $7`,
		location.Name, location.ParentID, location.Barcode, location.UsageType, location.IsActive, time.Now(), id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
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
