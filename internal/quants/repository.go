package quants

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

// ListFilters narrows quant listings.
type ListFilters struct {
	shared.ListFilters
	ProductID  *int64
	LocationID *int64
}

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Quant, int, error)
	LowStock(ctx context.Context, threshold int) ([]Quant, error)
	OutOfStock(ctx context.Context) ([]Quant, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const quantSelect = `
SELECT q.id, q.product_id, q.location_id, q.quantity, q.reserved_quantity,
       q.created_at, q.updated_at, p.sku, p.name, l.name
FROM stock_quants q
JOIN products p ON p.id = q.product_id
JOIN locations l ON l.id = q.location_id`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Quant, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.ProductID != nil {
		argCount++
		where += ` AND q.product_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.ProductID)
	}
	if filters.LocationID != nil {
		argCount++
		where += ` AND q.location_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.LocationID)
	}
	if filters.Search != "" {
		argCount++
		where += ` AND (p.sku ILIKE $` + strconv.Itoa(argCount) + ` OR p.name ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM stock_quants q JOIN products p ON p.id = q.product_id JOIN locations l ON l.id = q.location_id` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := quantSelect + where + ` ORDER BY p.sku ASC, l.name ASC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, filters.Offset())
	}

	list, err := r.queryQuants(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *repository) LowStock(ctx context.Context, threshold int) ([]Quant, error) {
	return r.queryQuants(ctx,
		quantSelect+` WHERE q.quantity > 0 AND q.quantity < $1 ORDER BY q.quantity ASC`, threshold)
}

func (r *repository) OutOfStock(ctx context.Context) ([]Quant, error) {
	return r.queryQuants(ctx,
		quantSelect+` WHERE q.quantity <= 0 ORDER BY p.sku ASC`)
}

func (r *repository) queryQuants(ctx context.Context, query string, args ...interface{}) ([]Quant, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Quant
	for rows.Next() {
		var q Quant
		if err := rows.Scan(&q.ID, &q.ProductID, &q.LocationID, &q.Quantity, &q.Reserved,
			&q.CreatedAt, &q.UpdatedAt, &q.ProductSKU, &q.ProductName, &q.LocationName); err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, rows.Err()
}
