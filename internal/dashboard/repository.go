package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	CountActiveProducts(ctx context.Context) (int, error)
	CountLowStockQuants(ctx context.Context, threshold int) (int, error)
	CountPendingPickingsByCode(ctx context.Context) (map[string]int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) CountActiveProducts(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE is_active`).Scan(&count)
	return count, err
}

func (r *repository) CountLowStockQuants(ctx context.Context, threshold int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM stock_quants WHERE quantity > 0 AND quantity < $1`, threshold).Scan(&count)
	return count, err
}

func (r *repository) CountPendingPickingsByCode(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ot.code, COUNT(*)
		 FROM pickings p
		 JOIN operation_types ot ON ot.id = p.operation_type_id
		 WHERE p.status IN ('draft', 'confirmed', 'assigned')
		 GROUP BY ot.code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var code string
		var count int
		if err := rows.Scan(&code, &count); err != nil {
			return nil, err
		}
		counts[code] = count
	}
	return counts, rows.Err()
}
