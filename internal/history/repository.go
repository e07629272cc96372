package history

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

// ListFilters narrows history listings.
type ListFilters struct {
	shared.ListFilters
	PickingID *int64
	ProductID *int64
	Action    string
}

// Repository is the read-only query surface. Writes happen through Store
// implementations inside the stock transaction.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Entry, int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Entry, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.PickingID != nil {
		argCount++
		where += ` AND h.picking_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.PickingID)
	}
	if filters.ProductID != nil {
		argCount++
		where += ` AND h.product_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.ProductID)
	}
	if filters.Action != "" {
		argCount++
		where += ` AND h.action_type = $` + strconv.Itoa(argCount)
		args = append(args, filters.Action)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM move_history h` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
SELECT h.id, h.timestamp, h.user_id, h.action_type, h.picking_id, h.product_id,
       h.quantity, h.source_location_id, h.destination_location_id,
       h.old_status, h.new_status, h.notes,
       COALESCE(u.login_id, ''), COALESCE(p.sku, ''), COALESCE(pk.reference, '')
FROM move_history h
LEFT JOIN users u ON u.id = h.user_id
LEFT JOIN products p ON p.id = h.product_id
LEFT JOIN pickings pk ON pk.id = h.picking_id` + where + ` ORDER BY h.timestamp DESC, h.id DESC`

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

	var list []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.UserID, &e.Action, &e.PickingID, &e.ProductID,
			&e.Quantity, &e.SourceLocationID, &e.DestinationLocationID,
			&e.OldStatus, &e.NewStatus, &e.Notes,
			&e.UserLoginID, &e.ProductSKU, &e.PickingReference); err != nil {
			return nil, 0, err
		}
		list = append(list, e)
	}
	return list, total, rows.Err()
}
