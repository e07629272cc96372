package settings

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetOrCreate(ctx context.Context) (Settings, error)
	Update(ctx context.Context, s Settings) (Settings, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const settingsColumns = `id, low_stock_threshold, default_receipt_location_id, default_delivery_location_id, default_adjustment_location_id, updated_at, updated_by`

// GetOrCreate inserts the singleton row if it does not exist yet, then
// reads it back. Concurrent first accesses race on the unique sentinel;
// the loser's insert is a no-op.
func (r *repository) GetOrCreate(ctx context.Context) (Settings, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO warehouse_settings (singleton, low_stock_threshold, updated_at)
		 VALUES (TRUE, $1, $2)
		 ON CONFLICT (singleton) DO NOTHING`,
		defaultLowStockThreshold, time.Now())
	if err != nil {
		return Settings{}, err
	}
	var s Settings
	err = r.pool.QueryRow(ctx, `SELECT `+settingsColumns+` FROM warehouse_settings WHERE singleton`).
		Scan(&s.ID, &s.LowStockThreshold, &s.DefaultReceiptLocation, &s.DefaultDeliveryLocation,
			&s.DefaultAdjustmentLocation, &s.UpdatedAt, &s.UpdatedBy)
	return s, err
}

func (r *repository) Update(ctx context.Context, s Settings) (Settings, error) {
	if _, err := r.GetOrCreate(ctx); err != nil {
		return Settings{}, err
	}
	var out Settings
	err := r.pool.QueryRow(ctx,
		`UPDATE warehouse_settings
		 SET low_stock_threshold = $1, default_receipt_location_id = $2,
		     default_delivery_location_id = $3, default_adjustment_location_id = $4,
		     updated_at = $5, updated_by = $6
		 WHERE singleton
		 RETURNING `+settingsColumns,
		s.LowStockThreshold, s.DefaultReceiptLocation, s.DefaultDeliveryLocation,
		s.DefaultAdjustmentLocation, time.Now(), s.UpdatedBy).
		Scan(&out.ID, &out.LowStockThreshold, &out.DefaultReceiptLocation, &out.DefaultDeliveryLocation,
			&out.DefaultAdjustmentLocation, &out.UpdatedAt, &out.UpdatedBy)
	return out, err
}
