package stock

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stockmaster-erp/stockmaster/internal/history"
	"github.com/stockmaster-erp/stockmaster/internal/platform/httpx"
)

// Repository persists pickings, moves and quants in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes the transactional operations the service composes
// into one atomic commit. It doubles as the history write store so audit
// rows land in the same transaction as the ledger mutations.
type TxRepository interface {
	history.Store

	GetPickingForUpdate(ctx context.Context, id int64) (Picking, error)
	InsertPicking(ctx context.Context, p Picking) (int64, error)
	UpdatePickingHeader(ctx context.Context, id int64, p Picking) error
	SetPickingStatus(ctx context.Context, id int64, status Status, completion *time.Time) error
	DeletePicking(ctx context.Context, id int64) error

	MovesByPicking(ctx context.Context, pickingID int64) ([]Move, error)
	InsertMove(ctx context.Context, m Move) (int64, error)
	UpdateMove(ctx context.Context, m Move) error
	SetMoveStatus(ctx context.Context, id int64, status Status) error
	DeleteMove(ctx context.Context, id int64) error

	ReferencesByPrefix(ctx context.Context, prefix string) ([]string, error)
	GetQuantForUpdate(ctx context.Context, productID, locationID int64) (Quant, error)
	AdjustQuant(ctx context.Context, productID, locationID int64, delta decimal.Decimal) error
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &txRepo{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// IsUniqueViolation reports whether err is a 23505 unique constraint hit.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const pickingSelect = `
SELECT p.id, p.reference, p.partner, p.operation_type_id, p.source_location_id,
       p.destination_location_id, p.status, p.scheduled_date, p.completion_date,
       p.notes, p.created_by, p.created_at, p.updated_at,
       ot.name, ot.code, sl.name, dl.name
FROM pickings p
JOIN operation_types ot ON ot.id = p.operation_type_id
JOIN locations sl ON sl.id = p.source_location_id
JOIN locations dl ON dl.id = p.destination_location_id`

func scanPicking(row pgx.Row) (Picking, error) {
	var p Picking
	err := row.Scan(&p.ID, &p.Reference, &p.Partner, &p.OperationTypeID, &p.SourceLocationID,
		&p.DestinationLocationID, &p.Status, &p.ScheduledDate, &p.CompletionDate,
		&p.Notes, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
		&p.OperationTypeName, &p.OperationTypeCode, &p.SourceLocationName, &p.DestinationLocationName)
	if errors.Is(err, pgx.ErrNoRows) {
		return Picking{}, httpx.ErrNotFound
	}
	return p, err
}

const moveSelect = `
SELECT m.id, m.picking_id, m.product_id, m.quantity, m.source_location_id,
       m.destination_location_id, m.status, m.notes, m.created_at, m.updated_at,
       pr.sku, pr.name, sl.name, dl.name
FROM stock_moves m
JOIN products pr ON pr.id = m.product_id
JOIN locations sl ON sl.id = m.source_location_id
JOIN locations dl ON dl.id = m.destination_location_id`

func collectMoves(rows pgx.Rows) ([]Move, error) {
	defer rows.Close()
	var moves []Move
	for rows.Next() {
		var m Move
		if err := rows.Scan(&m.ID, &m.PickingID, &m.ProductID, &m.Quantity, &m.SourceLocationID,
			&m.DestinationLocationID, &m.Status, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
			&m.ProductSKU, &m.ProductName, &m.SourceLocationName, &m.DestinationLocationName); err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

// --- pool-backed reads ---

func (r *Repository) GetPicking(ctx context.Context, id int64) (Picking, error) {
	p, err := scanPicking(r.pool.QueryRow(ctx, pickingSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return Picking{}, err
	}
	rows, err := r.pool.Query(ctx, moveSelect+` WHERE m.picking_id = $1 ORDER BY m.id ASC`, id)
	if err != nil {
		return Picking{}, err
	}
	p.Moves, err = collectMoves(rows)
	return p, err
}

func (r *Repository) ListPickings(ctx context.Context, filters ListFilters) ([]Picking, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Status != "" {
		argCount++
		where += ` AND p.status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}
	if filters.OperationTypeID != nil {
		argCount++
		where += ` AND p.operation_type_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.OperationTypeID)
	}
	if filters.Search != "" {
		argCount++
		where += ` AND (p.reference ILIKE $` + strconv.Itoa(argCount) + ` OR p.partner ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM pickings p` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := pickingSelect + where + ` ORDER BY p.scheduled_date DESC, p.id DESC`
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

	var list []Picking
	for rows.Next() {
		var p Picking
		if err := rows.Scan(&p.ID, &p.Reference, &p.Partner, &p.OperationTypeID, &p.SourceLocationID,
			&p.DestinationLocationID, &p.Status, &p.ScheduledDate, &p.CompletionDate,
			&p.Notes, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
			&p.OperationTypeName, &p.OperationTypeCode, &p.SourceLocationName, &p.DestinationLocationName); err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *Repository) ListMoves(ctx context.Context, pickingID, productID *int64, limit, offset int) ([]Move, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0
	if pickingID != nil {
		argCount++
		where += ` AND m.picking_id = $` + strconv.Itoa(argCount)
		args = append(args, *pickingID)
	}
	if productID != nil {
		argCount++
		where += ` AND m.product_id = $` + strconv.Itoa(argCount)
		args = append(args, *productID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stock_moves m`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := moveSelect + where + ` ORDER BY m.picking_id ASC, m.id ASC`
	if limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, limit)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	moves, err := collectMoves(rows)
	if err != nil {
		return nil, 0, err
	}
	return moves, total, nil
}

func (r *Repository) GetMove(ctx context.Context, id int64) (Move, error) {
	rows, err := r.pool.Query(ctx, moveSelect+` WHERE m.id = $1`, id)
	if err != nil {
		return Move{}, err
	}
	moves, err := collectMoves(rows)
	if err != nil {
		return Move{}, err
	}
	if len(moves) == 0 {
		return Move{}, httpx.ErrNotFound
	}
	return moves[0], nil
}

// --- transactional operations ---

func (r *txRepo) GetPickingForUpdate(ctx context.Context, id int64) (Picking, error) {
	// Lock the header row first, then load the joined representation.
	var locked int64
	err := r.tx.QueryRow(ctx, `SELECT id FROM pickings WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return Picking{}, httpx.ErrNotFound
	}
	if err != nil {
		return Picking{}, err
	}
	return scanPicking(r.tx.QueryRow(ctx, pickingSelect+` WHERE p.id = $1`, id))
}

func (r *txRepo) InsertPicking(ctx context.Context, p Picking) (int64, error) {
	var id int64
	now := time.Now()
	err := r.tx.QueryRow(ctx,
		`INSERT INTO pickings (reference, partner, operation_type_id, source_location_id,
		        destination_location_id, status, scheduled_date, completion_date, notes,
		        created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		 RETURNING id`,
		p.Reference, p.Partner, p.OperationTypeID, p.SourceLocationID,
		p.DestinationLocationID, p.Status, p.ScheduledDate, p.CompletionDate, p.Notes,
		p.CreatedBy, now).Scan(&id)
	return id, err
}

func (r *txRepo) UpdatePickingHeader(ctx context.Context, id int64, p Picking) error {
	_, err := r.tx.Exec(ctx,
		`UPDATE pickings SET partner = $1, source_location_id = $2, destination_location_id = $3,
		        scheduled_date = $4, notes = $5, updated_at = $6
		 WHERE id = $7`,
		p.Partner, p.SourceLocationID, p.DestinationLocationID, p.ScheduledDate, p.Notes, time.Now(), id)
	return err
}

func (r *txRepo) SetPickingStatus(ctx context.Context, id int64, status Status, completion *time.Time) error {
	_, err := r.tx.Exec(ctx,
		`UPDATE pickings SET status = $1, completion_date = COALESCE($2, completion_date), updated_at = $3 WHERE id = $4`,
		status, completion, time.Now(), id)
	return err
}

func (r *txRepo) DeletePicking(ctx context.Context, id int64) error {
	// Lines cascade at the schema level.
	_, err := r.tx.Exec(ctx, `DELETE FROM pickings WHERE id = $1`, id)
	return err
}

func (r *txRepo) MovesByPicking(ctx context.Context, pickingID int64) ([]Move, error) {
	rows, err := r.tx.Query(ctx, moveSelect+` WHERE m.picking_id = $1 ORDER BY m.id ASC`, pickingID)
	if err != nil {
		return nil, err
	}
	return collectMoves(rows)
}

func (r *txRepo) InsertMove(ctx context.Context, m Move) (int64, error) {
	var id int64
	now := time.Now()
	err := r.tx.QueryRow(ctx,
		`INSERT INTO stock_moves (picking_id, product_id, quantity, source_location_id,
		        destination_location_id, status, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		 RETURNING id`,
		m.PickingID, m.ProductID, m.Quantity, m.SourceLocationID,
		m.DestinationLocationID, m.Status, m.Notes, now).Scan(&id)
	return id, err
}

func (r *txRepo) UpdateMove(ctx context.Context, m Move) error {
	_, err := r.tx.Exec(ctx,
		`UPDATE stock_moves SET product_id = $1, quantity = $2, source_location_id = $3,
		        destination_location_id = $4, notes = $5, updated_at = $6
		 WHERE id = $7`,
		m.ProductID, m.Quantity, m.SourceLocationID, m.DestinationLocationID, m.Notes, time.Now(), m.ID)
	return err
}

func (r *txRepo) SetMoveStatus(ctx context.Context, id int64, status Status) error {
	_, err := r.tx.Exec(ctx, `UPDATE stock_moves SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	return err
}

func (r *txRepo) DeleteMove(ctx context.Context, id int64) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM stock_moves WHERE id = $1`, id)
	return err
}

func (r *txRepo) ReferencesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.tx.Query(ctx, `SELECT reference FROM pickings WHERE reference LIKE $1 || '%'`, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *txRepo) GetQuantForUpdate(ctx context.Context, productID, locationID int64) (Quant, error) {
	var q Quant
	err := r.tx.QueryRow(ctx,
		`SELECT product_id, location_id, quantity, reserved_quantity
		 FROM stock_quants WHERE product_id = $1 AND location_id = $2 FOR UPDATE`,
		productID, locationID).Scan(&q.ProductID, &q.LocationID, &q.Quantity, &q.Reserved)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quant{ProductID: productID, LocationID: locationID}, ErrQuantNotFound
	}
	return q, err
}

// AdjustQuant applies quantity += delta, creating the row lazily with a
// zero base so the first write to a (product, location) pair just works.
func (r *txRepo) AdjustQuant(ctx context.Context, productID, locationID int64, delta decimal.Decimal) error {
	_, err := r.tx.Exec(ctx,
		`INSERT INTO stock_quants (product_id, location_id, quantity, reserved_quantity, created_at, updated_at)
		 VALUES ($1, $2, $3, 0, $4, $4)
		 ON CONFLICT (product_id, location_id)
		 DO UPDATE SET quantity = stock_quants.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`,
		productID, locationID, delta, time.Now())
	return err
}

// --- history store (same transaction as the ledger writes) ---

func (r *txRepo) MoveExists(ctx context.Context, key history.MoveKey) (bool, error) {
	var exists bool
	err := r.tx.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM move_history
		   WHERE action_type = $1 AND picking_id = $2 AND product_id = $3
		     AND quantity = $4 AND source_location_id = $5 AND destination_location_id = $6)`,
		history.ActionStockMove, key.PickingID, key.ProductID, key.Quantity,
		key.SourceLocationID, key.DestinationLocationID).Scan(&exists)
	return exists, err
}

func (r *txRepo) Insert(ctx context.Context, entry history.Entry) error {
	_, err := r.tx.Exec(ctx,
		`INSERT INTO move_history (timestamp, user_id, action_type, picking_id, product_id,
		        quantity, source_location_id, destination_location_id, old_status, new_status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		time.Now(), entry.UserID, entry.Action, entry.PickingID, entry.ProductID,
		entry.Quantity, entry.SourceLocationID, entry.DestinationLocationID,
		entry.OldStatus, entry.NewStatus, entry.Notes)
	return err
}
