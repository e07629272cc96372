package tasks

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockmaster-erp/stockmaster/internal/platform/httpx"
	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

// ListFilters narrows task listings.
type ListFilters struct {
	shared.ListFilters
	Status     string
	Priority   string
	AssignedTo *int64
}

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Task, int, error)
	Get(ctx context.Context, id int64) (Task, error)
	Create(ctx context.Context, task Task) (Task, error)
	Update(ctx context.Context, id int64, task Task) error
	SetStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const taskSelect = `
SELECT t.id, t.title, t.description, t.assigned_to, t.related_picking_id,
       t.status, t.priority, t.due_date, t.created_at, t.updated_at,
       COALESCE(u.login_id, ''), COALESCE(p.reference, '')
FROM tasks t
LEFT JOIN users u ON u.id = t.assigned_to
LEFT JOIN pickings p ON p.id = t.related_picking_id`

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.AssignedTo, &t.RelatedPickingID,
		&t.Status, &t.Priority, &t.DueDate, &t.CreatedAt, &t.UpdatedAt,
		&t.AssigneeLoginID, &t.PickingReference)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, httpx.ErrNotFound
	}
	return t, err
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Task, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Status != "" {
		argCount++
		where += ` AND t.status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}
	if filters.Priority != "" {
		argCount++
		where += ` AND t.priority = $` + strconv.Itoa(argCount)
		args = append(args, filters.Priority)
	}
	if filters.AssignedTo != nil {
		argCount++
		where += ` AND t.assigned_to = $` + strconv.Itoa(argCount)
		args = append(args, *filters.AssignedTo)
	}
	if filters.Search != "" {
		argCount++
		where += ` AND t.title ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks t`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := taskSelect + where + `
 ORDER BY CASE t.priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END,
          t.due_date ASC NULLS LAST, t.id ASC`
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

	var list []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.AssignedTo, &t.RelatedPickingID,
			&t.Status, &t.Priority, &t.DueDate, &t.CreatedAt, &t.UpdatedAt,
			&t.AssigneeLoginID, &t.PickingReference); err != nil {
			return nil, 0, err
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Task, error) {
	return scanTask(r.pool.QueryRow(ctx, taskSelect+` WHERE t.id = $1`, id))
}

func (r *repository) Create(ctx context.Context, task Task) (Task, error) {
	now := time.Now()
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tasks (title, description, assigned_to, related_picking_id, status, priority, due_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		 RETURNING id`,
		task.Title, task.Description, task.AssignedTo, task.RelatedPickingID,
		task.Status, task.Priority, task.DueDate, now).Scan(&id)
	if err != nil {
		return Task{}, err
	}
	return r.Get(ctx, id)
}

func (r *repository) Update(ctx context.Context, id int64, task Task) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET title = $1, description = $2, assigned_to = $3, related_picking_id = $4,
		        status = $5, priority = $6, due_date = $7, updated_at = $8
		 WHERE id = $9`,
		task.Title, task.Description, task.AssignedTo, task.RelatedPickingID,
		task.Status, task.Priority, task.DueDate, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) SetStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
