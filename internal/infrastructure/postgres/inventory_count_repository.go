package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

var _ repository.InventoryCountRepository = (*InventoryCountRepo)(nil)

// InventoryCountRepo conteos físicos y sus ítems sobre PostgreSQL.
type InventoryCountRepo struct {
	q Querier
}

// NewInventoryCountRepository construye el adaptador.
func NewInventoryCountRepository(q Querier) *InventoryCountRepo {
	return &InventoryCountRepo{q: q}
}

const inventoryCountColumns = `id, count_number, branch_id, count_date, status, notes, conducted_by, approved_by,
	approved_at, created_at, updated_at`

func scanInventoryCount(row pgx.Row) (*entity.InventoryCount, error) {
	var c entity.InventoryCount
	var status string
	err := row.Scan(&c.ID, &c.CountNumber, &c.BranchID, &c.CountDate, &status, &c.Notes, &c.ConductedBy, &c.ApprovedBy,
		&c.ApprovedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Status = entity.InventoryCountStatus(status)
	return &c, nil
}

// Create inserta cabecera e ítems.
func (r *InventoryCountRepo) Create(ctx context.Context, c *entity.InventoryCount) error {
	return withTx(ctx, r.q, func(q Querier) error {
		query := `INSERT INTO inventory_counts (` + inventoryCountColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		_, err := q.Exec(ctx, query, c.ID, c.CountNumber, c.BranchID, c.CountDate, string(c.Status), c.Notes,
			c.ConductedBy, c.ApprovedBy, c.ApprovedAt, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert inventory count: %w", translate(err))
		}
		return r.saveItems(ctx, q, c)
	})
}

// GetByID obtiene el conteo con sus ítems.
func (r *InventoryCountRepo) GetByID(ctx context.Context, id string) (*entity.InventoryCount, error) {
	return r.get(ctx, `SELECT `+inventoryCountColumns+` FROM inventory_counts WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea la cabecera hasta el fin de la tx.
func (r *InventoryCountRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.InventoryCount, error) {
	return r.get(ctx, `SELECT `+inventoryCountColumns+` FROM inventory_counts WHERE id = $1 FOR UPDATE`, id)
}

func (r *InventoryCountRepo) get(ctx context.Context, query, id string) (*entity.InventoryCount, error) {
	c, err := scanInventoryCount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory count: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.InventoryCount{c}); err != nil {
		return nil, err
	}
	return c, nil
}

// Update persiste cabecera e ítems.
func (r *InventoryCountRepo) Update(ctx context.Context, c *entity.InventoryCount) error {
	return withTx(ctx, r.q, func(q Querier) error {
		query := `
			UPDATE inventory_counts SET status = $2, notes = $3, approved_by = $4, approved_at = $5, updated_at = $6
			WHERE id = $1`
		tag, err := q.Exec(ctx, query, c.ID, string(c.Status), c.Notes, c.ApprovedBy, c.ApprovedAt, c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update inventory count: %w", translate(err))
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return r.saveItems(ctx, q, c)
	})
}

// List conteos filtrados, más recientes primero.
func (r *InventoryCountRepo) List(ctx context.Context, f repository.WorkflowFilter) ([]*entity.InventoryCount, error) {
	query := `
		SELECT ` + inventoryCountColumns + ` FROM inventory_counts
		WHERE ($1 = '' OR branch_id = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.BranchID, f.Status, workflowLimit(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory counts: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryCount
	for rows.Next() {
		c, err := scanInventoryCount(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *InventoryCountRepo) loadItems(ctx context.Context, counts []*entity.InventoryCount) error {
	if len(counts) == 0 {
		return nil
	}
	ids := make([]string, len(counts))
	byID := make(map[string]*entity.InventoryCount, len(counts))
	for i, c := range counts {
		ids[i] = c.ID
		byID[c.ID] = c
		c.Items = []entity.InventoryCountItem{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, inventory_count_id, product_id, system_quantity, counted_quantity, variance
		FROM inventory_count_items WHERE inventory_count_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("list inventory count items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.InventoryCountItem
		if err := rows.Scan(&it.ID, &it.InventoryCountID, &it.ProductID, &it.SystemQuantity, &it.CountedQuantity, &it.Variance); err != nil {
			return err
		}
		if c := byID[it.InventoryCountID]; c != nil {
			c.Items = append(c.Items, it)
		}
	}
	return rows.Err()
}

func (r *InventoryCountRepo) saveItems(ctx context.Context, q Querier, c *entity.InventoryCount) error {
	keep := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		keep = append(keep, it.ID)
	}
	if _, err := q.Exec(ctx, `
		DELETE FROM inventory_count_items WHERE inventory_count_id = $1 AND NOT (id = ANY($2))`, c.ID, keep); err != nil {
		return fmt.Errorf("delete inventory count items: %w", err)
	}
	for _, it := range c.Items {
		_, err := q.Exec(ctx, `
			INSERT INTO inventory_count_items (id, inventory_count_id, product_id, system_quantity, counted_quantity, variance)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET system_quantity = EXCLUDED.system_quantity,
				counted_quantity = EXCLUDED.counted_quantity, variance = EXCLUDED.variance`,
			it.ID, c.ID, it.ProductID, it.SystemQuantity, it.CountedQuantity, it.Variance)
		if err != nil {
			return fmt.Errorf("save inventory count item: %w", translate(err))
		}
	}
	return nil
}
