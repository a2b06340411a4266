package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

var _ repository.InventoryLogRepository = (*InventoryLogRepo)(nil)

// InventoryLogRepo libro de inventario sobre PostgreSQL: solo INSERT y SELECT.
type InventoryLogRepo struct {
	q Querier
}

// NewInventoryLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryLogRepository(q Querier) *InventoryLogRepo {
	return &InventoryLogRepo{q: q}
}

// Create inserta un asiento.
func (r *InventoryLogRepo) Create(ctx context.Context, e *entity.InventoryLog) error {
	query := `
		INSERT INTO inventory_logs (id, product_id, branch_id, change_type, quantity, supplier_id, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ProductID, e.BranchID, string(e.ChangeType), e.Quantity, e.SupplierID, e.Notes, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory log: %w", translate(err))
	}
	return nil
}

// SumQuantity stock derivado: suma con signo de los asientos de (producto, sucursal).
func (r *InventoryLogRepo) SumQuantity(ctx context.Context, productID, branchID string) (int, error) {
	var total int
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0) FROM inventory_logs
		WHERE product_id = $1 AND branch_id = $2`, productID, branchID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum inventory logs: %w", err)
	}
	return total, nil
}

func (r *InventoryLogRepo) HasEntries(ctx context.Context, productID, branchID string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM inventory_logs WHERE product_id = $1 AND branch_id = $2)`,
		productID, branchID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("exists inventory logs: %w", err)
	}
	return ok, nil
}

// List asientos filtrados, más recientes primero.
func (r *InventoryLogRepo) List(ctx context.Context, f repository.LogFilter) ([]*entity.InventoryLog, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, product_id, branch_id, change_type, quantity, supplier_id, notes, created_by, created_at
		FROM inventory_logs
		WHERE ($1 = '' OR branch_id = $1)
		  AND ($2 = '' OR product_id = $2)
		  AND ($3 = '' OR change_type = $3)
		  AND ($4::timestamptz IS NULL OR created_at >= $4)
		  AND ($5::timestamptz IS NULL OR created_at < $5)
		ORDER BY created_at DESC, id
		LIMIT $6 OFFSET $7`
	rows, err := r.q.Query(ctx, query, f.BranchID, f.ProductID, string(f.ChangeType), f.From, f.To, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryLog
	for rows.Next() {
		var e entity.InventoryLog
		var ct string
		if err := rows.Scan(&e.ID, &e.ProductID, &e.BranchID, &ct, &e.Quantity, &e.SupplierID, &e.Notes, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ChangeType = entity.ChangeType(ct)
		list = append(list, &e)
	}
	return list, rows.Err()
}

// ListStockLevels stock derivado de cada producto activo por sucursal. El par (producto, sucursal)
// aparece si la sucursal es la dueña del producto o si tiene asientos de él.
func (r *InventoryLogRepo) ListStockLevels(ctx context.Context, branchID string) ([]entity.StockLevel, error) {
	query := `
		SELECT p.id, p.name, p.category, b.id, COALESCE(SUM(l.quantity), 0), p.low_stock_threshold
		FROM products p
		JOIN branches b ON b.id = p.branch_id
		  OR EXISTS (SELECT 1 FROM inventory_logs x WHERE x.product_id = p.id AND x.branch_id = b.id)
		LEFT JOIN inventory_logs l ON l.product_id = p.id AND l.branch_id = b.id
		WHERE p.is_active AND ($1 = '' OR b.id = $1)
		GROUP BY p.id, p.name, p.category, b.id, p.low_stock_threshold
		ORDER BY p.name, b.id`
	rows, err := r.q.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.StockLevel, error) {
		var lv entity.StockLevel
		err := row.Scan(&lv.ProductID, &lv.ProductName, &lv.Category, &lv.BranchID, &lv.Quantity, &lv.LowStockThreshold)
		return lv, err
	})
}
