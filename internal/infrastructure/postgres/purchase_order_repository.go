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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra y sus líneas sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const purchaseOrderColumns = `id, order_number, branch_id, supplier_id, status, order_date, expected_delivery_date,
	actual_delivery_date, total_amount, notes, created_by, approved_by, approved_at, created_at, updated_at`

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	var status string
	err := row.Scan(&o.ID, &o.OrderNumber, &o.BranchID, &o.SupplierID, &status, &o.OrderDate, &o.ExpectedDeliveryDate,
		&o.ActualDeliveryDate, &o.TotalAmount, &o.Notes, &o.CreatedBy, &o.ApprovedBy, &o.ApprovedAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = entity.PurchaseOrderStatus(status)
	return &o, nil
}

// Create inserta cabecera y líneas.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	return withTx(ctx, r.q, func(q Querier) error {
		query := `INSERT INTO purchase_orders (` + purchaseOrderColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
		_, err := q.Exec(ctx, query, o.ID, o.OrderNumber, o.BranchID, o.SupplierID, string(o.Status), o.OrderDate,
			o.ExpectedDeliveryDate, o.ActualDeliveryDate, o.TotalAmount, o.Notes, o.CreatedBy, o.ApprovedBy, o.ApprovedAt,
			o.CreatedAt, o.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert purchase order: %w", translate(err))
		}
		return r.saveItems(ctx, q, o)
	})
}

// GetByID obtiene la orden con sus líneas.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1`, id)
}

// GetByIDForUpdate igual que GetByID pero bloquea la cabecera hasta el fin de la tx.
func (r *PurchaseOrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, query, id string) (*entity.PurchaseOrder, error) {
	o, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.PurchaseOrder{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// Update persiste cabecera y líneas (inserta nuevas, actualiza existentes, borra las ausentes).
func (r *PurchaseOrderRepo) Update(ctx context.Context, o *entity.PurchaseOrder) error {
	return withTx(ctx, r.q, func(q Querier) error {
		query := `
			UPDATE purchase_orders SET supplier_id = $2, status = $3, expected_delivery_date = $4,
				actual_delivery_date = $5, total_amount = $6, notes = $7, approved_by = $8, approved_at = $9,
				updated_at = $10
			WHERE id = $1`
		tag, err := q.Exec(ctx, query, o.ID, o.SupplierID, string(o.Status), o.ExpectedDeliveryDate,
			o.ActualDeliveryDate, o.TotalAmount, o.Notes, o.ApprovedBy, o.ApprovedAt, o.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update purchase order: %w", translate(err))
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return r.saveItems(ctx, q, o)
	})
}

// List órdenes filtradas, más recientes primero.
func (r *PurchaseOrderRepo) List(ctx context.Context, f repository.WorkflowFilter) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT ` + purchaseOrderColumns + ` FROM purchase_orders
		WHERE ($1 = '' OR branch_id = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.BranchID, f.Status, workflowLimit(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		o, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PurchaseOrderRepo) loadItems(ctx context.Context, orders []*entity.PurchaseOrder) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*entity.PurchaseOrder, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
		o.Items = []entity.PurchaseOrderItem{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_order_id, product_id, quantity, unit_price, total_price, received_quantity
		FROM purchase_order_items WHERE purchase_order_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.ReceivedQuantity); err != nil {
			return err
		}
		if o := byID[it.PurchaseOrderID]; o != nil {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

func (r *PurchaseOrderRepo) saveItems(ctx context.Context, q Querier, o *entity.PurchaseOrder) error {
	keep := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		keep = append(keep, it.ID)
	}
	if _, err := q.Exec(ctx, `
		DELETE FROM purchase_order_items WHERE purchase_order_id = $1 AND NOT (id = ANY($2))`, o.ID, keep); err != nil {
		return fmt.Errorf("delete purchase order items: %w", err)
	}
	for _, it := range o.Items {
		_, err := q.Exec(ctx, `
			INSERT INTO purchase_order_items (id, purchase_order_id, product_id, quantity, unit_price, total_price, received_quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET product_id = EXCLUDED.product_id, quantity = EXCLUDED.quantity,
				unit_price = EXCLUDED.unit_price, total_price = EXCLUDED.total_price,
				received_quantity = EXCLUDED.received_quantity`,
			it.ID, o.ID, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice, it.ReceivedQuantity)
		if err != nil {
			return fmt.Errorf("save purchase order item: %w", translate(err))
		}
	}
	return nil
}

func workflowLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}
