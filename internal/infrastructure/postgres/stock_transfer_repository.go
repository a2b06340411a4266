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

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

// StockTransferRepo traslados entre sucursales sobre PostgreSQL.
type StockTransferRepo struct {
	q Querier
}

// NewStockTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransferRepository(q Querier) *StockTransferRepo {
	return &StockTransferRepo{q: q}
}

const stockTransferColumns = `id, transfer_number, from_branch_id, to_branch_id, status, request_date, approved_date,
	shipped_date, completed_date, notes, rejection_reason, requested_by, approved_by, created_at, updated_at`

func scanStockTransfer(row pgx.Row) (*entity.StockTransfer, error) {
	var t entity.StockTransfer
	var status string
	err := row.Scan(&t.ID, &t.TransferNumber, &t.FromBranchID, &t.ToBranchID, &status, &t.RequestDate, &t.ApprovedDate,
		&t.ShippedDate, &t.CompletedDate, &t.Notes, &t.RejectionReason, &t.RequestedBy, &t.ApprovedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Status = entity.StockTransferStatus(status)
	return &t, nil
}

// Create inserta cabecera y líneas.
func (r *StockTransferRepo) Create(ctx context.Context, t *entity.StockTransfer) error {
	return withTx(ctx, r.q, func(q Querier) error {
		query := `INSERT INTO stock_transfers (` + stockTransferColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
		_, err := q.Exec(ctx, query, t.ID, t.TransferNumber, t.FromBranchID, t.ToBranchID, string(t.Status), t.RequestDate,
			t.ApprovedDate, t.ShippedDate, t.CompletedDate, t.Notes, t.RejectionReason, t.RequestedBy, t.ApprovedBy,
			t.CreatedAt, t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert stock transfer: %w", translate(err))
		}
		return r.saveItems(ctx, q, t)
	})
}

// GetByID obtiene el traslado con sus líneas.
func (r *StockTransferRepo) GetByID(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.get(ctx, `SELECT `+stockTransferColumns+` FROM stock_transfers WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea la cabecera hasta el fin de la tx.
func (r *StockTransferRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.get(ctx, `SELECT `+stockTransferColumns+` FROM stock_transfers WHERE id = $1 FOR UPDATE`, id)
}

func (r *StockTransferRepo) get(ctx context.Context, query, id string) (*entity.StockTransfer, error) {
	t, err := scanStockTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transfer: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.StockTransfer{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// Update persiste cabecera y líneas.
func (r *StockTransferRepo) Update(ctx context.Context, t *entity.StockTransfer) error {
	return withTx(ctx, r.q, func(q Querier) error {
		query := `
			UPDATE stock_transfers SET status = $2, approved_date = $3, shipped_date = $4, completed_date = $5,
				notes = $6, rejection_reason = $7, approved_by = $8, updated_at = $9
			WHERE id = $1`
		tag, err := q.Exec(ctx, query, t.ID, string(t.Status), t.ApprovedDate, t.ShippedDate, t.CompletedDate,
			t.Notes, t.RejectionReason, t.ApprovedBy, t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update stock transfer: %w", translate(err))
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return r.saveItems(ctx, q, t)
	})
}

// List traslados filtrados; BranchID coincide con origen o destino.
func (r *StockTransferRepo) List(ctx context.Context, f repository.WorkflowFilter) ([]*entity.StockTransfer, error) {
	query := `
		SELECT ` + stockTransferColumns + ` FROM stock_transfers
		WHERE ($1 = '' OR from_branch_id = $1 OR to_branch_id = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.BranchID, f.Status, workflowLimit(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list stock transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransfer
	for rows.Next() {
		t, err := scanStockTransfer(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *StockTransferRepo) loadItems(ctx context.Context, transfers []*entity.StockTransfer) error {
	if len(transfers) == 0 {
		return nil
	}
	ids := make([]string, len(transfers))
	byID := make(map[string]*entity.StockTransfer, len(transfers))
	for i, t := range transfers {
		ids[i] = t.ID
		byID[t.ID] = t
		t.Items = []entity.StockTransferItem{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, stock_transfer_id, product_id, requested_quantity, approved_quantity, transferred_quantity
		FROM stock_transfer_items WHERE stock_transfer_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("list stock transfer items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.StockTransferItem
		if err := rows.Scan(&it.ID, &it.StockTransferID, &it.ProductID, &it.RequestedQuantity, &it.ApprovedQuantity, &it.TransferredQuantity); err != nil {
			return err
		}
		if t := byID[it.StockTransferID]; t != nil {
			t.Items = append(t.Items, it)
		}
	}
	return rows.Err()
}

func (r *StockTransferRepo) saveItems(ctx context.Context, q Querier, t *entity.StockTransfer) error {
	keep := make([]string, 0, len(t.Items))
	for _, it := range t.Items {
		keep = append(keep, it.ID)
	}
	if _, err := q.Exec(ctx, `
		DELETE FROM stock_transfer_items WHERE stock_transfer_id = $1 AND NOT (id = ANY($2))`, t.ID, keep); err != nil {
		return fmt.Errorf("delete stock transfer items: %w", err)
	}
	for _, it := range t.Items {
		_, err := q.Exec(ctx, `
			INSERT INTO stock_transfer_items (id, stock_transfer_id, product_id, requested_quantity, approved_quantity, transferred_quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET product_id = EXCLUDED.product_id,
				requested_quantity = EXCLUDED.requested_quantity, approved_quantity = EXCLUDED.approved_quantity,
				transferred_quantity = EXCLUDED.transferred_quantity`,
			it.ID, t.ID, it.ProductID, it.RequestedQuantity, it.ApprovedQuantity, it.TransferredQuantity)
		if err != nil {
			return fmt.Errorf("save stock transfer item: %w", translate(err))
		}
	}
	return nil
}
