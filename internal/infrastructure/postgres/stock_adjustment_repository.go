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

var _ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)

// StockAdjustmentRepo ajustes de stock sobre PostgreSQL.
type StockAdjustmentRepo struct {
	q Querier
}

// NewStockAdjustmentRepository construye el adaptador.
func NewStockAdjustmentRepository(q Querier) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{q: q}
}

const stockAdjustmentColumns = `id, adjustment_number, branch_id, product_id, adjustment_type, quantity, reason, status,
	rejection_reason, adjusted_by, approved_by, approved_at, created_at, updated_at`

func scanStockAdjustment(row pgx.Row) (*entity.StockAdjustment, error) {
	var a entity.StockAdjustment
	var typ, status string
	err := row.Scan(&a.ID, &a.AdjustmentNumber, &a.BranchID, &a.ProductID, &typ, &a.Quantity, &a.Reason, &status,
		&a.RejectionReason, &a.AdjustedBy, &a.ApprovedBy, &a.ApprovedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.AdjustmentType = entity.AdjustmentType(typ)
	a.Status = entity.StockAdjustmentStatus(status)
	return &a, nil
}

// Create inserta un ajuste.
func (r *StockAdjustmentRepo) Create(ctx context.Context, a *entity.StockAdjustment) error {
	query := `INSERT INTO stock_adjustments (` + stockAdjustmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query, a.ID, a.AdjustmentNumber, a.BranchID, a.ProductID, string(a.AdjustmentType), a.Quantity,
		a.Reason, string(a.Status), a.RejectionReason, a.AdjustedBy, a.ApprovedBy, a.ApprovedAt, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert stock adjustment: %w", translate(err))
	}
	return nil
}

// GetByID obtiene un ajuste.
func (r *StockAdjustmentRepo) GetByID(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	return r.get(ctx, `SELECT `+stockAdjustmentColumns+` FROM stock_adjustments WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea el ajuste hasta el fin de la tx.
func (r *StockAdjustmentRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	return r.get(ctx, `SELECT `+stockAdjustmentColumns+` FROM stock_adjustments WHERE id = $1 FOR UPDATE`, id)
}

func (r *StockAdjustmentRepo) get(ctx context.Context, query, id string) (*entity.StockAdjustment, error) {
	a, err := scanStockAdjustment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock adjustment: %w", err)
	}
	return a, nil
}

// Update persiste estado y datos de aprobación.
func (r *StockAdjustmentRepo) Update(ctx context.Context, a *entity.StockAdjustment) error {
	query := `
		UPDATE stock_adjustments SET status = $2, rejection_reason = $3, approved_by = $4, approved_at = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, a.ID, string(a.Status), a.RejectionReason, a.ApprovedBy, a.ApprovedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock adjustment: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List ajustes filtrados, más recientes primero.
func (r *StockAdjustmentRepo) List(ctx context.Context, f repository.WorkflowFilter) ([]*entity.StockAdjustment, error) {
	query := `
		SELECT ` + stockAdjustmentColumns + ` FROM stock_adjustments
		WHERE ($1 = '' OR branch_id = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.BranchID, f.Status, workflowLimit(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list stock adjustments: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAdjustment
	for rows.Next() {
		a, err := scanStockAdjustment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
