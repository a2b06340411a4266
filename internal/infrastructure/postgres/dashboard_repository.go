package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura del tablero.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// PendingApprovals documentos que esperan acción administrativa (branchID vacío = todas).
func (r *DashboardRepo) PendingApprovals(ctx context.Context, branchID string) (repository.PendingApprovals, error) {
	var p repository.PendingApprovals
	query := `
		SELECT
			(SELECT COUNT(*) FROM purchase_orders
			 WHERE status = 'pending_approval' AND ($1 = '' OR branch_id = $1)),
			(SELECT COUNT(*) FROM stock_transfers
			 WHERE status = 'pending' AND ($1 = '' OR from_branch_id = $1 OR to_branch_id = $1)),
			(SELECT COUNT(*) FROM stock_adjustments
			 WHERE status = 'pending' AND ($1 = '' OR branch_id = $1)),
			(SELECT COUNT(*) FROM inventory_counts
			 WHERE status = 'completed' AND ($1 = '' OR branch_id = $1))`
	err := r.q.QueryRow(ctx, query, branchID).Scan(&p.PurchaseOrders, &p.StockTransfers, &p.StockAdjustments, &p.InventoryCounts)
	if err != nil {
		return p, fmt.Errorf("pending approvals: %w", err)
	}
	return p, nil
}

// OpenAttendance personal con entrada y sin salida en [from, to).
func (r *DashboardRepo) OpenAttendance(ctx context.Context, branchID string, from, to time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM attendance
		WHERE check_out IS NULL AND check_in >= $2 AND check_in < $3 AND ($1 = '' OR branch_id = $1)`,
		branchID, from, to).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("open attendance: %w", err)
	}
	return n, nil
}
