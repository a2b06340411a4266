package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo saldo bloqueable por (producto, sucursal). Debe usarse dentro de una tx.
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador.
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

// GetForUpdate crea la fila si falta (inicializada con la suma del libro) y la bloquea con
// SELECT FOR UPDATE hasta el fin de la transacción.
func (r *StockBalanceRepo) GetForUpdate(ctx context.Context, productID, branchID string) (*entity.StockBalance, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_balances (product_id, branch_id, quantity, updated_at)
		SELECT $1, $2, COALESCE(SUM(quantity), 0), now()
		FROM inventory_logs WHERE product_id = $1 AND branch_id = $2
		ON CONFLICT (product_id, branch_id) DO NOTHING`, productID, branchID)
	if err != nil {
		return nil, fmt.Errorf("init stock balance: %w", translate(err))
	}
	var b entity.StockBalance
	err = r.q.QueryRow(ctx, `
		SELECT product_id, branch_id, quantity, updated_at
		FROM stock_balances WHERE product_id = $1 AND branch_id = $2
		FOR UPDATE`, productID, branchID).Scan(&b.ProductID, &b.BranchID, &b.Quantity, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get stock balance for update: %w", err)
	}
	return &b, nil
}

// Save persiste el saldo actualizado.
func (r *StockBalanceRepo) Save(ctx context.Context, b *entity.StockBalance) error {
	_, err := r.q.Exec(ctx, `
		UPDATE stock_balances SET quantity = $3, updated_at = $4
		WHERE product_id = $1 AND branch_id = $2`, b.ProductID, b.BranchID, b.Quantity, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save stock balance: %w", err)
	}
	return nil
}
