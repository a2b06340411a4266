package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(txRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func txRepositories(q Querier) inventory.TxRepositories {
	return inventory.TxRepositories{
		Branches:       NewBranchRepository(q),
		Suppliers:      NewSupplierRepository(q),
		Products:       NewProductRepository(q),
		Logs:           NewInventoryLogRepository(q),
		Balances:       NewStockBalanceRepository(q),
		Sequences:      NewSequenceRepository(q),
		PurchaseOrders: NewPurchaseOrderRepository(q),
		Transfers:      NewStockTransferRepository(q),
		Adjustments:    NewStockAdjustmentRepository(q),
		Counts:         NewInventoryCountRepository(q),
	}
}

// beginner lo implementan *pgxpool.Pool (nueva tx) y pgx.Tx (savepoint).
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// withTx ejecuta fn atómicamente sobre q: abre una tx (o un savepoint si q ya es una tx).
func withTx(ctx context.Context, q Querier, fn func(q Querier) error) error {
	b, ok := q.(beginner)
	if !ok {
		return fn(q)
	}
	tx, err := b.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
