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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, branch_id, name, category, product_unit, sale_unit, base_price, is_active, low_stock_threshold, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.BranchID, &p.Name, &p.Category, &p.ProductUnit, &p.SaleUnit,
		&p.BasePrice, &p.IsActive, &p.LowStockThreshold, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un producto con sus variantes.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.atomic(ctx, func(q Querier) error {
		query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		_, err := q.Exec(ctx, query,
			product.ID, product.BranchID, product.Name, product.Category, product.ProductUnit, product.SaleUnit,
			product.BasePrice, product.IsActive, product.LowStockThreshold, product.CreatedAt, product.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert product: %w", translate(err))
		}
		return insertVariants(ctx, q, product.Variants)
	})
}

// GetByID obtiene un producto por ID con sus variantes.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.loadVariants(ctx, []*entity.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// Update actualiza el producto y reemplaza el conjunto de variantes.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	return r.atomic(ctx, func(q Querier) error {
		query := `
			UPDATE products SET name = $2, category = $3, product_unit = $4, sale_unit = $5, base_price = $6,
				is_active = $7, low_stock_threshold = $8, updated_at = $9
			WHERE id = $1`
		tag, err := q.Exec(ctx, query,
			product.ID, product.Name, product.Category, product.ProductUnit, product.SaleUnit,
			product.BasePrice, product.IsActive, product.LowStockThreshold, product.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update product: %w", translate(err))
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		if _, err := q.Exec(ctx, `DELETE FROM product_variants WHERE product_id = $1`, product.ID); err != nil {
			return fmt.Errorf("delete variants: %w", err)
		}
		return insertVariants(ctx, q, product.Variants)
	})
}

// List lista productos con filtros, ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	search := ""
	if f.Search != "" {
		search = likePattern(f.Search)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE ($1 = '' OR branch_id = $1)
		  AND ($2 = '' OR category = $2)
		  AND ($3 = '' OR name ILIKE $3)
		  AND (NOT $4 OR is_active)
		ORDER BY name LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query, f.BranchID, f.Category, search, f.ActiveOnly, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadVariants(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete elimina el producto (las variantes caen en cascada). Con asientos en el libro → ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) loadVariants(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	byID := make(map[string]*entity.Product, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Variants = []entity.ProductVariant{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, name, price, is_active FROM product_variants
		WHERE product_id = ANY($1) ORDER BY name`, ids)
	if err != nil {
		return fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v entity.ProductVariant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.Price, &v.IsActive); err != nil {
			return err
		}
		if p := byID[v.ProductID]; p != nil {
			p.Variants = append(p.Variants, v)
		}
	}
	return rows.Err()
}

func insertVariants(ctx context.Context, q Querier, variants []entity.ProductVariant) error {
	for _, v := range variants {
		_, err := q.Exec(ctx, `
			INSERT INTO product_variants (id, product_id, name, price, is_active) VALUES ($1, $2, $3, $4, $5)`,
			v.ID, v.ProductID, v.Name, v.Price, v.IsActive)
		if err != nil {
			return fmt.Errorf("insert variant: %w", translate(err))
		}
	}
	return nil
}

// atomic ejecuta fn en una transacción propia (o savepoint si el Querier ya es una tx).
func (r *ProductRepo) atomic(ctx context.Context, fn func(q Querier) error) error {
	return withTx(ctx, r.q, fn)
}
