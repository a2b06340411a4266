package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/authz"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía libro de inventario.
type ProductUseCase struct {
	repo     repository.ProductRepository
	branches repository.BranchRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, branches repository.BranchRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, branches: branches}
}

// Create crea un nuevo producto con sus variantes.
func (uc *ProductUseCase) Create(ctx context.Context, actor entity.Principal, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !authz.CanAct(actor, authz.ManageProducts, in.BranchID) {
		return nil, domain.ErrForbidden
	}
	if in.BasePrice.IsNegative() {
		return nil, domain.NewValidationError("base_price", "no puede ser negativo")
	}
	if in.LowStockThreshold < 0 {
		return nil, domain.NewValidationError("low_stock_threshold", "no puede ser negativo")
	}
	b, err := uc.branches.GetByID(ctx, in.BranchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.NewValidationError("branch_id", "la sucursal no existe")
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		BranchID:          in.BranchID,
		Name:              strings.TrimSpace(in.Name),
		Category:          strings.TrimSpace(in.Category),
		ProductUnit:       in.ProductUnit,
		SaleUnit:          in.SaleUnit,
		BasePrice:         in.BasePrice.Round(2),
		IsActive:          active,
		LowStockThreshold: in.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if product.Variants, err = buildVariants(product.ID, in.Variants); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, actor entity.Principal, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFound("producto", id)
	}
	if !authz.CanAct(actor, authz.ViewInventory, product.BranchID) {
		return nil, domain.ErrForbidden
	}
	return toProductResponse(product), nil
}

// List lista productos con filtros; el personal queda fijado a su sucursal.
func (uc *ProductUseCase) List(ctx context.Context, actor entity.Principal, filter repository.ProductFilter) (*dto.ProductListResponse, error) {
	branchID, ok := authz.BranchFilter(actor, authz.ViewInventory, filter.BranchID)
	if !ok {
		return nil, domain.ErrForbidden
	}
	filter.BranchID = branchID
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Items: make([]dto.ProductResponse, 0, len(list)),
		Page:  dto.NewPageResponse(filter.Limit, filter.Offset, len(list)),
	}
	for _, p := range list {
		out.Items = append(out.Items, *toProductResponse(p))
	}
	return out, nil
}

// Update actualiza un producto. Variants != nil reemplaza el conjunto completo.
func (uc *ProductUseCase) Update(ctx context.Context, actor entity.Principal, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFound("producto", id)
	}
	if !authz.CanAct(actor, authz.ManageProducts, product.BranchID) {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.ProductUnit != nil {
		product.ProductUnit = *in.ProductUnit
	}
	if in.SaleUnit != nil {
		product.SaleUnit = *in.SaleUnit
	}
	if in.BasePrice != nil {
		if in.BasePrice.IsNegative() {
			return nil, domain.NewValidationError("base_price", "no puede ser negativo")
		}
		product.BasePrice = in.BasePrice.Round(2)
	}
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return nil, domain.NewValidationError("low_stock_threshold", "no puede ser negativo")
		}
		product.LowStockThreshold = *in.LowStockThreshold
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if in.Variants != nil {
		if product.Variants, err = buildVariants(product.ID, in.Variants); err != nil {
			return nil, err
		}
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto. Si tiene asientos en el libro la BD responde conflicto.
func (uc *ProductUseCase) Delete(ctx context.Context, actor entity.Principal, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.NewNotFound("producto", id)
	}
	if !authz.CanAct(actor, authz.ManageProducts, product.BranchID) {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(ctx, id)
}

func buildVariants(productID string, in []dto.ProductVariantInput) ([]entity.ProductVariant, error) {
	out := make([]entity.ProductVariant, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return nil, domain.NewValidationError("variants.name", "es obligatorio")
		}
		if seen[strings.ToLower(name)] {
			return nil, domain.NewValidationError("variants.name", "variante repetida: "+name)
		}
		seen[strings.ToLower(name)] = true
		if v.Price.IsNegative() {
			return nil, domain.NewValidationError("variants.price", "no puede ser negativo")
		}
		active := true
		if v.IsActive != nil {
			active = *v.IsActive
		}
		out = append(out, entity.ProductVariant{
			ID:        uuid.New().String(),
			ProductID: productID,
			Name:      name,
			Price:     v.Price.Round(2),
			IsActive:  active,
		})
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	variants := make([]dto.ProductVariantResponse, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, dto.ProductVariantResponse{
			ID:       v.ID,
			Name:     v.Name,
			Price:    v.Price,
			IsActive: v.IsActive,
		})
	}
	return &dto.ProductResponse{
		ID:                p.ID,
		BranchID:          p.BranchID,
		Name:              p.Name,
		Category:          p.Category,
		ProductUnit:       p.ProductUnit,
		SaleUnit:          p.SaleUnit,
		BasePrice:         p.BasePrice,
		IsActive:          p.IsActive,
		LowStockThreshold: p.LowStockThreshold,
		Variants:          variants,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
