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

// SupplierUseCase CRUD de proveedores (catálogo global).
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un proveedor.
func (uc *SupplierUseCase) Create(ctx context.Context, actor entity.Principal, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if !authz.CanAct(actor, authz.ManageSuppliers, "") {
		return nil, domain.ErrForbidden
	}
	if in.CreditLimit.IsNegative() {
		return nil, domain.NewValidationError("credit_limit", "no puede ser negativo")
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Name),
		ContactPerson: strings.TrimSpace(in.ContactPerson),
		Email:         normalizeEmail(in.Email),
		Phone:         strings.TrimSpace(in.Phone),
		Address:       strings.TrimSpace(in.Address),
		CreditLimit:   in.CreditLimit.Round(2),
		IsActive:      active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// GetByID obtiene un proveedor.
func (uc *SupplierUseCase) GetByID(ctx context.Context, actor entity.Principal, id string) (*dto.SupplierResponse, error) {
	if !canViewSuppliers(actor) {
		return nil, domain.ErrForbidden
	}
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NewNotFound("proveedor", id)
	}
	return toSupplierResponse(s), nil
}

// List lista proveedores.
func (uc *SupplierUseCase) List(ctx context.Context, actor entity.Principal, activeOnly bool, page dto.PageRequest) (*dto.SupplierListResponse, error) {
	if !canViewSuppliers(actor) {
		return nil, domain.ErrForbidden
	}
	page = page.Normalize()
	list, err := uc.repo.List(ctx, activeOnly, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.SupplierListResponse{
		Items: make([]dto.SupplierResponse, 0, len(list)),
		Page:  dto.NewPageResponse(page.Limit, page.Offset, len(list)),
	}
	for _, s := range list {
		out.Items = append(out.Items, *toSupplierResponse(s))
	}
	return out, nil
}

// Update actualiza un proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, actor entity.Principal, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	if !authz.CanAct(actor, authz.ManageSuppliers, "") {
		return nil, domain.ErrForbidden
	}
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NewNotFound("proveedor", id)
	}
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.ContactPerson != nil {
		s.ContactPerson = strings.TrimSpace(*in.ContactPerson)
	}
	if in.Email != nil {
		s.Email = normalizeEmail(*in.Email)
	}
	if in.Phone != nil {
		s.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		s.Address = strings.TrimSpace(*in.Address)
	}
	if in.CreditLimit != nil {
		if in.CreditLimit.IsNegative() {
			return nil, domain.NewValidationError("credit_limit", "no puede ser negativo")
		}
		s.CreditLimit = in.CreditLimit.Round(2)
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Delete elimina un proveedor sin órdenes de compra asociadas.
func (uc *SupplierUseCase) Delete(ctx context.Context, actor entity.Principal, id string) error {
	if !authz.CanAct(actor, authz.ManageSuppliers, "") {
		return domain.ErrForbidden
	}
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.NewNotFound("proveedor", id)
	}
	n, err := uc.repo.CountPurchaseOrders(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrSupplierInUse
	}
	return uc.repo.Delete(ctx, id)
}

// canViewSuppliers el catálogo de proveedores no pertenece a una sucursal: basta con que el
// rol tenga el permiso sobre la propia.
func canViewSuppliers(actor entity.Principal) bool {
	return authz.CanAct(actor, authz.ViewSuppliers, actor.BranchID) || authz.CanAct(actor, authz.ViewSuppliers, "")
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		CreditLimit:   s.CreditLimit,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
