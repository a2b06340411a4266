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

// BranchUseCase CRUD de sucursales.
type BranchUseCase struct {
	repo repository.BranchRepository
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(repo repository.BranchRepository) *BranchUseCase {
	return &BranchUseCase{repo: repo}
}

// Create crea una sucursal (activa por defecto).
func (uc *BranchUseCase) Create(ctx context.Context, actor entity.Principal, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	if !authz.CanAct(actor, authz.ManageBranches, "") {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	status := in.Status
	if status == "" {
		status = entity.BranchStatusActive
	}
	now := time.Now()
	b := &entity.Branch{
		ID:        uuid.New().String(),
		Name:      name,
		Location:  strings.TrimSpace(in.Location),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return toBranchResponse(b), nil
}

// GetByID obtiene una sucursal; el personal solo ve la suya.
func (uc *BranchUseCase) GetByID(ctx context.Context, actor entity.Principal, id string) (*dto.BranchResponse, error) {
	if !authz.CanAct(actor, authz.ManageBranches, id) && actor.BranchID != id {
		return nil, domain.ErrForbidden
	}
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.NewNotFound("sucursal", id)
	}
	return toBranchResponse(b), nil
}

// List lista sucursales (solo administradores).
func (uc *BranchUseCase) List(ctx context.Context, actor entity.Principal, page dto.PageRequest) (*dto.BranchListResponse, error) {
	if !authz.CanAct(actor, authz.ManageBranches, "") {
		return nil, domain.ErrForbidden
	}
	page = page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.BranchListResponse{
		Items: make([]dto.BranchResponse, 0, len(list)),
		Page:  dto.NewPageResponse(page.Limit, page.Offset, len(list)),
	}
	for _, b := range list {
		out.Items = append(out.Items, *toBranchResponse(b))
	}
	return out, nil
}

// Update actualiza nombre, ubicación o estado.
func (uc *BranchUseCase) Update(ctx context.Context, actor entity.Principal, id string, in dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	if !authz.CanAct(actor, authz.ManageBranches, id) {
		return nil, domain.ErrForbidden
	}
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.NewNotFound("sucursal", id)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "no puede quedar vacío")
		}
		b.Name = name
	}
	if in.Location != nil {
		b.Location = strings.TrimSpace(*in.Location)
	}
	if in.Status != nil {
		b.Status = *in.Status
	}
	b.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return toBranchResponse(b), nil
}

// Delete elimina la sucursal. Falla con ErrBranchHasUsers mientras tenga personal asignado.
func (uc *BranchUseCase) Delete(ctx context.Context, actor entity.Principal, id string) error {
	if !authz.CanAct(actor, authz.ManageBranches, id) {
		return domain.ErrForbidden
	}
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return domain.NewNotFound("sucursal", id)
	}
	n, err := uc.repo.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrBranchHasUsers
	}
	return uc.repo.Delete(ctx, id)
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	return &dto.BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Location:  b.Location,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
