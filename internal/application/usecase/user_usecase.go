package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/authz"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
	"github.com/jhoicas/Cafeteria-api/pkg/jwt"
)

// UserUseCase aplica reglas de negocio para personal de sucursal y administradores.
type UserUseCase struct {
	users    repository.UserRepository
	admins   repository.AdminRepository
	branches repository.BranchRepository
	cost     int
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(users repository.UserRepository, admins repository.AdminRepository, branches repository.BranchRepository) *UserUseCase {
	return &UserUseCase{users: users, admins: admins, branches: branches, cost: bcrypt.DefaultCost}
}

// WithHashCost cambia el costo de bcrypt (tests).
func (uc *UserUseCase) WithHashCost(cost int) *UserUseCase {
	uc.cost = cost
	return uc
}

// Create crea personal de sucursal con password hasheado.
func (uc *UserUseCase) Create(ctx context.Context, actor entity.Principal, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !authz.CanAct(actor, authz.ManageUsers, in.BranchID) {
		return nil, domain.ErrForbidden
	}
	role := entity.Role(in.Role)
	if !role.IsUserRole() {
		return nil, domain.NewValidationError("role", "rol de sucursal inválido")
	}
	if err := uc.requireBranch(ctx, in.BranchID); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)
	if err := uc.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		BranchID:     in.BranchID,
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// GetByID obtiene un usuario visible para el actor.
func (uc *UserUseCase) GetByID(ctx context.Context, actor entity.Principal, id string) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFound("usuario", id)
	}
	if actor.ID != user.ID && !authz.CanAct(actor, authz.ManageUsers, user.BranchID) {
		return nil, domain.ErrForbidden
	}
	return toUserResponse(user), nil
}

// List lista el personal, opcionalmente de una sucursal.
func (uc *UserUseCase) List(ctx context.Context, actor entity.Principal, branchID string, page dto.PageRequest) (*dto.UserListResponse, error) {
	branchID, ok := authz.BranchFilter(actor, authz.ManageUsers, branchID)
	if !ok {
		return nil, domain.ErrForbidden
	}
	page = page.Normalize()
	list, err := uc.users.List(ctx, branchID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{
		Items: make([]dto.UserResponse, 0, len(list)),
		Page:  dto.NewPageResponse(page.Limit, page.Offset, len(list)),
	}
	for _, u := range list {
		out.Items = append(out.Items, *toUserResponse(u))
	}
	return out, nil
}

// Update modifica sucursal, nombre, password, rol o estado.
func (uc *UserUseCase) Update(ctx context.Context, actor entity.Principal, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFound("usuario", id)
	}
	if !authz.CanAct(actor, authz.ManageUsers, user.BranchID) {
		return nil, domain.ErrForbidden
	}
	if in.BranchID != nil && *in.BranchID != user.BranchID {
		if err := uc.requireBranch(ctx, *in.BranchID); err != nil {
			return nil, err
		}
		user.BranchID = *in.BranchID
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		role := entity.Role(*in.Role)
		if !role.IsUserRole() {
			return nil, domain.NewValidationError("role", "rol de sucursal inválido")
		}
		user.Role = role
	}
	if in.Status != nil {
		user.Status = *in.Status
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), uc.cost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Delete elimina un usuario.
func (uc *UserUseCase) Delete(ctx context.Context, actor entity.Principal, id string) error {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NewNotFound("usuario", id)
	}
	if !authz.CanAct(actor, authz.ManageUsers, user.BranchID) {
		return domain.ErrForbidden
	}
	return uc.users.Delete(ctx, id)
}

// ── Administradores ──────────────────────────────────────────────────────────

// CreateAdmin crea un administrador global (solo super_admin/owner).
func (uc *UserUseCase) CreateAdmin(ctx context.Context, actor entity.Principal, in dto.CreateAdminRequest) (*dto.UserResponse, error) {
	if !authz.CanAct(actor, authz.ManageAdmins, "") {
		return nil, domain.ErrForbidden
	}
	role := entity.Role(in.Role)
	if !role.IsAdminRole() {
		return nil, domain.NewValidationError("role", "rol de administrador inválido")
	}
	if role == entity.RoleSuperAdmin && actor.Role != entity.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	email := normalizeEmail(in.Email)
	if err := uc.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	admin := &entity.Admin{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.admins.Create(ctx, admin); err != nil {
		return nil, err
	}
	return toAdminResponse(admin), nil
}

// ListAdmins lista administradores.
func (uc *UserUseCase) ListAdmins(ctx context.Context, actor entity.Principal, page dto.PageRequest) (*dto.UserListResponse, error) {
	if !authz.CanAct(actor, authz.ManageAdmins, "") {
		return nil, domain.ErrForbidden
	}
	page = page.Normalize()
	list, err := uc.admins.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{
		Items: make([]dto.UserResponse, 0, len(list)),
		Page:  dto.NewPageResponse(page.Limit, page.Offset, len(list)),
	}
	for _, a := range list {
		out.Items = append(out.Items, *toAdminResponse(a))
	}
	return out, nil
}

func (uc *UserUseCase) ensureEmailFree(ctx context.Context, email string) error {
	u, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	a, err := uc.admins.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u != nil || a != nil {
		return domain.ErrDuplicate
	}
	return nil
}

func (uc *UserUseCase) requireBranch(ctx context.Context, id string) error {
	b, err := uc.branches.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return domain.NewValidationError("branch_id", "la sucursal no existe")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		BranchID:  u.BranchID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Kind:      jwt.KindUser,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toAdminResponse(a *entity.Admin) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      string(a.Role),
		Kind:      jwt.KindAdmin,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
