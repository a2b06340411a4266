package entity

import "time"

// Role rol de un principal (administrador global o personal de sucursal).
type Role string

// Roles de administrador (actúan sobre todas las sucursales).
const (
	RoleSuperAdmin Role = "super_admin"
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
)

// Roles de personal de sucursal (limitados a su branch_id).
const (
	RoleBranchManager Role = "branch_manager"
	RoleCashier       Role = "cashier"
	RoleBarista       Role = "barista"
	RoleStaff         Role = "staff"
)

// IsAdminRole indica si el rol pertenece a la tabla de administradores.
func (r Role) IsAdminRole() bool {
	switch r {
	case RoleSuperAdmin, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// IsUserRole indica si el rol es de personal de sucursal.
func (r Role) IsUserRole() bool {
	switch r {
	case RoleBranchManager, RoleCashier, RoleBarista, RoleStaff:
		return true
	}
	return false
}

// Estados de usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User personal de una sucursal.
type User struct {
	ID           string
	BranchID     string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         Role
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Admin administrador global (Super Admin, Owner, Admin).
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal actor autenticado de una petición: admin o usuario de sucursal.
// BranchID vacío para administradores.
type Principal struct {
	ID       string
	Role     Role
	BranchID string
}

// IsAdmin indica si el principal es administrador.
func (p Principal) IsAdmin() bool { return p.Role.IsAdminRole() }
