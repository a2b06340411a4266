package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Sucursales ───────────────────────────────────────────────────────────────

// CreateBranchRequest entrada para crear una sucursal.
type CreateBranchRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=150"`
	Location string `json:"location" validate:"omitempty,max=255"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateBranchRequest entrada para actualizar una sucursal.
type UpdateBranchRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=150"`
	Location *string `json:"location" validate:"omitempty,max=255"`
	Status   *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// BranchResponse salida de una sucursal.
type BranchResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BranchListResponse lista paginada de sucursales.
type BranchListResponse struct {
	Items []BranchResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// ── Usuarios y administradores ───────────────────────────────────────────────

// CreateUserRequest entrada para crear personal de sucursal (password se hashea en el use case).
type CreateUserRequest struct {
	BranchID string `json:"branch_id" validate:"required"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=branch_manager cashier barista staff"`
}

// UpdateUserRequest entrada para actualizar personal de sucursal.
type UpdateUserRequest struct {
	BranchID *string `json:"branch_id"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"role" validate:"omitempty,oneof=branch_manager cashier barista staff"`
	Status   *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	BranchID  string    `json:"branch_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CreateAdminRequest entrada para crear un administrador.
type CreateAdminRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=super_admin owner admin"`
}

// ── Auth ─────────────────────────────────────────────────────────────────────

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token firmado con expiración más el principal autenticado.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ── Proveedores ──────────────────────────────────────────────────────────────

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	ContactPerson string          `json:"contact_person" validate:"omitempty,max=150"`
	Email         string          `json:"email" validate:"omitempty,email"`
	Phone         string          `json:"phone" validate:"omitempty,max=50"`
	Address       string          `json:"address" validate:"omitempty,max=255"`
	CreditLimit   decimal.Decimal `json:"credit_limit"`
	IsActive      *bool           `json:"is_active"`
}

// UpdateSupplierRequest entrada para actualizar un proveedor.
type UpdateSupplierRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	ContactPerson *string          `json:"contact_person" validate:"omitempty,max=150"`
	Email         *string          `json:"email" validate:"omitempty,email"`
	Phone         *string          `json:"phone" validate:"omitempty,max=50"`
	Address       *string          `json:"address" validate:"omitempty,max=255"`
	CreditLimit   *decimal.Decimal `json:"credit_limit"`
	IsActive      *bool            `json:"is_active"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	ContactPerson string          `json:"contact_person"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	CreditLimit   decimal.Decimal `json:"credit_limit"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// SupplierListResponse lista paginada de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ── Asistencia ───────────────────────────────────────────────────────────────

// AttendanceResponse salida de un registro de asistencia.
type AttendanceResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	BranchID   string     `json:"branch_id"`
	CheckIn    time.Time  `json:"check_in"`
	CheckOut   *time.Time `json:"check_out,omitempty"`
	TotalHours string     `json:"total_hours,omitempty"`
}

// AttendanceListResponse lista paginada de asistencia.
type AttendanceListResponse struct {
	Items []AttendanceResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// ── Dashboard ────────────────────────────────────────────────────────────────

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	BranchID         string `json:"branch_id,omitempty"`
	LowStockCount    int    `json:"low_stock_count"`
	OutOfStockCount  int    `json:"out_of_stock_count"`
	PendingApprovals struct {
		PurchaseOrders   int `json:"purchase_orders"`
		StockTransfers   int `json:"stock_transfers"`
		StockAdjustments int `json:"stock_adjustments"`
		InventoryCounts  int `json:"inventory_counts"`
	} `json:"pending_approvals"`
	CheckedInNow int    `json:"checked_in_now"`
	DateLabel    string `json:"date_label"` // ej: "15 de Octubre 2026"
}
