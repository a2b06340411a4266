package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
)

// Convención de los puertos: GetByID/GetByEmail devuelven (nil, nil) cuando no existe.

// BranchRepository define el puerto de persistencia para Branch (DIP).
type BranchRepository interface {
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, id string) (*entity.Branch, error)
	Update(ctx context.Context, branch *entity.Branch) error
	List(ctx context.Context, limit, offset int) ([]*entity.Branch, error)
	Delete(ctx context.Context, id string) error
	CountUsers(ctx context.Context, branchID string) (int, error)
}

// UserRepository define el puerto de persistencia para el personal de sucursal.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, branchID string, limit, offset int) ([]*entity.User, error)
	Delete(ctx context.Context, id string) error
}

// AdminRepository define el puerto de persistencia para administradores globales.
type AdminRepository interface {
	Create(ctx context.Context, admin *entity.Admin) error
	GetByID(ctx context.Context, id string) (*entity.Admin, error)
	GetByEmail(ctx context.Context, email string) (*entity.Admin, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Admin, error)
}

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Supplier, error)
	Delete(ctx context.Context, id string) error
	CountPurchaseOrders(ctx context.Context, supplierID string) (int, error)
}

// ProductFilter filtros del catálogo.
type ProductFilter struct {
	BranchID   string
	Category   string
	Search     string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product y sus variantes.
// Update reemplaza el conjunto de variantes.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}

// AttendanceRepository define el puerto de persistencia para asistencia.
type AttendanceRepository interface {
	Create(ctx context.Context, a *entity.Attendance) error
	Update(ctx context.Context, a *entity.Attendance) error
	// FindOpen registro sin salida del usuario con entrada en [from, to).
	FindOpen(ctx context.Context, userID string, from, to time.Time) (*entity.Attendance, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Attendance, error)
	ListByBranch(ctx context.Context, branchID string, from, to time.Time, limit, offset int) ([]*entity.Attendance, error)
}
