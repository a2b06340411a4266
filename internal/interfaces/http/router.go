package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Cafeteria-api/internal/application/analytics"
	"github.com/jhoicas/Cafeteria-api/internal/application/auth"
	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
	"github.com/jhoicas/Cafeteria-api/internal/application/usecase"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	BranchUC        *usecase.BranchUseCase
	UserUC          *usecase.UserUseCase
	SupplierUC      *usecase.SupplierUseCase
	ProductUC       *usecase.ProductUseCase
	AttendanceUC    *usecase.AttendanceUseCase
	Ledger          *inventory.Ledger
	PurchaseOrders  *inventory.PurchaseOrderUseCase
	StockTransfers  *inventory.StockTransferUseCase
	StockAdjustment *inventory.StockAdjustmentUseCase
	InventoryCounts *inventory.InventoryCountUseCase
	DashboardUC     *appanalytics.DashboardUseCase
	JWTSecret       string
	Location        *time.Location // zona del negocio para fechas en query
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token vigente y no revocado)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.AuthUC))
	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/logout", authHandler.Logout)

	branches := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Get("/", branchHandler.List)
	branches.Post("/", branchHandler.Create)
	branches.Get("/:id", branchHandler.GetByID)
	branches.Put("/:id", branchHandler.Update)
	branches.Delete("/:id", branchHandler.Delete)

	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	admins := protected.Group("/admins", RequireRole(
		string(entity.RoleSuperAdmin), string(entity.RoleOwner), string(entity.RoleAdmin),
	))
	admins.Get("/", userHandler.ListAdmins)
	admins.Post("/", userHandler.CreateAdmin)

	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Ledger)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/stock", productHandler.Stock)

	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Location)
	protected.Get("/inventory-logs", inventoryHandler.ListLogs)
	protected.Post("/inventory-logs", inventoryHandler.RecordLog)
	protected.Get("/low-stock-alerts/products", inventoryHandler.LowStock)
	protected.Get("/low-stock-alerts/out-of-stock", inventoryHandler.OutOfStock)

	orders := protected.Group("/purchase-orders")
	orderHandler := NewPurchaseOrderHandler(deps.PurchaseOrders)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Put("/:id", orderHandler.Update)
	orders.Get("/:id/pdf", orderHandler.PDF)
	orders.Post("/:id/submit-for-approval", orderHandler.Submit)
	orders.Post("/:id/approve", orderHandler.Approve)
	orders.Post("/:id/mark-ordered", orderHandler.MarkOrdered)
	orders.Post("/:id/deliver", orderHandler.Deliver)
	orders.Post("/:id/cancel", orderHandler.Cancel)

	transfers := protected.Group("/stock-transfers")
	transferHandler := NewStockTransferHandler(deps.StockTransfers)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.Get)
	transfers.Put("/:id", transferHandler.Update)
	transfers.Post("/:id/approve", transferHandler.Approve)
	transfers.Post("/:id/ship", transferHandler.Ship)
	transfers.Post("/:id/complete", transferHandler.Complete)
	transfers.Post("/:id/reject", transferHandler.Reject)
	transfers.Post("/:id/cancel", transferHandler.Cancel)

	adjustments := protected.Group("/stock-adjustments")
	adjustmentHandler := NewStockAdjustmentHandler(deps.StockAdjustment)
	adjustments.Post("/", adjustmentHandler.Create)
	adjustments.Get("/", adjustmentHandler.List)
	adjustments.Get("/:id", adjustmentHandler.Get)
	adjustments.Post("/:id/approve", adjustmentHandler.Approve)
	adjustments.Post("/:id/reject", adjustmentHandler.Reject)

	counts := protected.Group("/inventory-counts")
	countHandler := NewInventoryCountHandler(deps.InventoryCounts)
	counts.Post("/", countHandler.Create)
	counts.Get("/", countHandler.List)
	counts.Get("/:id", countHandler.Get)
	counts.Post("/:id/items", countHandler.AddItem)
	counts.Put("/:id/items/:itemId", countHandler.UpdateItem)
	counts.Post("/:id/complete", countHandler.Complete)
	counts.Post("/:id/approve", countHandler.Approve)

	attendance := protected.Group("/attendance")
	attendanceHandler := NewAttendanceHandler(deps.AttendanceUC, deps.Location)
	attendance.Post("/check-in", attendanceHandler.CheckIn)
	attendance.Post("/check-out", attendanceHandler.CheckOut)
	attendance.Get("/me", attendanceHandler.Mine)
	attendance.Get("/branch", attendanceHandler.Branch)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
}
