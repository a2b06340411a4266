// Package analytics contiene el caso de uso del tablero operativo: alertas de stock,
// aprobaciones pendientes y personal presente.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/authz"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

// StockAlerts lo que el tablero necesita del libro de inventario.
type StockAlerts interface {
	LowStock(ctx context.Context, actor entity.Principal, branchID string) (*dto.LowStockResponse, error)
	OutOfStock(ctx context.Context, actor entity.Principal, branchID string) (*dto.LowStockResponse, error)
}

// DashboardUseCase genera el resumen del día para una sucursal o para todas.
//
// Fuentes: el libro (alertas) y DashboardRepository (consultas read-only).
type DashboardUseCase struct {
	stock StockAlerts
	repo  repository.DashboardRepository
	loc   *time.Location
	now   func() time.Time
}

// NewDashboardUseCase construye el caso de uso. loc nil usa UTC.
func NewDashboardUseCase(stock StockAlerts, repo repository.DashboardRepository, loc *time.Location) *DashboardUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardUseCase{stock: stock, repo: repo, loc: loc, now: time.Now}
}

// WithClock reemplaza la fuente de hora (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO. Los roles de sucursal quedan fijados a la suya;
// un administrador sin branchID obtiene el agregado de todas.
//
// Cuatro consultas en paralelo:
//  1. LowStock         → LowStockCount
//  2. OutOfStock       → OutOfStockCount
//  3. PendingApprovals → PendingApprovals
//  4. OpenAttendance   → CheckedInNow
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor entity.Principal, branchID string) (*dto.DashboardSummaryDTO, error) {
	branchID, ok := authz.BranchFilter(actor, authz.ViewDashboard, branchID)
	if !ok {
		return nil, domain.ErrForbidden
	}

	now := uc.now().In(uc.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var (
		low, out *dto.LowStockResponse
		pending  repository.PendingApprovals
		present  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if low, err = uc.stock.LowStock(gctx, actor, branchID); err != nil {
			return fmt.Errorf("dashboard: stock bajo: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if out, err = uc.stock.OutOfStock(gctx, actor, branchID); err != nil {
			return fmt.Errorf("dashboard: agotados: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if pending, err = uc.repo.PendingApprovals(gctx, branchID); err != nil {
			return fmt.Errorf("dashboard: aprobaciones pendientes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if present, err = uc.repo.OpenAttendance(gctx, branchID, dayStart, dayEnd); err != nil {
			return fmt.Errorf("dashboard: asistencia: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummaryDTO{
		BranchID:        branchID,
		LowStockCount:   low.Total,
		OutOfStockCount: out.Total,
		CheckedInNow:    present,
		DateLabel:       dayLabel(now),
	}
	summary.PendingApprovals.PurchaseOrders = pending.PurchaseOrders
	summary.PendingApprovals.StockTransfers = pending.StockTransfers
	summary.PendingApprovals.StockAdjustments = pending.StockAdjustments
	summary.PendingApprovals.InventoryCounts = pending.InventoryCounts
	return summary, nil
}

// dayLabel devuelve una etiqueta legible del día, ej: "15 de Octubre 2026".
func dayLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%d de %s %d", t.Day(), months[t.Month()-1], t.Year())
}
