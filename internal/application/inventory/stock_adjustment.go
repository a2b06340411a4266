package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/authz"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/inventory"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
	"github.com/jhoicas/Cafeteria-api/internal/domain/workflow"
	"github.com/jhoicas/Cafeteria-api/pkg/logger"
)

// StockAdjustmentUseCase ajustes manuales sujetos a aprobación.
type StockAdjustmentUseCase struct {
	ledger      *Ledger
	txRunner    TxRunner
	adjustments repository.StockAdjustmentRepository
	branches    repository.BranchRepository
	products    repository.ProductRepository
	log         *logger.Logger
}

// NewStockAdjustmentUseCase construye el caso de uso.
func NewStockAdjustmentUseCase(
	ledger *Ledger,
	txRunner TxRunner,
	adjustments repository.StockAdjustmentRepository,
	branches repository.BranchRepository,
	products repository.ProductRepository,
	log *logger.Logger,
) *StockAdjustmentUseCase {
	return &StockAdjustmentUseCase{
		ledger:      ledger,
		txRunner:    txRunner,
		adjustments: adjustments,
		branches:    branches,
		products:    products,
		log:         log.Component("stock_adjustments"),
	}
}

// Create solicita un ajuste. Una disminución exige stock suficiente al solicitarla.
func (uc *StockAdjustmentUseCase) Create(ctx context.Context, actor entity.Principal, in dto.CreateStockAdjustmentRequest) (*dto.StockAdjustmentResponse, error) {
	kind := entity.AdjustmentType(in.AdjustmentType)
	if kind != entity.AdjustmentIncrease && kind != entity.AdjustmentDecrease {
		return nil, domain.NewValidationError("adjustment_type", "debe ser increase o decrease")
	}
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "es obligatorio")
	}
	if !authz.CanAct(actor, authz.CreateAdjustment, in.BranchID) {
		return nil, domain.ErrForbidden
	}
	if err := requireBranch(ctx, uc.branches, in.BranchID); err != nil {
		return nil, err
	}
	p, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewValidationError("product_id", "el producto no existe")
	}
	if err := requireProductsAt(ctx, uc.ledger.logs, map[string]string{p.ID: p.BranchID}, in.BranchID); err != nil {
		return nil, err
	}

	now := uc.ledger.Now()
	adj := &entity.StockAdjustment{
		ID:             uuid.New().String(),
		BranchID:       in.BranchID,
		ProductID:      in.ProductID,
		AdjustmentType: kind,
		Quantity:       in.Quantity,
		Reason:         reason,
		Status:         entity.AdjustmentStatusPending,
		AdjustedBy:     actor.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = uc.txRunner.Run(ctx, func(repos TxRepositories) error {
		if kind == entity.AdjustmentDecrease {
			posting := uc.ledger.NewPosting(repos, now)
			if err := posting.RequireAvailable(ctx, adj.ProductID, adj.BranchID, adj.Quantity); err != nil {
				return err
			}
		}
		number, err := nextNumber(ctx, repos, inventory.PrefixStockAdjustment, now)
		if err != nil {
			return err
		}
		adj.AdjustmentNumber = number
		return repos.Adjustments.Create(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	return toStockAdjustmentResponse(adj), nil
}

// Get devuelve un ajuste visible para el actor.
func (uc *StockAdjustmentUseCase) Get(ctx context.Context, actor entity.Principal, id string) (*dto.StockAdjustmentResponse, error) {
	adj, err := uc.adjustments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if adj == nil {
		return nil, domain.NewNotFound("ajuste de stock", id)
	}
	if !authz.CanAct(actor, authz.ViewInventory, adj.BranchID) {
		return nil, domain.ErrForbidden
	}
	return toStockAdjustmentResponse(adj), nil
}

// List lista ajustes por sucursal y estado.
func (uc *StockAdjustmentUseCase) List(ctx context.Context, actor entity.Principal, filter repository.WorkflowFilter) (*dto.StockAdjustmentListResponse, error) {
	branchID, ok := authz.BranchFilter(actor, authz.ViewInventory, filter.BranchID)
	if !ok {
		return nil, domain.ErrForbidden
	}
	filter.BranchID = branchID
	list, err := uc.adjustments.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.StockAdjustmentListResponse{
		Items: make([]dto.StockAdjustmentResponse, 0, len(list)),
		Page:  dto.NewPageResponse(filter.Limit, filter.Offset, len(list)),
	}
	for _, a := range list {
		out.Items = append(out.Items, *toStockAdjustmentResponse(a))
	}
	return out, nil
}

// Approve aprueba el ajuste y registra un asiento adjustment con la cantidad con signo.
func (uc *StockAdjustmentUseCase) Approve(ctx context.Context, actor entity.Principal, id string) (*dto.StockAdjustmentResponse, error) {
	var posting *Posting
	resp, err := uc.transition(ctx, actor, id, workflow.ActionApprove, func(repos TxRepositories, a *entity.StockAdjustment) error {
		now := uc.ledger.Now()
		posting = uc.ledger.NewPosting(repos, now)
		if _, err := posting.Post(ctx, Entry{
			ProductID:  a.ProductID,
			BranchID:   a.BranchID,
			ChangeType: entity.ChangeAdjustment,
			Quantity:   a.EffectiveQuantity(),
			Notes:      fmt.Sprintf("Ajuste %s: %s", a.AdjustmentNumber, a.Reason),
			ActorID:    actor.ID,
		}); err != nil {
			return err
		}
		approver := actor.ID
		a.ApprovedBy = &approver
		a.ApprovedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.invalidate(ctx, posting.Keys())
	uc.log.Branch(resp.BranchID).Info().Str("adjustment_number", resp.AdjustmentNumber).Int("quantity", resp.EffectiveQuantity).Msg("ajuste aprobado")
	return resp, nil
}

// Reject rechaza el ajuste. Estado terminal sin efecto en el libro.
func (uc *StockAdjustmentUseCase) Reject(ctx context.Context, actor entity.Principal, id string, in dto.ReasonRequest) (*dto.StockAdjustmentResponse, error) {
	return uc.transition(ctx, actor, id, workflow.ActionReject, func(_ TxRepositories, a *entity.StockAdjustment) error {
		now := uc.ledger.Now()
		approver := actor.ID
		a.RejectionReason = strings.TrimSpace(in.Reason)
		a.ApprovedBy = &approver
		a.ApprovedAt = &now
		return nil
	})
}

func (uc *StockAdjustmentUseCase) transition(
	ctx context.Context,
	actor entity.Principal,
	id string,
	step workflow.Action,
	mutate func(repos TxRepositories, a *entity.StockAdjustment) error,
) (*dto.StockAdjustmentResponse, error) {
	var adj *entity.StockAdjustment
	err := uc.txRunner.Run(ctx, func(repos TxRepositories) error {
		a, err := repos.Adjustments.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.NewNotFound("ajuste de stock", id)
		}
		if !authz.CanAct(actor, authz.ApproveAdjustment, a.BranchID) {
			return domain.ErrForbidden
		}
		next, err := workflow.StockAdjustments.Transition(a.Status, step)
		if err != nil {
			return err
		}
		if err := mutate(repos, a); err != nil {
			return err
		}
		a.Status = next
		a.UpdatedAt = uc.ledger.Now()
		if err := repos.Adjustments.Update(ctx, a); err != nil {
			return err
		}
		adj = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toStockAdjustmentResponse(adj), nil
}

func toStockAdjustmentResponse(a *entity.StockAdjustment) *dto.StockAdjustmentResponse {
	return &dto.StockAdjustmentResponse{
		ID:                a.ID,
		AdjustmentNumber:  a.AdjustmentNumber,
		BranchID:          a.BranchID,
		ProductID:         a.ProductID,
		AdjustmentType:    string(a.AdjustmentType),
		Quantity:          a.Quantity,
		EffectiveQuantity: a.EffectiveQuantity(),
		Reason:            a.Reason,
		Status:            string(a.Status),
		RejectionReason:   a.RejectionReason,
		AdjustedBy:        a.AdjustedBy,
		ApprovedBy:        a.ApprovedBy,
		ApprovedAt:        a.ApprovedAt,
		CreatedAt:         a.CreatedAt,
	}
}
