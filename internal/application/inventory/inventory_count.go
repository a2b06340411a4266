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

// InventoryCountUseCase conteos físicos y su conciliación con el libro.
type InventoryCountUseCase struct {
	ledger   *Ledger
	txRunner TxRunner
	counts   repository.InventoryCountRepository
	branches repository.BranchRepository
	products repository.ProductRepository
	log      *logger.Logger
}

// NewInventoryCountUseCase construye el caso de uso.
func NewInventoryCountUseCase(
	ledger *Ledger,
	txRunner TxRunner,
	counts repository.InventoryCountRepository,
	branches repository.BranchRepository,
	products repository.ProductRepository,
	log *logger.Logger,
) *InventoryCountUseCase {
	return &InventoryCountUseCase{
		ledger:   ledger,
		txRunner: txRunner,
		counts:   counts,
		branches: branches,
		products: products,
		log:      log.Component("inventory_counts"),
	}
}

// Create abre un conteo en estado in_progress.
func (uc *InventoryCountUseCase) Create(ctx context.Context, actor entity.Principal, in dto.CreateInventoryCountRequest) (*dto.InventoryCountResponse, error) {
	if !authz.CanAct(actor, authz.ConductCount, in.BranchID) {
		return nil, domain.ErrForbidden
	}
	if err := requireBranch(ctx, uc.branches, in.BranchID); err != nil {
		return nil, err
	}
	now := uc.ledger.Now()
	countDate := now
	if in.CountDate != nil {
		countDate = *in.CountDate
	}
	count := &entity.InventoryCount{
		ID:          uuid.New().String(),
		BranchID:    in.BranchID,
		CountDate:   countDate,
		Status:      entity.CountStatusInProgress,
		Notes:       strings.TrimSpace(in.Notes),
		ConductedBy: actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(repos TxRepositories) error {
		number, err := nextNumber(ctx, repos, inventory.PrefixInventoryCount, now)
		if err != nil {
			return err
		}
		count.CountNumber = number
		return repos.Counts.Create(ctx, count)
	})
	if err != nil {
		return nil, err
	}
	return toInventoryCountResponse(count), nil
}

// Get devuelve un conteo visible para el actor.
func (uc *InventoryCountUseCase) Get(ctx context.Context, actor entity.Principal, id string) (*dto.InventoryCountResponse, error) {
	c, err := uc.counts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFound("conteo de inventario", id)
	}
	if !authz.CanAct(actor, authz.ViewInventory, c.BranchID) {
		return nil, domain.ErrForbidden
	}
	return toInventoryCountResponse(c), nil
}

// List lista conteos por sucursal y estado.
func (uc *InventoryCountUseCase) List(ctx context.Context, actor entity.Principal, filter repository.WorkflowFilter) (*dto.InventoryCountListResponse, error) {
	branchID, ok := authz.BranchFilter(actor, authz.ViewInventory, filter.BranchID)
	if !ok {
		return nil, domain.ErrForbidden
	}
	filter.BranchID = branchID
	list, err := uc.counts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.InventoryCountListResponse{
		Items: make([]dto.InventoryCountResponse, 0, len(list)),
		Page:  dto.NewPageResponse(filter.Limit, filter.Offset, len(list)),
	}
	for _, c := range list {
		out.Items = append(out.Items, *toInventoryCountResponse(c))
	}
	return out, nil
}

// AddItem agrega un producto contado. La cantidad de sistema es la foto del stock actual
// y la diferencia es contado − sistema.
func (uc *InventoryCountUseCase) AddItem(ctx context.Context, actor entity.Principal, countID string, in dto.AddCountItemRequest) (*dto.InventoryCountResponse, error) {
	if in.CountedQuantity < 0 {
		return nil, domain.NewValidationError("counted_quantity", "no puede ser negativa")
	}
	p, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewValidationError("product_id", "el producto no existe")
	}
	return uc.transition(ctx, actor, countID, authz.ConductCount, workflow.ActionAddItem, func(repos TxRepositories, c *entity.InventoryCount) error {
		if c.HasProduct(in.ProductID) {
			return domain.NewValidationError("product_id", "el producto ya fue contado en este conteo")
		}
		if err := requireProductsAt(ctx, repos.Logs, map[string]string{p.ID: p.BranchID}, c.BranchID); err != nil {
			return err
		}
		system, err := repos.Logs.SumQuantity(ctx, in.ProductID, c.BranchID)
		if err != nil {
			return err
		}
		c.Items = append(c.Items, entity.InventoryCountItem{
			ID:               uuid.New().String(),
			InventoryCountID: c.ID,
			ProductID:        in.ProductID,
			SystemQuantity:   system,
			CountedQuantity:  in.CountedQuantity,
			Variance:         in.CountedQuantity - system,
		})
		return nil
	})
}

// UpdateItem corrige la cantidad contada y recalcula la diferencia.
func (uc *InventoryCountUseCase) UpdateItem(ctx context.Context, actor entity.Principal, countID, itemID string, in dto.UpdateCountItemRequest) (*dto.InventoryCountResponse, error) {
	if in.CountedQuantity < 0 {
		return nil, domain.NewValidationError("counted_quantity", "no puede ser negativa")
	}
	return uc.transition(ctx, actor, countID, authz.ConductCount, workflow.ActionUpdate, func(_ TxRepositories, c *entity.InventoryCount) error {
		for i := range c.Items {
			if c.Items[i].ID == itemID {
				c.Items[i].CountedQuantity = in.CountedQuantity
				c.Items[i].Variance = in.CountedQuantity - c.Items[i].SystemQuantity
				return nil
			}
		}
		return domain.NewNotFound("ítem de conteo", itemID)
	})
}

// Complete cierra el conteo; exige al menos un ítem.
func (uc *InventoryCountUseCase) Complete(ctx context.Context, actor entity.Principal, countID string) (*dto.InventoryCountResponse, error) {
	return uc.transition(ctx, actor, countID, authz.ConductCount, workflow.ActionComplete, func(_ TxRepositories, c *entity.InventoryCount) error {
		if len(c.Items) == 0 {
			return domain.NewValidationError("items", "el conteo no tiene productos")
		}
		return nil
	})
}

// Approve concilia el conteo: un asiento adjustment por cada diferencia distinta de cero.
// Las diferencias reflejan el stock físico, por eso pueden dejar saldo negativo.
func (uc *InventoryCountUseCase) Approve(ctx context.Context, actor entity.Principal, countID string) (*dto.InventoryCountResponse, error) {
	var posting *Posting
	resp, err := uc.transition(ctx, actor, countID, authz.ApproveCount, workflow.ActionApprove, func(repos TxRepositories, c *entity.InventoryCount) error {
		now := uc.ledger.Now()
		posting = uc.ledger.NewPosting(repos, now)
		for _, it := range c.Items {
			if it.Variance == 0 {
				continue
			}
			if _, err := posting.Post(ctx, Entry{
				ProductID:      it.ProductID,
				BranchID:       c.BranchID,
				ChangeType:     entity.ChangeAdjustment,
				Quantity:       it.Variance,
				Notes:          fmt.Sprintf("Conteo %s: diferencia %+d", c.CountNumber, it.Variance),
				ActorID:        actor.ID,
				SkipStockGuard: true,
			}); err != nil {
				return err
			}
		}
		approver := actor.ID
		c.ApprovedBy = &approver
		c.ApprovedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.invalidate(ctx, posting.Keys())
	uc.log.Branch(resp.BranchID).Info().Str("count_number", resp.CountNumber).Int("adjusted", len(posting.Keys())).Msg("conteo aprobado")
	return resp, nil
}

func (uc *InventoryCountUseCase) transition(
	ctx context.Context,
	actor entity.Principal,
	id string,
	action authz.Action,
	step workflow.Action,
	mutate func(repos TxRepositories, c *entity.InventoryCount) error,
) (*dto.InventoryCountResponse, error) {
	var count *entity.InventoryCount
	err := uc.txRunner.Run(ctx, func(repos TxRepositories) error {
		c, err := repos.Counts.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NewNotFound("conteo de inventario", id)
		}
		if !authz.CanAct(actor, action, c.BranchID) {
			return domain.ErrForbidden
		}
		next, err := workflow.InventoryCounts.Transition(c.Status, step)
		if err != nil {
			return err
		}
		if err := mutate(repos, c); err != nil {
			return err
		}
		c.Status = next
		c.UpdatedAt = uc.ledger.Now()
		if err := repos.Counts.Update(ctx, c); err != nil {
			return err
		}
		count = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInventoryCountResponse(count), nil
}

func toInventoryCountResponse(c *entity.InventoryCount) *dto.InventoryCountResponse {
	items := make([]dto.InventoryCountItemResponse, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, dto.InventoryCountItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			SystemQuantity:  it.SystemQuantity,
			CountedQuantity: it.CountedQuantity,
			Variance:        it.Variance,
		})
	}
	return &dto.InventoryCountResponse{
		ID:             c.ID,
		CountNumber:    c.CountNumber,
		BranchID:       c.BranchID,
		CountDate:      c.CountDate,
		Status:         string(c.Status),
		Notes:          c.Notes,
		ConductedBy:    c.ConductedBy,
		ApprovedBy:     c.ApprovedBy,
		ApprovedAt:     c.ApprovedAt,
		Items:          items,
		AllowedActions: actionNames(workflow.InventoryCounts.Allowed(c.Status)),
	}
}
