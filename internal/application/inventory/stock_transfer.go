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

// StockTransferUseCase orquesta los traslados entre sucursales.
type StockTransferUseCase struct {
	ledger    *Ledger
	txRunner  TxRunner
	transfers repository.StockTransferRepository
	branches  repository.BranchRepository
	products  repository.ProductRepository
	log       *logger.Logger
}

// NewStockTransferUseCase construye el caso de uso.
func NewStockTransferUseCase(
	ledger *Ledger,
	txRunner TxRunner,
	transfers repository.StockTransferRepository,
	branches repository.BranchRepository,
	products repository.ProductRepository,
	log *logger.Logger,
) *StockTransferUseCase {
	return &StockTransferUseCase{
		ledger:    ledger,
		txRunner:  txRunner,
		transfers: transfers,
		branches:  branches,
		products:  products,
		log:       log.Component("stock_transfers"),
	}
}

// Create solicita un traslado. Cada cantidad pedida se valida contra el stock del origen
// con el saldo bloqueado; si alguna no alcanza no se persiste nada.
func (uc *StockTransferUseCase) Create(ctx context.Context, actor entity.Principal, in dto.CreateStockTransferRequest) (*dto.StockTransferResponse, error) {
	if in.FromBranchID == in.ToBranchID {
		return nil, domain.NewValidationError("to_branch_id", "origen y destino deben ser distintos")
	}
	if !authz.CanActOnAny(actor, authz.CreateTransfer, in.FromBranchID, in.ToBranchID) {
		return nil, domain.ErrForbidden
	}
	items, owners, err := uc.buildItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(ctx, uc.branches, in.FromBranchID); err != nil {
		return nil, err
	}
	if err := requireBranch(ctx, uc.branches, in.ToBranchID); err != nil {
		return nil, err
	}
	if err := requireProductsAt(ctx, uc.ledger.logs, owners, in.FromBranchID); err != nil {
		return nil, err
	}

	now := uc.ledger.Now()
	transfer := &entity.StockTransfer{
		ID:           uuid.New().String(),
		FromBranchID: in.FromBranchID,
		ToBranchID:   in.ToBranchID,
		Status:       entity.TransferStatusPending,
		RequestDate:  now,
		Notes:        strings.TrimSpace(in.Notes),
		RequestedBy:  actor.ID,
		Items:        items,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for i := range transfer.Items {
		transfer.Items[i].StockTransferID = transfer.ID
	}

	err = uc.txRunner.Run(ctx, func(repos TxRepositories) error {
		posting := uc.ledger.NewPosting(repos, now)
		for _, it := range transfer.Items {
			if err := posting.RequireAvailable(ctx, it.ProductID, transfer.FromBranchID, it.RequestedQuantity); err != nil {
				return err
			}
		}
		number, err := nextNumber(ctx, repos, inventory.PrefixStockTransfer, now)
		if err != nil {
			return err
		}
		transfer.TransferNumber = number
		return repos.Transfers.Create(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transfer_number", transfer.TransferNumber).
		Str("from", transfer.FromBranchID).Str("to", transfer.ToBranchID).Msg("traslado solicitado")
	return toStockTransferResponse(transfer), nil
}

// Get devuelve un traslado visible para el actor (origen o destino).
func (uc *StockTransferUseCase) Get(ctx context.Context, actor entity.Principal, id string) (*dto.StockTransferResponse, error) {
	t, err := uc.transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NewNotFound("traslado", id)
	}
	if !authz.CanActOnAny(actor, authz.ViewInventory, t.FromBranchID, t.ToBranchID) {
		return nil, domain.ErrForbidden
	}
	return toStockTransferResponse(t), nil
}

// List lista traslados donde la sucursal es origen o destino.
func (uc *StockTransferUseCase) List(ctx context.Context, actor entity.Principal, filter repository.WorkflowFilter) (*dto.StockTransferListResponse, error) {
	branchID, ok := authz.BranchFilter(actor, authz.ViewInventory, filter.BranchID)
	if !ok {
		return nil, domain.ErrForbidden
	}
	filter.BranchID = branchID
	list, err := uc.transfers.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.StockTransferListResponse{
		Items: make([]dto.StockTransferResponse, 0, len(list)),
		Page:  dto.NewPageResponse(filter.Limit, filter.Offset, len(list)),
	}
	for _, t := range list {
		out.Items = append(out.Items, *toStockTransferResponse(t))
	}
	return out, nil
}

// Update reemplaza notas y líneas de un traslado pendiente; el stock se revalida.
func (uc *StockTransferUseCase) Update(ctx context.Context, actor entity.Principal, id string, in dto.UpdateStockTransferRequest) (*dto.StockTransferResponse, error) {
	var (
		items  []entity.StockTransferItem
		owners map[string]string
	)
	if in.Items != nil {
		var err error
		if items, owners, err = uc.buildItems(ctx, in.Items); err != nil {
			return nil, err
		}
	}
	return uc.transition(ctx, actor, id, authz.CreateTransfer, workflow.ActionUpdate, func(repos TxRepositories, t *entity.StockTransfer) error {
		if in.Notes != nil {
			t.Notes = strings.TrimSpace(*in.Notes)
		}
		if items == nil {
			return nil
		}
		if err := requireProductsAt(ctx, repos.Logs, owners, t.FromBranchID); err != nil {
			return err
		}
		posting := uc.ledger.NewPosting(repos, uc.ledger.Now())
		for i := range items {
			items[i].StockTransferID = t.ID
			if err := posting.RequireAvailable(ctx, items[i].ProductID, t.FromBranchID, items[i].RequestedQuantity); err != nil {
				return err
			}
		}
		t.Items = items
		return nil
	})
}

// Approve fija las cantidades aprobadas (≤ pedidas). Sin ítems se aprueba lo pedido.
// El stock del origen se revalida con el saldo bloqueado.
func (uc *StockTransferUseCase) Approve(ctx context.Context, actor entity.Principal, id string, in dto.TransferQuantitiesRequest) (*dto.StockTransferResponse, error) {
	approved, err := quantitiesByItem(in.Items)
	if err != nil {
		return nil, err
	}
	return uc.transition(ctx, actor, id, authz.ApproveTransfer, workflow.ActionApprove, func(repos TxRepositories, t *entity.StockTransfer) error {
		if err := checkItemIDs(t, approved); err != nil {
			return err
		}
		posting := uc.ledger.NewPosting(repos, uc.ledger.Now())
		total := 0
		for i := range t.Items {
			it := &t.Items[i]
			qty := it.RequestedQuantity
			if len(approved) > 0 {
				qty = approved[it.ID]
			}
			if qty > it.RequestedQuantity {
				return domain.NewValidationError("quantity",
					fmt.Sprintf("aprobado %d supera lo solicitado %d", qty, it.RequestedQuantity))
			}
			if qty > 0 {
				if err := posting.RequireAvailable(ctx, it.ProductID, t.FromBranchID, qty); err != nil {
					return err
				}
			}
			it.ApprovedQuantity = qty
			total += qty
		}
		if total == 0 {
			return domain.NewValidationError("items", "debe aprobarse al menos una cantidad")
		}
		now := uc.ledger.Now()
		approver := actor.ID
		t.ApprovedBy = &approver
		t.ApprovedDate = &now
		return nil
	})
}

// Ship marca el traslado aprobado como en tránsito.
func (uc *StockTransferUseCase) Ship(ctx context.Context, actor entity.Principal, id string) (*dto.StockTransferResponse, error) {
	return uc.transition(ctx, actor, id, authz.HandleTransfer, workflow.ActionShip, func(_ TxRepositories, t *entity.StockTransfer) error {
		now := uc.ledger.Now()
		t.ShippedDate = &now
		return nil
	})
}

// Complete registra lo trasladado (≤ aprobado; sin ítems = lo aprobado): por cada línea con
// cantidad positiva un transfer_out en origen y un transfer_in en destino, en la misma tx.
func (uc *StockTransferUseCase) Complete(ctx context.Context, actor entity.Principal, id string, in dto.TransferQuantitiesRequest) (*dto.StockTransferResponse, error) {
	transferred, err := quantitiesByItem(in.Items)
	if err != nil {
		return nil, err
	}
	var posting *Posting
	resp, err := uc.transition(ctx, actor, id, authz.HandleTransfer, workflow.ActionComplete, func(repos TxRepositories, t *entity.StockTransfer) error {
		if err := checkItemIDs(t, transferred); err != nil {
			return err
		}
		fromName, toName, err := branchNames(ctx, repos, t)
		if err != nil {
			return err
		}
		now := uc.ledger.Now()
		posting = uc.ledger.NewPosting(repos, now)
		for i := range t.Items {
			it := &t.Items[i]
			qty := it.ApprovedQuantity
			if len(transferred) > 0 {
				qty = transferred[it.ID]
			}
			if qty > it.ApprovedQuantity {
				return domain.NewValidationError("quantity",
					fmt.Sprintf("trasladado %d supera lo aprobado %d", qty, it.ApprovedQuantity))
			}
			it.TransferredQuantity = qty
			if qty == 0 {
				continue
			}
			if _, err := posting.Post(ctx, Entry{
				ProductID:  it.ProductID,
				BranchID:   t.FromBranchID,
				ChangeType: entity.ChangeTransferOut,
				Quantity:   qty,
				Notes:      fmt.Sprintf("Traslado %s hacia %s", t.TransferNumber, toName),
				ActorID:    actor.ID,
			}); err != nil {
				return err
			}
			if _, err := posting.Post(ctx, Entry{
				ProductID:  it.ProductID,
				BranchID:   t.ToBranchID,
				ChangeType: entity.ChangeTransferIn,
				Quantity:   qty,
				Notes:      fmt.Sprintf("Traslado %s desde %s", t.TransferNumber, fromName),
				ActorID:    actor.ID,
			}); err != nil {
				return err
			}
		}
		t.CompletedDate = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.invalidate(ctx, posting.Keys())
	uc.log.Info().Str("transfer_number", resp.TransferNumber).Msg("traslado completado")
	return resp, nil
}

// Reject rechaza un traslado pendiente o aprobado. Sin efecto en el libro.
func (uc *StockTransferUseCase) Reject(ctx context.Context, actor entity.Principal, id string, in dto.ReasonRequest) (*dto.StockTransferResponse, error) {
	return uc.transition(ctx, actor, id, authz.ApproveTransfer, workflow.ActionReject, func(_ TxRepositories, t *entity.StockTransfer) error {
		t.RejectionReason = strings.TrimSpace(in.Reason)
		return nil
	})
}

// Cancel cancela un traslado pendiente o aprobado.
func (uc *StockTransferUseCase) Cancel(ctx context.Context, actor entity.Principal, id string) (*dto.StockTransferResponse, error) {
	return uc.transition(ctx, actor, id, authz.CreateTransfer, workflow.ActionCancel, nil)
}

func (uc *StockTransferUseCase) transition(
	ctx context.Context,
	actor entity.Principal,
	id string,
	action authz.Action,
	step workflow.Action,
	mutate func(repos TxRepositories, t *entity.StockTransfer) error,
) (*dto.StockTransferResponse, error) {
	var transfer *entity.StockTransfer
	err := uc.txRunner.Run(ctx, func(repos TxRepositories) error {
		t, err := repos.Transfers.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.NewNotFound("traslado", id)
		}
		if !authz.CanActOnAny(actor, action, t.FromBranchID, t.ToBranchID) {
			return domain.ErrForbidden
		}
		next, err := workflow.StockTransfers.Transition(t.Status, step)
		if err != nil {
			return err
		}
		if mutate != nil {
			if err := mutate(repos, t); err != nil {
				return err
			}
		}
		t.Status = next
		t.UpdatedAt = uc.ledger.Now()
		if err := repos.Transfers.Update(ctx, t); err != nil {
			return err
		}
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toStockTransferResponse(transfer), nil
}

func (uc *StockTransferUseCase) buildItems(ctx context.Context, in []dto.StockTransferItemInput) ([]entity.StockTransferItem, map[string]string, error) {
	if len(in) == 0 {
		return nil, nil, domain.NewValidationError("items", "el traslado debe tener al menos un producto")
	}
	owners := make(map[string]string, len(in))
	items := make([]entity.StockTransferItem, 0, len(in))
	for _, it := range in {
		if it.RequestedQuantity <= 0 {
			return nil, nil, domain.NewValidationError("requested_quantity", "debe ser mayor que cero")
		}
		if _, dup := owners[it.ProductID]; dup {
			return nil, nil, domain.NewValidationError("items", "producto repetido: "+it.ProductID)
		}
		p, err := uc.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if p == nil {
			return nil, nil, domain.NewValidationError("product_id", "el producto no existe: "+it.ProductID)
		}
		owners[p.ID] = p.BranchID
		items = append(items, entity.StockTransferItem{
			ID:                uuid.New().String(),
			ProductID:         it.ProductID,
			RequestedQuantity: it.RequestedQuantity,
		})
	}
	return items, owners, nil
}

func quantitiesByItem(in []dto.TransferQuantityInput) (map[string]int, error) {
	out := make(map[string]int, len(in))
	for _, it := range in {
		if it.Quantity < 0 {
			return nil, domain.NewValidationError("quantity", "no puede ser negativa")
		}
		if _, dup := out[it.ItemID]; dup {
			return nil, domain.NewValidationError("items", "línea repetida: "+it.ItemID)
		}
		out[it.ItemID] = it.Quantity
	}
	return out, nil
}

func checkItemIDs(t *entity.StockTransfer, quantities map[string]int) error {
	if len(quantities) == 0 {
		return nil
	}
	known := make(map[string]bool, len(t.Items))
	for _, it := range t.Items {
		known[it.ID] = true
	}
	for id := range quantities {
		if !known[id] {
			return domain.NewValidationError("items", "la línea no pertenece al traslado: "+id)
		}
	}
	return nil
}

func branchNames(ctx context.Context, repos TxRepositories, t *entity.StockTransfer) (string, string, error) {
	from, err := repos.Branches.GetByID(ctx, t.FromBranchID)
	if err != nil {
		return "", "", err
	}
	to, err := repos.Branches.GetByID(ctx, t.ToBranchID)
	if err != nil {
		return "", "", err
	}
	fromName, toName := t.FromBranchID, t.ToBranchID
	if from != nil {
		fromName = from.Name
	}
	if to != nil {
		toName = to.Name
	}
	return fromName, toName, nil
}

func toStockTransferResponse(t *entity.StockTransfer) *dto.StockTransferResponse {
	items := make([]dto.StockTransferItemResponse, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, dto.StockTransferItemResponse{
			ID:                  it.ID,
			ProductID:           it.ProductID,
			RequestedQuantity:   it.RequestedQuantity,
			ApprovedQuantity:    it.ApprovedQuantity,
			TransferredQuantity: it.TransferredQuantity,
		})
	}
	return &dto.StockTransferResponse{
		ID:              t.ID,
		TransferNumber:  t.TransferNumber,
		FromBranchID:    t.FromBranchID,
		ToBranchID:      t.ToBranchID,
		Status:          string(t.Status),
		RequestDate:     t.RequestDate,
		ApprovedDate:    t.ApprovedDate,
		ShippedDate:     t.ShippedDate,
		CompletedDate:   t.CompletedDate,
		Notes:           t.Notes,
		RejectionReason: t.RejectionReason,
		RequestedBy:     t.RequestedBy,
		ApprovedBy:      t.ApprovedBy,
		Items:           items,
		AllowedActions:  actionNames(workflow.StockTransfers.Allowed(t.Status)),
	}
}
