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

// PurchaseOrderUseCase orquesta el flujo de órdenes de compra.
type PurchaseOrderUseCase struct {
	ledger    *Ledger
	txRunner  TxRunner
	orders    repository.PurchaseOrderRepository
	branches  repository.BranchRepository
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
	pdf       PurchaseOrderPDFGenerator // opcional
	log       *logger.Logger
}

// NewPurchaseOrderUseCase construye el caso de uso. pdf puede ser nil.
func NewPurchaseOrderUseCase(
	ledger *Ledger,
	txRunner TxRunner,
	orders repository.PurchaseOrderRepository,
	branches repository.BranchRepository,
	suppliers repository.SupplierRepository,
	products repository.ProductRepository,
	pdf PurchaseOrderPDFGenerator,
	log *logger.Logger,
) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{
		ledger:    ledger,
		txRunner:  txRunner,
		orders:    orders,
		branches:  branches,
		suppliers: suppliers,
		products:  products,
		pdf:       pdf,
		log:       log.Component("purchase_orders"),
	}
}

// Create valida y crea la orden con número diario PO+YYYYMMDD+secuencia.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, actor entity.Principal, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if !authz.CanAct(actor, authz.CreatePurchaseOrder, in.BranchID) {
		return nil, domain.ErrForbidden
	}
	status := entity.POStatusDraft
	if in.Status != "" {
		status = entity.PurchaseOrderStatus(in.Status)
		if status != entity.POStatusDraft && status != entity.POStatusPendingApproval {
			return nil, domain.NewValidationError("status", "estado inicial inválido")
		}
	}
	items, owners, err := uc.buildItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(ctx, uc.branches, in.BranchID); err != nil {
		return nil, err
	}
	if err := requireProductsAt(ctx, uc.ledger.logs, owners, in.BranchID); err != nil {
		return nil, err
	}
	if err := uc.requireSupplier(ctx, in.SupplierID); err != nil {
		return nil, err
	}

	now := uc.ledger.Now()
	order := &entity.PurchaseOrder{
		ID:                   uuid.New().String(),
		BranchID:             in.BranchID,
		SupplierID:           in.SupplierID,
		Status:               status,
		OrderDate:            now,
		ExpectedDeliveryDate: in.ExpectedDeliveryDate,
		Notes:                strings.TrimSpace(in.Notes),
		CreatedBy:            actor.ID,
		Items:                items,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	for i := range order.Items {
		order.Items[i].PurchaseOrderID = order.ID
	}
	order.RecalculateTotals()

	err = uc.txRunner.Run(ctx, func(repos TxRepositories) error {
		number, err := nextNumber(ctx, repos, inventory.PrefixPurchaseOrder, now)
		if err != nil {
			return err
		}
		order.OrderNumber = number
		return repos.PurchaseOrders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Branch(order.BranchID).Info().Str("order_number", order.OrderNumber).Msg("orden de compra creada")
	return toPurchaseOrderResponse(order), nil
}

// Get devuelve una orden visible para el actor.
func (uc *PurchaseOrderUseCase) Get(ctx context.Context, actor entity.Principal, id string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NewNotFound("orden de compra", id)
	}
	if !authz.CanAct(actor, authz.ViewInventory, order.BranchID) {
		return nil, domain.ErrForbidden
	}
	return toPurchaseOrderResponse(order), nil
}

// List lista órdenes por sucursal y estado.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, actor entity.Principal, filter repository.WorkflowFilter) (*dto.PurchaseOrderListResponse, error) {
	branchID, ok := authz.BranchFilter(actor, authz.ViewInventory, filter.BranchID)
	if !ok {
		return nil, domain.ErrForbidden
	}
	filter.BranchID = branchID
	list, err := uc.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.PurchaseOrderListResponse{
		Items: make([]dto.PurchaseOrderResponse, 0, len(list)),
		Page:  dto.NewPageResponse(filter.Limit, filter.Offset, len(list)),
	}
	for _, o := range list {
		out.Items = append(out.Items, *toPurchaseOrderResponse(o))
	}
	return out, nil
}

// Update modifica proveedor, fechas, notas o líneas mientras la orden es editable.
func (uc *PurchaseOrderUseCase) Update(ctx context.Context, actor entity.Principal, id string, in dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	var (
		items  []entity.PurchaseOrderItem
		owners map[string]string
	)
	if in.Items != nil {
		var err error
		if items, owners, err = uc.buildItems(ctx, in.Items); err != nil {
			return nil, err
		}
	}
	if in.SupplierID != nil {
		if err := uc.requireSupplier(ctx, *in.SupplierID); err != nil {
			return nil, err
		}
	}
	return uc.transition(ctx, actor, id, authz.CreatePurchaseOrder, workflow.ActionUpdate, func(repos TxRepositories, o *entity.PurchaseOrder) error {
		if in.SupplierID != nil {
			o.SupplierID = *in.SupplierID
		}
		if in.ExpectedDeliveryDate != nil {
			o.ExpectedDeliveryDate = in.ExpectedDeliveryDate
		}
		if in.Notes != nil {
			o.Notes = strings.TrimSpace(*in.Notes)
		}
		if items != nil {
			if err := requireProductsAt(ctx, repos.Logs, owners, o.BranchID); err != nil {
				return err
			}
			for i := range items {
				items[i].PurchaseOrderID = o.ID
			}
			o.Items = items
		}
		o.RecalculateTotals()
		return nil
	})
}

// Submit envía un borrador a aprobación.
func (uc *PurchaseOrderUseCase) Submit(ctx context.Context, actor entity.Principal, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, actor, id, authz.CreatePurchaseOrder, workflow.ActionSubmit, nil)
}

// Approve aprueba una orden pendiente y registra quién y cuándo.
func (uc *PurchaseOrderUseCase) Approve(ctx context.Context, actor entity.Principal, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, actor, id, authz.ApprovePurchaseOrder, workflow.ActionApprove, func(_ TxRepositories, o *entity.PurchaseOrder) error {
		now := uc.ledger.Now()
		approver := actor.ID
		o.ApprovedBy = &approver
		o.ApprovedAt = &now
		return nil
	})
}

// MarkOrdered marca la orden aprobada como enviada al proveedor.
func (uc *PurchaseOrderUseCase) MarkOrdered(ctx context.Context, actor entity.Principal, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, actor, id, authz.CreatePurchaseOrder, workflow.ActionMarkOrder, nil)
}

// Cancel cancela una orden en borrador o pendiente.
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, actor entity.Principal, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, actor, id, authz.CreatePurchaseOrder, workflow.ActionCancel, nil)
}

// Deliver registra la recepción: un restock por línea recibida, en la misma tx que el
// cambio de estado. Sin ítems en la entrada se asume recepción completa.
func (uc *PurchaseOrderUseCase) Deliver(ctx context.Context, actor entity.Principal, id string, in dto.DeliverPurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	received := make(map[string]int, len(in.Items))
	for _, it := range in.Items {
		if it.ReceivedQuantity < 0 {
			return nil, domain.NewValidationError("received_quantity", "no puede ser negativa")
		}
		if _, dup := received[it.ItemID]; dup {
			return nil, domain.NewValidationError("items", "línea repetida: "+it.ItemID)
		}
		received[it.ItemID] = it.ReceivedQuantity
	}

	var posting *Posting
	resp, err := uc.transition(ctx, actor, id, authz.ReceivePurchaseOrder, workflow.ActionDeliver, func(repos TxRepositories, o *entity.PurchaseOrder) error {
		now := uc.ledger.Now()
		if len(received) > 0 {
			known := make(map[string]bool, len(o.Items))
			for _, it := range o.Items {
				known[it.ID] = true
			}
			for itemID := range received {
				if !known[itemID] {
					return domain.NewValidationError("items", "la línea no pertenece a la orden: "+itemID)
				}
			}
		}
		posting = uc.ledger.NewPosting(repos, now)
		supplierID := o.SupplierID
		for i := range o.Items {
			it := &o.Items[i]
			qty := it.Quantity
			if len(received) > 0 {
				qty = received[it.ID]
			}
			if qty > it.Quantity {
				return domain.NewValidationError("received_quantity",
					fmt.Sprintf("recibido %d supera lo ordenado %d", qty, it.Quantity))
			}
			it.ReceivedQuantity = qty
			if qty == 0 {
				continue
			}
			if _, err := posting.Post(ctx, Entry{
				ProductID:  it.ProductID,
				BranchID:   o.BranchID,
				ChangeType: entity.ChangeRestock,
				Quantity:   qty,
				SupplierID: &supplierID,
				Notes:      "Recepción orden de compra " + o.OrderNumber,
				ActorID:    actor.ID,
			}); err != nil {
				return err
			}
		}
		o.ActualDeliveryDate = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.invalidate(ctx, posting.Keys())
	uc.log.Branch(resp.BranchID).Info().Str("order_number", resp.OrderNumber).Msg("orden de compra recibida")
	return resp, nil
}

// PDF genera el documento de la orden.
func (uc *PurchaseOrderUseCase) PDF(ctx context.Context, actor entity.Principal, id string) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("generador de PDF no configurado")
	}
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if order == nil {
		return nil, "", domain.NewNotFound("orden de compra", id)
	}
	if !authz.CanAct(actor, authz.ViewInventory, order.BranchID) {
		return nil, "", domain.ErrForbidden
	}
	branch, err := uc.branches.GetByID(ctx, order.BranchID)
	if err != nil {
		return nil, "", err
	}
	supplier, err := uc.suppliers.GetByID(ctx, order.SupplierID)
	if err != nil {
		return nil, "", err
	}
	names := make(map[string]string, len(order.Items))
	for _, it := range order.Items {
		if p, err := uc.products.GetByID(ctx, it.ProductID); err == nil && p != nil {
			names[it.ProductID] = p.Name
		}
	}
	doc, err := uc.pdf.GeneratePurchaseOrderPDF(ctx, PurchaseOrderDocument{
		Order:        order,
		Branch:       branch,
		Supplier:     supplier,
		ProductNames: names,
	})
	if err != nil {
		return nil, "", err
	}
	return doc, order.OrderNumber + ".pdf", nil
}

// transition bloquea la orden, valida alcance y tabla de estados, aplica mutate y persiste.
// Cualquier error revierte la transacción completa.
func (uc *PurchaseOrderUseCase) transition(
	ctx context.Context,
	actor entity.Principal,
	id string,
	action authz.Action,
	step workflow.Action,
	mutate func(repos TxRepositories, o *entity.PurchaseOrder) error,
) (*dto.PurchaseOrderResponse, error) {
	var order *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(repos TxRepositories) error {
		o, err := repos.PurchaseOrders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.NewNotFound("orden de compra", id)
		}
		if !authz.CanAct(actor, action, o.BranchID) {
			return domain.ErrForbidden
		}
		next, err := workflow.PurchaseOrders.Transition(o.Status, step)
		if err != nil {
			return err
		}
		if mutate != nil {
			if err := mutate(repos, o); err != nil {
				return err
			}
		}
		o.Status = next
		o.UpdatedAt = uc.ledger.Now()
		if err := repos.PurchaseOrders.Update(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(order), nil
}

func (uc *PurchaseOrderUseCase) buildItems(ctx context.Context, in []dto.PurchaseOrderItemInput) ([]entity.PurchaseOrderItem, map[string]string, error) {
	if len(in) == 0 {
		return nil, nil, domain.NewValidationError("items", "la orden debe tener al menos un producto")
	}
	owners := make(map[string]string, len(in))
	items := make([]entity.PurchaseOrderItem, 0, len(in))
	for _, it := range in {
		if it.Quantity <= 0 {
			return nil, nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
		}
		if it.UnitPrice.IsNegative() {
			return nil, nil, domain.NewValidationError("unit_price", "no puede ser negativo")
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
		items = append(items, entity.PurchaseOrderItem{
			ID:        uuid.New().String(),
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.Round(2),
		})
	}
	return items, owners, nil
}

func (uc *PurchaseOrderUseCase) requireSupplier(ctx context.Context, id string) error {
	s, err := uc.suppliers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.NewValidationError("supplier_id", "el proveedor no existe")
	}
	return nil
}

func toPurchaseOrderResponse(o *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	items := make([]dto.PurchaseOrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.PurchaseOrderItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			TotalPrice:       it.TotalPrice,
			ReceivedQuantity: it.ReceivedQuantity,
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:                   o.ID,
		OrderNumber:          o.OrderNumber,
		BranchID:             o.BranchID,
		SupplierID:           o.SupplierID,
		Status:               string(o.Status),
		OrderDate:            o.OrderDate,
		ExpectedDeliveryDate: o.ExpectedDeliveryDate,
		ActualDeliveryDate:   o.ActualDeliveryDate,
		TotalAmount:          o.TotalAmount,
		Notes:                o.Notes,
		CreatedBy:            o.CreatedBy,
		ApprovedBy:           o.ApprovedBy,
		ApprovedAt:           o.ApprovedAt,
		Items:                items,
		AllowedActions:       actionNames(workflow.PurchaseOrders.Allowed(o.Status)),
	}
}

func actionNames(actions []workflow.Action) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, string(a))
	}
	return out
}

