package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/authz"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/inventory"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
	"github.com/jhoicas/Cafeteria-api/pkg/logger"
)

// Ledger libro de inventario: única vía de escritura de stock y lectura del stock derivado.
//
// Stock actual = suma con signo de los asientos de (producto, sucursal). Las escrituras
// bloquean la fila de saldo (SELECT FOR UPDATE) antes de validar suficiencia, insertan el
// asiento y actualizan el saldo en la misma transacción del flujo que las origina.
type Ledger struct {
	txRunner  TxRunner
	logs      repository.InventoryLogRepository
	products  repository.ProductRepository
	branches  repository.BranchRepository
	suppliers repository.SupplierRepository
	cache     StockCache // opcional
	log       *logger.Logger
	now       Clock
}

// NewLedger construye el libro. cache puede ser nil.
func NewLedger(
	txRunner TxRunner,
	logs repository.InventoryLogRepository,
	products repository.ProductRepository,
	branches repository.BranchRepository,
	suppliers repository.SupplierRepository,
	cache StockCache,
	log *logger.Logger,
) *Ledger {
	return &Ledger{
		txRunner:  txRunner,
		logs:      logs,
		products:  products,
		branches:  branches,
		suppliers: suppliers,
		cache:     cache,
		log:       log.Component("ledger"),
		now:       time.Now,
	}
}

// WithClock reemplaza la fuente de hora.
func (l *Ledger) WithClock(c Clock) *Ledger {
	l.now = c
	return l
}

// Now hora actual según el reloj del libro (compartido con los flujos).
func (l *Ledger) Now() time.Time { return l.now() }

// CurrentStock suma con signo de los asientos; pasa por la caché si está configurada.
func (l *Ledger) CurrentStock(ctx context.Context, productID, branchID string) (int, error) {
	load := func(ctx context.Context) (int, error) {
		return l.logs.SumQuantity(ctx, productID, branchID)
	}
	if l.cache == nil {
		return load(ctx)
	}
	return l.cache.Fetch(ctx, StockKey{ProductID: productID, BranchID: branchID}, load)
}

// StockStatus clasifica el stock actual frente al umbral del producto.
func (l *Ledger) StockStatus(ctx context.Context, productID, branchID string) (inventory.StockStatus, error) {
	p, err := l.products.GetByID(ctx, productID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", domain.NewNotFound("producto", productID)
	}
	current, err := l.CurrentStock(ctx, productID, branchID)
	if err != nil {
		return "", err
	}
	return inventory.ClassifyStock(current, p.LowStockThreshold), nil
}

// invalidate borra de la caché las claves tocadas por una transacción ya confirmada.
// Un fallo de caché no revierte nada: se registra y las lecturas expiran por TTL.
func (l *Ledger) invalidate(ctx context.Context, keys []StockKey) {
	if l.cache == nil || len(keys) == 0 {
		return
	}
	if err := l.cache.Invalidate(ctx, keys...); err != nil {
		l.log.Warn().Err(err).Int("keys", len(keys)).Msg("no se pudo invalidar la caché de stock")
	}
}

// ── Posting: escrituras dentro de una transacción ────────────────────────────

// Entry asiento a registrar. Quantity es la magnitud para tipos con signo fijo y el
// valor con signo para adjustment.
type Entry struct {
	ProductID  string
	BranchID   string
	ChangeType entity.ChangeType
	Quantity   int
	SupplierID *string
	Notes      string
	ActorID    string
	// SkipStockGuard permite saldo negativo (diferencias de conteo físico).
	SkipStockGuard bool
}

// Posting agrupa los asientos de una transacción y recuerda las claves tocadas.
type Posting struct {
	repos TxRepositories
	now   time.Time
	keys  map[StockKey]struct{}
}

// NewPosting abre un lote de asientos sobre los repos de la tx.
func (l *Ledger) NewPosting(repos TxRepositories, now time.Time) *Posting {
	return &Posting{repos: repos, now: now, keys: make(map[StockKey]struct{})}
}

// Available bloquea el saldo de (producto, sucursal) y devuelve la cantidad disponible.
func (p *Posting) Available(ctx context.Context, productID, branchID string) (int, error) {
	bal, err := p.repos.Balances.GetForUpdate(ctx, productID, branchID)
	if err != nil {
		return 0, err
	}
	return bal.Quantity, nil
}

// Post valida, inserta el asiento y actualiza el saldo bloqueado.
func (p *Posting) Post(ctx context.Context, e Entry) (*entity.InventoryLog, error) {
	signed, err := inventory.SignedQuantity(e.ChangeType, e.Quantity)
	if err != nil {
		return nil, err
	}
	bal, err := p.repos.Balances.GetForUpdate(ctx, e.ProductID, e.BranchID)
	if err != nil {
		return nil, err
	}
	if signed < 0 && !e.SkipStockGuard && bal.Quantity+signed < 0 {
		return nil, p.insufficient(ctx, e.ProductID, bal.Quantity, -signed)
	}

	entry := &entity.InventoryLog{
		ID:         uuid.New().String(),
		ProductID:  e.ProductID,
		BranchID:   e.BranchID,
		ChangeType: e.ChangeType,
		Quantity:   signed,
		SupplierID: e.SupplierID,
		Notes:      e.Notes,
		CreatedBy:  e.ActorID,
		CreatedAt:  p.now,
	}
	if err := p.repos.Logs.Create(ctx, entry); err != nil {
		return nil, err
	}
	bal.Quantity += signed
	bal.UpdatedAt = p.now
	if err := p.repos.Balances.Save(ctx, bal); err != nil {
		return nil, err
	}
	p.keys[StockKey{ProductID: e.ProductID, BranchID: e.BranchID}] = struct{}{}
	return entry, nil
}

// RequireAvailable devuelve InsufficientStockError si el saldo bloqueado no cubre qty.
func (p *Posting) RequireAvailable(ctx context.Context, productID, branchID string, qty int) error {
	available, err := p.Available(ctx, productID, branchID)
	if err != nil {
		return err
	}
	if available < qty {
		return p.insufficient(ctx, productID, available, qty)
	}
	return nil
}

func (p *Posting) insufficient(ctx context.Context, productID string, available, requested int) error {
	name := productID
	if prod, err := p.repos.Products.GetByID(ctx, productID); err == nil && prod != nil {
		name = prod.Name
	}
	return &domain.InsufficientStockError{
		ProductID:   productID,
		ProductName: name,
		Available:   available,
		Requested:   requested,
	}
}

// Keys claves de stock tocadas por el lote, ordenadas.
func (p *Posting) Keys() []StockKey {
	out := make([]StockKey, 0, len(p.keys))
	for k := range p.keys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BranchID != out[j].BranchID {
			return out[i].BranchID < out[j].BranchID
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

// nextNumber asigna el siguiente número diario del prefijo dentro de la tx.
func nextNumber(ctx context.Context, repos TxRepositories, prefix string, now time.Time) (string, error) {
	seq, err := repos.Sequences.Next(ctx, prefix, inventory.DayStart(now))
	if err != nil {
		return "", fmt.Errorf("numeración %s: %w", prefix, err)
	}
	return inventory.DocumentNumber(prefix, now, seq), nil
}

// ── Casos de uso del libro ───────────────────────────────────────────────────

// RecordManual registra un asiento manual (restock, waste, sale, return, in, out).
func (l *Ledger) RecordManual(ctx context.Context, actor entity.Principal, in dto.RecordInventoryLogRequest) (*dto.InventoryLogResponse, error) {
	ct := entity.ChangeType(in.ChangeType)
	switch ct {
	case entity.ChangeRestock, entity.ChangeWaste, entity.ChangeSale, entity.ChangeReturn, entity.ChangeIn, entity.ChangeOut:
	default:
		return nil, domain.NewValidationError("change_type", "tipo no permitido para registro manual")
	}
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if !authz.CanAct(actor, authz.RecordInventoryLog, in.BranchID) {
		return nil, domain.ErrForbidden
	}
	if err := requireBranch(ctx, l.branches, in.BranchID); err != nil {
		return nil, err
	}
	product, err := l.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewValidationError("product_id", "el producto no existe")
	}
	if in.SupplierID != nil && *in.SupplierID != "" {
		s, err := l.suppliers.GetByID(ctx, *in.SupplierID)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, domain.NewValidationError("supplier_id", "el proveedor no existe")
		}
	} else {
		in.SupplierID = nil
	}

	var (
		created *entity.InventoryLog
		keys    []StockKey
	)
	now := l.now()
	err = l.txRunner.Run(ctx, func(repos TxRepositories) error {
		p := l.NewPosting(repos, now)
		var err error
		created, err = p.Post(ctx, Entry{
			ProductID:  in.ProductID,
			BranchID:   in.BranchID,
			ChangeType: ct,
			Quantity:   in.Quantity,
			SupplierID: in.SupplierID,
			Notes:      in.Notes,
			ActorID:    actor.ID,
		})
		keys = p.Keys()
		return err
	})
	if err != nil {
		return nil, err
	}
	l.invalidate(ctx, keys)
	return toLogResponse(created), nil
}

// ListLogs lista asientos con filtros y alcance por sucursal.
func (l *Ledger) ListLogs(ctx context.Context, actor entity.Principal, filter repository.LogFilter) (*dto.InventoryLogListResponse, error) {
	branchID, ok := authz.BranchFilter(actor, authz.ViewInventory, filter.BranchID)
	if !ok {
		return nil, domain.ErrForbidden
	}
	filter.BranchID = branchID
	list, err := l.logs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryLogResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toLogResponse(e))
	}
	return &dto.InventoryLogListResponse{
		Items: items,
		Page:  dto.NewPageResponse(filter.Limit, filter.Offset, len(list)),
	}, nil
}

// ProductStock stock actual y estado de un producto en una sucursal.
// branchID vacío usa la sucursal dueña del producto.
func (l *Ledger) ProductStock(ctx context.Context, actor entity.Principal, productID, branchID string) (*dto.ProductStockResponse, error) {
	p, err := l.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewNotFound("producto", productID)
	}
	if branchID == "" {
		branchID = p.BranchID
	}
	if !authz.CanAct(actor, authz.ViewInventory, branchID) {
		return nil, domain.ErrForbidden
	}
	current, err := l.CurrentStock(ctx, productID, branchID)
	if err != nil {
		return nil, err
	}
	return &dto.ProductStockResponse{
		ProductID:         p.ID,
		ProductName:       p.Name,
		BranchID:          branchID,
		CurrentStock:      current,
		LowStockThreshold: p.LowStockThreshold,
		Status:            string(inventory.ClassifyStock(current, p.LowStockThreshold)),
	}, nil
}

// LowStock productos con stock bajo (0 < stock ≤ umbral).
func (l *Ledger) LowStock(ctx context.Context, actor entity.Principal, branchID string) (*dto.LowStockResponse, error) {
	return l.alerts(ctx, actor, branchID, inventory.StatusLowStock)
}

// OutOfStock productos agotados (stock ≤ 0).
func (l *Ledger) OutOfStock(ctx context.Context, actor entity.Principal, branchID string) (*dto.LowStockResponse, error) {
	return l.alerts(ctx, actor, branchID, inventory.StatusOutOfStock)
}

func (l *Ledger) alerts(ctx context.Context, actor entity.Principal, branchID string, want inventory.StockStatus) (*dto.LowStockResponse, error) {
	branchID, ok := authz.BranchFilter(actor, authz.ViewInventory, branchID)
	if !ok {
		return nil, domain.ErrForbidden
	}
	levels, err := l.logs.ListStockLevels(ctx, branchID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductStockResponse, 0)
	for _, lv := range levels {
		st := inventory.ClassifyStock(lv.Quantity, lv.LowStockThreshold)
		if st != want {
			continue
		}
		items = append(items, dto.ProductStockResponse{
			ProductID:         lv.ProductID,
			ProductName:       lv.ProductName,
			BranchID:          lv.BranchID,
			CurrentStock:      lv.Quantity,
			LowStockThreshold: lv.LowStockThreshold,
			Status:            string(st),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CurrentStock < items[j].CurrentStock })
	return &dto.LowStockResponse{Total: len(items), Items: items}, nil
}

// requireProductsAt exige que cada producto sea de la sucursal o tenga asientos en ella
// (stock recibido por traslado). owners: producto -> sucursal dueña.
func requireProductsAt(ctx context.Context, logs repository.InventoryLogRepository, owners map[string]string, branchID string) error {
	ids := make([]string, 0, len(owners))
	for id := range owners {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if owners[id] == branchID {
			continue
		}
		tracked, err := logs.HasEntries(ctx, id, branchID)
		if err != nil {
			return err
		}
		if !tracked {
			return domain.NewValidationError("product_id", "el producto no pertenece a la sucursal: "+id)
		}
	}
	return nil
}

func requireBranch(ctx context.Context, branches repository.BranchRepository, branchID string) error {
	b, err := branches.GetByID(ctx, branchID)
	if err != nil {
		return err
	}
	if b == nil {
		return domain.NewValidationError("branch_id", "la sucursal no existe")
	}
	return nil
}

func toLogResponse(e *entity.InventoryLog) *dto.InventoryLogResponse {
	if e == nil {
		return nil
	}
	return &dto.InventoryLogResponse{
		ID:         e.ID,
		ProductID:  e.ProductID,
		BranchID:   e.BranchID,
		ChangeType: string(e.ChangeType),
		Quantity:   e.Quantity,
		SupplierID: e.SupplierID,
		Notes:      e.Notes,
		CreatedBy:  e.CreatedBy,
		CreatedAt:  e.CreatedAt,
	}
}
