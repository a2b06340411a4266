// Package testutil almacén en memoria que implementa los puertos de repositorio para los
// tests de casos de uso. Run hace una foto del estado y la restaura si fn devuelve error,
// igual que el Rollback de la transacción real.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

type balanceKey struct{ product, branch string }

type state struct {
	branches    map[string]entity.Branch
	users       map[string]entity.User
	admins      map[string]entity.Admin
	suppliers   map[string]entity.Supplier
	products    map[string]entity.Product
	logs        []entity.InventoryLog
	balances    map[balanceKey]entity.StockBalance
	sequences   map[string]int
	orders      map[string]entity.PurchaseOrder
	transfers   map[string]entity.StockTransfer
	adjustments map[string]entity.StockAdjustment
	counts      map[string]entity.InventoryCount
	attendance  map[string]entity.Attendance
}

func newState() state {
	return state{
		branches:    map[string]entity.Branch{},
		users:       map[string]entity.User{},
		admins:      map[string]entity.Admin{},
		suppliers:   map[string]entity.Supplier{},
		products:    map[string]entity.Product{},
		balances:    map[balanceKey]entity.StockBalance{},
		sequences:   map[string]int{},
		orders:      map[string]entity.PurchaseOrder{},
		transfers:   map[string]entity.StockTransfer{},
		adjustments: map[string]entity.StockAdjustment{},
		counts:      map[string]entity.InventoryCount{},
		attendance:  map[string]entity.Attendance{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.branches {
		c.branches[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.admins {
		c.admins[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.products {
		c.products[k] = cloneProduct(v)
	}
	c.logs = append([]entity.InventoryLog(nil), s.logs...)
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = cloneOrder(v)
	}
	for k, v := range s.transfers {
		c.transfers[k] = cloneTransfer(v)
	}
	for k, v := range s.adjustments {
		c.adjustments[k] = v
	}
	for k, v := range s.counts {
		c.counts[k] = cloneCount(v)
	}
	for k, v := range s.attendance {
		c.attendance[k] = v
	}
	return c
}

func cloneProduct(p entity.Product) entity.Product {
	p.Variants = append([]entity.ProductVariant(nil), p.Variants...)
	return p
}

func cloneOrder(o entity.PurchaseOrder) entity.PurchaseOrder {
	o.Items = append([]entity.PurchaseOrderItem(nil), o.Items...)
	return o
}

func cloneTransfer(t entity.StockTransfer) entity.StockTransfer {
	t.Items = append([]entity.StockTransferItem(nil), t.Items...)
	return t
}

func cloneCount(c entity.InventoryCount) entity.InventoryCount {
	c.Items = append([]entity.InventoryCountItem(nil), c.Items...)
	return c
}

// Store almacén en memoria con semántica transaccional de todo o nada.
type Store struct {
	mu sync.Mutex
	st state
	// FailOn si no es nil se consulta antes de cada escritura; un error aborta la operación.
	FailOn func(op string) error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) fail(op string) error {
	if s.FailOn != nil {
		return s.FailOn(op)
	}
	return nil
}

// Run ejecuta fn con repos sobre el almacén; si fn falla restaura la foto previa.
// Las transacciones se serializan, como lo haría el bloqueo de filas.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := fn(s.repos()); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) repos() inventory.TxRepositories {
	return inventory.TxRepositories{
		Branches:       BranchRepo{s},
		Suppliers:      SupplierRepo{s},
		Products:       ProductRepo{s},
		Logs:           LogRepo{s},
		Balances:       BalanceRepo{s},
		Sequences:      SequenceRepo{s},
		PurchaseOrders: OrderRepo{s},
		Transfers:      TransferRepo{s},
		Adjustments:    AdjustmentRepo{s},
		Counts:         CountRepo{s},
	}
}

// Los accesos fuera de Run no toman el mutex: los tests que los usan son secuenciales.

// Branches repos de sucursales.
func (s *Store) Branches() BranchRepo { return BranchRepo{s} }

// Users repos de usuarios.
func (s *Store) Users() UserRepo { return UserRepo{s} }

// Admins repos de administradores.
func (s *Store) Admins() AdminRepo { return AdminRepo{s} }

// Suppliers repos de proveedores.
func (s *Store) Suppliers() SupplierRepo { return SupplierRepo{s} }

// Products repos de productos.
func (s *Store) Products() ProductRepo { return ProductRepo{s} }

// Logs libro de inventario.
func (s *Store) Logs() LogRepo { return LogRepo{s} }

// PurchaseOrders órdenes de compra.
func (s *Store) PurchaseOrders() OrderRepo { return OrderRepo{s} }

// Transfers traslados.
func (s *Store) Transfers() TransferRepo { return TransferRepo{s} }

// Adjustments ajustes.
func (s *Store) Adjustments() AdjustmentRepo { return AdjustmentRepo{s} }

// Counts conteos.
func (s *Store) Counts() CountRepo { return CountRepo{s} }

// Attendance asistencia.
func (s *Store) Attendance() AttendanceRepo { return AttendanceRepo{s} }

// Dashboard consultas del tablero.
func (s *Store) Dashboard() DashboardRepo { return DashboardRepo{s} }

// Balance saldo guardado de (producto, sucursal).
func (s *Store) Balance(productID, branchID string) int {
	return s.st.balances[balanceKey{productID, branchID}].Quantity
}

// LogCount cantidad de asientos en el libro.
func (s *Store) LogCount() int { return len(s.st.logs) }

// AllLogs copia de todos los asientos.
func (s *Store) AllLogs() []entity.InventoryLog {
	return append([]entity.InventoryLog(nil), s.st.logs...)
}

// TransferCount cantidad de traslados persistidos.
func (s *Store) TransferCount() int { return len(s.st.transfers) }

// ── Directorio ───────────────────────────────────────────────────────────────

// BranchRepo implementa repository.BranchRepository.
type BranchRepo struct{ s *Store }

var _ repository.BranchRepository = BranchRepo{}

func (r BranchRepo) Create(_ context.Context, b *entity.Branch) error {
	if err := r.s.fail("branches.create"); err != nil {
		return err
	}
	r.s.st.branches[b.ID] = *b
	return nil
}

func (r BranchRepo) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	b, ok := r.s.st.branches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r BranchRepo) Update(_ context.Context, b *entity.Branch) error {
	if _, ok := r.s.st.branches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.branches[b.ID] = *b
	return nil
}

func (r BranchRepo) List(_ context.Context, limit, offset int) ([]*entity.Branch, error) {
	out := make([]*entity.Branch, 0, len(r.s.st.branches))
	for _, b := range r.s.st.branches {
		b := b
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r BranchRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.st.branches[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.st.branches, id)
	return nil
}

func (r BranchRepo) CountUsers(_ context.Context, branchID string) (int, error) {
	n := 0
	for _, u := range r.s.st.users {
		if u.BranchID == branchID {
			n++
		}
	}
	return n, nil
}

// UserRepo implementa repository.UserRepository.
type UserRepo struct{ s *Store }

var _ repository.UserRepository = UserRepo{}

func (r UserRepo) Create(_ context.Context, u *entity.User) error {
	for _, x := range r.s.st.users {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	r.s.st.users[u.ID] = *u
	return nil
}

func (r UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r UserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := r.s.st.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.users[u.ID] = *u
	return nil
}

func (r UserRepo) List(_ context.Context, branchID string, limit, offset int) ([]*entity.User, error) {
	out := make([]*entity.User, 0)
	for _, u := range r.s.st.users {
		if branchID != "" && u.BranchID != branchID {
			continue
		}
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r UserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.st.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.st.users, id)
	return nil
}

// AdminRepo implementa repository.AdminRepository.
type AdminRepo struct{ s *Store }

var _ repository.AdminRepository = AdminRepo{}

func (r AdminRepo) Create(_ context.Context, a *entity.Admin) error {
	for _, x := range r.s.st.admins {
		if strings.EqualFold(x.Email, a.Email) {
			return domain.ErrDuplicate
		}
	}
	r.s.st.admins[a.ID] = *a
	return nil
}

func (r AdminRepo) GetByID(_ context.Context, id string) (*entity.Admin, error) {
	a, ok := r.s.st.admins[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r AdminRepo) GetByEmail(_ context.Context, email string) (*entity.Admin, error) {
	for _, a := range r.s.st.admins {
		if strings.EqualFold(a.Email, email) {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (r AdminRepo) List(_ context.Context, limit, offset int) ([]*entity.Admin, error) {
	out := make([]*entity.Admin, 0, len(r.s.st.admins))
	for _, a := range r.s.st.admins {
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

// SupplierRepo implementa repository.SupplierRepository.
type SupplierRepo struct{ s *Store }

var _ repository.SupplierRepository = SupplierRepo{}

func (r SupplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	r.s.st.suppliers[sp.ID] = *sp
	return nil
}

func (r SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	sp, ok := r.s.st.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}

func (r SupplierRepo) Update(_ context.Context, sp *entity.Supplier) error {
	if _, ok := r.s.st.suppliers[sp.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.suppliers[sp.ID] = *sp
	return nil
}

func (r SupplierRepo) List(_ context.Context, activeOnly bool, limit, offset int) ([]*entity.Supplier, error) {
	out := make([]*entity.Supplier, 0)
	for _, sp := range r.s.st.suppliers {
		if activeOnly && !sp.IsActive {
			continue
		}
		sp := sp
		out = append(out, &sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r SupplierRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.st.suppliers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.st.suppliers, id)
	return nil
}

func (r SupplierRepo) CountPurchaseOrders(_ context.Context, supplierID string) (int, error) {
	n := 0
	for _, o := range r.s.st.orders {
		if o.SupplierID == supplierID {
			n++
		}
	}
	return n, nil
}

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct{ s *Store }

var _ repository.ProductRepository = ProductRepo{}

func (r ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.st.products[p.ID] = cloneProduct(*p)
	return nil
}

func (r ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, nil
	}
	p = cloneProduct(p)
	return &p, nil
}

func (r ProductRepo) Update(_ context.Context, p *entity.Product) error {
	if _, ok := r.s.st.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.products[p.ID] = cloneProduct(*p)
	return nil
}

func (r ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0)
	for _, p := range r.s.st.products {
		p := p
		if f.BranchID != "" && p.BranchID != f.BranchID {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		p = cloneProduct(p)
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f.Limit, f.Offset), nil
}

func (r ProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.st.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.st.products, id)
	return nil
}

// ── Libro ────────────────────────────────────────────────────────────────────

// LogRepo implementa repository.InventoryLogRepository.
type LogRepo struct{ s *Store }

var _ repository.InventoryLogRepository = LogRepo{}

func (r LogRepo) Create(_ context.Context, e *entity.InventoryLog) error {
	if err := r.s.fail("logs.create"); err != nil {
		return err
	}
	r.s.st.logs = append(r.s.st.logs, *e)
	return nil
}

func (r LogRepo) SumQuantity(_ context.Context, productID, branchID string) (int, error) {
	sum := 0
	for _, e := range r.s.st.logs {
		if e.ProductID == productID && e.BranchID == branchID {
			sum += e.Quantity
		}
	}
	return sum, nil
}

func (r LogRepo) HasEntries(_ context.Context, productID, branchID string) (bool, error) {
	for _, e := range r.s.st.logs {
		if e.ProductID == productID && e.BranchID == branchID {
			return true, nil
		}
	}
	return false, nil
}

func (r LogRepo) List(_ context.Context, f repository.LogFilter) ([]*entity.InventoryLog, error) {
	out := make([]*entity.InventoryLog, 0)
	for i := len(r.s.st.logs) - 1; i >= 0; i-- {
		e := r.s.st.logs[i]
		if f.BranchID != "" && e.BranchID != f.BranchID {
			continue
		}
		if f.ProductID != "" && e.ProductID != f.ProductID {
			continue
		}
		if f.ChangeType != "" && e.ChangeType != f.ChangeType {
			continue
		}
		if f.From != nil && e.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !e.CreatedAt.Before(*f.To) {
			continue
		}
		out = append(out, &e)
	}
	return page(out, f.Limit, f.Offset), nil
}

func (r LogRepo) ListStockLevels(ctx context.Context, branchID string) ([]entity.StockLevel, error) {
	branches := make([]string, 0)
	if branchID != "" {
		branches = append(branches, branchID)
	} else {
		for id := range r.s.st.branches {
			branches = append(branches, id)
		}
		sort.Strings(branches)
	}
	out := make([]entity.StockLevel, 0)
	for _, b := range branches {
		for _, p := range r.s.st.products {
			if !p.IsActive {
				continue
			}
			if tracked, _ := r.HasEntries(ctx, p.ID, b); p.BranchID != b && !tracked {
				continue
			}
			qty, _ := r.SumQuantity(ctx, p.ID, b)
			out = append(out, entity.StockLevel{
				ProductID:         p.ID,
				ProductName:       p.Name,
				Category:          p.Category,
				BranchID:          b,
				Quantity:          qty,
				LowStockThreshold: p.LowStockThreshold,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].BranchID < out[j].BranchID
	})
	return out, nil
}

// BalanceRepo implementa repository.StockBalanceRepository.
type BalanceRepo struct{ s *Store }

var _ repository.StockBalanceRepository = BalanceRepo{}

func (r BalanceRepo) GetForUpdate(_ context.Context, productID, branchID string) (*entity.StockBalance, error) {
	k := balanceKey{productID, branchID}
	b, ok := r.s.st.balances[k]
	if !ok {
		b = entity.StockBalance{ProductID: productID, BranchID: branchID}
		r.s.st.balances[k] = b
	}
	return &b, nil
}

func (r BalanceRepo) Save(_ context.Context, b *entity.StockBalance) error {
	if err := r.s.fail("balances.save"); err != nil {
		return err
	}
	r.s.st.balances[balanceKey{b.ProductID, b.BranchID}] = *b
	return nil
}

// SequenceRepo implementa repository.SequenceRepository.
type SequenceRepo struct{ s *Store }

var _ repository.SequenceRepository = SequenceRepo{}

func (r SequenceRepo) Next(_ context.Context, prefix string, day time.Time) (int, error) {
	k := prefix + day.Format("20060102")
	r.s.st.sequences[k]++
	return r.s.st.sequences[k], nil
}

// ── Flujos ───────────────────────────────────────────────────────────────────

// OrderRepo implementa repository.PurchaseOrderRepository.
type OrderRepo struct{ s *Store }

var _ repository.PurchaseOrderRepository = OrderRepo{}

func (r OrderRepo) Create(_ context.Context, o *entity.PurchaseOrder) error {
	if err := r.s.fail("orders.create"); err != nil {
		return err
	}
	r.s.st.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (r OrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	o, ok := r.s.st.orders[id]
	if !ok {
		return nil, nil
	}
	o = cloneOrder(o)
	return &o, nil
}

func (r OrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r OrderRepo) Update(_ context.Context, o *entity.PurchaseOrder) error {
	if err := r.s.fail("orders.update"); err != nil {
		return err
	}
	r.s.st.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (r OrderRepo) List(_ context.Context, f repository.WorkflowFilter) ([]*entity.PurchaseOrder, error) {
	out := make([]*entity.PurchaseOrder, 0)
	for _, o := range r.s.st.orders {
		o := o
		if f.BranchID != "" && o.BranchID != f.BranchID {
			continue
		}
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		o = cloneOrder(o)
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber > out[j].OrderNumber })
	return page(out, f.Limit, f.Offset), nil
}

// TransferRepo implementa repository.StockTransferRepository.
type TransferRepo struct{ s *Store }

var _ repository.StockTransferRepository = TransferRepo{}

func (r TransferRepo) Create(_ context.Context, t *entity.StockTransfer) error {
	r.s.st.transfers[t.ID] = cloneTransfer(*t)
	return nil
}

func (r TransferRepo) GetByID(_ context.Context, id string) (*entity.StockTransfer, error) {
	t, ok := r.s.st.transfers[id]
	if !ok {
		return nil, nil
	}
	t = cloneTransfer(t)
	return &t, nil
}

func (r TransferRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.GetByID(ctx, id)
}

func (r TransferRepo) Update(_ context.Context, t *entity.StockTransfer) error {
	r.s.st.transfers[t.ID] = cloneTransfer(*t)
	return nil
}

func (r TransferRepo) List(_ context.Context, f repository.WorkflowFilter) ([]*entity.StockTransfer, error) {
	out := make([]*entity.StockTransfer, 0)
	for _, t := range r.s.st.transfers {
		t := t
		if f.BranchID != "" && !t.InvolvesBranch(f.BranchID) {
			continue
		}
		if f.Status != "" && string(t.Status) != f.Status {
			continue
		}
		t = cloneTransfer(t)
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransferNumber > out[j].TransferNumber })
	return page(out, f.Limit, f.Offset), nil
}

// AdjustmentRepo implementa repository.StockAdjustmentRepository.
type AdjustmentRepo struct{ s *Store }

var _ repository.StockAdjustmentRepository = AdjustmentRepo{}

func (r AdjustmentRepo) Create(_ context.Context, a *entity.StockAdjustment) error {
	r.s.st.adjustments[a.ID] = *a
	return nil
}

func (r AdjustmentRepo) GetByID(_ context.Context, id string) (*entity.StockAdjustment, error) {
	a, ok := r.s.st.adjustments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r AdjustmentRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	return r.GetByID(ctx, id)
}

func (r AdjustmentRepo) Update(_ context.Context, a *entity.StockAdjustment) error {
	r.s.st.adjustments[a.ID] = *a
	return nil
}

func (r AdjustmentRepo) List(_ context.Context, f repository.WorkflowFilter) ([]*entity.StockAdjustment, error) {
	out := make([]*entity.StockAdjustment, 0)
	for _, a := range r.s.st.adjustments {
		if f.BranchID != "" && a.BranchID != f.BranchID {
			continue
		}
		if f.Status != "" && string(a.Status) != f.Status {
			continue
		}
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AdjustmentNumber > out[j].AdjustmentNumber })
	return page(out, f.Limit, f.Offset), nil
}

// CountRepo implementa repository.InventoryCountRepository.
type CountRepo struct{ s *Store }

var _ repository.InventoryCountRepository = CountRepo{}

func (r CountRepo) Create(_ context.Context, c *entity.InventoryCount) error {
	r.s.st.counts[c.ID] = cloneCount(*c)
	return nil
}

func (r CountRepo) GetByID(_ context.Context, id string) (*entity.InventoryCount, error) {
	c, ok := r.s.st.counts[id]
	if !ok {
		return nil, nil
	}
	c = cloneCount(c)
	return &c, nil
}

func (r CountRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.InventoryCount, error) {
	return r.GetByID(ctx, id)
}

func (r CountRepo) Update(_ context.Context, c *entity.InventoryCount) error {
	r.s.st.counts[c.ID] = cloneCount(*c)
	return nil
}

func (r CountRepo) List(_ context.Context, f repository.WorkflowFilter) ([]*entity.InventoryCount, error) {
	out := make([]*entity.InventoryCount, 0)
	for _, c := range r.s.st.counts {
		c := c
		if f.BranchID != "" && c.BranchID != f.BranchID {
			continue
		}
		if f.Status != "" && string(c.Status) != f.Status {
			continue
		}
		c = cloneCount(c)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CountNumber > out[j].CountNumber })
	return page(out, f.Limit, f.Offset), nil
}

// ── Asistencia y tablero ─────────────────────────────────────────────────────

// AttendanceRepo implementa repository.AttendanceRepository.
type AttendanceRepo struct{ s *Store }

var _ repository.AttendanceRepository = AttendanceRepo{}

func (r AttendanceRepo) Create(_ context.Context, a *entity.Attendance) error {
	r.s.st.attendance[a.ID] = *a
	return nil
}

func (r AttendanceRepo) Update(_ context.Context, a *entity.Attendance) error {
	if _, ok := r.s.st.attendance[a.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.attendance[a.ID] = *a
	return nil
}

func (r AttendanceRepo) FindOpen(_ context.Context, userID string, from, to time.Time) (*entity.Attendance, error) {
	for _, a := range r.s.st.attendance {
		if a.UserID == userID && a.CheckOut == nil && !a.CheckIn.Before(from) && a.CheckIn.Before(to) {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (r AttendanceRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*entity.Attendance, error) {
	out := make([]*entity.Attendance, 0)
	for _, a := range r.s.st.attendance {
		if a.UserID == userID {
			a := a
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.After(out[j].CheckIn) })
	return page(out, limit, offset), nil
}

func (r AttendanceRepo) ListByBranch(_ context.Context, branchID string, from, to time.Time, limit, offset int) ([]*entity.Attendance, error) {
	out := make([]*entity.Attendance, 0)
	for _, a := range r.s.st.attendance {
		if branchID != "" && a.BranchID != branchID {
			continue
		}
		if a.CheckIn.Before(from) || !a.CheckIn.Before(to) {
			continue
		}
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.After(out[j].CheckIn) })
	return page(out, limit, offset), nil
}

// DashboardRepo implementa repository.DashboardRepository.
type DashboardRepo struct{ s *Store }

var _ repository.DashboardRepository = DashboardRepo{}

func (r DashboardRepo) PendingApprovals(_ context.Context, branchID string) (repository.PendingApprovals, error) {
	var p repository.PendingApprovals
	for _, o := range r.s.st.orders {
		if o.Status == entity.POStatusPendingApproval && (branchID == "" || o.BranchID == branchID) {
			p.PurchaseOrders++
		}
	}
	for _, t := range r.s.st.transfers {
		if t.Status == entity.TransferStatusPending && (branchID == "" || t.InvolvesBranch(branchID)) {
			p.StockTransfers++
		}
	}
	for _, a := range r.s.st.adjustments {
		if a.Status == entity.AdjustmentStatusPending && (branchID == "" || a.BranchID == branchID) {
			p.StockAdjustments++
		}
	}
	for _, c := range r.s.st.counts {
		if c.Status == entity.CountStatusCompleted && (branchID == "" || c.BranchID == branchID) {
			p.InventoryCounts++
		}
	}
	return p, nil
}

func (r DashboardRepo) OpenAttendance(_ context.Context, branchID string, from, to time.Time) (int, error) {
	n := 0
	for _, a := range r.s.st.attendance {
		if a.CheckOut != nil || a.CheckIn.Before(from) || !a.CheckIn.Before(to) {
			continue
		}
		if branchID == "" || a.BranchID == branchID {
			n++
		}
	}
	return n, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
