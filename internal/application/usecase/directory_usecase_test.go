package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/application/usecase"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
	"github.com/jhoicas/Cafeteria-api/internal/testutil"
)

var (
	owner   = entity.Principal{ID: "adm-owner", Role: entity.RoleOwner}
	admin   = entity.Principal{ID: "adm-1", Role: entity.RoleAdmin}
	manager = entity.Principal{ID: "usr-mgr", Role: entity.RoleBranchManager, BranchID: "br-1"}
	cashier = entity.Principal{ID: "usr-caj", Role: entity.RoleCashier, BranchID: "br-1"}
)

func seedBranch(t *testing.T, store *testutil.Store, id string) {
	t.Helper()
	require.NoError(t, store.Branches().Create(context.Background(), &entity.Branch{ID: id, Name: "Sucursal " + id, Status: entity.BranchStatusActive}))
}

func TestBranch_NoSeEliminaConUsuarios(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	branches := usecase.NewBranchUseCase(store.Branches())
	users := usecase.NewUserUseCase(store.Users(), store.Admins(), store.Branches()).WithHashCost(bcrypt.MinCost)

	b, err := branches.Create(ctx, admin, dto.CreateBranchRequest{Name: "Centro", Location: "Calle 10"})
	require.NoError(t, err)
	assert.Equal(t, entity.BranchStatusActive, b.Status)

	u, err := users.Create(ctx, admin, dto.CreateUserRequest{
		BranchID: b.ID, Name: "Ana", Email: "ana@cafe.co", Password: "secreto123", Role: "barista",
	})
	require.NoError(t, err)

	err = branches.Delete(ctx, admin, b.ID)
	assert.ErrorIs(t, err, domain.ErrBranchHasUsers)
	still, err := branches.GetByID(ctx, admin, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Centro", still.Name)

	require.NoError(t, users.Delete(ctx, admin, u.ID))
	require.NoError(t, branches.Delete(ctx, admin, b.ID))
	_, err = branches.GetByID(ctx, admin, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBranch_PersonalNoAdministra(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	seedBranch(t, store, "br-1")
	branches := usecase.NewBranchUseCase(store.Branches())

	_, err := branches.Create(ctx, manager, dto.CreateBranchRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	own, err := branches.GetByID(ctx, cashier, "br-1")
	require.NoError(t, err, "el personal ve su propia sucursal")
	assert.Equal(t, "br-1", own.ID)
}

func TestUser_EmailDuplicadoYPasswordHasheado(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	seedBranch(t, store, "br-1")
	users := usecase.NewUserUseCase(store.Users(), store.Admins(), store.Branches()).WithHashCost(bcrypt.MinCost)

	created, err := users.Create(ctx, admin, dto.CreateUserRequest{
		BranchID: "br-1", Name: "Luis", Email: " Luis@Cafe.co ", Password: "secreto123", Role: "cashier",
	})
	require.NoError(t, err)
	assert.Equal(t, "luis@cafe.co", created.Email)
	assert.Equal(t, "user", created.Kind)

	stored, err := store.Users().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secreto123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto123")))

	_, err = users.Create(ctx, admin, dto.CreateUserRequest{
		BranchID: "br-1", Name: "Otro", Email: "luis@cafe.co", Password: "secreto123", Role: "staff",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = users.Create(ctx, admin, dto.CreateUserRequest{
		BranchID: "br-1", Name: "Jefe", Email: "jefe@cafe.co", Password: "secreto123", Role: "owner",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "los roles administrativos van a la tabla de admins")
}

func TestAdmin_SoloOwnerOSuperAdminCrean(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	users := usecase.NewUserUseCase(store.Users(), store.Admins(), store.Branches()).WithHashCost(bcrypt.MinCost)

	_, err := users.CreateAdmin(ctx, admin, dto.CreateAdminRequest{Name: "A", Email: "a@cafe.co", Password: "secreto123", Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = users.CreateAdmin(ctx, owner, dto.CreateAdminRequest{Name: "S", Email: "s@cafe.co", Password: "secreto123", Role: "super_admin"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "solo un super_admin crea otro super_admin")

	created, err := users.CreateAdmin(ctx, owner, dto.CreateAdminRequest{Name: "A", Email: "a@cafe.co", Password: "secreto123", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "admin", created.Kind)

	list, err := users.ListAdmins(ctx, owner, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestSupplier_NoSeEliminaConOrdenes(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	suppliers := usecase.NewSupplierUseCase(store.Suppliers())

	s, err := suppliers.Create(ctx, admin, dto.CreateSupplierRequest{Name: "Lácteos La Vaca", CreditLimit: decimal.RequireFromString("1500.555")})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1500.56").Equal(s.CreditLimit))
	assert.True(t, s.IsActive)

	require.NoError(t, store.PurchaseOrders().Create(ctx, &entity.PurchaseOrder{ID: "po-1", SupplierID: s.ID, BranchID: "br-1"}))
	err = suppliers.Delete(ctx, admin, s.ID)
	assert.ErrorIs(t, err, domain.ErrSupplierInUse)

	list, err := suppliers.List(ctx, cashier, true, dto.PageRequest{})
	require.NoError(t, err, "el cajero consulta proveedores")
	assert.Len(t, list.Items, 1)

	_, err = suppliers.Create(ctx, cashier, dto.CreateSupplierRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestProduct_VariantesSeReemplazan(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	seedBranch(t, store, "br-1")
	products := usecase.NewProductUseCase(store.Products(), store.Branches())

	p, err := products.Create(ctx, manager, dto.CreateProductRequest{
		BranchID: "br-1", Name: "Latte", Category: "bebidas", BasePrice: decimal.RequireFromString("2.50"),
		LowStockThreshold: 3,
		Variants: []dto.ProductVariantInput{
			{Name: "Pequeño", Price: decimal.RequireFromString("2.50")},
			{Name: "Grande", Price: decimal.RequireFromString("3.20")},
		},
	})
	require.NoError(t, err)
	require.Len(t, p.Variants, 2)

	updated, err := products.Update(ctx, manager, p.ID, dto.UpdateProductRequest{
		Variants: []dto.ProductVariantInput{{Name: "Único", Price: decimal.RequireFromString("2.80")}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Variants, 1)
	assert.Equal(t, "Único", updated.Variants[0].Name)

	_, err = products.Update(ctx, manager, p.ID, dto.UpdateProductRequest{
		Variants: []dto.ProductVariantInput{{Name: "A"}, {Name: "a"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := products.List(ctx, cashier, repository.ProductFilter{Search: "lat", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	_, err = products.Create(ctx, cashier, dto.CreateProductRequest{BranchID: "br-1", Name: "Té"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
