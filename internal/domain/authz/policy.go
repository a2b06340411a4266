// Package authz política central de autorización: rol × acción → alcance.
package authz

import "github.com/jhoicas/Cafeteria-api/internal/domain/entity"

// Action acción protegida.
type Action string

const (
	ViewInventory        Action = "inventory.view"
	RecordInventoryLog   Action = "inventory.record"
	ManageProducts       Action = "products.manage"
	CreatePurchaseOrder  Action = "purchase_orders.create"
	ApprovePurchaseOrder Action = "purchase_orders.approve"
	ReceivePurchaseOrder Action = "purchase_orders.receive"
	CreateTransfer       Action = "transfers.create"
	ApproveTransfer      Action = "transfers.approve"
	HandleTransfer       Action = "transfers.handle" // despachar / completar
	CreateAdjustment     Action = "adjustments.create"
	ApproveAdjustment    Action = "adjustments.approve"
	ConductCount         Action = "counts.conduct"
	ApproveCount         Action = "counts.approve"
	ManageSuppliers      Action = "suppliers.manage"
	ViewSuppliers        Action = "suppliers.view"
	ManageBranches       Action = "branches.manage"
	ManageUsers          Action = "users.manage"
	ManageAdmins         Action = "admins.manage"
	ViewBranchAttendance Action = "attendance.branch"
	ViewDashboard        Action = "dashboard.view"
)

// Scope alcance concedido por la política.
type Scope int

const (
	Deny      Scope = iota
	OwnBranch       // solo sobre recursos de su branch_id
	AnyBranch       // sobre cualquier sucursal
)

type rules map[Action]Scope

func allOf(scope Scope, actions ...Action) rules {
	r := make(rules, len(actions))
	for _, a := range actions {
		r[a] = scope
	}
	return r
}

var adminActions = []Action{
	ViewInventory, RecordInventoryLog, ManageProducts,
	CreatePurchaseOrder, ApprovePurchaseOrder, ReceivePurchaseOrder,
	CreateTransfer, ApproveTransfer, HandleTransfer,
	CreateAdjustment, ApproveAdjustment, ConductCount, ApproveCount,
	ManageSuppliers, ViewSuppliers, ManageBranches, ManageUsers,
	ViewBranchAttendance, ViewDashboard,
}

func merge(rs ...rules) rules {
	out := rules{}
	for _, r := range rs {
		for a, s := range r {
			out[a] = s
		}
	}
	return out
}

// policy tabla rol × acción. Lo que no aparece es Deny.
var policy = map[entity.Role]rules{
	entity.RoleSuperAdmin: merge(allOf(AnyBranch, adminActions...), allOf(AnyBranch, ManageAdmins)),
	entity.RoleOwner:      merge(allOf(AnyBranch, adminActions...), allOf(AnyBranch, ManageAdmins)),
	entity.RoleAdmin:      allOf(AnyBranch, adminActions...),
	entity.RoleBranchManager: allOf(OwnBranch,
		ViewInventory, RecordInventoryLog, ManageProducts,
		CreatePurchaseOrder, ReceivePurchaseOrder,
		CreateTransfer, HandleTransfer,
		CreateAdjustment, ConductCount,
		ViewSuppliers, ViewBranchAttendance, ViewDashboard,
	),
	entity.RoleCashier: allOf(OwnBranch, ViewInventory, RecordInventoryLog, ViewSuppliers),
	entity.RoleBarista: allOf(OwnBranch, ViewInventory, RecordInventoryLog, ConductCount),
	entity.RoleStaff:   allOf(OwnBranch, ViewInventory),
}

// ScopeOf alcance del rol para la acción.
func ScopeOf(role entity.Role, action Action) Scope {
	return policy[role][action]
}

// CanAct evalúa la política para el actor sobre un recurso de la sucursal branchID.
// branchID vacío significa "sin sucursal concreta" (listados globales, catálogos): solo
// AnyBranch lo concede.
func CanAct(actor entity.Principal, action Action, branchID string) bool {
	switch ScopeOf(actor.Role, action) {
	case AnyBranch:
		return true
	case OwnBranch:
		return actor.BranchID != "" && branchID != "" && actor.BranchID == branchID
	default:
		return false
	}
}

// CanActOnAny igual que CanAct pero basta con que una de las sucursales coincida
// (traslados: origen o destino).
func CanActOnAny(actor entity.Principal, action Action, branchIDs ...string) bool {
	for _, b := range branchIDs {
		if CanAct(actor, action, b) {
			return true
		}
	}
	return false
}

// BranchFilter resuelve la sucursal efectiva de un listado: los roles de sucursal quedan
// fijados a la suya; los administradores usan la pedida (vacío = todas).
func BranchFilter(actor entity.Principal, action Action, requested string) (string, bool) {
	switch ScopeOf(actor.Role, action) {
	case AnyBranch:
		return requested, true
	case OwnBranch:
		if actor.BranchID == "" || (requested != "" && requested != actor.BranchID) {
			return "", false
		}
		return actor.BranchID, true
	default:
		return "", false
	}
}
