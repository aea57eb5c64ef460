package services

import (
	"github.com/procureflow/procurement_app/internal/core/domain"
)

// Access rules are pure predicates over the actor and the request so they can
// be checked anywhere (services, handlers, tests) without a store round trip.

// CanCreateRequest reports whether the actor may open a new purchase request.
func CanCreateRequest(actor domain.Actor) bool {
	return actor.Role == domain.RoleStaff
}

// CanModifyRequest reports whether the actor may edit the request. Only the
// creator may edit, and only while the request is still pending.
func CanModifyRequest(actor domain.Actor, req *domain.PurchaseRequest) bool {
	return actor.Role == domain.RoleStaff && req.OwnerID == actor.UserID && req.Status == domain.StatusPending
}

// CanDecide reports whether the actor's role participates in approvals at
// all. Whether the actor matches the request's current level is checked by
// the decision state machine, which owns that error distinction.
func CanDecide(actor domain.Actor) bool {
	return actor.Role.IsApprover()
}

// CanViewRequest reports whether the actor may read the request.
// Staff see their own requests; approvers and admins see everything; finance
// has read access across all statuses.
func CanViewRequest(actor domain.Actor, req *domain.PurchaseRequest) bool {
	switch actor.Role {
	case domain.RoleStaff:
		return req.OwnerID == actor.UserID
	case domain.RoleApproverLevel1, domain.RoleApproverLevel2, domain.RoleFinance, domain.RoleAdmin:
		return true
	default:
		return false
	}
}

// CanViewRequestFiles reports whether the actor may download a request's
// stored documents (purchase order, attachments). Finance only gets
// documents of approved requests.
func CanViewRequestFiles(actor domain.Actor, req *domain.PurchaseRequest) bool {
	switch actor.Role {
	case domain.RoleStaff:
		return req.OwnerID == actor.UserID
	case domain.RoleApproverLevel1, domain.RoleApproverLevel2, domain.RoleAdmin:
		return true
	case domain.RoleFinance:
		return req.Status == domain.StatusApproved
	default:
		return false
	}
}

// CanSubmitReceipt reports whether the actor may attach a receipt: the
// creator, or finance for any request.
func CanSubmitReceipt(actor domain.Actor, req *domain.PurchaseRequest) bool {
	if actor.Role == domain.RoleFinance {
		return true
	}
	return actor.Role == domain.RoleStaff && req.OwnerID == actor.UserID
}

// CanAddAttachment reports whether the actor may add supporting documents.
func CanAddAttachment(actor domain.Actor, req *domain.PurchaseRequest) bool {
	return actor.Role == domain.RoleStaff && req.OwnerID == actor.UserID
}

// CanAddFinanceComment reports whether the actor may record a finance note.
// Notes exist for reconciliation, so they attach to approved requests only.
func CanAddFinanceComment(actor domain.Actor, req *domain.PurchaseRequest) bool {
	return actor.Role == domain.RoleFinance && req.Status == domain.StatusApproved
}
