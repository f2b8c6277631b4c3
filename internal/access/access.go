// Package access resolves a caller's role and organization into a
// capability set plus an ownership verdict for one specific resource.
// Every workflow entry point takes an explicit Actor; nothing in the
// engine reads session state ambiently.
package access

import (
	"loadlink/internal/apperrors"
)

// Actor is the authenticated caller, extracted once per request from
// the session token.
type Actor struct {
	UserID         uint
	Role           Role
	OrganizationID uint
	Status         string
}

// ResourceOwners names the organizations on each side of a resource.
// Zero means "no owner on that side" (e.g. a load not yet assigned has
// no carrier).
type ResourceOwners struct {
	ShipperOrgID uint
	CarrierOrgID uint
}

// Verdict is the fixed set of booleans every gate consults. IsShipper
// and IsCarrier are ownership verdicts: role alone never sets them.
type Verdict struct {
	IsShipper    bool
	IsCarrier    bool
	IsDispatcher bool
	IsAdmin      bool
	IsSuperAdmin bool
	HasAccess    bool
	CanView      bool
	CanModify    bool
}

// Resolve computes the verdict for actor against owners.
func Resolve(actor Actor, owners ResourceOwners) Verdict {
	v := Verdict{
		IsShipper:    actor.Role == RoleShipper && actor.OrganizationID != 0 && actor.OrganizationID == owners.ShipperOrgID,
		IsCarrier:    actor.Role == RoleCarrier && actor.OrganizationID != 0 && actor.OrganizationID == owners.CarrierOrgID,
		IsDispatcher: actor.Role == RoleDispatcher,
		IsAdmin:      actor.Role == RoleAdmin,
		IsSuperAdmin: actor.Role == RoleSuperAdmin,
	}
	v.HasAccess = v.IsShipper || v.IsCarrier || v.IsDispatcher || v.IsAdmin
	v.CanView = v.HasAccess
	v.CanModify = v.IsShipper || v.IsCarrier || v.IsAdmin
	return v
}

// RequirePermission is the capability half of the gate: a pure
// role-to-permission lookup, independent of ownership.
func RequirePermission(actor Actor, perm Permission) error {
	if Has(actor.Role, perm) {
		return nil
	}
	return apperrors.Forbidden("You do not have permission to perform this action")
}

// RequireFleetAccess denies shippers any view of the raw truck fleet.
// Shippers browse postings, never trucks.
func RequireFleetAccess(actor Actor) error {
	if actor.Role == RoleShipper {
		return apperrors.ForbiddenRule(apperrors.RuleShipperDemandFocus,
			"Shippers may only browse truck postings, not the fleet")
	}
	return nil
}

// CanApproveRequests reports whether actor may respond to a request
// whose responding side is owned by ownerOrgID.
func CanApproveRequests(actor Actor, ownerOrgID uint) bool {
	if actor.OrganizationID == 0 || actor.OrganizationID != ownerOrgID {
		return false
	}
	return actor.Role == RoleShipper || actor.Role == RoleCarrier
}

// CanRequestTruck reports whether actor may initiate a truck request
// on behalf of the load's shipper organization.
func CanRequestTruck(actor Actor, loadShipperOrgID uint) bool {
	return actor.Role == RoleShipper && actor.OrganizationID != 0 &&
		actor.OrganizationID == loadShipperOrgID
}
