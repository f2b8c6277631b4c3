package access

// Role is the base capability holder carried in the session token.
type Role string

const (
	RoleShipper    Role = "SHIPPER"
	RoleCarrier    Role = "CARRIER"
	RoleDispatcher Role = "DISPATCHER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

type Permission string

const (
	PermLoadCreate      Permission = "load:create"
	PermLoadEdit        Permission = "load:edit"
	PermLoadPost        Permission = "load:post"
	PermLoadBrowse      Permission = "load:browse"
	PermTruckManage     Permission = "truck:manage"
	PermTruckApprove    Permission = "truck:approve"
	PermPostingCreate   Permission = "posting:create"
	PermPostingBrowse   Permission = "posting:browse"
	PermRequestLoad     Permission = "request:load"
	PermRequestTruck    Permission = "request:truck"
	PermRequestRespond  Permission = "request:respond"
	PermTripAdvance     Permission = "trip:advance"
	PermTripView        Permission = "trip:view"
	PermPodSubmit       Permission = "pod:submit"
	PermPodVerify       Permission = "pod:verify"
	PermOrgAdminister   Permission = "org:administer"
)

// rolePermissions is the static capability table. Ownership checks are
// layered on top; holding a permission never grants access to another
// organization's resources.
var rolePermissions = map[Role][]Permission{
	RoleShipper: {
		PermLoadCreate, PermLoadEdit, PermLoadPost, PermLoadBrowse,
		PermPostingBrowse, PermRequestTruck, PermRequestRespond,
		PermPodVerify, PermTripView,
	},
	RoleCarrier: {
		PermLoadBrowse, PermTruckManage, PermPostingCreate, PermPostingBrowse,
		PermRequestLoad, PermRequestRespond, PermTripAdvance, PermPodSubmit,
		PermTripView,
	},
	RoleDispatcher: {
		PermLoadBrowse, PermPostingBrowse, PermTripView,
	},
	RoleAdmin: {
		PermLoadBrowse, PermPostingBrowse, PermTripView,
		PermTruckApprove, PermOrgAdminister,
	},
	RoleSuperAdmin: {
		PermLoadBrowse, PermPostingBrowse, PermTripView,
		PermTruckApprove, PermOrgAdminister,
	},
}

// Has reports whether role holds perm.
func Has(role Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}
