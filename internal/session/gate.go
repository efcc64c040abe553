package session

import "github.com/idilsaglam/hcadmin/internal/model"

// Gate derives read/write/delete capabilities for u. The super-admin role
// gets everything; otherwise the explicit permissions object decides, with
// read-only as the default when it is absent. Advisory only: the server
// still authorizes every call.
func Gate(u *model.Admin, superAdminRole string) model.Permissions {
	if u == nil {
		return model.Permissions{Read: true}
	}
	if superAdminRole != "" && u.Role == superAdminRole {
		return model.Permissions{Read: true, Write: true, Delete: true}
	}
	if u.Permissions != nil {
		return *u.Permissions
	}
	return model.Permissions{Read: true}
}
