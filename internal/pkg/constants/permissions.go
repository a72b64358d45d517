package constants

const (
	ViewData        = "view_data"
	ManageAssets    = "manage_assets"
	ManageBatches   = "manage_batches"
	AssignAssets    = "assign_assets"
	PrintReports    = "print_reports"
	ManageStations  = "manage_stations"
	ManageEmployees = "manage_employees"
	ManageAccounts  = "manage_accounts"
	AssignRole      = "assign_role"
)

// PermissionRoles maps each permission to the roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ViewData:        {Viewer, Manager, Admin, Superadmin},
	ManageAssets:    {Manager, Admin, Superadmin},
	ManageBatches:   {Manager, Admin, Superadmin},
	AssignAssets:    {Manager, Admin, Superadmin},
	PrintReports:    {Manager, Admin, Superadmin},
	ManageStations:  {Admin, Superadmin},
	ManageEmployees: {Admin, Superadmin},
	ManageAccounts:  {Admin, Superadmin},
	AssignRole:      {Admin, Superadmin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
