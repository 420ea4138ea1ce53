package models

// Role names mirror the account roles in the user directory.
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleDirector   = "director"
	RoleUser       = "user"
)

// Principal is the authenticated caller: identity plus organizational
// placement. The role decides which navigation mode the principal gets at the
// hierarchy root and how folder reads are filtered.
type Principal struct {
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
	HoldingID    string `json:"holding_id,omitempty"`
	CompanyID    string `json:"company_id,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
}
