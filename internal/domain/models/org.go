package models

import "time"

// Holding is the root of the organizational hierarchy. It has no parent.
type Holding struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Company belongs to exactly one holding.
type Company struct {
	ID          string    `json:"id" db:"id"`
	HoldingID   string    `json:"holding_id" db:"holding_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Department belongs to exactly one company. It does not store a holding id;
// the holding must be derived through the owning company.
type Department struct {
	ID        string    `json:"id" db:"id"`
	CompanyID string    `json:"company_id" db:"company_id"`
	Name      string    `json:"name" db:"name"`
	ManagerID *string   `json:"manager_id,omitempty" db:"manager_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// OrgContext is the (holding, company, department) triple attached to a real
// folder or file. Empty fields mean the folder is not scoped at that level.
type OrgContext struct {
	HoldingID    string `json:"holding_id"`
	CompanyID    string `json:"company_id"`
	DepartmentID string `json:"department_id"`
}

// IsEmpty reports whether no organizational scope is set.
func (c OrgContext) IsEmpty() bool {
	return c.HoldingID == "" && c.CompanyID == "" && c.DepartmentID == ""
}
