package services

import (
	"context"

	"orgvault/internal/domain/models"
)

// CreateHoldingRequest creates a holding.
type CreateHoldingRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateHoldingRequest renames a holding.
type UpdateHoldingRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CreateCompanyRequest creates a company under a holding.
type CreateCompanyRequest struct {
	HoldingID   string  `json:"holding_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateCompanyRequest renames a company.
type UpdateCompanyRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CreateDepartmentRequest creates a department under a company.
type CreateDepartmentRequest struct {
	CompanyID string  `json:"company_id"`
	Name      string  `json:"name"`
	ManagerID *string `json:"manager_id"`
}

// UpdateDepartmentRequest renames a department or reassigns its manager.
type UpdateDepartmentRequest struct {
	Name      string  `json:"name"`
	ManagerID *string `json:"manager_id"`
}

// DirectoryService manages the organizational entities themselves. Only
// superadmin-level principals may mutate the hierarchy; reads follow the
// caller's scope.
type DirectoryService interface {
	CreateHolding(ctx context.Context, req *CreateHoldingRequest, principal *models.Principal) (*models.Holding, error)
	ListHoldings(ctx context.Context, principal *models.Principal) ([]models.Holding, error)
	GetHolding(ctx context.Context, id string, principal *models.Principal) (*models.Holding, error)
	UpdateHolding(ctx context.Context, id string, req *UpdateHoldingRequest, principal *models.Principal) (*models.Holding, error)
	DeleteHolding(ctx context.Context, id string, principal *models.Principal) error

	CreateCompany(ctx context.Context, req *CreateCompanyRequest, principal *models.Principal) (*models.Company, error)
	ListCompanies(ctx context.Context, holdingID string, principal *models.Principal) ([]models.Company, error)
	GetCompany(ctx context.Context, id string, principal *models.Principal) (*models.Company, error)
	UpdateCompany(ctx context.Context, id string, req *UpdateCompanyRequest, principal *models.Principal) (*models.Company, error)
	DeleteCompany(ctx context.Context, id string, principal *models.Principal) error

	CreateDepartment(ctx context.Context, req *CreateDepartmentRequest, principal *models.Principal) (*models.Department, error)
	ListDepartments(ctx context.Context, companyID string, principal *models.Principal) ([]models.Department, error)
	GetDepartment(ctx context.Context, id string, principal *models.Principal) (*models.Department, error)
	UpdateDepartment(ctx context.Context, id string, req *UpdateDepartmentRequest, principal *models.Principal) (*models.Department, error)
	DeleteDepartment(ctx context.Context, id string, principal *models.Principal) error
}
