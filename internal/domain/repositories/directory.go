package repositories

import (
	"context"

	"orgvault/internal/domain/models"
)

// OrgDirectory provides point lookups and child listings over the
// organizational hierarchy. Reads exclude soft-deleted entities.
type OrgDirectory interface {
	// GetHolding retrieves a holding by id
	GetHolding(ctx context.Context, id string) (*models.Holding, error)

	// ListHoldings lists all holdings, name ascending
	ListHoldings(ctx context.Context) ([]models.Holding, error)

	// GetCompany retrieves a company by id
	GetCompany(ctx context.Context, id string) (*models.Company, error)

	// GetCompaniesByIDs retrieves companies for a set of ids in one call.
	// Missing ids are simply absent from the result map, not an error.
	GetCompaniesByIDs(ctx context.Context, ids []string) (map[string]*models.Company, error)

	// ListCompanies lists the companies of a holding, name ascending
	ListCompanies(ctx context.Context, holdingID string) ([]models.Company, error)

	// GetDepartment retrieves a department by id
	GetDepartment(ctx context.Context, id string) (*models.Department, error)

	// ListDepartments lists the departments of a company, name ascending
	ListDepartments(ctx context.Context, companyID string) ([]models.Department, error)
}

// OrgDirectoryWriter extends the directory with entity lifecycle operations.
// The resolution core only consumes OrgDirectory; the writer surface exists
// for the directory CRUD endpoints.
type OrgDirectoryWriter interface {
	OrgDirectory

	CreateHolding(ctx context.Context, h *models.Holding) error
	UpdateHolding(ctx context.Context, h *models.Holding) error
	DeleteHolding(ctx context.Context, id string) error

	CreateCompany(ctx context.Context, c *models.Company) error
	UpdateCompany(ctx context.Context, c *models.Company) error
	DeleteCompany(ctx context.Context, id string) error

	CreateDepartment(ctx context.Context, d *models.Department) error
	UpdateDepartment(ctx context.Context, d *models.Department) error
	DeleteDepartment(ctx context.Context, id string) error
}
