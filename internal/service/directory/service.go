// Package directory manages the organizational entities the navigation core
// resolves against: holdings, their companies, and their departments.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"orgvault/internal/config"
	"orgvault/internal/domain"
	"orgvault/internal/domain/models"
	"orgvault/internal/domain/repositories"
	"orgvault/internal/domain/services"
	"orgvault/internal/rbac"
)

// entityNamePattern excludes the virtual-id separator from entity names so
// encoded identifiers stay unambiguous, and the path separator for display.
var entityNamePattern = regexp.MustCompile(`^[^/:]+$`)

type directoryService struct {
	repo      repositories.OrgDirectoryWriter
	txManager repositories.TransactionManager
	roles     *rbac.Registry
	logger    *slog.Logger
}

// NewService creates the directory management service.
func NewService(
	repo repositories.OrgDirectoryWriter,
	txManager repositories.TransactionManager,
	roles *rbac.Registry,
	logger *slog.Logger,
) services.DirectoryService {
	return &directoryService{
		repo:      repo,
		txManager: txManager,
		roles:     roles,
		logger:    logger,
	}
}

func (s *directoryService) requireManage(principal *models.Principal) error {
	if !s.roles.CanManageOrg(principal) {
		return &domain.ForbiddenError{
			Message: fmt.Sprintf("role %q cannot manage the organizational hierarchy", principal.Role),
		}
	}
	return nil
}

func validateEntityName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxEntityNameLength),
		validation.Match(entityNamePattern).Error("name cannot contain '/' or ':'"),
	)
}

// --- holdings ---

func (s *directoryService) CreateHolding(ctx context.Context, req *services.CreateHoldingRequest, principal *models.Principal) (*models.Holding, error) {
	if err := s.requireManage(principal); err != nil {
		return nil, err
	}
	if err := validateEntityName(req.Name); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	now := time.Now().UTC()
	holding := &models.Holding{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateHolding(ctx, holding); err != nil {
		return nil, err
	}

	s.logger.Info("holding created", "holding_id", holding.ID, "name", holding.Name)
	return holding, nil
}

func (s *directoryService) ListHoldings(ctx context.Context, principal *models.Principal) ([]models.Holding, error) {
	return s.repo.ListHoldings(ctx)
}

func (s *directoryService) GetHolding(ctx context.Context, id string, principal *models.Principal) (*models.Holding, error) {
	return s.repo.GetHolding(ctx, id)
}

func (s *directoryService) UpdateHolding(ctx context.Context, id string, req *services.UpdateHoldingRequest, principal *models.Principal) (*models.Holding, error) {
	if err := s.requireManage(principal); err != nil {
		return nil, err
	}
	if err := validateEntityName(req.Name); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	holding, err := s.repo.GetHolding(ctx, id)
	if err != nil {
		return nil, err
	}
	holding.Name = req.Name
	holding.Description = req.Description
	holding.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateHolding(ctx, holding); err != nil {
		return nil, err
	}
	return holding, nil
}

// DeleteHolding removes a holding together with its companies and
// departments in one transaction, so navigation never observes a company
// whose holding is gone.
func (s *directoryService) DeleteHolding(ctx context.Context, id string, principal *models.Principal) error {
	if err := s.requireManage(principal); err != nil {
		return err
	}

	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		companies, err := s.repo.ListCompanies(txCtx, id)
		if err != nil {
			return err
		}
		for _, company := range companies {
			if err := s.deleteCompanyTree(txCtx, company.ID); err != nil {
				return err
			}
		}
		if err := s.repo.DeleteHolding(txCtx, id); err != nil {
			return err
		}
		s.logger.Info("holding deleted", "holding_id", id, "companies", len(companies))
		return nil
	})
}

// --- companies ---

func (s *directoryService) CreateCompany(ctx context.Context, req *services.CreateCompanyRequest, principal *models.Principal) (*models.Company, error) {
	if err := s.requireManage(principal); err != nil {
		return nil, err
	}
	if err := validateEntityName(req.Name); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	// The owning holding must exist
	if _, err := s.repo.GetHolding(ctx, req.HoldingID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	company := &models.Company{
		ID:          uuid.NewString(),
		HoldingID:   req.HoldingID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, err
	}

	s.logger.Info("company created", "company_id", company.ID, "holding_id", company.HoldingID)
	return company, nil
}

func (s *directoryService) ListCompanies(ctx context.Context, holdingID string, principal *models.Principal) ([]models.Company, error) {
	return s.repo.ListCompanies(ctx, holdingID)
}

func (s *directoryService) GetCompany(ctx context.Context, id string, principal *models.Principal) (*models.Company, error) {
	return s.repo.GetCompany(ctx, id)
}

func (s *directoryService) UpdateCompany(ctx context.Context, id string, req *services.UpdateCompanyRequest, principal *models.Principal) (*models.Company, error) {
	if err := s.requireManage(principal); err != nil {
		return nil, err
	}
	if err := validateEntityName(req.Name); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	company.Name = req.Name
	company.Description = req.Description
	company.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateCompany(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *directoryService) DeleteCompany(ctx context.Context, id string, principal *models.Principal) error {
	if err := s.requireManage(principal); err != nil {
		return err
	}
	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.deleteCompanyTree(txCtx, id)
	})
}

func (s *directoryService) deleteCompanyTree(ctx context.Context, companyID string) error {
	depts, err := s.repo.ListDepartments(ctx, companyID)
	if err != nil {
		return err
	}
	for _, dept := range depts {
		if err := s.repo.DeleteDepartment(ctx, dept.ID); err != nil {
			return err
		}
	}
	return s.repo.DeleteCompany(ctx, companyID)
}

// --- departments ---

func (s *directoryService) CreateDepartment(ctx context.Context, req *services.CreateDepartmentRequest, principal *models.Principal) (*models.Department, error) {
	if err := s.requireManage(principal); err != nil {
		return nil, err
	}
	if err := validateEntityName(req.Name); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	// The owning company must exist
	if _, err := s.repo.GetCompany(ctx, req.CompanyID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dept := &models.Department{
		ID:        uuid.NewString(),
		CompanyID: req.CompanyID,
		Name:      req.Name,
		ManagerID: req.ManagerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateDepartment(ctx, dept); err != nil {
		return nil, err
	}

	s.logger.Info("department created", "department_id", dept.ID, "company_id", dept.CompanyID)
	return dept, nil
}

func (s *directoryService) ListDepartments(ctx context.Context, companyID string, principal *models.Principal) ([]models.Department, error) {
	return s.repo.ListDepartments(ctx, companyID)
}

func (s *directoryService) GetDepartment(ctx context.Context, id string, principal *models.Principal) (*models.Department, error) {
	return s.repo.GetDepartment(ctx, id)
}

func (s *directoryService) UpdateDepartment(ctx context.Context, id string, req *services.UpdateDepartmentRequest, principal *models.Principal) (*models.Department, error) {
	if err := s.requireManage(principal); err != nil {
		return nil, err
	}
	if err := validateEntityName(req.Name); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	dept, err := s.repo.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	dept.Name = req.Name
	dept.ManagerID = req.ManagerID
	dept.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateDepartment(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *directoryService) DeleteDepartment(ctx context.Context, id string, principal *models.Principal) error {
	if err := s.requireManage(principal); err != nil {
		return err
	}
	if err := s.repo.DeleteDepartment(ctx, id); err != nil {
		return err
	}
	s.logger.Info("department deleted", "department_id", id)
	return nil
}
