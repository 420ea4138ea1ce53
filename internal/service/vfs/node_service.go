package vfs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"orgvault/internal/domain"
	"orgvault/internal/domain/models"
	"orgvault/internal/domain/repositories"
	"orgvault/internal/domain/services"
	"orgvault/internal/rbac"
	"orgvault/internal/vfs"
)

type nodeService struct {
	*nodeResolver
	folders repositories.FolderRepository
	files   repositories.FileRepository
	roles   *rbac.Registry
	logger  *slog.Logger
}

// NewNodeService creates the navigation read service.
func NewNodeService(
	directory repositories.OrgDirectory,
	folders repositories.FolderRepository,
	files repositories.FileRepository,
	roles *rbac.Registry,
	logger *slog.Logger,
) services.NodeService {
	return &nodeService{
		nodeResolver: &nodeResolver{directory: directory, logger: logger},
		folders:      folders,
		files:        files,
		roles:        roles,
		logger:       logger,
	}
}

// ListRoots returns the top of the navigable tree for the principal. The
// shape is decided by the role's navigation mode alone; an empty
// organizational listing stays empty and never falls back to stored folders.
func (s *nodeService) ListRoots(ctx context.Context, principal *models.Principal) ([]models.Node, error) {
	policy, err := s.roles.Policy(principal.Role)
	if err != nil {
		return nil, err
	}

	switch policy.Navigation {
	case rbac.NavigateHoldings:
		holdings, err := s.directory.ListHoldings(ctx)
		if err != nil {
			return nil, fmt.Errorf("list holdings: %w", err)
		}
		nodes := make([]models.Node, 0, len(holdings))
		for i := range holdings {
			nodes = append(nodes, s.holdingNode(&holdings[i]))
		}
		return nodes, nil

	case rbac.NavigateDepartments:
		if principal.CompanyID == "" {
			return nil, &domain.ForbiddenError{
				Message: fmt.Sprintf("role %q requires a company assignment", principal.Role),
			}
		}
		depts, err := s.directory.ListDepartments(ctx, principal.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("list departments: %w", err)
		}
		return s.departmentNodes(ctx, depts)

	case rbac.NavigateFolders:
		if principal.DepartmentID == "" {
			return nil, &domain.ForbiddenError{
				Message: fmt.Sprintf("role %q requires a department assignment", principal.Role),
			}
		}
		folders, err := s.folders.ListRootByDepartment(ctx, principal.DepartmentID)
		if err != nil {
			return nil, fmt.Errorf("list department folders: %w", err)
		}
		return s.folderNodes(folders), nil

	default:
		return nil, &domain.ForbiddenError{
			Message: fmt.Sprintf("role %q has no navigation mode", principal.Role),
		}
	}
}

// GetNode resolves a single node, virtual or real.
func (s *nodeService) GetNode(ctx context.Context, id string, principal *models.Principal) (*models.Node, error) {
	ref, err := vfs.Parse(id)
	if err != nil {
		return nil, err
	}

	scope, err := s.roles.ScopeFor(principal)
	if err != nil {
		return nil, err
	}

	switch ref.Kind {
	case vfs.RefHolding:
		if !orgVisible(scope, principal, ref, "") {
			return nil, orgHidden(ref)
		}
		holding, err := s.directory.GetHolding(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		node := s.holdingNode(holding)
		return &node, nil

	case vfs.RefCompany:
		if !orgVisible(scope, principal, ref, "") {
			return nil, orgHidden(ref)
		}
		company, err := s.directory.GetCompany(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		node := s.companyNode(company)
		return &node, nil

	case vfs.RefDepartment:
		dept, err := s.directory.GetDepartment(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if !orgVisible(scope, principal, ref, dept.CompanyID) {
			return nil, orgHidden(ref)
		}
		node := s.departmentNode(ctx, dept)
		return &node, nil

	default:
		folder, err := s.folders.GetByID(ctx, ref.ID, scope)
		if err == nil {
			node := s.folderNode(folder)
			return &node, nil
		}
		// Fall through to files so a file id resolves too.
		file, fileErr := s.files.GetByID(ctx, ref.ID, scope)
		if fileErr != nil {
			return nil, err
		}
		node := s.fileNode(file)
		return &node, nil
	}
}

// ListChildren lists the children of any node, virtual or real. All
// branches return the uniform node shape, each sorted name ascending.
func (s *nodeService) ListChildren(ctx context.Context, id string, principal *models.Principal) ([]models.Node, error) {
	ref, err := vfs.Parse(id)
	if err != nil {
		return nil, err
	}

	scope, err := s.roles.ScopeFor(principal)
	if err != nil {
		return nil, err
	}

	switch ref.Kind {
	case vfs.RefHolding:
		if !orgVisible(scope, principal, ref, "") {
			return nil, orgHidden(ref)
		}
		if _, err := s.directory.GetHolding(ctx, ref.ID); err != nil {
			return nil, err
		}
		companies, err := s.directory.ListCompanies(ctx, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("list companies: %w", err)
		}
		nodes := make([]models.Node, 0, len(companies))
		for i := range companies {
			nodes = append(nodes, s.companyNode(&companies[i]))
		}
		return nodes, nil

	case vfs.RefCompany:
		if !orgVisible(scope, principal, ref, "") {
			return nil, orgHidden(ref)
		}
		if _, err := s.directory.GetCompany(ctx, ref.ID); err != nil {
			return nil, err
		}
		depts, err := s.directory.ListDepartments(ctx, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("list departments: %w", err)
		}
		return s.departmentNodes(ctx, depts)

	case vfs.RefDepartment:
		dept, err := s.directory.GetDepartment(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if !orgVisible(scope, principal, ref, dept.CompanyID) {
			return nil, orgHidden(ref)
		}
		folders, err := s.folders.ListRootByDepartment(ctx, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("list department folders: %w", err)
		}
		return s.folderNodes(folders), nil

	default:
		if _, err := s.folders.GetByID(ctx, ref.ID, scope); err != nil {
			return nil, err
		}
		folders, err := s.folders.ListChildren(ctx, ref.ID, scope)
		if err != nil {
			return nil, fmt.Errorf("list child folders: %w", err)
		}
		files, err := s.files.ListByFolder(ctx, ref.ID, scope)
		if err != nil {
			return nil, fmt.Errorf("list folder files: %w", err)
		}

		nodes := s.folderNodes(folders)
		for i := range files {
			nodes = append(nodes, s.fileNode(&files[i]))
		}
		return nodes, nil
	}
}

// orgVisible reports whether a virtual entry lies on the principal's own
// lineage. Global scopes see the whole hierarchy; scoped principals only
// reach the placement carried in their token, so one department's caller
// cannot enumerate another department's structure or folders. For a
// department ref under a company scope the owning company id decides.
func orgVisible(scope models.Scope, principal *models.Principal, ref vfs.NodeRef, companyID string) bool {
	if scope.Level == models.ScopeGlobal {
		return true
	}

	switch ref.Kind {
	case vfs.RefHolding:
		return principal.HoldingID == ref.ID
	case vfs.RefCompany:
		return principal.CompanyID == ref.ID
	case vfs.RefDepartment:
		if scope.Level == models.ScopeCompany {
			return companyID == scope.CompanyID
		}
		return principal.DepartmentID == ref.ID
	}
	return true
}

// orgHidden renders scope denial as not-found, like any other scoped read.
func orgHidden(ref vfs.NodeRef) error {
	return &domain.NotFoundError{Message: fmt.Sprintf("node %s not found", ref.String())}
}

// folderNodes maps stored folders to nodes, sorted name ascending for
// deterministic listings regardless of repository ordering.
func (s *nodeService) folderNodes(folders []models.Folder) []models.Node {
	nodes := make([]models.Node, 0, len(folders))
	for i := range folders {
		nodes = append(nodes, s.folderNode(&folders[i]))
	}
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	return nodes
}
