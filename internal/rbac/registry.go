// Package rbac maps principal roles onto navigation modes and organizational
// scopes. The navigation mode is an explicit property of the role, never
// inferred from what a listing happens to return: a holding set that is
// legitimately empty must not make a superadmin fall through to stored
// folders.
package rbac

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"orgvault/internal/domain"
	"orgvault/internal/domain/models"
)

//go:embed config/roles.yaml
var configFiles embed.FS

// NavigationMode is what a role sees at the root of the tree.
type NavigationMode string

const (
	NavigateHoldings    NavigationMode = "holdings"
	NavigateDepartments NavigationMode = "departments"
	NavigateFolders     NavigationMode = "folders"
)

// RolePolicy is one role's navigation and access definition.
type RolePolicy struct {
	Navigation   NavigationMode    `yaml:"navigation"`
	Scope        models.ScopeLevel `yaml:"scope"`
	CanMutate    bool              `yaml:"can_mutate"`
	CanManageOrg bool              `yaml:"can_manage_org"`
}

type rolesFile struct {
	Roles map[string]RolePolicy `yaml:"roles"`
}

// Registry holds the role policies loaded from the embedded YAML file.
type Registry struct {
	roles map[string]RolePolicy
}

// NewRegistry loads the embedded role definitions.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/roles.yaml")
	if err != nil {
		return nil, fmt.Errorf("read roles config: %w", err)
	}

	var file rolesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal roles config: %w", err)
	}
	if len(file.Roles) == 0 {
		return nil, fmt.Errorf("roles config defines no roles")
	}

	for name, policy := range file.Roles {
		switch policy.Navigation {
		case NavigateHoldings, NavigateDepartments, NavigateFolders:
		default:
			return nil, fmt.Errorf("role %q: unknown navigation mode %q", name, policy.Navigation)
		}
		switch policy.Scope {
		case models.ScopeGlobal, models.ScopeCompany, models.ScopeDepartment:
		default:
			return nil, fmt.Errorf("role %q: unknown scope %q", name, policy.Scope)
		}
	}

	return &Registry{roles: file.Roles}, nil
}

// Policy returns the policy for a role. Unknown roles are unauthorized.
func (r *Registry) Policy(role string) (RolePolicy, error) {
	policy, ok := r.roles[role]
	if !ok {
		return RolePolicy{}, &domain.ForbiddenError{
			Message: fmt.Sprintf("unknown role %q", role),
		}
	}
	return policy, nil
}

// ScopeFor derives the read filter for a principal from their role policy
// and organizational placement.
func (r *Registry) ScopeFor(principal *models.Principal) (models.Scope, error) {
	policy, err := r.Policy(principal.Role)
	if err != nil {
		return models.Scope{}, err
	}

	scope := models.Scope{Level: policy.Scope}
	switch policy.Scope {
	case models.ScopeCompany:
		if principal.CompanyID == "" {
			return models.Scope{}, &domain.ForbiddenError{
				Message: fmt.Sprintf("role %q requires a company assignment", principal.Role),
			}
		}
		scope.CompanyID = principal.CompanyID
	case models.ScopeDepartment:
		if principal.DepartmentID == "" {
			return models.Scope{}, &domain.ForbiddenError{
				Message: fmt.Sprintf("role %q requires a department assignment", principal.Role),
			}
		}
		scope.DepartmentID = principal.DepartmentID
	}

	return scope, nil
}

// CanMutate reports whether the role may create, rename, move or delete
// folders and files.
func (r *Registry) CanMutate(principal *models.Principal) bool {
	policy, err := r.Policy(principal.Role)
	return err == nil && policy.CanMutate
}

// CanManageOrg reports whether the role may mutate the organizational
// hierarchy itself.
func (r *Registry) CanManageOrg(principal *models.Principal) bool {
	policy, err := r.Policy(principal.Role)
	return err == nil && policy.CanManageOrg
}
