package vfs

import (
	"context"
	"fmt"
	"log/slog"

	"orgvault/internal/domain"
	"orgvault/internal/domain/models"
	"orgvault/internal/domain/repositories"
	"orgvault/internal/domain/services"
	"orgvault/internal/rbac"
	"orgvault/internal/vfs"
)

// ParentContextResolver derives the organizational context and concrete
// storage parent for a folder created under a possibly-virtual parent.
//
// A folder created under a virtual department parent is stored with a nil
// parent id and a fully populated org context; it is indistinguishable from
// a true top-level department folder except through those context fields.
type ParentContextResolver struct {
	*nodeResolver
	folders repositories.FolderRepository
	roles   *rbac.Registry
}

// NewParentContextResolver creates a parent context resolver.
func NewParentContextResolver(
	directory repositories.OrgDirectory,
	folders repositories.FolderRepository,
	roles *rbac.Registry,
	logger *slog.Logger,
) *ParentContextResolver {
	return &ParentContextResolver{
		nodeResolver: &nodeResolver{directory: directory, logger: logger},
		folders:      folders,
		roles:        roles,
	}
}

// Resolve computes the parent context for a candidate parent id. A nil
// candidate yields an unscoped context; a virtual candidate resolves its
// full lineage; a real candidate inherits the stored folder's context
// directly, without re-derivation.
func (r *ParentContextResolver) Resolve(ctx context.Context, parentID *string, principal *models.Principal) (*services.ParentContext, error) {
	scope, err := r.roles.ScopeFor(principal)
	if err != nil {
		return nil, err
	}

	if parentID == nil || *parentID == "" {
		return &services.ParentContext{}, nil
	}

	ref, err := vfs.Parse(*parentID)
	if err != nil {
		return nil, err
	}

	var result services.ParentContext
	switch ref.Kind {
	case vfs.RefHolding:
		holding, err := r.directory.GetHolding(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		result.Org = models.OrgContext{HoldingID: holding.ID}

	case vfs.RefCompany:
		company, err := r.directory.GetCompany(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		result.Org = models.OrgContext{HoldingID: company.HoldingID, CompanyID: company.ID}

	case vfs.RefDepartment:
		dept, err := r.directory.GetDepartment(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		node := r.departmentNode(ctx, dept)
		result.Org = node.Context

	default:
		parent, err := r.folders.GetByID(ctx, ref.ID, scope)
		if err != nil {
			return nil, err
		}
		result.Org = parent.Context()
		id := parent.ID
		result.StorageParentID = &id
	}

	if !scope.Allows(result.Org) {
		return nil, &domain.ForbiddenError{
			Message: fmt.Sprintf("parent %s is outside the caller's organizational scope", *parentID),
		}
	}

	return &result, nil
}
