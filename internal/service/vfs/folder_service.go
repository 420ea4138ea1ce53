package vfs

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
	"orgvault/internal/vfs"
)

// folderNamePattern excludes the path separator and the virtual-id
// separator from folder names.
var folderNamePattern = regexp.MustCompile(`^[^/:]+$`)

type folderService struct {
	folders       repositories.FolderRepository
	files         repositories.FileRepository
	parentContext *ParentContextResolver
	txManager     repositories.TransactionManager
	roles         *rbac.Registry
	logger        *slog.Logger
}

// NewFolderService creates the folder mutation service.
func NewFolderService(
	folders repositories.FolderRepository,
	files repositories.FileRepository,
	parentContext *ParentContextResolver,
	txManager repositories.TransactionManager,
	roles *rbac.Registry,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folders:       folders,
		files:         files,
		parentContext: parentContext,
		txManager:     txManager,
		roles:         roles,
		logger:        logger,
	}
}

// CreateFolder resolves the parent context (the parent may be virtual, real,
// or absent) and persists the new folder. A virtual parent yields a nil
// storage parent and a fully populated org context.
func (s *folderService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest, principal *models.Principal) (*models.Folder, error) {
	if err := s.requireMutate(principal); err != nil {
		return nil, err
	}
	if err := validateCreateRequest(req); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	parent, err := s.parentContext.Resolve(ctx, req.ParentID, principal)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	folder := &models.Folder{
		ID:           uuid.NewString(),
		Name:         req.Name,
		ParentID:     parent.StorageParentID,
		HoldingID:    parent.Org.HoldingID,
		CompanyID:    parent.Org.CompanyID,
		DepartmentID: parent.Org.DepartmentID,
		CreatedBy:    principal.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.folders.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"folder_id", folder.ID,
		"name", folder.Name,
		"department_id", folder.DepartmentID,
		"user_id", principal.UserID,
	)
	return folder, nil
}

// UpdateFolder renames and/or moves a folder. Virtual identifiers are
// rejected before any read or write.
func (s *folderService) UpdateFolder(ctx context.Context, id string, req *services.UpdateFolderRequest, principal *models.Principal) (*models.Folder, error) {
	if err := rejectVirtual(id, "rename or move"); err != nil {
		return nil, err
	}
	if err := s.requireMutate(principal); err != nil {
		return nil, err
	}
	if req.Name == nil && req.ParentID == nil {
		return nil, &domain.ValidationError{Message: "at least one of name or parent_id must be provided"}
	}
	if req.Name != nil {
		if err := validateFolderName(*req.Name); err != nil {
			return nil, &domain.ValidationError{Message: err.Error()}
		}
	}

	scope, err := s.roles.ScopeFor(principal)
	if err != nil {
		return nil, err
	}

	folder, err := s.folders.GetByID(ctx, id, scope)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		folder.Name = *req.Name
	}
	movedScope := false
	if req.ParentID != nil {
		parent, err := s.parentContext.Resolve(ctx, req.ParentID, principal)
		if err != nil {
			return nil, err
		}
		if err := s.checkNoCycle(ctx, folder.ID, parent.StorageParentID, scope); err != nil {
			return nil, err
		}
		movedScope = folder.Context() != parent.Org
		folder.ParentID = parent.StorageParentID
		folder.HoldingID = parent.Org.HoldingID
		folder.CompanyID = parent.Org.CompanyID
		folder.DepartmentID = parent.Org.DepartmentID
	}
	folder.UpdatedAt = time.Now().UTC()

	// A move into a different organizational scope retags the whole subtree
	// in one transaction, so descendants never carry a context their new
	// location's readers cannot see.
	if movedScope {
		err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			if err := s.folders.Update(txCtx, folder); err != nil {
				return err
			}
			return s.retagSubtree(txCtx, folder, scope)
		})
		if err != nil {
			return nil, err
		}
	} else if err := s.folders.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated", "folder_id", folder.ID, "user_id", principal.UserID)
	return folder, nil
}

// retagSubtree rewrites the org context of every descendant folder and of
// the files inside them, breadth-first with the same depth bound as the
// path walk.
func (s *folderService) retagSubtree(ctx context.Context, root *models.Folder, scope models.Scope) error {
	org := root.Context()
	now := time.Now().UTC()

	queue := []string{root.ID}
	for depth := 0; len(queue) > 0; depth++ {
		if depth >= maxPathDepth {
			return fmt.Errorf("folder %s: subtree exceeds depth %d", root.ID, maxPathDepth)
		}
		var next []string
		for _, id := range queue {
			if err := s.files.UpdateContextByFolder(ctx, id, org); err != nil {
				return err
			}
			children, err := s.folders.ListChildren(ctx, id, scope)
			if err != nil {
				return err
			}
			for i := range children {
				child := children[i]
				child.HoldingID = org.HoldingID
				child.CompanyID = org.CompanyID
				child.DepartmentID = org.DepartmentID
				child.UpdatedAt = now
				if err := s.folders.Update(ctx, &child); err != nil {
					return err
				}
				next = append(next, child.ID)
			}
		}
		queue = next
	}
	return nil
}

// DeleteFolder removes a folder. Virtual identifiers are rejected.
func (s *folderService) DeleteFolder(ctx context.Context, id string, principal *models.Principal) error {
	if err := rejectVirtual(id, "delete"); err != nil {
		return err
	}
	if err := s.requireMutate(principal); err != nil {
		return err
	}

	scope, err := s.roles.ScopeFor(principal)
	if err != nil {
		return err
	}

	if err := s.folders.Delete(ctx, id, scope); err != nil {
		return err
	}

	s.logger.Info("folder deleted", "folder_id", id, "user_id", principal.UserID)
	return nil
}

// DeleteFile removes a file record. The virtual guard is uniform even
// though files are never virtual.
func (s *folderService) DeleteFile(ctx context.Context, id string, principal *models.Principal) error {
	if err := rejectVirtual(id, "delete"); err != nil {
		return err
	}
	if err := s.requireMutate(principal); err != nil {
		return err
	}

	scope, err := s.roles.ScopeFor(principal)
	if err != nil {
		return err
	}

	if err := s.files.Delete(ctx, id, scope); err != nil {
		return err
	}

	s.logger.Info("file deleted", "file_id", id, "user_id", principal.UserID)
	return nil
}

// checkNoCycle ensures moving a folder under newParentID would not make the
// folder its own ancestor.
func (s *folderService) checkNoCycle(ctx context.Context, folderID string, newParentID *string, scope models.Scope) error {
	if newParentID == nil {
		return nil
	}
	if *newParentID == folderID {
		return &domain.ValidationError{Message: "folder cannot be its own parent"}
	}

	currentID := *newParentID
	for depth := 0; depth < maxPathDepth; depth++ {
		ancestor, err := s.folders.GetByID(ctx, currentID, scope)
		if err != nil {
			return err
		}
		if ancestor.ParentID == nil {
			return nil
		}
		if *ancestor.ParentID == folderID {
			return &domain.ValidationError{Message: "move would create a circular folder reference"}
		}
		currentID = *ancestor.ParentID
	}
	return fmt.Errorf("folder %s: ancestor chain exceeds depth %d", *newParentID, maxPathDepth)
}

func (s *folderService) requireMutate(principal *models.Principal) error {
	if !s.roles.CanMutate(principal) {
		return &domain.ForbiddenError{
			Message: fmt.Sprintf("role %q is read-only", principal.Role),
		}
	}
	return nil
}

// rejectVirtual fails mutations aimed at organizational entries. This is a
// routine caller action, so the message names the node rather than raising
// a generic failure.
func rejectVirtual(id, operation string) error {
	if vfs.IsVirtual(id) {
		return &domain.InvalidOperationError{
			Message: fmt.Sprintf("cannot %s %q: organizational entries are managed through the directory, not the file tree", operation, id),
		}
	}
	return nil
}

func validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
			validation.Match(folderNamePattern).Error("folder name cannot contain '/' or ':'"),
		),
	)
}

func validateFolderName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxFolderNameLength),
		validation.Match(folderNamePattern).Error("folder name cannot contain '/' or ':'"),
	)
}
