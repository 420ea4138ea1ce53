package repositories

import (
	"context"

	"orgvault/internal/domain/models"
)

// FolderRepository defines data access operations for real folders. Every
// read takes the caller's scope; a folder outside scope is reported as not
// found, never leaked.
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by id within scope
	GetByID(ctx context.Context, id string, scope models.Scope) (*models.Folder, error)

	// Update persists name and parent changes
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes a folder. Fails if child folders or files remain.
	Delete(ctx context.Context, id string, scope models.Scope) error

	// ListChildren lists folders whose parent id equals parentID, within
	// scope, name ascending
	ListChildren(ctx context.Context, parentID string, scope models.Scope) ([]models.Folder, error)

	// ListRootByDepartment lists top-level folders (parent id null) whose
	// org context department id matches, name ascending
	ListRootByDepartment(ctx context.Context, departmentID string) ([]models.Folder, error)
}

// FileRepository defines data access operations for file metadata.
type FileRepository interface {
	// GetByID retrieves a file by id within scope
	GetByID(ctx context.Context, id string, scope models.Scope) (*models.File, error)

	// ListByFolder lists the files of a folder within scope, filename ascending
	ListByFolder(ctx context.Context, folderID string, scope models.Scope) ([]models.File, error)

	// UpdateContextByFolder rewrites the org context of every file in a
	// folder. Used when a folder moves across organizational scopes.
	UpdateContextByFolder(ctx context.Context, folderID string, org models.OrgContext) error

	// Delete removes a file record
	Delete(ctx context.Context, id string, scope models.Scope) error
}
