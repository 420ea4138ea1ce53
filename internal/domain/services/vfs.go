package services

import (
	"context"

	"orgvault/internal/domain/models"
)

// NodeService is the navigation read surface: uniform nodes over the
// organizational hierarchy and the stored folder tree beneath it.
type NodeService interface {
	// ListRoots returns the nodes the principal sees at the top of the
	// tree. The shape (organizational entries vs stored folders) is a
	// property of the principal's role.
	ListRoots(ctx context.Context, principal *models.Principal) ([]models.Node, error)

	// GetNode resolves a single node, virtual or real
	GetNode(ctx context.Context, id string, principal *models.Principal) (*models.Node, error)

	// ListChildren lists the children of a node, virtual or real,
	// name ascending
	ListChildren(ctx context.Context, id string, principal *models.Principal) ([]models.Node, error)

	// GetPath rebuilds the full breadcrumb from a target real folder back
	// to the hierarchy root, virtual prefix first
	GetPath(ctx context.Context, id string, principal *models.Principal) ([]models.Node, error)
}

// ParentContext is the result of resolving a candidate parent for folder
// creation: the organizational scope the new folder inherits and the storage
// parent id to persist (nil when the parent is virtual or absent).
type ParentContext struct {
	Org             models.OrgContext
	StorageParentID *string
}

// CreateFolderRequest creates a folder under a possibly-virtual parent.
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

// UpdateFolderRequest renames and/or moves a folder. Nil fields are left
// unchanged; ParentID moves require a real (or absent) destination.
type UpdateFolderRequest struct {
	Name     *string `json:"name"`
	ParentID *string `json:"parent_id"`
}

// FolderService is the mutation surface for real folders. Every operation
// rejects virtual identifiers with InvalidOperation before touching storage.
type FolderService interface {
	// CreateFolder resolves the parent context and persists a new folder
	CreateFolder(ctx context.Context, req *CreateFolderRequest, principal *models.Principal) (*models.Folder, error)

	// UpdateFolder renames or moves a folder
	UpdateFolder(ctx context.Context, id string, req *UpdateFolderRequest, principal *models.Principal) (*models.Folder, error)

	// DeleteFolder removes an empty folder
	DeleteFolder(ctx context.Context, id string, principal *models.Principal) error

	// DeleteFile removes a file record
	DeleteFile(ctx context.Context, id string, principal *models.Principal) error
}
