package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"orgvault/internal/domain"
	"orgvault/internal/domain/models"
	"orgvault/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const folderColumns = "id, name, parent_id, holding_id, company_id, department_id, created_by, created_at, updated_at"

// scopeCondition renders the org filter for a scope as a SQL condition over
// the context columns, appending its argument when one is needed.
func scopeCondition(scope models.Scope, args []interface{}) (string, []interface{}) {
	switch scope.Level {
	case models.ScopeCompany:
		args = append(args, scope.CompanyID)
		return fmt.Sprintf("company_id = $%d", len(args)), args
	case models.ScopeDepartment:
		args = append(args, scope.DepartmentID)
		return fmt.Sprintf("department_id = $%d", len(args)), args
	default:
		return "TRUE", args
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Folders, folderColumns)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.ID,
		folder.Name,
		folder.ParentID,
		folder.HoldingID,
		folder.CompanyID,
		folder.DepartmentID,
		folder.CreatedBy,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder %q already exists here", folder.Name),
				ResourceType: "folder",
				ResourceID:   folder.ID,
			}
		}
		return fmt.Errorf("create folder: %w", err)
	}
	return nil
}

// GetByID retrieves a folder by ID within the caller's scope. A folder that
// exists outside the scope is reported as not found.
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string, scope models.Scope) (*models.Folder, error) {
	args := []interface{}{id}
	cond, args := scopeCondition(scope, args)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND %s
	`, folderColumns, r.tables.Folders, cond)

	var f models.Folder
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&f.ID, &f.Name, &f.ParentID,
		&f.HoldingID, &f.CompanyID, &f.DepartmentID,
		&f.CreatedBy, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}
	return &f, nil
}

// Update persists name, parent and context changes
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, parent_id = $2, holding_id = $3, company_id = $4, department_id = $5, updated_at = $6
		WHERE id = $7
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.Name,
		folder.ParentID,
		folder.HoldingID,
		folder.CompanyID,
		folder.DepartmentID,
		folder.UpdatedAt,
		folder.ID,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder %q already exists here", folder.Name),
				ResourceType: "folder",
				ResourceID:   folder.ID,
			}
		}
		return fmt.Errorf("update folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete deletes a folder. Child folders and files keep foreign keys onto
// the folder, so deleting a non-empty folder surfaces as a conflict.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id string, scope models.Scope) error {
	args := []interface{}{id}
	cond, args := scopeCondition(scope, args)

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND %s
	`, r.tables.Folders, cond)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		if isPgForeignKeyError(err) {
			return &domain.ConflictError{
				Message:      "cannot delete a folder that still has contents",
				ResourceType: "folder",
				ResourceID:   id,
			}
		}
		return fmt.Errorf("delete folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListChildren lists folders whose parent id equals parentID, within scope,
// name ascending
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID string, scope models.Scope) ([]models.Folder, error) {
	args := []interface{}{parentID}
	cond, args := scopeCondition(scope, args)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE parent_id = $1 AND %s
		ORDER BY name ASC
	`, folderColumns, r.tables.Folders, cond)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list child folders: %w", err)
	}
	defer rows.Close()

	return scanFolders(rows)
}

// ListRootByDepartment lists top-level folders (parent id IS NULL) whose
// org context department matches, name ascending
func (r *PostgresFolderRepository) ListRootByDepartment(ctx context.Context, departmentID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE parent_id IS NULL AND department_id = $1
		ORDER BY name ASC
	`, folderColumns, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("list department folders: %w", err)
	}
	defer rows.Close()

	return scanFolders(rows)
}

func scanFolders(rows pgx.Rows) ([]models.Folder, error) {
	var folders []models.Folder
	for rows.Next() {
		var f models.Folder
		if err := rows.Scan(
			&f.ID, &f.Name, &f.ParentID,
			&f.HoldingID, &f.CompanyID, &f.DepartmentID,
			&f.CreatedBy, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}
	return folders, nil
}
