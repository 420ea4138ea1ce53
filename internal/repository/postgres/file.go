package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"orgvault/internal/domain"
	"orgvault/internal/domain/models"
	"orgvault/internal/domain/repositories"
)

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const fileColumns = "id, filename, folder_id, holding_id, company_id, department_id, size_bytes, content_type, created_at"

// GetByID retrieves a file by ID within the caller's scope
func (r *PostgresFileRepository) GetByID(ctx context.Context, id string, scope models.Scope) (*models.File, error) {
	args := []interface{}{id}
	cond, args := scopeCondition(scope, args)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND %s
	`, fileColumns, r.tables.Files, cond)

	var f models.File
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&f.ID, &f.Filename, &f.FolderID,
		&f.HoldingID, &f.CompanyID, &f.DepartmentID,
		&f.SizeBytes, &f.ContentType, &f.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}
	return &f, nil
}

// ListByFolder lists the files of a folder within scope, filename ascending
func (r *PostgresFileRepository) ListByFolder(ctx context.Context, folderID string, scope models.Scope) ([]models.File, error) {
	args := []interface{}{folderID}
	cond, args := scopeCondition(scope, args)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE folder_id = $1 AND %s
		ORDER BY filename ASC
	`, fileColumns, r.tables.Files, cond)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folder files: %w", err)
	}
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		var f models.File
		if err := rows.Scan(
			&f.ID, &f.Filename, &f.FolderID,
			&f.HoldingID, &f.CompanyID, &f.DepartmentID,
			&f.SizeBytes, &f.ContentType, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return files, nil
}

// UpdateContextByFolder rewrites the org context of every file in a folder
func (r *PostgresFileRepository) UpdateContextByFolder(ctx context.Context, folderID string, org models.OrgContext) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET holding_id = $1, company_id = $2, department_id = $3
		WHERE folder_id = $4
	`, r.tables.Files)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		org.HoldingID, org.CompanyID, org.DepartmentID, folderID,
	)
	if err != nil {
		return fmt.Errorf("update file context: %w", err)
	}
	return nil
}

// Delete removes a file record
func (r *PostgresFileRepository) Delete(ctx context.Context, id string, scope models.Scope) error {
	args := []interface{}{id}
	cond, args := scopeCondition(scope, args)

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND %s
	`, r.tables.Files, cond)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
