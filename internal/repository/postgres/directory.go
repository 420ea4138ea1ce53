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

// PostgresOrgDirectory implements the OrgDirectoryWriter interface.
// Entity rows are soft-deleted; every read excludes is_deleted rows.
type PostgresOrgDirectory struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewOrgDirectory creates a new organization directory repository
func NewOrgDirectory(config *RepositoryConfig) repositories.OrgDirectoryWriter {
	return &PostgresOrgDirectory{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// --- holdings ---

// GetHolding retrieves a holding by ID
func (r *PostgresOrgDirectory) GetHolding(ctx context.Context, id string) (*models.Holding, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description, created_at, updated_at
		FROM %s
		WHERE id = $1 AND is_deleted = FALSE
	`, r.tables.Holdings)

	var h models.Holding
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&h.ID, &h.Name, &h.Description, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("holding %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get holding: %w", err)
	}
	return &h, nil
}

// ListHoldings lists all holdings, name ascending
func (r *PostgresOrgDirectory) ListHoldings(ctx context.Context) ([]models.Holding, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description, created_at, updated_at
		FROM %s
		WHERE is_deleted = FALSE
		ORDER BY name ASC
	`, r.tables.Holdings)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	defer rows.Close()

	return scanHoldings(rows)
}

// CreateHolding creates a new holding
func (r *PostgresOrgDirectory) CreateHolding(ctx context.Context, h *models.Holding) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, description, created_at, updated_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, FALSE)
	`, r.tables.Holdings)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		h.ID, h.Name, h.Description, h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("holding %q already exists", h.Name),
				ResourceType: "holding",
			}
		}
		return fmt.Errorf("create holding: %w", err)
	}
	return nil
}

// UpdateHolding updates a holding's name and description
func (r *PostgresOrgDirectory) UpdateHolding(ctx context.Context, h *models.Holding) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4 AND is_deleted = FALSE
	`, r.tables.Holdings)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, h.Name, h.Description, h.UpdatedAt, h.ID)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("holding %q already exists", h.Name),
				ResourceType: "holding",
			}
		}
		return fmt.Errorf("update holding: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("holding %s: %w", h.ID, domain.ErrNotFound)
	}
	return nil
}

// DeleteHolding soft-deletes a holding
func (r *PostgresOrgDirectory) DeleteHolding(ctx context.Context, id string) error {
	return r.softDelete(ctx, r.tables.Holdings, "holding", id)
}

// --- companies ---

// GetCompany retrieves a company by ID
func (r *PostgresOrgDirectory) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	query := fmt.Sprintf(`
		SELECT id, holding_id, name, description, created_at, updated_at
		FROM %s
		WHERE id = $1 AND is_deleted = FALSE
	`, r.tables.Companies)

	var c models.Company
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&c.ID, &c.HoldingID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("company %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// GetCompaniesByIDs retrieves companies for a set of ids in one query.
// Missing ids are absent from the result map.
func (r *PostgresOrgDirectory) GetCompaniesByIDs(ctx context.Context, ids []string) (map[string]*models.Company, error) {
	result := make(map[string]*models.Company, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT id, holding_id, name, description, created_at, updated_at
		FROM %s
		WHERE id = ANY($1) AND is_deleted = FALSE
	`, r.tables.Companies)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get companies by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.HoldingID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		result[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return result, nil
}

// ListCompanies lists the companies of a holding, name ascending
func (r *PostgresOrgDirectory) ListCompanies(ctx context.Context, holdingID string) ([]models.Company, error) {
	query := fmt.Sprintf(`
		SELECT id, holding_id, name, description, created_at, updated_at
		FROM %s
		WHERE holding_id = $1 AND is_deleted = FALSE
		ORDER BY name ASC
	`, r.tables.Companies)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, holdingID)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []models.Company
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.HoldingID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return companies, nil
}

// CreateCompany creates a new company
func (r *PostgresOrgDirectory) CreateCompany(ctx context.Context, c *models.Company) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, holding_id, name, description, created_at, updated_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
	`, r.tables.Companies)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		c.ID, c.HoldingID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("company %q already exists", c.Name),
				ResourceType: "company",
			}
		}
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}

// UpdateCompany updates a company's name and description
func (r *PostgresOrgDirectory) UpdateCompany(ctx context.Context, c *models.Company) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4 AND is_deleted = FALSE
	`, r.tables.Companies)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, c.Name, c.Description, c.UpdatedAt, c.ID)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("company %q already exists", c.Name),
				ResourceType: "company",
			}
		}
		return fmt.Errorf("update company: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("company %s: %w", c.ID, domain.ErrNotFound)
	}
	return nil
}

// DeleteCompany soft-deletes a company
func (r *PostgresOrgDirectory) DeleteCompany(ctx context.Context, id string) error {
	return r.softDelete(ctx, r.tables.Companies, "company", id)
}

// --- departments ---

// GetDepartment retrieves a department by ID
func (r *PostgresOrgDirectory) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	query := fmt.Sprintf(`
		SELECT id, company_id, name, manager_id, created_at, updated_at
		FROM %s
		WHERE id = $1 AND is_deleted = FALSE
	`, r.tables.Departments)

	var d models.Department
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&d.ID, &d.CompanyID, &d.Name, &d.ManagerID, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("department %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return &d, nil
}

// ListDepartments lists the departments of a company, name ascending
func (r *PostgresOrgDirectory) ListDepartments(ctx context.Context, companyID string) ([]models.Department, error) {
	query := fmt.Sprintf(`
		SELECT id, company_id, name, manager_id, created_at, updated_at
		FROM %s
		WHERE company_id = $1 AND is_deleted = FALSE
		ORDER BY name ASC
	`, r.tables.Departments)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var depts []models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Name, &d.ManagerID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		depts = append(depts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate departments: %w", err)
	}
	return depts, nil
}

// CreateDepartment creates a new department
func (r *PostgresOrgDirectory) CreateDepartment(ctx context.Context, d *models.Department) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, company_id, name, manager_id, created_at, updated_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
	`, r.tables.Departments)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		d.ID, d.CompanyID, d.Name, d.ManagerID, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("department %q already exists", d.Name),
				ResourceType: "department",
			}
		}
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// UpdateDepartment updates a department's name and manager
func (r *PostgresOrgDirectory) UpdateDepartment(ctx context.Context, d *models.Department) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, manager_id = $2, updated_at = $3
		WHERE id = $4 AND is_deleted = FALSE
	`, r.tables.Departments)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, d.Name, d.ManagerID, d.UpdatedAt, d.ID)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("department %q already exists", d.Name),
				ResourceType: "department",
			}
		}
		return fmt.Errorf("update department: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("department %s: %w", d.ID, domain.ErrNotFound)
	}
	return nil
}

// DeleteDepartment soft-deletes a department
func (r *PostgresOrgDirectory) DeleteDepartment(ctx context.Context, id string) error {
	return r.softDelete(ctx, r.tables.Departments, "department", id)
}

func (r *PostgresOrgDirectory) softDelete(ctx context.Context, table, kind, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
	`, table)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return nil
}

func scanHoldings(rows pgx.Rows) ([]models.Holding, error) {
	var holdings []models.Holding
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.ID, &h.Name, &h.Description, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holdings: %w", err)
	}
	return holdings, nil
}
