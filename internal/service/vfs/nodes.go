// Package vfs implements the virtual-node resolution core: uniform
// navigation nodes over the organizational hierarchy, root and children
// resolution by role, parent-context derivation for folder creation, and
// breadcrumb reconstruction across virtual and stored segments.
package vfs

import (
	"context"
	"log/slog"

	"orgvault/internal/domain/models"
	"orgvault/internal/domain/repositories"
	"orgvault/internal/vfs"
)

// nodeResolver converts organizational entities and stored records into the
// uniform node shape. Nodes are synthesized on every call and never cached.
type nodeResolver struct {
	directory repositories.OrgDirectory
	logger    *slog.Logger
}

func (r *nodeResolver) holdingNode(h *models.Holding) models.Node {
	return models.Node{
		ID:      vfs.HoldingID(h.ID),
		Name:    h.Name,
		Kind:    models.NodeKindHolding,
		Context: models.OrgContext{HoldingID: h.ID},
	}
}

func (r *nodeResolver) companyNode(c *models.Company) models.Node {
	parent := vfs.HoldingID(c.HoldingID)
	return models.Node{
		ID:       vfs.CompanyID(c.ID),
		Name:     c.Name,
		ParentID: &parent,
		Kind:     models.NodeKindCompany,
		Context:  models.OrgContext{HoldingID: c.HoldingID, CompanyID: c.ID},
	}
}

// departmentNode resolves a single department. The holding id is derived
// through the owning company; if that lookup fails the holding id degrades
// to empty rather than failing the resolution, and the gap is logged as a
// data-quality signal.
func (r *nodeResolver) departmentNode(ctx context.Context, d *models.Department) models.Node {
	holdingID := ""
	company, err := r.directory.GetCompany(ctx, d.CompanyID)
	if err != nil {
		r.logger.Warn("department holding derivation degraded",
			"department_id", d.ID,
			"company_id", d.CompanyID,
			"error", err,
		)
	} else {
		holdingID = company.HoldingID
	}

	return r.departmentNodeWithHolding(d, holdingID)
}

func (r *nodeResolver) departmentNodeWithHolding(d *models.Department, holdingID string) models.Node {
	parent := vfs.CompanyID(d.CompanyID)
	return models.Node{
		ID:       vfs.DepartmentID(d.ID),
		Name:     d.Name,
		ParentID: &parent,
		Kind:     models.NodeKindDepartment,
		Context: models.OrgContext{
			HoldingID:    holdingID,
			CompanyID:    d.CompanyID,
			DepartmentID: d.ID,
		},
	}
}

// departmentNodes resolves a batch of departments with a single batched
// company lookup, so latency stays at one directory round-trip regardless
// of department count.
func (r *nodeResolver) departmentNodes(ctx context.Context, depts []models.Department) ([]models.Node, error) {
	if len(depts) == 0 {
		return []models.Node{}, nil
	}

	seen := make(map[string]struct{}, len(depts))
	companyIDs := make([]string, 0, len(depts))
	for _, d := range depts {
		if _, ok := seen[d.CompanyID]; ok {
			continue
		}
		seen[d.CompanyID] = struct{}{}
		companyIDs = append(companyIDs, d.CompanyID)
	}

	companies, err := r.directory.GetCompaniesByIDs(ctx, companyIDs)
	if err != nil {
		return nil, err
	}

	nodes := make([]models.Node, 0, len(depts))
	for _, d := range depts {
		holdingID := ""
		if company, ok := companies[d.CompanyID]; ok {
			holdingID = company.HoldingID
		} else {
			r.logger.Warn("department holding derivation degraded",
				"department_id", d.ID,
				"company_id", d.CompanyID,
			)
		}
		nodes = append(nodes, r.departmentNodeWithHolding(&d, holdingID))
	}

	return nodes, nil
}

func (r *nodeResolver) folderNode(f *models.Folder) models.Node {
	var parent *string
	if p := folderParentID(f); p != "" {
		parent = &p
	}
	updatedAt := f.UpdatedAt
	return models.Node{
		ID:        f.ID,
		Name:      f.Name,
		ParentID:  parent,
		Kind:      models.NodeKindFolder,
		Context:   f.Context(),
		UpdatedAt: &updatedAt,
	}
}

// folderParentID is the navigable parent of a stored folder: its parent
// folder when one exists, otherwise the virtual department it is scoped to.
func folderParentID(f *models.Folder) string {
	if f.ParentID != nil {
		return *f.ParentID
	}
	if f.DepartmentID != "" {
		return vfs.DepartmentID(f.DepartmentID)
	}
	if f.CompanyID != "" {
		return vfs.CompanyID(f.CompanyID)
	}
	if f.HoldingID != "" {
		return vfs.HoldingID(f.HoldingID)
	}
	return ""
}

func (r *nodeResolver) fileNode(f *models.File) models.Node {
	var parentID *string
	if f.FolderID != nil {
		parentID = f.FolderID
	}
	return models.Node{
		ID:       f.ID,
		Name:     f.Filename,
		ParentID: parentID,
		Kind:     models.NodeKindFile,
		Context: models.OrgContext{
			HoldingID:    f.HoldingID,
			CompanyID:    f.CompanyID,
			DepartmentID: f.DepartmentID,
		},
	}
}
