package vfs

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"orgvault/internal/domain"
	"orgvault/internal/domain/models"
	"orgvault/internal/vfs"
)

// maxPathDepth bounds the upward walk over folder parent links. Storage does
// not structurally prevent cycles or runaway chains, so the walk defends
// with a visited set and this cap.
const maxPathDepth = 64

// GetPath rebuilds the complete breadcrumb for a node: the virtual
// organizational prefix (holding, company, department) followed by the
// stored folder chain, root-most first, ending at the target.
func (s *nodeService) GetPath(ctx context.Context, id string, principal *models.Principal) ([]models.Node, error) {
	ref, err := vfs.Parse(id)
	if err != nil {
		return nil, err
	}

	// Virtual targets have no stored chain; their path is the lineage of
	// the entity itself.
	if ref.Kind != vfs.RefReal {
		node, err := s.GetNode(ctx, id, principal)
		if err != nil {
			return nil, err
		}
		prefix, err := s.virtualPrefix(ctx, node.Context)
		if err != nil {
			return nil, err
		}
		return prefix, nil
	}

	scope, err := s.roles.ScopeFor(principal)
	if err != nil {
		return nil, err
	}

	chain, err := s.walkFolderChain(ctx, ref.ID, scope)
	if err != nil {
		return nil, err
	}

	// The root-most folder's org context, not its parent link, encodes its
	// place in the virtual hierarchy.
	orgCtx := chain[0].Context()
	orgCtx = s.repairHoldingID(ctx, orgCtx)

	prefix, err := s.virtualPrefix(ctx, orgCtx)
	if err != nil {
		return nil, err
	}

	path := make([]models.Node, 0, len(prefix)+len(chain))
	path = append(path, prefix...)
	for i := range chain {
		path = append(path, s.folderNode(&chain[i]))
	}
	return path, nil
}

// walkFolderChain follows parent links upward from the target folder until
// a top-level folder is reached, returning the chain root-most first.
// Access denial along the chain surfaces as not-found to the caller.
func (s *nodeService) walkFolderChain(ctx context.Context, folderID string, scope models.Scope) ([]models.Folder, error) {
	visited := make(map[string]struct{})
	var chain []models.Folder

	currentID := folderID
	for depth := 0; ; depth++ {
		if depth >= maxPathDepth {
			return nil, fmt.Errorf("folder %s: parent chain exceeds depth %d", folderID, maxPathDepth)
		}
		if _, ok := visited[currentID]; ok {
			return nil, fmt.Errorf("folder %s: parent chain contains a cycle at %s", folderID, currentID)
		}
		visited[currentID] = struct{}{}

		folder, err := s.folders.GetByID(ctx, currentID, scope)
		if err != nil {
			if currentID == folderID {
				return nil, err
			}
			// A broken or inaccessible ancestor truncates the chain
			// instead of failing navigation for the whole subtree.
			s.logger.Warn("folder parent chain truncated",
				"folder_id", folderID,
				"missing_ancestor", currentID,
				"error", err,
			)
			break
		}

		// Prepend: the walk runs leaf to root, the result reads root to leaf.
		chain = append([]models.Folder{*folder}, chain...)

		if folder.ParentID == nil {
			break
		}
		currentID = *folder.ParentID
	}

	if len(chain) == 0 {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", folderID)}
	}
	return chain, nil
}

// repairHoldingID fills a missing holding id from the owning company when
// possible. Degrades silently to empty if that lookup also fails.
func (s *nodeService) repairHoldingID(ctx context.Context, orgCtx models.OrgContext) models.OrgContext {
	if orgCtx.HoldingID != "" || orgCtx.CompanyID == "" {
		return orgCtx
	}

	company, err := s.directory.GetCompany(ctx, orgCtx.CompanyID)
	if err != nil {
		s.logger.Warn("holding fallback lookup degraded",
			"company_id", orgCtx.CompanyID,
			"error", err,
		)
		return orgCtx
	}

	orgCtx.HoldingID = company.HoldingID
	return orgCtx
}

// virtualPrefix synthesizes the organizational breadcrumb segments for a
// context, ordered holding, company, department. The three point lookups
// are independent and run concurrently. An entity missing from the
// directory drops out of the prefix rather than failing the path.
func (s *nodeService) virtualPrefix(ctx context.Context, orgCtx models.OrgContext) ([]models.Node, error) {
	var (
		holding *models.Holding
		company *models.Company
		dept    *models.Department
	)

	g, gctx := errgroup.WithContext(ctx)
	if orgCtx.HoldingID != "" {
		g.Go(func() error {
			h, err := s.directory.GetHolding(gctx, orgCtx.HoldingID)
			if err != nil {
				s.logger.Warn("breadcrumb holding lookup degraded", "holding_id", orgCtx.HoldingID, "error", err)
				return nil
			}
			holding = h
			return nil
		})
	}
	if orgCtx.CompanyID != "" {
		g.Go(func() error {
			c, err := s.directory.GetCompany(gctx, orgCtx.CompanyID)
			if err != nil {
				s.logger.Warn("breadcrumb company lookup degraded", "company_id", orgCtx.CompanyID, "error", err)
				return nil
			}
			company = c
			return nil
		})
	}
	if orgCtx.DepartmentID != "" {
		g.Go(func() error {
			d, err := s.directory.GetDepartment(gctx, orgCtx.DepartmentID)
			if err != nil {
				s.logger.Warn("breadcrumb department lookup degraded", "department_id", orgCtx.DepartmentID, "error", err)
				return nil
			}
			dept = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	prefix := make([]models.Node, 0, 3)
	if holding != nil {
		prefix = append(prefix, s.holdingNode(holding))
	}
	if company != nil {
		prefix = append(prefix, s.companyNode(company))
	}
	if dept != nil {
		prefix = append(prefix, s.departmentNodeWithHolding(dept, orgCtx.HoldingID))
	}
	return prefix, nil
}
