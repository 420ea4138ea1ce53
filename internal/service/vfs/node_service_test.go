package vfs

import (
	"context"
	"errors"
	"testing"
	"time"

	"orgvault/internal/domain"
	"orgvault/internal/domain/models"
	"orgvault/internal/domain/services"
	"orgvault/internal/rbac"
	"orgvault/internal/vfs"
)

type testEnv struct {
	directory *fakeDirectory
	folders   *fakeFolderRepo
	files     *fakeFileRepo
	roles     *rbac.Registry
	tx        *fakeTxManager

	nodes         services.NodeService
	folderService services.FolderService
	parentContext *ParentContextResolver
}

// newTestEnv builds the H1 > C1 > D1 fixture plus a second disjoint
// hierarchy (H2 > C2 > D2) for scope-filtering assertions.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	roles, err := rbac.NewRegistry()
	if err != nil {
		t.Fatalf("load role registry: %v", err)
	}

	directory := newFakeDirectory()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	directory.holdings["h1"] = models.Holding{ID: "h1", Name: "H1", CreatedAt: now, UpdatedAt: now}
	directory.holdings["h2"] = models.Holding{ID: "h2", Name: "H2", CreatedAt: now, UpdatedAt: now}
	directory.companies["c1"] = models.Company{ID: "c1", HoldingID: "h1", Name: "C1", CreatedAt: now, UpdatedAt: now}
	directory.companies["c2"] = models.Company{ID: "c2", HoldingID: "h2", Name: "C2", CreatedAt: now, UpdatedAt: now}
	directory.departments["d1"] = models.Department{ID: "d1", CompanyID: "c1", Name: "D1", CreatedAt: now, UpdatedAt: now}
	directory.departments["d2"] = models.Department{ID: "d2", CompanyID: "c2", Name: "D2", CreatedAt: now, UpdatedAt: now}

	folders := newFakeFolderRepo()
	files := newFakeFileRepo()
	tx := &fakeTxManager{}
	logger := testLogger()

	parentContext := NewParentContextResolver(directory, folders, roles, logger)

	return &testEnv{
		directory:     directory,
		folders:       folders,
		files:         files,
		roles:         roles,
		tx:            tx,
		nodes:         NewNodeService(directory, folders, files, roles, logger),
		folderService: NewFolderService(folders, files, parentContext, tx, roles, logger),
		parentContext: parentContext,
	}
}

func (e *testEnv) addFolder(id, name string, parentID *string, org models.OrgContext) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	e.folders.folders[id] = models.Folder{
		ID:           id,
		Name:         name,
		ParentID:     parentID,
		HoldingID:    org.HoldingID,
		CompanyID:    org.CompanyID,
		DepartmentID: org.DepartmentID,
		CreatedBy:    "seed",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func superadmin() *models.Principal {
	return &models.Principal{UserID: "root", Role: models.RoleSuperadmin}
}

func adminC1() *models.Principal {
	return &models.Principal{UserID: "alice", Role: models.RoleAdmin, HoldingID: "h1", CompanyID: "c1"}
}

func directorD1() *models.Principal {
	return &models.Principal{UserID: "bob", Role: models.RoleDirector, HoldingID: "h1", CompanyID: "c1", DepartmentID: "d1"}
}

func userD1() *models.Principal {
	return &models.Principal{UserID: "carol", Role: models.RoleUser, HoldingID: "h1", CompanyID: "c1", DepartmentID: "d1"}
}

var d1Context = models.OrgContext{HoldingID: "h1", CompanyID: "c1", DepartmentID: "d1"}

func nodeNames(nodes []models.Node) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestListRootsByRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addFolder("f1", "Reports", nil, d1Context)

	tests := []struct {
		name      string
		principal *models.Principal
		wantNames []string
		wantKind  models.NodeKind
	}{
		{
			name:      "superadmin sees every holding",
			principal: superadmin(),
			wantNames: []string{"H1", "H2"},
			wantKind:  models.NodeKindHolding,
		},
		{
			name:      "admin sees their company's departments",
			principal: adminC1(),
			wantNames: []string{"D1"},
			wantKind:  models.NodeKindDepartment,
		},
		{
			name:      "director sees their department's top folders",
			principal: directorD1(),
			wantNames: []string{"Reports"},
			wantKind:  models.NodeKindFolder,
		},
		{
			name:      "user shares the director behavior",
			principal: userD1(),
			wantNames: []string{"Reports"},
			wantKind:  models.NodeKindFolder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := env.nodes.ListRoots(ctx, tt.principal)
			if err != nil {
				t.Fatalf("ListRoots() error: %v", err)
			}
			if got := nodeNames(nodes); !equalStrings(got, tt.wantNames) {
				t.Errorf("root names = %v, want %v", got, tt.wantNames)
			}
			for _, n := range nodes {
				if n.Kind != tt.wantKind {
					t.Errorf("node %q kind = %q, want %q", n.Name, n.Kind, tt.wantKind)
				}
			}
		})
	}
}

func TestListRootsEmptyHoldingsStaysVirtual(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Even with holdings gone and folders present, the global role's
	// navigation mode must not fall through to stored folders.
	env.directory.holdings = map[string]models.Holding{}
	env.addFolder("f1", "Reports", nil, d1Context)

	nodes, err := env.nodes.ListRoots(ctx, superadmin())
	if err != nil {
		t.Fatalf("ListRoots() error: %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("roots = %v, want empty list", nodeNames(nodes))
	}
}

func TestListRootsStableAcrossCalls(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.nodes.ListRoots(ctx, superadmin())
	if err != nil {
		t.Fatalf("ListRoots() error: %v", err)
	}
	second, err := env.nodes.ListRoots(ctx, superadmin())
	if err != nil {
		t.Fatalf("ListRoots() error: %v", err)
	}

	if !equalStrings(nodeNames(first), nodeNames(second)) {
		t.Errorf("repeated calls disagree: %v vs %v", nodeNames(first), nodeNames(second))
	}
	seen := make(map[string]bool)
	for _, n := range first {
		if seen[n.ID] {
			t.Errorf("duplicate root id %q", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestDepartmentNodeDerivesHolding(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	node, err := env.nodes.GetNode(ctx, vfs.DepartmentID("d1"), superadmin())
	if err != nil {
		t.Fatalf("GetNode() error: %v", err)
	}

	want := d1Context
	if node.Context != want {
		t.Errorf("context = %+v, want %+v", node.Context, want)
	}
	if node.ParentID == nil || *node.ParentID != vfs.CompanyID("c1") {
		t.Errorf("parent = %v, want %q", node.ParentID, vfs.CompanyID("c1"))
	}
}

func TestDepartmentNodeDegradesWhenCompanyMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Orphan department: its company is gone from the directory.
	env.directory.departments["d9"] = models.Department{ID: "d9", CompanyID: "c9", Name: "D9"}

	node, err := env.nodes.GetNode(ctx, vfs.DepartmentID("d9"), superadmin())
	if err != nil {
		t.Fatalf("GetNode() error: %v", err)
	}
	if node.Context.HoldingID != "" {
		t.Errorf("holding id = %q, want empty degradation", node.Context.HoldingID)
	}
	if node.Context.CompanyID != "c9" || node.Context.DepartmentID != "d9" {
		t.Errorf("context = %+v, want company c9 and department d9 preserved", node.Context)
	}
}

func TestListChildrenOfCompanyBatchesCompanyLookups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Several departments under one company must not trigger one company
	// lookup each.
	env.directory.departments["d1b"] = models.Department{ID: "d1b", CompanyID: "c1", Name: "D1b"}
	env.directory.departments["d1c"] = models.Department{ID: "d1c", CompanyID: "c1", Name: "D1c"}

	nodes, err := env.nodes.ListChildren(ctx, vfs.CompanyID("c1"), superadmin())
	if err != nil {
		t.Fatalf("ListChildren() error: %v", err)
	}
	if got := nodeNames(nodes); !equalStrings(got, []string{"D1", "D1b", "D1c"}) {
		t.Errorf("children = %v", got)
	}
	for _, n := range nodes {
		if n.Context.HoldingID != "h1" {
			t.Errorf("department %q holding = %q, want h1", n.Name, n.Context.HoldingID)
		}
	}
	if env.directory.batchCompanyLookups != 1 {
		t.Errorf("batch lookups = %d, want 1", env.directory.batchCompanyLookups)
	}
	// One existence check for c1 itself, never one lookup per department.
	if env.directory.companyLookups != 1 {
		t.Errorf("per-item company lookups = %d, want 1", env.directory.companyLookups)
	}
}

func TestListChildrenOfDepartmentOnlyTopLevel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addFolder("f1", "Reports", nil, d1Context)
	env.addFolder("f2", "Archive", nil, d1Context)
	parent := "f1"
	env.addFolder("f3", "Nested", &parent, d1Context)
	// Folder of another department must not appear.
	env.addFolder("f4", "Other", nil, models.OrgContext{HoldingID: "h2", CompanyID: "c2", DepartmentID: "d2"})

	nodes, err := env.nodes.ListChildren(ctx, vfs.DepartmentID("d1"), directorD1())
	if err != nil {
		t.Fatalf("ListChildren() error: %v", err)
	}
	if got := nodeNames(nodes); !equalStrings(got, []string{"Archive", "Reports"}) {
		t.Errorf("children = %v, want [Archive Reports]", got)
	}
}

func TestListChildrenOfRealFolderIncludesFiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addFolder("f1", "Reports", nil, d1Context)
	parent := "f1"
	env.addFolder("f2", "Q2", &parent, d1Context)
	env.files.files["file1"] = models.File{
		ID: "file1", Filename: "budget.xlsx", FolderID: &parent,
		HoldingID: "h1", CompanyID: "c1", DepartmentID: "d1",
	}

	nodes, err := env.nodes.ListChildren(ctx, "f1", directorD1())
	if err != nil {
		t.Fatalf("ListChildren() error: %v", err)
	}
	if got := nodeNames(nodes); !equalStrings(got, []string{"Q2", "budget.xlsx"}) {
		t.Errorf("children = %v, want folders then files", got)
	}
	if nodes[1].Kind != models.NodeKindFile {
		t.Errorf("second child kind = %q, want file", nodes[1].Kind)
	}
}

func TestGetNodeMalformedID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.nodes.GetNode(ctx, "team:abc", superadmin())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetNodeScopeFiltering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addFolder("f4", "Other", nil, models.OrgContext{HoldingID: "h2", CompanyID: "c2", DepartmentID: "d2"})

	// A director of d1 cannot see d2's folder; access denial reads as
	// not-found.
	if _, err := env.nodes.GetNode(ctx, "f4", directorD1()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	if _, err := env.nodes.GetNode(ctx, "f4", superadmin()); err != nil {
		t.Errorf("superadmin GetNode() error: %v", err)
	}
}

func TestVirtualNodesHiddenOutsideLineage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// d2 has a root folder; a d1 caller must never see it through the
	// virtual department listing.
	env.addFolder("f4", "Payroll", nil, models.OrgContext{HoldingID: "h2", CompanyID: "c2", DepartmentID: "d2"})

	foreign := []string{vfs.HoldingID("h2"), vfs.CompanyID("c2"), vfs.DepartmentID("d2")}
	for _, principal := range []*models.Principal{directorD1(), userD1()} {
		for _, id := range foreign {
			if _, err := env.nodes.GetNode(ctx, id, principal); !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("%s GetNode(%s) error = %v, want ErrNotFound", principal.UserID, id, err)
			}
			if _, err := env.nodes.ListChildren(ctx, id, principal); !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("%s ListChildren(%s) error = %v, want ErrNotFound", principal.UserID, id, err)
			}
		}
	}

	// A company-scoped admin reaches their own departments but not a
	// sibling company's.
	if _, err := env.nodes.ListChildren(ctx, vfs.DepartmentID("d2"), adminC1()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("admin ListChildren(d2) error = %v, want ErrNotFound", err)
	}
	if _, err := env.nodes.ListChildren(ctx, vfs.DepartmentID("d1"), adminC1()); err != nil {
		t.Errorf("admin ListChildren(d1) error: %v", err)
	}

	// Own lineage stays reachable for the department-scoped caller.
	env.addFolder("f1", "Reports", nil, d1Context)
	for _, id := range []string{vfs.HoldingID("h1"), vfs.CompanyID("c1"), vfs.DepartmentID("d1")} {
		if _, err := env.nodes.GetNode(ctx, id, directorD1()); err != nil {
			t.Errorf("director GetNode(%s) error: %v", id, err)
		}
	}
	nodes, err := env.nodes.ListChildren(ctx, vfs.DepartmentID("d1"), directorD1())
	if err != nil {
		t.Fatalf("director ListChildren(d1) error: %v", err)
	}
	if got := nodeNames(nodes); !equalStrings(got, []string{"Reports"}) {
		t.Errorf("children = %v, want [Reports]", got)
	}
}
