package vfs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"orgvault/internal/domain"
	"orgvault/internal/domain/models"
	"orgvault/internal/domain/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeDirectory is an in-memory organization directory.
type fakeDirectory struct {
	holdings    map[string]models.Holding
	companies   map[string]models.Company
	departments map[string]models.Department

	companyLookups      int
	batchCompanyLookups int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		holdings:    make(map[string]models.Holding),
		companies:   make(map[string]models.Company),
		departments: make(map[string]models.Department),
	}
}

func (d *fakeDirectory) GetHolding(_ context.Context, id string) (*models.Holding, error) {
	h, ok := d.holdings[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("holding %s not found", id)}
	}
	return &h, nil
}

func (d *fakeDirectory) ListHoldings(_ context.Context) ([]models.Holding, error) {
	var holdings []models.Holding
	for _, h := range d.holdings {
		holdings = append(holdings, h)
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Name < holdings[j].Name })
	return holdings, nil
}

func (d *fakeDirectory) GetCompany(_ context.Context, id string) (*models.Company, error) {
	d.companyLookups++
	c, ok := d.companies[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("company %s not found", id)}
	}
	return &c, nil
}

func (d *fakeDirectory) GetCompaniesByIDs(_ context.Context, ids []string) (map[string]*models.Company, error) {
	d.batchCompanyLookups++
	result := make(map[string]*models.Company, len(ids))
	for _, id := range ids {
		if c, ok := d.companies[id]; ok {
			company := c
			result[id] = &company
		}
	}
	return result, nil
}

func (d *fakeDirectory) ListCompanies(_ context.Context, holdingID string) ([]models.Company, error) {
	var companies []models.Company
	for _, c := range d.companies {
		if c.HoldingID == holdingID {
			companies = append(companies, c)
		}
	}
	sort.Slice(companies, func(i, j int) bool { return companies[i].Name < companies[j].Name })
	return companies, nil
}

func (d *fakeDirectory) GetDepartment(_ context.Context, id string) (*models.Department, error) {
	dept, ok := d.departments[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("department %s not found", id)}
	}
	return &dept, nil
}

func (d *fakeDirectory) ListDepartments(_ context.Context, companyID string) ([]models.Department, error) {
	var depts []models.Department
	for _, dept := range d.departments {
		if dept.CompanyID == companyID {
			depts = append(depts, dept)
		}
	}
	sort.Slice(depts, func(i, j int) bool { return depts[i].Name < depts[j].Name })
	return depts, nil
}

// fakeFolderRepo is an in-memory folder store that honors scope filtering.
type fakeFolderRepo struct {
	folders map[string]models.Folder
	writes  int
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]models.Folder)}
}

func (r *fakeFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	r.writes++
	r.folders[folder.ID] = *folder
	return nil
}

func (r *fakeFolderRepo) GetByID(_ context.Context, id string, scope models.Scope) (*models.Folder, error) {
	f, ok := r.folders[id]
	if !ok || !scope.Allows(f.Context()) {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", id)}
	}
	folder := f
	return &folder, nil
}

func (r *fakeFolderRepo) Update(_ context.Context, folder *models.Folder) error {
	r.writes++
	if _, ok := r.folders[folder.ID]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", folder.ID)}
	}
	r.folders[folder.ID] = *folder
	return nil
}

func (r *fakeFolderRepo) Delete(_ context.Context, id string, scope models.Scope) error {
	r.writes++
	f, ok := r.folders[id]
	if !ok || !scope.Allows(f.Context()) {
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", id)}
	}
	delete(r.folders, id)
	return nil
}

func (r *fakeFolderRepo) ListChildren(_ context.Context, parentID string, scope models.Scope) ([]models.Folder, error) {
	var folders []models.Folder
	for _, f := range r.folders {
		if f.ParentID != nil && *f.ParentID == parentID && scope.Allows(f.Context()) {
			folders = append(folders, f)
		}
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
	return folders, nil
}

func (r *fakeFolderRepo) ListRootByDepartment(_ context.Context, departmentID string) ([]models.Folder, error) {
	var folders []models.Folder
	for _, f := range r.folders {
		if f.ParentID == nil && f.DepartmentID == departmentID {
			folders = append(folders, f)
		}
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
	return folders, nil
}

// fakeFileRepo is an in-memory file metadata store.
type fakeFileRepo struct {
	files  map[string]models.File
	writes int
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: make(map[string]models.File)}
}

func (r *fakeFileRepo) GetByID(_ context.Context, id string, scope models.Scope) (*models.File, error) {
	f, ok := r.files[id]
	if !ok || !scope.Allows(models.OrgContext{HoldingID: f.HoldingID, CompanyID: f.CompanyID, DepartmentID: f.DepartmentID}) {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("file %s not found", id)}
	}
	file := f
	return &file, nil
}

func (r *fakeFileRepo) ListByFolder(_ context.Context, folderID string, scope models.Scope) ([]models.File, error) {
	var files []models.File
	for _, f := range r.files {
		if f.FolderID != nil && *f.FolderID == folderID {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Filename < files[j].Filename })
	return files, nil
}

func (r *fakeFileRepo) Delete(_ context.Context, id string, scope models.Scope) error {
	r.writes++
	if _, ok := r.files[id]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("file %s not found", id)}
	}
	delete(r.files, id)
	return nil
}

func (r *fakeFileRepo) UpdateContextByFolder(_ context.Context, folderID string, org models.OrgContext) error {
	r.writes++
	for id, f := range r.files {
		if f.FolderID != nil && *f.FolderID == folderID {
			f.HoldingID = org.HoldingID
			f.CompanyID = org.CompanyID
			f.DepartmentID = org.DepartmentID
			r.files[id] = f
		}
	}
	return nil
}

// fakeTxManager runs the transactional body directly.
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	m.calls++
	return fn(ctx)
}
