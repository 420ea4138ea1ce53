package vfs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"orgvault/internal/domain"
	"orgvault/internal/domain/models"
	"orgvault/internal/domain/services"
	"orgvault/internal/vfs"
)

func TestCreateFolderUnderVirtualDepartment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	parentID := vfs.DepartmentID("d1")
	folder, err := env.folderService.CreateFolder(ctx, &services.CreateFolderRequest{
		Name:     "Reports",
		ParentID: &parentID,
	}, directorD1())
	if err != nil {
		t.Fatalf("CreateFolder() error: %v", err)
	}

	if folder.ParentID != nil {
		t.Errorf("stored parent = %q, want nil under a virtual parent", *folder.ParentID)
	}
	if got := folder.Context(); got != d1Context {
		t.Errorf("org context = %+v, want %+v", got, d1Context)
	}
	if folder.CreatedBy != "bob" {
		t.Errorf("created by = %q, want the principal's user id", folder.CreatedBy)
	}
	if _, ok := env.folders.folders[folder.ID]; !ok {
		t.Error("folder was not persisted")
	}
}

func TestCreateFolderUnderRealParent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addFolder("f1", "Reports", nil, d1Context)
	parentID := "f1"
	folder, err := env.folderService.CreateFolder(ctx, &services.CreateFolderRequest{
		Name:     "Q2",
		ParentID: &parentID,
	}, directorD1())
	if err != nil {
		t.Fatalf("CreateFolder() error: %v", err)
	}

	if folder.ParentID == nil || *folder.ParentID != "f1" {
		t.Errorf("stored parent = %v, want f1", folder.ParentID)
	}
	if got := folder.Context(); got != d1Context {
		t.Errorf("org context = %+v, want inherited %+v", got, d1Context)
	}
}

func TestCreateFolderInvalidName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"", "a/b", "a:b", strings.Repeat("x", 300)} {
		_, err := env.folderService.CreateFolder(ctx, &services.CreateFolderRequest{Name: name}, superadmin())
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("name %q: error = %v, want ErrValidation", name, err)
		}
	}
	if env.folders.writes != 0 {
		t.Errorf("repository writes = %d, want 0", env.folders.writes)
	}
}

func TestReadOnlyRoleCannotMutate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addFolder("f1", "Reports", nil, d1Context)

	if _, err := env.folderService.CreateFolder(ctx, &services.CreateFolderRequest{Name: "New"}, userD1()); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("create: error = %v, want ErrForbidden", err)
	}
	if err := env.folderService.DeleteFolder(ctx, "f1", userD1()); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("delete: error = %v, want ErrForbidden", err)
	}
	if env.folders.writes != 0 {
		t.Errorf("repository writes = %d, want 0", env.folders.writes)
	}
}

func TestMutateVirtualNodeRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	name := "Renamed"
	virtualIDs := []string{
		vfs.HoldingID("h1"),
		vfs.CompanyID("c1"),
		vfs.DepartmentID("d1"),
	}

	for _, id := range virtualIDs {
		if _, err := env.folderService.UpdateFolder(ctx, id, &services.UpdateFolderRequest{Name: &name}, superadmin()); !errors.Is(err, domain.ErrInvalidOperation) {
			t.Errorf("update %q: error = %v, want ErrInvalidOperation", id, err)
		}
		if err := env.folderService.DeleteFolder(ctx, id, superadmin()); !errors.Is(err, domain.ErrInvalidOperation) {
			t.Errorf("delete %q: error = %v, want ErrInvalidOperation", id, err)
		}
	}

	if env.folders.writes != 0 || env.files.writes != 0 {
		t.Errorf("writes = %d folders, %d files, want none", env.folders.writes, env.files.writes)
	}
}

func TestUpdateFolderRename(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addFolder("f1", "Reports", nil, d1Context)
	name := "Reports 2025"
	folder, err := env.folderService.UpdateFolder(ctx, "f1", &services.UpdateFolderRequest{Name: &name}, directorD1())
	if err != nil {
		t.Fatalf("UpdateFolder() error: %v", err)
	}
	if folder.Name != "Reports 2025" {
		t.Errorf("name = %q", folder.Name)
	}
	if env.folders.folders["f1"].Name != "Reports 2025" {
		t.Error("rename was not persisted")
	}
}

func TestUpdateFolderMoveCycleRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addFolder("f1", "Reports", nil, d1Context)
	p1 := "f1"
	env.addFolder("f2", "Q2", &p1, d1Context)

	// Moving a folder under itself or under its own descendant.
	for _, parent := range []string{"f1", "f2"} {
		p := parent
		_, err := env.folderService.UpdateFolder(ctx, "f1", &services.UpdateFolderRequest{ParentID: &p}, directorD1())
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("move under %q: error = %v, want ErrValidation", parent, err)
		}
	}
}

func TestUpdateFolderMoveToVirtualParent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addFolder("f1", "Reports", nil, d1Context)
	p1 := "f1"
	env.addFolder("f2", "Q2", &p1, d1Context)

	// Promote the nested folder to the department's top level.
	parentID := vfs.DepartmentID("d1")
	folder, err := env.folderService.UpdateFolder(ctx, "f2", &services.UpdateFolderRequest{ParentID: &parentID}, directorD1())
	if err != nil {
		t.Fatalf("UpdateFolder() error: %v", err)
	}
	if folder.ParentID != nil {
		t.Errorf("stored parent = %q, want nil", *folder.ParentID)
	}
	if got := folder.Context(); got != d1Context {
		t.Errorf("org context = %+v, want %+v", got, d1Context)
	}
}

func TestUpdateFolderMoveAcrossDepartmentsRetagsSubtree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addFolder("f1", "Reports", nil, d1Context)
	p1 := "f1"
	env.addFolder("f2", "Q2", &p1, d1Context)
	p2 := "f2"
	env.files.files["file1"] = models.File{
		ID: "file1", Filename: "budget.xlsx", FolderID: &p2,
		HoldingID: "h1", CompanyID: "c1", DepartmentID: "d1",
	}

	parentID := vfs.DepartmentID("d2")
	folder, err := env.folderService.UpdateFolder(ctx, "f1", &services.UpdateFolderRequest{ParentID: &parentID}, superadmin())
	if err != nil {
		t.Fatalf("UpdateFolder() error: %v", err)
	}

	want := models.OrgContext{HoldingID: "h2", CompanyID: "c2", DepartmentID: "d2"}
	if got := folder.Context(); got != want {
		t.Errorf("moved folder context = %+v, want %+v", got, want)
	}
	// Descendants and their files follow the move; a d2 reader must see the
	// whole subtree and a d1 reader none of it.
	f2 := env.folders.folders["f2"]
	if got := f2.Context(); got != want {
		t.Errorf("child folder context = %+v, want %+v", got, want)
	}
	child := env.files.files["file1"]
	got := models.OrgContext{HoldingID: child.HoldingID, CompanyID: child.CompanyID, DepartmentID: child.DepartmentID}
	if got != want {
		t.Errorf("file context = %+v, want %+v", got, want)
	}
	if env.tx.calls != 1 {
		t.Errorf("transactions = %d, want the retag in exactly one", env.tx.calls)
	}
}

func TestCreateRootFolderWithoutParentStaysUnscoped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	folder, err := env.folderService.CreateFolder(ctx, &services.CreateFolderRequest{Name: "Shared"}, superadmin())
	if err != nil {
		t.Fatalf("CreateFolder() error: %v", err)
	}
	if folder.ParentID != nil {
		t.Errorf("stored parent = %q, want nil", *folder.ParentID)
	}
	// Unscoped context persists as empty strings at every level.
	if got := folder.Context(); got != (models.OrgContext{}) {
		t.Errorf("org context = %+v, want empty", got)
	}
	stored, ok := env.folders.folders[folder.ID]
	if !ok {
		t.Fatal("folder was not persisted")
	}
	if stored.HoldingID != "" || stored.CompanyID != "" || stored.DepartmentID != "" {
		t.Errorf("stored context = %+v, want empty strings", stored.Context())
	}
}

func TestUpdateFolderNoFieldsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addFolder("f1", "Reports", nil, d1Context)
	_, err := env.folderService.UpdateFolder(ctx, "f1", &services.UpdateFolderRequest{}, directorD1())
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestDeleteFolderAndFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addFolder("f1", "Reports", nil, d1Context)
	folderID := "f1"
	env.files.files["file1"] = models.File{
		ID: "file1", Filename: "budget.xlsx", FolderID: &folderID,
		HoldingID: "h1", CompanyID: "c1", DepartmentID: "d1",
	}

	if err := env.folderService.DeleteFolder(ctx, "f1", directorD1()); err != nil {
		t.Fatalf("DeleteFolder() error: %v", err)
	}
	if _, ok := env.folders.folders["f1"]; ok {
		t.Error("folder still present after delete")
	}

	if err := env.folderService.DeleteFile(ctx, "file1", directorD1()); err != nil {
		t.Fatalf("DeleteFile() error: %v", err)
	}
	if _, ok := env.files.files["file1"]; ok {
		t.Error("file still present after delete")
	}
}
