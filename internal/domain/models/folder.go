package models

import "time"

// Folder is a persisted real folder. ParentID == nil means the folder is
// top-level within its organizational scope; its place in the hierarchy is
// then encoded by the org context triple, not by the parent link.
type Folder struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	ParentID     *string   `json:"parent_id" db:"parent_id"`
	HoldingID    string    `json:"holding_id" db:"holding_id"`
	CompanyID    string    `json:"company_id" db:"company_id"`
	DepartmentID string    `json:"department_id" db:"department_id"`
	CreatedBy    string    `json:"created_by" db:"created_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Context returns the folder's organizational context triple.
func (f *Folder) Context() OrgContext {
	return OrgContext{
		HoldingID:    f.HoldingID,
		CompanyID:    f.CompanyID,
		DepartmentID: f.DepartmentID,
	}
}

// File is a persisted file record. Only metadata is modeled here; content
// transport lives outside this service.
type File struct {
	ID           string    `json:"id" db:"id"`
	Filename     string    `json:"filename" db:"filename"`
	FolderID     *string   `json:"folder_id" db:"folder_id"`
	HoldingID    string    `json:"holding_id" db:"holding_id"`
	CompanyID    string    `json:"company_id" db:"company_id"`
	DepartmentID string    `json:"department_id" db:"department_id"`
	SizeBytes    int64     `json:"size_bytes" db:"size_bytes"`
	ContentType  string    `json:"content_type" db:"content_type"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
