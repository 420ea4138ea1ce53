package models

// ScopeLevel is how far a principal's visibility reaches.
type ScopeLevel string

const (
	ScopeGlobal     ScopeLevel = "global"
	ScopeCompany    ScopeLevel = "company"
	ScopeDepartment ScopeLevel = "department"
)

// Scope is the organizational filter applied to every folder and file read.
// It is derived once per request from the principal's role and placement.
type Scope struct {
	Level        ScopeLevel
	CompanyID    string
	DepartmentID string
}

// Allows reports whether a stored org context is visible under this scope.
// Unscoped context fields never widen access: a department-scoped principal
// only sees records whose department id matches.
func (s Scope) Allows(c OrgContext) bool {
	switch s.Level {
	case ScopeGlobal:
		return true
	case ScopeCompany:
		return c.CompanyID == s.CompanyID
	case ScopeDepartment:
		return c.DepartmentID == s.DepartmentID
	default:
		return false
	}
}
