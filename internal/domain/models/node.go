package models

import "time"

// NodeKind distinguishes the entry types a navigation caller can see. The
// three organizational kinds are virtual (synthesized, never persisted);
// folder and file entries are backed by storage.
type NodeKind string

const (
	NodeKindHolding    NodeKind = "holding"
	NodeKindCompany    NodeKind = "company"
	NodeKindDepartment NodeKind = "department"
	NodeKindFolder     NodeKind = "folder"
	NodeKindFile       NodeKind = "file"
)

// Virtual reports whether the kind is a synthesized organizational entry.
func (k NodeKind) Virtual() bool {
	switch k {
	case NodeKindHolding, NodeKindCompany, NodeKindDepartment:
		return true
	}
	return false
}

// Node is the uniform navigable entry returned by every resolver. Callers
// never branch on whether an entry is organizational or stored; ID and
// ParentID are encoded identifiers for virtual kinds and plain storage ids
// otherwise.
type Node struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	ParentID  *string    `json:"parent_id"`
	Kind      NodeKind   `json:"kind"`
	Context   OrgContext `json:"context"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
