// Package vfs defines the identifier codec for the virtual filesystem.
//
// Organizational entities are surfaced to navigation callers as virtual
// entries whose identifiers carry the entity kind: "holding:<id>",
// "company:<id>", "department:<id>". Anything without a recognized kind
// prefix is a storage id. The codec parses an incoming identifier exactly
// once into a NodeRef; resolvers switch on the result and never re-inspect
// the raw string.
package vfs

import (
	"fmt"
	"strings"

	"orgvault/internal/domain"
	"orgvault/internal/domain/models"
)

// Separator joins the kind prefix and the entity id. Storage ids are UUIDs,
// which cannot contain it, so a separator in an id always means a virtual
// reference.
const Separator = ":"

// NodeRef is the decoded form of a navigation identifier: either a real
// storage id or a (kind, entity id) pair for a virtual entry.
type NodeRef struct {
	Kind NodeKindRef
	ID   string
}

// NodeKindRef enumerates what a NodeRef points at.
type NodeKindRef int

const (
	RefReal NodeKindRef = iota
	RefHolding
	RefCompany
	RefDepartment
)

var kindPrefixes = map[string]NodeKindRef{
	string(models.NodeKindHolding):    RefHolding,
	string(models.NodeKindCompany):    RefCompany,
	string(models.NodeKindDepartment): RefDepartment,
}

// Encode builds the virtual identifier for an organizational entity.
func Encode(kind models.NodeKind, id string) string {
	return string(kind) + Separator + id
}

// HoldingID, CompanyID and DepartmentID build encoded ids for each kind.
func HoldingID(id string) string    { return Encode(models.NodeKindHolding, id) }
func CompanyID(id string) string    { return Encode(models.NodeKindCompany, id) }
func DepartmentID(id string) string { return Encode(models.NodeKindDepartment, id) }

// Parse decodes an identifier into a NodeRef.
//
// An id with a recognized kind prefix decodes to that kind. An id with an
// unrecognized prefix before the separator is malformed and rejected as
// NotFound rather than silently treated as a storage id. Anything without
// the separator is a storage id.
func Parse(id string) (NodeRef, error) {
	if id == "" {
		return NodeRef{}, &domain.NotFoundError{Message: "empty node id"}
	}

	prefix, rest, found := strings.Cut(id, Separator)
	if !found {
		return NodeRef{Kind: RefReal, ID: id}, nil
	}

	kind, ok := kindPrefixes[prefix]
	if !ok {
		return NodeRef{}, &domain.NotFoundError{
			Message: fmt.Sprintf("malformed node id %q: unknown kind %q", id, prefix),
		}
	}
	if rest == "" {
		return NodeRef{}, &domain.NotFoundError{
			Message: fmt.Sprintf("malformed node id %q: missing entity id", id),
		}
	}

	return NodeRef{Kind: kind, ID: rest}, nil
}

// IsVirtual reports whether an identifier carries a recognized kind prefix.
func IsVirtual(id string) bool {
	ref, err := Parse(id)
	return err == nil && ref.Kind != RefReal
}

// String renders the ref back into its wire identifier.
func (r NodeRef) String() string {
	switch r.Kind {
	case RefHolding:
		return HoldingID(r.ID)
	case RefCompany:
		return CompanyID(r.ID)
	case RefDepartment:
		return DepartmentID(r.ID)
	default:
		return r.ID
	}
}

// NodeKind maps the ref kind onto the navigation node kind. Real refs map
// to folders; the caller corrects this to file where relevant.
func (r NodeRef) NodeKind() models.NodeKind {
	switch r.Kind {
	case RefHolding:
		return models.NodeKindHolding
	case RefCompany:
		return models.NodeKindCompany
	case RefDepartment:
		return models.NodeKindDepartment
	default:
		return models.NodeKindFolder
	}
}
