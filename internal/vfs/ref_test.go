package vfs

import (
	"errors"
	"testing"

	"orgvault/internal/domain"
	"orgvault/internal/domain/models"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		kind models.NodeKind
		id   string
	}{
		{name: "holding", kind: models.NodeKindHolding, id: "3f9a2c51-88f0-4f3a-9a0e-1d2c3b4a5f60"},
		{name: "company", kind: models.NodeKindCompany, id: "c-123"},
		{name: "department", kind: models.NodeKindDepartment, id: "d-456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := Encode(tt.kind, tt.id)

			if !IsVirtual(encoded) {
				t.Errorf("IsVirtual(%q) = false, want true", encoded)
			}

			ref, err := Parse(encoded)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", encoded, err)
			}
			if ref.ID != tt.id {
				t.Errorf("decoded id = %q, want %q", ref.ID, tt.id)
			}
			if ref.NodeKind() != tt.kind {
				t.Errorf("decoded kind = %q, want %q", ref.NodeKind(), tt.kind)
			}
			if ref.String() != encoded {
				t.Errorf("re-encoded id = %q, want %q", ref.String(), encoded)
			}
		})
	}
}

func TestParseRealID(t *testing.T) {
	id := "8a6f1d20-0b9c-4e7d-a111-222233334444"

	ref, err := Parse(id)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", id, err)
	}
	if ref.Kind != RefReal {
		t.Errorf("kind = %v, want RefReal", ref.Kind)
	}
	if ref.ID != id {
		t.Errorf("id = %q, want %q", ref.ID, id)
	}
	if IsVirtual(id) {
		t.Errorf("IsVirtual(%q) = true, want false", id)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "unknown prefix", id: "team:abc123"},
		{name: "empty entity id", id: "holding:"},
		{name: "empty string", id: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.id)
			if !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("Parse(%q) error = %v, want ErrNotFound", tt.id, err)
			}
		})
	}
}
