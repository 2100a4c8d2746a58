package utils

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("NewID() = %q is not a uuid: %v", id, err)
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestDerivedID(t *testing.T) {
	tests := []struct {
		name  string
		a     []string
		b     []string
		equal bool
	}{
		{"same parts", []string{"debt", "e1", "l1"}, []string{"debt", "e1", "l1"}, true},
		{"different line", []string{"debt", "e1", "l1"}, []string{"debt", "e1", "l2"}, false},
		{"different expense", []string{"debt", "e1", "l1"}, []string{"debt", "e2", "l1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DerivedID(tt.a...) == DerivedID(tt.b...); got != tt.equal {
				t.Errorf("DerivedID equality = %v, want %v", got, tt.equal)
			}
		})
	}
}
