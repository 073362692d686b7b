package queue

import (
	"slices"
	"testing"
)

func TestPendingToggle(t *testing.T) {
	p := NewPendingSet()

	if !p.Toggle("a") {
		t.Error("first Toggle(a) = false, want true")
	}
	if !p.Has("a") {
		t.Error("Has(a) = false after flagging")
	}
	if p.Toggle("a") {
		t.Error("second Toggle(a) = true, want false")
	}
	if p.Has("a") {
		t.Error("Has(a) = true after unflagging")
	}
}

func TestPendingRemoveAndIDs(t *testing.T) {
	p := NewPendingSet()
	p.Toggle("c")
	p.Toggle("a")
	p.Toggle("b")

	p.Remove("b")
	p.Remove("missing")

	if got := p.IDs(); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("IDs() = %v, want [a c]", got)
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
}
