package ledger

import (
	"fmt"
	"testing"
)

func TestAddAndContains(t *testing.T) {
	l := New()
	if l.Contains("a") {
		t.Error("empty ledger contains entry")
	}
	l.Add("a")
	if !l.Contains("a") {
		t.Error("added entry missing")
	}
	if l.Len() != 1 {
		t.Errorf("Len = %d, want 1", l.Len())
	}
}

func TestAddDuplicateIsNoop(t *testing.T) {
	l := New()
	l.Add("a")
	l.Add("b")
	l.Add("a")
	if l.Len() != 2 {
		t.Errorf("Len = %d, want 2", l.Len())
	}
	got := l.Fingerprints()
	if got[0] != "a" || got[1] != "b" {
		t.Errorf("order = %v", got)
	}
}

func TestEvictOldestFirst(t *testing.T) {
	l := New()
	for i := 0; i < 10; i++ {
		l.Add(fmt.Sprintf("fp-%d", i))
	}
	l.EvictToCapacity(4)
	if l.Len() != 4 {
		t.Fatalf("Len = %d, want 4", l.Len())
	}
	want := []string{"fp-6", "fp-7", "fp-8", "fp-9"}
	got := l.Fingerprints()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Fingerprints[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	for i := 0; i < 6; i++ {
		if l.Contains(fmt.Sprintf("fp-%d", i)) {
			t.Errorf("evicted fp-%d still present", i)
		}
	}
}

func TestEvictIsFIFONotLRU(t *testing.T) {
	l := New()
	l.Add("old")
	l.Add("mid")
	l.Add("new")
	// Re-adding must not refresh age.
	l.Add("old")
	l.EvictToCapacity(2)
	if l.Contains("old") {
		t.Error("re-added entry had its age refreshed")
	}
	if !l.Contains("mid") || !l.Contains("new") {
		t.Error("newer entries evicted")
	}
}

func TestEvictUnderCapacityIsNoop(t *testing.T) {
	l := New()
	l.Add("a")
	l.MarkClean()
	l.EvictToCapacity(10)
	if l.Dirty() {
		t.Error("no-op eviction marked ledger dirty")
	}
}

func TestClear(t *testing.T) {
	l := New()
	l.Add("a")
	l.Add("b")
	l.MarkClean()
	l.Clear()
	if l.Len() != 0 || l.Contains("a") {
		t.Error("ledger not cleared")
	}
	if !l.Dirty() {
		t.Error("clear should mark dirty")
	}
	// Clearing an empty ledger stays clean.
	l.MarkClean()
	l.Clear()
	if l.Dirty() {
		t.Error("clearing empty ledger marked dirty")
	}
}

func TestDirtyTracking(t *testing.T) {
	l := New()
	if l.Dirty() {
		t.Error("fresh ledger dirty")
	}
	l.Add("a")
	if !l.Dirty() {
		t.Error("add did not mark dirty")
	}
	l.MarkClean()
	l.Add("a")
	if l.Dirty() {
		t.Error("duplicate add marked dirty")
	}
}

func TestFromFingerprints(t *testing.T) {
	l := FromFingerprints([]string{"a", "b", "a", "c"})
	if l.Len() != 3 {
		t.Errorf("Len = %d, want 3", l.Len())
	}
	if l.Dirty() {
		t.Error("freshly loaded ledger should be clean")
	}
}
