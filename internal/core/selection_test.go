package core

import (
	"testing"
)

func newTestSelection(t *testing.T) *TargetSelection {
	t.Helper()
	return NewTargetSelection(NewPathsWithRoot(t.TempDir()))
}

func enabledNames(t *testing.T, s *TargetSelection) []string {
	t.Helper()
	targets, err := s.Enabled()
	if err != nil {
		t.Fatalf("Enabled failed: %v", err)
	}
	names := make([]string, len(targets))
	for i, tg := range targets {
		names[i] = tg.Name()
	}
	return names
}

func TestSelectionDefaults(t *testing.T) {
	s := newTestSelection(t)
	got := enabledNames(t, s)
	if len(got) != 2 || got[0] != "codex" || got[1] != "copilot" {
		t.Errorf("default targets = %v, want [codex copilot]", got)
	}
}

func TestSelectionAddRemove(t *testing.T) {
	s := newTestSelection(t)

	if err := s.Add("gemini"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	got := enabledNames(t, s)
	if len(got) != 3 {
		t.Fatalf("after add: %v, want 3 targets", got)
	}

	if err := s.Add("gemini"); err == nil {
		t.Error("adding an already-enabled target succeeded")
	}
	if err := s.Add("emacs"); err == nil {
		t.Error("adding an unknown target succeeded")
	}

	if err := s.Remove("codex"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	for _, n := range enabledNames(t, s) {
		if n == "codex" {
			t.Error("codex still enabled after Remove")
		}
	}

	if err := s.Remove("codex"); err == nil {
		t.Error("removing a disabled target succeeded")
	}
}
