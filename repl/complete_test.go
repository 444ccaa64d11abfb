// Copyright © 2018 The ELPS authors

package repl

import (
	"testing"
)

func TestCommandCompleter(t *testing.T) {
	c := commandCompleter{}

	// "gro" should match group, groupCollapsed and groupEnd.
	candidates, offset := c.Do([]rune("gro"), 3)
	if offset != 3 {
		t.Errorf("offset = %d, want 3", offset)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 completions for 'gro', got %d", len(candidates))
	}
	if string(candidates[0]) != "up" {
		t.Errorf("first completion = %q, want %q", string(candidates[0]), "up")
	}

	// "timeE" completes to timeEnd only.
	candidates, _ = c.Do([]rune("timeE"), 5)
	if len(candidates) != 1 || string(candidates[0]) != "nd" {
		t.Errorf("completions for 'timeE' = %q, want [nd]", candidates)
	}

	// Arguments are not completed.
	candidates, _ = c.Do([]rune("log gr"), 6)
	if len(candidates) != 0 {
		t.Errorf("expected no completions after the command name, got %d", len(candidates))
	}

	// "zzz" should have no completions.
	candidates, _ = c.Do([]rune("zzz"), 3)
	if len(candidates) != 0 {
		t.Errorf("expected no completions for 'zzz', got %d", len(candidates))
	}
}
