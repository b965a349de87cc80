package visualization

import (
	"testing"

	"voxelshape/internal/models"
)

// TestPermuteLabels verifies the mapping is a bijection over the
// observed ids, deterministic per seed, and never touches -1.
func TestPermuteLabels(t *testing.T) {
	locs := []models.Localization{
		{ID: 0}, {ID: 1}, {ID: 2}, {ID: 3}, {ID: 4},
		{ID: 2}, {ID: -1},
	}

	mapping := PermuteLabels(locs, 42)

	if len(mapping) != 5 {
		t.Fatalf("expected 5 mapped ids, got %d", len(mapping))
	}
	if _, ok := mapping[-1]; ok {
		t.Error("unassigned label must not be remapped")
	}

	// Bijection: targets are exactly the source ids.
	targets := make(map[int]bool)
	for src, dst := range mapping {
		if _, ok := mapping[dst]; !ok {
			t.Errorf("target %d of source %d is not an observed id", dst, src)
		}
		if targets[dst] {
			t.Errorf("target %d assigned twice", dst)
		}
		targets[dst] = true
	}

	// Same seed, same permutation.
	again := PermuteLabels(locs, 42)
	for src, dst := range mapping {
		if again[src] != dst {
			t.Errorf("permutation not deterministic for id %d: %d vs %d", src, dst, again[src])
		}
	}
}

// TestApplyLabels verifies rewriting and that unmapped ids survive.
func TestApplyLabels(t *testing.T) {
	locs := []models.Localization{{ID: 1}, {ID: 2}, {ID: -1}}

	ApplyLabels(locs, map[int]int{1: 2, 2: 1})

	if locs[0].ID != 2 || locs[1].ID != 1 {
		t.Errorf("expected swapped ids [2 1], got [%d %d]", locs[0].ID, locs[1].ID)
	}
	if locs[2].ID != -1 {
		t.Errorf("expected unassigned label untouched, got %d", locs[2].ID)
	}
}
