package visualization

import (
	"math/rand"
	"sort"

	"voxelshape/internal/models"
)

// PermuteLabels builds a deterministic random permutation of the
// distinct cluster ids found in locs. Neighboring clusters tend to get
// consecutive ids from the decoder, which renders as near-identical
// colors; shuffling the ids spreads them over the palette. The
// unassigned label (-1) is never remapped.
func PermuteLabels(locs []models.Localization, seed int64) map[int]int {
	seen := make(map[int]bool)
	for _, l := range locs {
		if l.ID >= 0 {
			seen[l.ID] = true
		}
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	shuffled := make([]int, len(ids))
	copy(shuffled, ids)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	mapping := make(map[int]int, len(ids))
	for i, id := range ids {
		mapping[id] = shuffled[i]
	}
	return mapping
}

// ApplyLabels rewrites cluster ids through the mapping, leaving ids
// without an entry (including the unassigned label) untouched.
func ApplyLabels(locs []models.Localization, mapping map[int]int) {
	for i := range locs {
		if newID, ok := mapping[locs[i].ID]; ok {
			locs[i].ID = newID
		}
	}
}
