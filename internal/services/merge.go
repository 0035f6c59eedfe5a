package services

import "plutus/internal/models"

// categoryDedup is the outcome of deduplicating incoming categories against
// the workspace's live set. accepted holds the categories to insert; remap
// maps dropped incoming ids to the id of the surviving category with the
// same (type, normalized name) key.
type categoryDedup struct {
	accepted []models.Category
	remap    map[string]string
}

// dedupeCategories resolves category identity conflicts for an import.
//
// Rules, in order:
//   - An incoming category whose id already exists in the workspace is
//     dropped without a remap entry; the existing row wins.
//   - An incoming live category whose dedup key matches an existing live
//     category is dropped and remapped to the existing id.
//   - Within the file, the first live category per dedup key wins; later
//     duplicates are remapped to it.
//   - Incoming soft-deleted categories neither claim keys nor get
//     deduplicated; they are kept as history if their id is new.
func dedupeCategories(existing, incoming []models.Category) categoryDedup {
	existingIDs := make(map[string]bool, len(existing))
	liveByKey := make(map[models.CategoryKey]string)
	for i := range existing {
		existingIDs[existing[i].ID] = true
		if !existing[i].DeletedAt.Valid {
			liveByKey[existing[i].DedupKey()] = existing[i].ID
		}
	}

	out := categoryDedup{remap: map[string]string{}}
	for i := range incoming {
		c := incoming[i]
		if existingIDs[c.ID] {
			continue
		}
		if c.DeletedAt.Valid {
			out.accepted = append(out.accepted, c)
			continue
		}
		key := c.DedupKey()
		if winner, ok := liveByKey[key]; ok {
			out.remap[c.ID] = winner
			continue
		}
		liveByKey[key] = c.ID
		out.accepted = append(out.accepted, c)
	}
	return out
}

// remapTransactionCategories rewrites category references according to the
// dedup remap. References to ids that were neither kept nor remapped are
// left alone; a dangling category id renders as uncategorized downstream.
func remapTransactionCategories(ts []models.Transaction, remap map[string]string) int {
	remapped := 0
	for i := range ts {
		if ts[i].CategoryID == nil {
			continue
		}
		if target, ok := remap[*ts[i].CategoryID]; ok {
			id := target
			ts[i].CategoryID = &id
			remapped++
		}
	}
	return remapped
}

// remapBudgetCategories applies the same rewrite to budget category scopes.
func remapBudgetCategories(bs []models.Budget, remap map[string]string) int {
	remapped := 0
	for i := range bs {
		if bs[i].CategoryID == nil {
			continue
		}
		if target, ok := remap[*bs[i].CategoryID]; ok {
			id := target
			bs[i].CategoryID = &id
			remapped++
		}
	}
	return remapped
}
