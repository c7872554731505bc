// Package reconcile implements the collection diffing at the heart of
// aggregate saves. An editor submits a full ordered collection of child
// items; the engine compares it against the ids already persisted under
// the parent and derives which rows to delete, insert, and update.
package reconcile

// Item is a submitted child item in an aggregate payload. Existing items
// carry their persisted id; new items carry an opaque client-side
// placeholder id that is never written to the database.
type Item interface {
	ItemID() int64
	ItemIsNew() bool
}

// Plan is the outcome of diffing a submitted collection against the
// persisted rows of the same collection.
type Plan[T Item] struct {
	// ToDelete holds persisted ids that were not resubmitted.
	ToDelete []int64
	// ToInsert holds submitted items flagged new, in submitted order.
	ToInsert []T
	// ToUpdate holds submitted items with an existing id, in submitted order.
	ToUpdate []T
}

// Diff partitions a submitted collection against the set of persisted ids.
//
// Items flagged new are inserted. Items not flagged new are updated in
// place. Every persisted id that does not appear among the update items is
// deleted — including all of them when the submission contains no existing
// items (a full replace).
func Diff[T Item](persistedIDs []int64, submitted []T) Plan[T] {
	var plan Plan[T]

	keep := make(map[int64]bool, len(submitted))
	for _, item := range submitted {
		if item.ItemIsNew() {
			plan.ToInsert = append(plan.ToInsert, item)
		} else {
			plan.ToUpdate = append(plan.ToUpdate, item)
			keep[item.ItemID()] = true
		}
	}

	for _, id := range persistedIDs {
		if !keep[id] {
			plan.ToDelete = append(plan.ToDelete, id)
		}
	}

	return plan
}

// Ranked is an item whose display order can be assigned.
type Ranked interface {
	SetDisplayOrder(int)
}

// Normalize assigns each item's display order from its zero-based position
// in the slice. Clients run this after every reorder, insert, or removal so
// the submitted ranks always mirror the list as the editor sees it; the
// server persists the submitted ranks verbatim.
func Normalize[T Ranked](items []T) {
	for i, item := range items {
		item.SetDisplayOrder(i)
	}
}
