package service

import "github.com/settleline/api/internal/model"

// Ordering utilities shared by the category and task services.
//
// Active items in a scope (all categories, or one category's tasks) hold a
// dense 1..N order sequence. A single-item move is planned as the complete
// final permutation before anything is written, so the shift and the set land
// in one atomic bulk write and a crash can never leave a gap or duplicate.

// orderItem is the minimal view of an orderable record
type orderItem struct {
	ID    string
	Order int
}

// planMove computes the order updates needed to move one item to newOrder.
// items must be the scope's active records sorted by current order. newOrder
// values past the end of the list are clamped to the last position. Returns
// nil pairs for a no-op move.
func planMove(items []orderItem, itemID string, newOrder int) ([]model.OrderPair, error) {
	if newOrder < 1 {
		return nil, ErrInvalidOrder
	}

	current := -1
	for i, item := range items {
		if item.ID == itemID {
			current = i
			break
		}
	}
	if current == -1 {
		return nil, ErrItemNotFound
	}

	if newOrder > len(items) {
		newOrder = len(items)
	}

	target := newOrder - 1
	if target == current {
		return nil, nil
	}

	// Rebuild the permutation with the item removed and reinserted, then
	// emit a pair for every record whose position changed.
	reordered := make([]orderItem, 0, len(items))
	reordered = append(reordered, items[:current]...)
	reordered = append(reordered, items[current+1:]...)

	tail := make([]orderItem, len(reordered[target:]))
	copy(tail, reordered[target:])
	reordered = append(reordered[:target], items[current])
	reordered = append(reordered, tail...)

	var pairs []model.OrderPair
	for i, item := range reordered {
		if item.Order != i+1 {
			pairs = append(pairs, model.OrderPair{ID: item.ID, Order: i + 1})
		}
	}
	return pairs, nil
}

// nextOrder returns the order value for a newly created item
func nextOrder(maxOrder int) int {
	return maxOrder + 1
}
