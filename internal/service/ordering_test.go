package service

import (
	"errors"
	"testing"

	"github.com/settleline/api/internal/model"
)

func orderedItems(ids ...string) []orderItem {
	items := make([]orderItem, len(ids))
	for i, id := range ids {
		items[i] = orderItem{ID: id, Order: i + 1}
	}
	return items
}

// applyPairs returns the final id-by-order layout after a planned move
func applyPairs(items []orderItem, pairs []model.OrderPair) map[int]string {
	final := make(map[int]string, len(items))
	for _, item := range items {
		final[item.Order] = item.ID
	}
	byID := make(map[string]int, len(items))
	for _, item := range items {
		byID[item.ID] = item.Order
	}
	for _, p := range pairs {
		delete(final, byID[p.ID])
	}
	for _, p := range pairs {
		final[p.Order] = p.ID
	}
	return final
}

func TestPlanMove_MoveDown(t *testing.T) {
	t.Parallel()

	// [A, B, C, D], move A to position 3 -> [B, C, A, D]
	items := orderedItems("a", "b", "c", "d")

	pairs, err := planMove(items, "a", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	final := applyPairs(items, pairs)
	want := map[int]string{1: "b", 2: "c", 3: "a", 4: "d"}
	for order, id := range want {
		if final[order] != id {
			t.Errorf("position %d: expected %s, got %s", order, id, final[order])
		}
	}
}

func TestPlanMove_MoveUp(t *testing.T) {
	t.Parallel()

	// [A, B, C, D, E], move D to position 2 -> [A, D, B, C, E]
	items := orderedItems("a", "b", "c", "d", "e")

	pairs, err := planMove(items, "d", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	final := applyPairs(items, pairs)
	want := map[int]string{1: "a", 2: "d", 3: "b", 4: "c", 5: "e"}
	for order, id := range want {
		if final[order] != id {
			t.Errorf("position %d: expected %s, got %s", order, id, final[order])
		}
	}

	// Untouched items get no write.
	for _, p := range pairs {
		if p.ID == "a" || p.ID == "e" {
			t.Errorf("item %s did not move but got a pair", p.ID)
		}
	}
}

func TestPlanMove_NoOp(t *testing.T) {
	t.Parallel()

	items := orderedItems("a", "b", "c")

	pairs, err := planMove(items, "b", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pairs != nil {
		t.Errorf("expected nil pairs for no-op move, got %v", pairs)
	}
}

func TestPlanMove_InvalidOrder(t *testing.T) {
	t.Parallel()

	items := orderedItems("a", "b")

	_, err := planMove(items, "a", 0)
	if !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("expected ErrInvalidOrder, got %v", err)
	}
}

func TestPlanMove_UnknownItem(t *testing.T) {
	t.Parallel()

	items := orderedItems("a", "b")

	_, err := planMove(items, "z", 1)
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestPlanMove_ClampsPastEnd(t *testing.T) {
	t.Parallel()

	items := orderedItems("a", "b", "c")

	pairs, err := planMove(items, "a", 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	final := applyPairs(items, pairs)
	want := map[int]string{1: "b", 2: "c", 3: "a"}
	for order, id := range want {
		if final[order] != id {
			t.Errorf("position %d: expected %s, got %s", order, id, final[order])
		}
	}
}

func TestPlanMove_ResultIsDensePermutation(t *testing.T) {
	t.Parallel()

	items := orderedItems("a", "b", "c", "d", "e", "f")

	for target := 1; target <= len(items); target++ {
		pairs, err := planMove(items, "c", target)
		if err != nil {
			t.Fatalf("target %d: unexpected error: %v", target, err)
		}

		final := applyPairs(items, pairs)
		if len(final) != len(items) {
			t.Fatalf("target %d: expected %d positions, got %d", target, len(items), len(final))
		}
		for order := 1; order <= len(items); order++ {
			if final[order] == "" {
				t.Errorf("target %d: position %d is empty", target, order)
			}
		}
	}
}
