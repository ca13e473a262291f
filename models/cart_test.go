package models

import "testing"

func TestCartKeyAndTotal(t *testing.T) {
	cart := Cart{}

	key := CartKey(ItemTypeStage, 3)
	if key != "stage:3" {
		t.Fatalf("key = %q, want stage:3", key)
	}

	cart[key] = CartItem{Type: ItemTypeStage, ID: 3, PriceARS: 1500}
	cart[CartKey(ItemTypeBundle, 1)] = CartItem{Type: ItemTypeBundle, ID: 1, PriceARS: 5000}

	// Re-adding the same item overwrites instead of duplicating.
	cart[key] = CartItem{Type: ItemTypeStage, ID: 3, PriceARS: 1500}

	if len(cart) != 2 {
		t.Fatalf("len = %d, want 2", len(cart))
	}
	if got := cart.TotalARS(); got != 6500 {
		t.Fatalf("total = %v, want 6500", got)
	}
}
