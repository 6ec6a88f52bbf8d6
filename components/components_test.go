package components

import "testing"

func TestInventory_AddRespectsCapacity(t *testing.T) {
	var inv Inventory
	if got := inv.Add(2, 7, 10); got != 7 {
		t.Errorf("first add accepted %d, want 7", got)
	}
	if got := inv.Add(2, 7, 10); got != 3 {
		t.Errorf("second add accepted %d, want 3", got)
	}
	if got := inv.Add(2, 1, 10); got != 0 {
		t.Errorf("full add accepted %d, want 0", got)
	}
	if inv.Get(2) != 10 || inv.Total() != 10 {
		t.Errorf("inventory = %v, want 10 of item 2", inv.Counts)
	}
}

func TestInventory_RemoveClamps(t *testing.T) {
	var inv Inventory
	inv.Add(1, 3, 10)
	if got := inv.Remove(1, 5); got != 3 {
		t.Errorf("removed %d, want 3", got)
	}
	if inv.Has(1, 1) {
		t.Error("inventory should be empty")
	}
}

func TestTank_AddRemove(t *testing.T) {
	var tank Tank
	if got := tank.Add(0, 8, 5); got != 5 {
		t.Errorf("accepted %v, want 5", got)
	}
	tank.Remove(0, 7)
	if tank.Get(0) != 0 {
		t.Errorf("tank = %v, want clamped to 0", tank.Get(0))
	}
}

func TestSupply_TakeItemsAccumulates(t *testing.T) {
	s := Supply{Item: 0, ItemRate: 0.25, Liquid: NoSupply}
	var total int32
	for i := 0; i < 8; i++ {
		total += s.TakeItems(1)
	}
	if total != 2 {
		t.Errorf("took %d items over 8 ticks, want 2", total)
	}

	none := Supply{Item: NoSupply, ItemRate: 5}
	if none.TakeItems(1) != 0 {
		t.Error("unused supply slot should yield nothing")
	}
}

func TestSupply_DrainIndependentOfFeed(t *testing.T) {
	s := Supply{Item: NoSupply, Liquid: NoSupply, Drain: 3, DrainRate: 0.5}
	if got := s.TakeItems(4); got != 0 {
		t.Errorf("feed yielded %d items with no item slot", got)
	}
	if got := s.TakeDrain(4); got != 2 {
		t.Errorf("drain over 4 ticks = %d, want 2", got)
	}
}

func TestTilePosition(t *testing.T) {
	odd := TilePosition(3, 4, 1)
	if odd.X != 24 || odd.Y != 32 {
		t.Errorf("odd size position = %+v", odd)
	}
	even := TilePosition(3, 4, 2)
	if even.X != 28 || even.Y != 36 {
		t.Errorf("even size position = %+v", even)
	}
	if d := odd.DistSq(even); d != 32 {
		t.Errorf("DistSq = %v, want 32", d)
	}
}
