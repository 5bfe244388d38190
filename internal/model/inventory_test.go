package model

import (
	"strings"
	"testing"
)

func TestDefaultInventory(t *testing.T) {
	inv := DefaultInventory()
	if len(inv.Treads) != 3 || len(inv.Risers) != 3 {
		t.Fatalf("expected 3 treads and 3 risers, got %d and %d", len(inv.Treads), len(inv.Risers))
	}
	for _, s := range inv.Treads {
		if !s.HasNosing {
			t.Errorf("default tread %q should have nosing", s.Name)
		}
	}
	if v := ValidateInventory(inv); !v.OK() {
		t.Errorf("default inventory should validate, got %v", v.Errors)
	}
}

func TestInventoryCloneIsDeep(t *testing.T) {
	inv := DefaultInventory()
	inv.Risers[0] = inv.Risers[0].WithStock(2)

	clone := inv.Clone()
	clone.Treads[0].Name = "Changed"
	*clone.Risers[0].StockQuantity = 9

	if inv.Treads[0].Name == "Changed" {
		t.Error("clone shares tread slice with original")
	}
	if qty, _ := inv.Risers[0].Stock(); qty != 2 {
		t.Errorf("clone shares stock pointer, original now %d", qty)
	}
	if (PlankInventory{}).Clone().Treads != nil {
		t.Error("clone of nil catalog should stay nil")
	}
}

func TestInventoryCatalogAndFind(t *testing.T) {
	inv := DefaultInventory()
	if len(inv.Catalog(PieceTread)) != len(inv.Treads) || len(inv.Catalog(PieceRiser)) != len(inv.Risers) {
		t.Error("Catalog returned the wrong list")
	}

	id := inv.Risers[2].ID
	found := inv.FindByID(id)
	if found == nil || found.ID != id {
		t.Fatalf("expected to find %s", id)
	}
	found.PricePerPlank = 1
	if inv.Risers[2].PricePerPlank != 1 {
		t.Error("FindByID should return a pointer into the inventory")
	}
	if inv.FindByID("missing") != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestValidateMeasurement(t *testing.T) {
	ok := StepMeasurement{StepNumber: 1, FrontWidth: 900, BackWidth: 910, LeftDepth: 280, CenterDepth: 285, RightDepth: 282, RiserHeight: 180}
	if v := ValidateMeasurement(ok); !v.OK() || len(v.Warnings) != 0 {
		t.Errorf("expected clean measurement, got %+v", v)
	}

	missing := ok
	missing.CenterDepth = 0
	if v := ValidateMeasurement(missing); v.OK() {
		t.Error("expected error for missing center depth")
	}

	odd := StepMeasurement{StepNumber: 2, FrontWidth: 500, BackWidth: 620, LeftDepth: 250, CenterDepth: 300, RightDepth: 260, RiserHeight: 240}
	v := ValidateMeasurement(odd)
	if !v.OK() {
		t.Fatalf("unusual values are warnings, got errors %v", v.Errors)
	}
	for _, want := range []string{"riser height", "difference between front", "depth variation"} {
		found := false
		for _, w := range v.Warnings {
			if strings.Contains(w, want) {
				found = true
			}
		}
		if !found {
			t.Errorf("expected a warning about %q in %v", want, v.Warnings)
		}
	}
}

func TestValidatePlankSpec(t *testing.T) {
	s := NewPlankSpec("Bad", 0, 400, 50, -1).WithStock(-2)
	v := ValidatePlankSpec(s)
	if len(v.Errors) != 3 {
		t.Errorf("expected width, price and stock errors, got %v", v.Errors)
	}
	if len(v.Warnings) != 1 {
		t.Errorf("expected thickness warning, got %v", v.Warnings)
	}
}

func TestValidateInventory(t *testing.T) {
	inv := DefaultInventory()
	for i := range inv.Treads {
		inv.Treads[i].HasNosing = false
	}
	inv.Risers = nil

	v := ValidateInventory(inv)
	if v.OK() {
		t.Error("treads without nosing should be an error")
	}
	if len(v.Warnings) == 0 {
		t.Error("missing risers should be a warning")
	}
}
