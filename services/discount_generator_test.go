package services

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

func TestDiscountGeneratorReplay(t *testing.T) {
	a := NewDiscountGenerator(rand.New(rand.NewSource(42)))
	b := NewDiscountGenerator(rand.New(rand.NewSource(42)))
	for i := 0; i < 50; i++ {
		da, db := a.Generate("venue"), b.Generate("venue")
		if !reflect.DeepEqual(da, db) {
			t.Fatalf("draw %d differs: %+v vs %+v", i, da, db)
		}
	}
}

func TestDiscountGeneratorFields(t *testing.T) {
	g := NewDiscountGenerator(rand.New(rand.NewSource(7)))
	for i := 0; i < 200; i++ {
		d := g.Generate("place_1")
		if d.ID != "discount_place_1" || d.VenueID != "place_1" {
			t.Fatalf("ids = %q/%q", d.ID, d.VenueID)
		}
		if d.PercentageOff < 1 || d.PercentageOff > 100 {
			t.Fatalf("PercentageOff = %d", d.PercentageOff)
		}
		if d.Title == "" || d.Description == "" {
			t.Fatalf("empty template fields: %+v", d)
		}
		if len(d.ValidFrom) != 5 || len(d.ValidTo) != 5 || !strings.Contains(d.ValidFrom, ":") {
			t.Fatalf("window = %q-%q", d.ValidFrom, d.ValidTo)
		}
		if d.ValidFrom >= d.ValidTo {
			t.Fatalf("window %q-%q is not ordered", d.ValidFrom, d.ValidTo)
		}
	}
}

func TestDiscountGeneratorActiveRate(t *testing.T) {
	g := NewDiscountGenerator(rand.New(rand.NewSource(1)))
	const draws = 10000
	active := 0
	for i := 0; i < draws; i++ {
		if g.Generate("v").IsActive {
			active++
		}
	}
	rate := float64(active) / draws
	if rate < 0.83 || rate > 0.87 {
		t.Fatalf("active rate = %.3f, want about %.2f", rate, discountActiveRate)
	}
}
