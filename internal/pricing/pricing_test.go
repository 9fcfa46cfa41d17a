package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"zanovi/internal/pricing"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestDeriver_ReferenceThenPercentage(t *testing.T) {
	d, err := pricing.New(dec("50"), pricing.DefaultPolicy())
	if err != nil {
		t.Fatal(err)
	}
	d.SetReferencePrice(dec("100"))
	if err := d.SetPercentage(dec("60")); err != nil {
		t.Fatal(err)
	}
	if got := d.DerivedPrice(); !got.Equal(dec("60.00")) {
		t.Fatalf("want 60.00, got %s", got)
	}
	if d.State() != pricing.Derived {
		t.Fatalf("want Derived, got %s", d.State())
	}
}

func TestDeriver_OverrideDiscardedOnNoOpEdit(t *testing.T) {
	d, _ := pricing.New(dec("60"), pricing.DefaultPolicy())
	d.SetReferencePrice(dec("100"))

	d.SetDerivedPrice(dec("55"))
	if d.State() != pricing.Overridden || !d.DerivedPrice().Equal(dec("55.00")) {
		t.Fatalf("want Overridden/55.00, got %s/%s", d.State(), d.DerivedPrice())
	}

	// Re-setting the same reference value still discards the override.
	d.SetReferencePrice(dec("100"))
	if d.State() != pricing.Derived || !d.DerivedPrice().Equal(dec("60.00")) {
		t.Fatalf("want Derived/60.00, got %s/%s", d.State(), d.DerivedPrice())
	}
}

func TestDeriver_PercentageClamp(t *testing.T) {
	d, _ := pricing.New(dec("60"), pricing.DefaultPolicy())
	d.SetReferencePrice(dec("100"))

	if err := d.SetPercentage(dec("120")); err != pricing.ErrInvalidPercentage {
		t.Fatalf("want ErrInvalidPercentage, got %v", err)
	}
	if err := d.SetPercentage(dec("-1")); err != pricing.ErrInvalidPercentage {
		t.Fatalf("want ErrInvalidPercentage, got %v", err)
	}
	// rejected edits leave the triple untouched
	if !d.DerivedPrice().Equal(dec("60.00")) || !d.Percentage().Equal(dec("60")) {
		t.Fatalf("state changed after rejected edit: %s @ %s", d.DerivedPrice(), d.Percentage())
	}

	if _, err := pricing.New(dec("101"), pricing.DefaultPolicy()); err != pricing.ErrInvalidPercentage {
		t.Fatalf("want ErrInvalidPercentage from New, got %v", err)
	}
}

func TestDeriver_RoundingHalfAwayFromZero(t *testing.T) {
	d, _ := pricing.New(dec("60"), pricing.DefaultPolicy())
	// 33.33 * 60% = 19.998 -> 20.00
	d.SetReferencePrice(dec("33.33"))
	if got := d.DerivedPrice(); !got.Equal(dec("20.00")) {
		t.Fatalf("want 20.00, got %s", got)
	}
	// 0.125 * 50% = 0.0625 -> 0.06; 0.15 * 50% = 0.075 -> 0.08 (half away)
	_ = d.SetPercentage(dec("50"))
	d.SetReferencePrice(dec("0.15"))
	if got := d.DerivedPrice(); !got.Equal(dec("0.08")) {
		t.Fatalf("want 0.08, got %s", got)
	}
}

func TestDeriver_NoDriftOverRepeatedEdits(t *testing.T) {
	d, _ := pricing.New(dec("60"), pricing.DefaultPolicy())
	d.SetReferencePrice(dec("129.99"))
	want := d.DerivedPrice()
	for i := 0; i < 1000; i++ {
		_ = d.SetPercentage(dec("60"))
	}
	if !d.DerivedPrice().Equal(want) {
		t.Fatalf("derived price drifted: %s vs %s", d.DerivedPrice(), want)
	}
}

func TestApplyPercentage_PerItem(t *testing.T) {
	refs := []decimal.Decimal{dec("100"), dec("349.50"), dec("0")}
	got, err := pricing.ApplyPercentage(refs, dec("60"), pricing.DefaultPolicy())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"60.00", "209.70", "0.00"}
	for i := range got {
		if !got[i].Equal(dec(want[i])) {
			t.Fatalf("item %d: want %s, got %s", i, want[i], got[i])
		}
	}

	if _, err := pricing.ApplyPercentage(refs, dec("150"), pricing.DefaultPolicy()); err != pricing.ErrInvalidPercentage {
		t.Fatalf("want ErrInvalidPercentage, got %v", err)
	}
}
