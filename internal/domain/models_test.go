package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

func TestDecodeVariantImages(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{``, 0},
		{`not json`, 0},
		{`["a","b"]`, 0},
		{`{"Red": 1}`, 0},
		{`{"Red":"r.jpg"," Blue ":" b.jpg ","":"x","Black":""}`, 2},
	}
	for _, tc := range cases {
		got := domain.DecodeVariantImages(tc.raw)
		if len(got) != tc.want {
			t.Fatalf("DecodeVariantImages(%q): want %d entries, got %v", tc.raw, tc.want, got)
		}
	}

	m := domain.DecodeVariantImages(`{" Blue ":" b.jpg "}`)
	if img, ok := m.Lookup("Blue"); !ok || img != "b.jpg" {
		t.Fatalf("keys and values should be trimmed, got %v", m)
	}
}

func TestVariantImagesEncode(t *testing.T) {
	if got := domain.VariantImages(nil).Encode(); got != "" {
		t.Fatalf("empty map should encode to empty string, got %q", got)
	}
	v := domain.VariantImages{"Red": "r.jpg"}
	back := domain.DecodeVariantImages(v.Encode())
	if back["Red"] != "r.jpg" || len(back) != 1 {
		t.Fatalf("got %v", back)
	}
}

func TestProductPricing(t *testing.T) {
	p := domain.Product{MRP: decimal.NewFromInt(500), Price: decimal.NewFromInt(400)}
	if !p.HasSpecial() || !p.EffectivePrice().Equal(decimal.NewFromInt(400)) {
		t.Fatalf("want special 400, got %v", p.EffectivePrice())
	}
	p.Price = decimal.NewFromInt(500)
	if p.HasSpecial() || !p.EffectivePrice().Equal(p.MRP) {
		t.Fatal("price equal to mrp is not special")
	}
	p.Price = decimal.Zero
	if p.HasSpecial() {
		t.Fatal("zero price is not special")
	}
}
