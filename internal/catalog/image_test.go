package catalog_test

import (
	"strings"
	"testing"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

func TestResolveDisplayImage(t *testing.T) {
	p := domain.Product{ID: "p1", ImageURL: "D", VariantImages: domain.VariantImages{"Red": "R"}}

	if got := catalog.ResolveDisplayImage(p, "Red"); got != "R" {
		t.Fatalf("variant Red: want R, got %q", got)
	}
	if got := catalog.ResolveDisplayImage(p, "Blue"); got != "D" {
		t.Fatalf("variant Blue: want D, got %q", got)
	}
	if got := catalog.ResolveDisplayImage(p, ""); got != "D" {
		t.Fatalf("no selection: want D, got %q", got)
	}
	// match is exact
	if got := catalog.ResolveDisplayImage(p, "red"); got != "D" {
		t.Fatalf("variant red: want D, got %q", got)
	}
}

func TestResolveDisplayImageMalformedVariantMap(t *testing.T) {
	p := domain.Product{
		ImageURL:      "D",
		VariantImages: domain.DecodeVariantImages(`{"Red": 5`),
	}
	if got := catalog.ResolveDisplayImage(p, "Red"); got != "D" {
		t.Fatalf("want fallback D, got %q", got)
	}
}

func TestThumbnailImagePlaceholder(t *testing.T) {
	p := domain.Product{Name: "Cotton Nighty & Co"}
	got := catalog.ThumbnailImage(p, "")
	want := "https://dummyimage.com/600x600/f3f4f6/555&text=Cotton%20Nighty%20%26%20Co"
	if got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
	if got != catalog.PlaceholderImage(p.Name) {
		t.Fatal("placeholder is not deterministic")
	}
	if p.ImageURL != "" {
		t.Fatal("product mutated")
	}
	if !strings.Contains(catalog.CategoryPlaceholder("Blouse"), "600x400") {
		t.Fatal("category placeholder size")
	}
}
