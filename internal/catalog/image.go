package catalog

import (
	"net/url"
	"strings"

	"storefront/internal/domain"
)

const placeholderBase = "https://dummyimage.com/"

// ResolveDisplayImage picks the image for p given the selected variant: the
// variant's own image when one is set, otherwise the product's default image.
// The result may be empty; see ThumbnailImage.
func ResolveDisplayImage(p domain.Product, variant string) string {
	if img, ok := p.VariantImages.Lookup(variant); ok {
		return img
	}
	return p.ImageURL
}

// ThumbnailImage is ResolveDisplayImage with a placeholder substituted for an
// empty address. Stored data is never touched.
func ThumbnailImage(p domain.Product, variant string) string {
	if img := ResolveDisplayImage(p, variant); img != "" {
		return img
	}
	return PlaceholderImage(p.Name)
}

// PlaceholderImage is a deterministic square placeholder labelled with name.
func PlaceholderImage(name string) string {
	return placeholder("600x600", name)
}

// CategoryPlaceholder is the wide placeholder used on the category grid.
func CategoryPlaceholder(name string) string {
	return placeholder("600x400", name)
}

func placeholder(size, label string) string {
	text := strings.ReplaceAll(url.QueryEscape(label), "+", "%20")
	return placeholderBase + size + "/f3f4f6/555&text=" + text
}
