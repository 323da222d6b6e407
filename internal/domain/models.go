package domain

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	ImageURL  string `db:"image_url" json:"imageUrl,omitempty"`
	CreatedAt string `db:"created_at" json:"-"`
	UpdatedAt string `db:"updated_at" json:"-"`
}

// Product is the normalized catalog record. Quantity is the only source of
// truth for availability; Price is the special price, zero when unset.
type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	CategoryID      string          `json:"categoryId"`
	MRP             decimal.Decimal `json:"mrp"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"quantity"`
	ImageURL        string          `json:"imageUrl"`
	ColorOptionsRaw string          `json:"colorOptions,omitempty"`
	SizeOptionsRaw  string          `json:"sizeOptions,omitempty"`
	VariantImages   VariantImages   `json:"variantImages,omitempty"`
}

// HasSpecial reports whether the special price applies (0 < price < mrp).
func (p Product) HasSpecial() bool {
	return p.Price.IsPositive() && p.Price.LessThan(p.MRP)
}

func (p Product) EffectivePrice() decimal.Decimal {
	if p.HasSpecial() {
		return p.Price
	}
	return p.MRP
}

func (p Product) InStock() bool { return p.Quantity > 0 }

// VariantImages maps a variant name to the image shown when it is selected.
type VariantImages map[string]string

// Encode returns the stored text form. An empty map encodes to "".
func (v VariantImages) Encode() string {
	if len(v) == 0 {
		return ""
	}
	b, err := json.Marshal(map[string]string(v))
	if err != nil {
		return ""
	}
	return string(b)
}

// DecodeVariantImages parses the stored text form. Anything that is not a JSON
// object of strings decodes to nil.
func DecodeVariantImages(raw string) VariantImages {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil
	}
	out := make(VariantImages, len(m))
	for k, v := range m {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Lookup returns the image for variant, if one is set.
func (v VariantImages) Lookup(variant string) (string, bool) {
	if variant == "" || v == nil {
		return "", false
	}
	img, ok := v[variant]
	return img, ok && img != ""
}

// ViewRow is one render-ready product in the catalog grid.
type ViewRow struct {
	ProductID     string          `json:"id"`
	Name          string          `json:"name"`
	CategoryID    string          `json:"categoryId"`
	CategoryName  string          `json:"categoryName"`
	MRP           decimal.Decimal `json:"mrp"`
	SpecialPrice  decimal.Decimal `json:"specialPrice"`
	HasSpecial    bool            `json:"hasSpecial"`
	DisplayPrice  decimal.Decimal `json:"displayPrice"`
	Quantity      int             `json:"quantity"`
	InStock       bool            `json:"inStock"`
	Colors        []string        `json:"colors"`
	Sizes         []string        `json:"sizes"`
	SelectedColor string          `json:"selectedColor,omitempty"`
	SelectedSize  string          `json:"selectedSize,omitempty"`
	DisplayImage  string          `json:"displayImage"`
	CanEdit       bool            `json:"canEdit"`
}

// Availability is the badge text shown next to the price.
func (r ViewRow) Availability() string {
	if r.InStock {
		return "Available (" + strconv.Itoa(r.Quantity) + ")"
	}
	return "Out of Stock"
}

