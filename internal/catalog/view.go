package catalog

import (
	"sort"
	"strings"

	"storefront/internal/domain"
)

// UnknownCategory labels products whose category no longer exists.
const UnknownCategory = "Category"

type SortMode string

const (
	SortNone              SortMode = "none"
	SortPriceAscending    SortMode = "priceAscending"
	SortPriceDescending   SortMode = "priceDescending"
	SortAvailabilityFirst SortMode = "availabilityFirst"
)

// ParseSortMode also accepts the short names used by the storefront's sort
// dropdown. Unknown values fall back to SortNone.
func ParseSortMode(s string) SortMode {
	switch strings.TrimSpace(s) {
	case "priceAscending", "priceAsc":
		return SortPriceAscending
	case "priceDescending", "priceDesc":
		return SortPriceDescending
	case "availabilityFirst", "available":
		return SortAvailabilityFirst
	}
	return SortNone
}

// Gate reports whether the viewing session may see admin controls.
type Gate interface {
	IsAdmin() bool
}

// Query is the shopper's current filter. An empty CategoryID means all
// categories; an empty Search keeps everything. Search is matched as given,
// surrounding spaces included.
type Query struct {
	CategoryID string
	Search     string
	Sort       SortMode
}

// BuildView filters, sorts and projects products into render-ready rows.
// sel and gate may be nil.
func BuildView(products []domain.Product, categories []domain.Category, q Query, sel *SelectionState, gate Gate) []domain.ViewRow {
	list := make([]domain.Product, 0, len(products))
	term := strings.ToLower(q.Search)
	for _, p := range products {
		if q.CategoryID != "" && p.CategoryID != q.CategoryID {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		list = append(list, p)
	}

	sortProducts(list, q.Sort)

	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	canEdit := gate != nil && gate.IsAdmin()

	rows := make([]domain.ViewRow, 0, len(list))
	for _, p := range list {
		rows = append(rows, project(p, names, sel, canEdit))
	}
	return rows
}

func sortProducts(list []domain.Product, mode SortMode) {
	switch mode {
	case SortPriceAscending:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].EffectivePrice().LessThan(list[j].EffectivePrice())
		})
	case SortPriceDescending:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].EffectivePrice().GreaterThan(list[j].EffectivePrice())
		})
	case SortAvailabilityFirst:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].InStock() && !list[j].InStock()
		})
	}
}

func project(p domain.Product, categoryNames map[string]string, sel *SelectionState, canEdit bool) domain.ViewRow {
	catName, ok := categoryNames[p.CategoryID]
	if !ok || catName == "" {
		catName = UnknownCategory
	}

	row := domain.ViewRow{
		ProductID:    p.ID,
		Name:         p.Name,
		CategoryID:   p.CategoryID,
		CategoryName: catName,
		MRP:          p.MRP,
		SpecialPrice: p.Price,
		HasSpecial:   p.HasSpecial(),
		DisplayPrice: p.EffectivePrice(),
		Quantity:     p.Quantity,
		InStock:      p.InStock(),
		Colors:       ParseOptions(p.ColorOptionsRaw),
		Sizes:        ParseOptions(p.SizeOptionsRaw),
		CanEdit:      canEdit,
	}

	img := ResolveDisplayImage(p, "")
	if sel != nil {
		img = sel.DisplayImage(p)
		if s, ok := sel.Get(p.ID); ok {
			row.SelectedColor = s.Color
			row.SelectedSize = s.Size
		}
	}
	if img == "" {
		img = PlaceholderImage(p.Name)
	}
	row.DisplayImage = img
	return row
}
