package export

import (
	"io"
	"strings"

	"github.com/tealeg/xlsx"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var productHeaders = []string{
	"ID", "Name", "Category", "MRP", "SpecialPrice", "EffectivePrice",
	"Quantity", "Availability", "Colors", "Sizes", "Image", "VariantImages",
}

// ProductsXLSX writes one sheet with a row per product, in the order given.
func ProductsXLSX(w io.Writer, products []domain.Product, categories []domain.Category) error {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}

	header := sheet.AddRow()
	for _, h := range productHeaders {
		header.AddCell().SetString(h)
	}

	for _, p := range products {
		catName, ok := names[p.CategoryID]
		if !ok {
			catName = catalog.UnknownCategory
		}
		special := ""
		if p.HasSpecial() {
			special = p.Price.String()
		}
		availability := "Out of Stock"
		if p.InStock() {
			availability = "Available"
		}

		row := sheet.AddRow()
		row.AddCell().SetString(p.ID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(catName)
		row.AddCell().SetString(p.MRP.String())
		row.AddCell().SetString(special)
		row.AddCell().SetString(p.EffectivePrice().String())
		row.AddCell().SetInt(p.Quantity)
		row.AddCell().SetString(availability)
		row.AddCell().SetString(strings.Join(catalog.ParseOptions(p.ColorOptionsRaw), ", "))
		row.AddCell().SetString(strings.Join(catalog.ParseOptions(p.SizeOptionsRaw), ", "))
		row.AddCell().SetString(p.ImageURL)
		row.AddCell().SetInt(len(p.VariantImages))
	}

	return file.Write(w)
}
