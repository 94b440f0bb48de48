package dto

import "repair-desk/internal/catalog"

type CatalogItemDTO struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	HasPrice bool   `json:"hasPrice"`
}

type CatalogCategoryDTO struct {
	Category catalog.Category `json:"category"`
	Items    []CatalogItemDTO `json:"items"`
}

func NewCatalogDTO() []CatalogCategoryDTO {
	out := make([]CatalogCategoryDTO, 0, len(catalog.Categories))
	for _, category := range catalog.Categories {
		group := CatalogCategoryDTO{Category: category, Items: []CatalogItemDTO{}}
		for _, item := range catalog.ItemsByCategory(category) {
			group.Items = append(group.Items, CatalogItemDTO{
				Name:     item.Name,
				Price:    catalog.FormatPrice(item),
				HasPrice: item.HasPrice(),
			})
		}
		out = append(out, group)
	}
	return out
}

// RequestFormDTO describes the service request form.
type RequestFormDTO struct {
	Catalog        []CatalogCategoryDTO `json:"catalog"`
	ContactMethods []string             `json:"contactMethods"`
	Platforms      []string             `json:"platforms"`
}

func NewRequestFormDTO() RequestFormDTO {
	return RequestFormDTO{
		Catalog:        NewCatalogDTO(),
		ContactMethods: ContactMethods,
		Platforms:      Platforms,
	}
}
