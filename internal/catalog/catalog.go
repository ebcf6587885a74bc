// Package catalog normalizes the service schema's product containers and
// tracks the user's add-on selection.
package catalog

import "svc-forge/internal/model"

// Normalize folds the three differently-shaped product containers a schema
// may populate (plain list, tag-grouped list, untagged list) into one flat
// id-keyed map plus ordered display groups, so downstream lookup is O(1)
// and shape-independent. The first occurrence of a product id wins;
// duplicates across containers are dropped.
func Normalize(plain []model.Product, tagged []model.ProductGroup, untagged []model.Product) model.Catalog {
	c := model.Catalog{ByID: make(map[string]model.Product)}

	add := func(p model.Product, tag string) bool {
		if _, ok := c.ByID[p.ID]; ok {
			return false
		}
		if p.Tag == "" {
			p.Tag = tag
		}
		c.ByID[p.ID] = p
		return true
	}

	for _, g := range tagged {
		group := model.ProductGroup{Tag: g.Tag}
		for _, p := range g.Products {
			if add(p, g.Tag) {
				group.Products = append(group.Products, c.ByID[p.ID])
			}
		}
		if len(group.Products) > 0 {
			c.Groups = append(c.Groups, group)
		}
	}

	// Plain and untagged products land in a single tagless display group.
	var rest model.ProductGroup
	for _, p := range append(append([]model.Product{}, untagged...), plain...) {
		if add(p, "") {
			rest.Products = append(rest.Products, c.ByID[p.ID])
		}
	}
	if len(rest.Products) > 0 {
		c.Groups = append(c.Groups, rest)
	}

	return c
}
