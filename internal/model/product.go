package model

// Product is a purchasable add-on supplied by the service schema.
// Products are read-only once ingested; the client never mutates them.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	Tag         string  `json:"tag,omitempty"`
}

// ProductGroup is an ordered display grouping of products sharing a tag.
// An empty Tag holds the untagged products.
type ProductGroup struct {
	Tag      string    `json:"tag"`
	Products []Product `json:"products"`
}

// Catalog is the normalized form of the schema's product containers:
// one flat id-keyed map for lookup plus the ordered groups for display.
type Catalog struct {
	ByID   map[string]Product `json:"-"`
	Groups []ProductGroup     `json:"groups,omitempty"`
}

// Lookup returns the product with the given id, if the catalog declares it.
func (c *Catalog) Lookup(id string) (Product, bool) {
	p, ok := c.ByID[id]
	return p, ok
}

// Empty reports whether the catalog declares no products at all.
func (c *Catalog) Empty() bool {
	return len(c.ByID) == 0
}

// SelectedProduct is one chosen add-on with its quantity. Entries with a
// non-positive quantity are never stored; removal is modeled as absence.
type SelectedProduct struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
