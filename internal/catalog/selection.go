package catalog

import (
	"sort"

	"svc-forge/internal/model"
)

// entry pins the product definition at selection time. Authoritative
// pricing is the backend calculation; the pinned price only feeds the
// advisory subtotal.
type entry struct {
	product  model.Product
	quantity int
	seq      int
}

// Selection manages the chosen add-ons for one session. At most one entry
// exists per product id, and entries never hold a non-positive quantity:
// dropping to zero or below removes the entry outright.
type Selection struct {
	catalog model.Catalog
	items   map[string]*entry
	nextSeq int
}

// NewSelection creates an empty selection over the given catalog.
func NewSelection(c model.Catalog) *Selection {
	return &Selection{
		catalog: c,
		items:   make(map[string]*entry),
	}
}

// Toggle adds the product with quantity 1 if it is not selected, resolving
// its definition from the normalized catalog; if already selected it is
// removed entirely.
func (s *Selection) Toggle(productID string) error {
	if _, ok := s.items[productID]; ok {
		delete(s.items, productID)
		return nil
	}

	p, ok := s.catalog.Lookup(productID)
	if !ok {
		return model.ErrProductNotFound
	}

	s.items[productID] = &entry{product: p, quantity: 1, seq: s.nextSeq}
	s.nextSeq++
	return nil
}

// SetQuantity is the sole mutation path for quantity. A non-positive
// quantity removes the entry; a positive quantity updates it, selecting the
// product first when necessary.
func (s *Selection) SetQuantity(productID string, qty int) error {
	if qty <= 0 {
		delete(s.items, productID)
		return nil
	}

	if e, ok := s.items[productID]; ok {
		e.quantity = qty
		return nil
	}

	p, ok := s.catalog.Lookup(productID)
	if !ok {
		return model.ErrProductNotFound
	}
	s.items[productID] = &entry{product: p, quantity: qty, seq: s.nextSeq}
	s.nextSeq++
	return nil
}

// Quantity returns the selected quantity for a product, zero if unselected.
func (s *Selection) Quantity(productID string) int {
	if e, ok := s.items[productID]; ok {
		return e.quantity
	}
	return 0
}

// Len returns the number of selected products.
func (s *Selection) Len() int {
	return len(s.items)
}

// Subtotal sums price times quantity over the selection, using each
// product's price as it was at selection time.
func (s *Selection) Subtotal() float64 {
	var total float64
	for _, e := range s.items {
		total += e.product.Price * float64(e.quantity)
	}
	return total
}

// Items returns the selection in first-selected order.
func (s *Selection) Items() []model.SelectedProduct {
	entries := make([]*entry, 0, len(s.items))
	for _, e := range s.items {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]model.SelectedProduct, len(entries))
	for i, e := range entries {
		out[i] = model.SelectedProduct{ProductID: e.product.ID, Quantity: e.quantity}
	}
	return out
}

// Clear empties the selection, keeping the catalog.
func (s *Selection) Clear() {
	s.items = make(map[string]*entry)
	s.nextSeq = 0
}
