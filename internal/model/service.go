package model

// ServiceSchema is the normalized description of one configurable service:
// its input fields, its add-on catalog, and whether a price calculation is
// required before checkout.
type ServiceSchema struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	BasePrice       float64 `json:"basePrice"`
	RequiresPricing bool    `json:"requiresPricing"`
	Fields          []Field `json:"fields"`
	Catalog         Catalog `json:"catalog"`
}

// FieldByID returns the declared field with the given id, or nil.
func (s *ServiceSchema) FieldByID(id string) *Field {
	for i := range s.Fields {
		if s.Fields[i].ID == id {
			return &s.Fields[i]
		}
	}
	return nil
}
