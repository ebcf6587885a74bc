package model

// FieldAdjustment is one priced field contribution in a calculation.
type FieldAdjustment struct {
	FieldID string  `json:"fieldId"`
	Label   string  `json:"label,omitempty"`
	Amount  float64 `json:"amount"`
}

// ProductLine is one priced add-on line in a calculation.
type ProductLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

// CalculationResult is the backend-computed price breakdown for one
// configuration. It is an opaque snapshot: a later recalculation replaces
// it wholesale, nothing is ever merged or patched in place.
type CalculationResult struct {
	ServiceID        string            `json:"serviceId"`
	BasePrice        float64           `json:"basePrice"`
	FieldAdjustments []FieldAdjustment `json:"fieldAdjustments,omitempty"`
	AdjustmentsTotal float64           `json:"adjustmentsTotal"`
	Products         []ProductLine     `json:"products,omitempty"`
	ProductsPrice    float64           `json:"productsPrice"`
	Total            float64           `json:"total"`
}
