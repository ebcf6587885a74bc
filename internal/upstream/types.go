package upstream

import (
	"encoding/json"

	"svc-forge/internal/model"
	"svc-forge/internal/schema"
)

// Wire shapes of the marketplace backend. Field names follow the backend's
// snake_case contract; everything is converted to the normalized internal
// models at the client boundary.

type optionDTO struct {
	ID            string  `json:"id"`
	Label         string  `json:"label"`
	PriceModifier float64 `json:"price_modifier"`
	Image         string  `json:"image,omitempty"`
	IsDefault     bool    `json:"is_default,omitempty"`
}

type fieldDTO struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Label       string      `json:"label"`
	Description string      `json:"description,omitempty"`
	Required    bool        `json:"required"`
	MinValue    *float64    `json:"min_value,omitempty"`
	MaxValue    *float64    `json:"max_value,omitempty"`
	Step        *float64    `json:"step,omitempty"`
	Unit        string      `json:"unit,omitempty"`
	Options     []optionDTO `json:"options,omitempty"`
}

type productDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	Tag         string  `json:"tag,omitempty"`
}

type tagGroupDTO struct {
	Tag      string       `json:"tag"`
	Products []productDTO `json:"products"`
}

// serviceResponse is the schema payload. A service may populate any of the
// three product containers; absence of requires_pricing means pricing is
// required.
type serviceResponse struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	BasePrice           float64      `json:"base_price"`
	RequiresPricing     *bool        `json:"requires_pricing,omitempty"`
	Fields              []fieldDTO   `json:"fields"`
	Products            []productDTO `json:"products,omitempty"`
	ProductsByTag       []tagGroupDTO `json:"products_by_tag,omitempty"`
	ProductsWithoutTags []productDTO `json:"products_without_tags,omitempty"`
}

// productRef is a selected product on the wire.
type productRef struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type calculationRequest struct {
	ServiceID   string              `json:"service_id"`
	FieldValues []schema.FieldEntry `json:"field_values"`
	Products    []productRef        `json:"products"`
}

type adjustmentDTO struct {
	FieldID string  `json:"field_id"`
	Label   string  `json:"label,omitempty"`
	Amount  float64 `json:"amount"`
}

type productLineDTO struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type calculationResponse struct {
	BasePrice        float64          `json:"base_price"`
	FieldAdjustments []adjustmentDTO  `json:"field_adjustments,omitempty"`
	AdjustmentsTotal float64          `json:"adjustments_total"`
	Products         []productLineDTO `json:"products,omitempty"`
	ProductsPrice    float64          `json:"products_price"`
	Total            float64          `json:"total"`
}

type shippingAddressDTO struct {
	ID    string `json:"id,omitempty"`
	Line1 string `json:"address_line1"`
	City  string `json:"city"`
	State string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type orderRequest struct {
	ServiceID       string                   `json:"service_id"`
	CustomerName    string                   `json:"customer_name"`
	CustomerEmail   string                   `json:"customer_email"`
	CustomerPhone   string                   `json:"customer_phone"`
	FieldValues     []schema.OrderFieldEntry `json:"field_values"`
	Products        []productRef             `json:"products"`
	Notes           string                   `json:"notes,omitempty"`
	PaymentMethod   string                   `json:"payment_method"`
	ShippingAddress *shippingAddressDTO      `json:"shipping_address,omitempty"`
}

type orderResponse struct {
	OrderID      string          `json:"order_id"`
	OrderDetails json.RawMessage `json:"order_details,omitempty"`
}

// apiError is the backend failure shape: a message, optionally with
// field-scoped validation errors keyed by the backend's field names.
type apiError struct {
	Message string            `json:"message"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *apiError) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// CalculationInput carries the form state a pricing call is built from.
type CalculationInput struct {
	ServiceID   string
	FieldValues []schema.FieldEntry
	Products    []model.SelectedProduct
}

// OrderInput carries everything an order submission is built from. A nil
// Address omits the shipping_address block from the payload entirely.
type OrderInput struct {
	ServiceID     string
	Customer      model.CustomerInfo
	FieldValues   []schema.OrderFieldEntry
	Products      []model.SelectedProduct
	Notes         string
	PaymentMethod model.PaymentMethod
	Address       *model.Address
}

func toProductRefs(selected []model.SelectedProduct) []productRef {
	refs := make([]productRef, len(selected))
	for i, sp := range selected {
		refs[i] = productRef{ProductID: sp.ProductID, Quantity: sp.Quantity}
	}
	return refs
}
