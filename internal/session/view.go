package session

import (
	"svc-forge/internal/model"
	"svc-forge/internal/schema"
)

// View is the session snapshot returned to the UI: everything it needs to
// render the builder and the checkout without further lookups.
type View struct {
	ID            string                   `json:"id"`
	Service       ServiceView              `json:"service"`
	Values        map[string]ValueView     `json:"values"`
	Products      []model.SelectedProduct  `json:"products"`
	Subtotal      float64                  `json:"productsSubtotal"`
	Valid         bool                     `json:"valid"`
	MissingFields []string                 `json:"missingFields,omitempty"`
	Calculation   *model.CalculationResult `json:"calculation,omitempty"`
	Checkout      *CheckoutView            `json:"checkout,omitempty"`
}

// ServiceView is the schema as the UI renders it.
type ServiceView struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	BasePrice       float64              `json:"basePrice"`
	RequiresPricing bool                 `json:"requiresPricing"`
	Fields          []model.Field        `json:"fields"`
	ProductGroups   []model.ProductGroup `json:"productGroups,omitempty"`
}

// ValueView is one field value in snapshot form.
type ValueView struct {
	Kind      model.ValueKind `json:"kind"`
	Text      string          `json:"text,omitempty"`
	OptionID  *string         `json:"optionId,omitempty"`
	OptionIDs []string        `json:"optionIds,omitempty"`
	File      *model.FileRef  `json:"file,omitempty"`
}

// CheckoutView is the open booking flow in snapshot form.
type CheckoutView struct {
	Step          model.Step               `json:"step"`
	Customer      model.CustomerInfo       `json:"customer"`
	Address       *model.Address           `json:"address,omitempty"`
	PaymentMethod model.PaymentMethod      `json:"paymentMethod,omitempty"`
	Notes         string                   `json:"notes,omitempty"`
	Confirmation  *model.OrderConfirmation `json:"confirmation,omitempty"`
}

// Snapshot assembles a consistent view of the whole session state.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	valid, missing := schema.Validate(s.svc, s.values)

	v := View{
		ID: s.id.String(),
		Service: ServiceView{
			ID:              s.svc.ID,
			Name:            s.svc.Name,
			BasePrice:       s.svc.BasePrice,
			RequiresPricing: s.svc.RequiresPricing,
			Fields:          s.svc.Fields,
			ProductGroups:   s.svc.Catalog.Groups,
		},
		Values:        make(map[string]ValueView, s.values.Len()),
		Products:      s.selection.Items(),
		Subtotal:      s.selection.Subtotal(),
		Valid:         valid,
		MissingFields: missing,
		Calculation:   s.calc,
	}

	for i := range s.svc.Fields {
		f := &s.svc.Fields[i]
		val, ok := s.values.Get(f.ID)
		if !ok {
			continue
		}
		vv := ValueView{Kind: val.Kind, Text: val.Text, OptionID: val.OptionID, File: val.File}
		if val.Kind == model.ValueOptions {
			vv.OptionIDs = val.SelectedOptions()
		}
		v.Values[f.ID] = vv
	}

	if s.machine != nil {
		v.Checkout = &CheckoutView{
			Step:          s.machine.Step(),
			Customer:      s.machine.Customer(),
			Address:       s.machine.Address(),
			PaymentMethod: s.machine.PaymentMethod(),
			Notes:         s.machine.Notes(),
			Confirmation:  s.machine.Confirmation(),
		}
	}

	return v
}
