package model

import "encoding/json"

// Step is one stop in the checkout flow. Summary is skipped entirely for
// services that do not require pricing.
type Step string

const (
	StepSummary   Step = "summary"
	StepDetails   Step = "details"
	StepPayment   Step = "payment"
	StepSubmitted Step = "submitted"
)

// Terminal reports whether the flow has completed.
func (s Step) Terminal() bool {
	return s == StepSubmitted
}

// PaymentMethod is the closed set of payment choices recorded on an order.
// The gateway never processes payment; it only records the choice.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentCreditCard     PaymentMethod = "credit_card"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
)

// ParsePaymentMethod validates and converts a wire value.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCashOnDelivery, PaymentCreditCard, PaymentBankTransfer:
		return PaymentMethod(s), nil
	}
	return "", ErrInvalidPayment
}

// CustomerInfo is the contact data collected at the details step.
type CustomerInfo struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// Address is the shape exposed by the external address-management
// collaborator. The gateway neither fetches nor validates addresses; it
// records a chosen one verbatim for the order payload. Both "address_line1"
// and "street" are accepted for the first line, whichever the collaborator
// supplies.
type Address struct {
	ID      string `json:"id"`
	Line1   string `json:"address_line1"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// UnmarshalJSON accepts the collaborator's alternative "street" key for the
// first address line.
func (a *Address) UnmarshalJSON(data []byte) error {
	type alias Address
	aux := struct {
		*alias
		Street string `json:"street"`
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if a.Line1 == "" {
		a.Line1 = aux.Street
	}
	return nil
}

// OrderConfirmation is the terminal success payload of a submission.
// Details are opaque to the gateway and passed through untouched.
type OrderConfirmation struct {
	OrderID string          `json:"orderId"`
	Details json.RawMessage `json:"details,omitempty"`
}
