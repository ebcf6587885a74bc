// Package booking drives the checkout flow: a three-step state machine
// (summary, details, payment) that carries the price calculation and the
// collected customer data forward to order submission.
package booking

import (
	validatorv10 "github.com/go-playground/validator/v10"

	"svc-forge/internal/model"
	"svc-forge/internal/validation"
)

// Machine is one checkout in progress. It is created when the user starts
// checkout and discarded in full when the flow is abandoned; a closed
// checkout is never resumable. Backward navigation is non-destructive:
// customer info, address, payment method and notes survive until the
// machine itself is dropped.
type Machine struct {
	step            model.Step
	requiresPricing bool
	calc            *model.CalculationResult
	customer        model.CustomerInfo
	address         *model.Address
	payment         model.PaymentMethod
	notes           string
	confirmation    *model.OrderConfirmation
	validate        *validatorv10.Validate
}

// New starts a checkout. Services that require pricing must supply the
// calculation result and enter at the summary step; services that do not
// have nothing to summarize and enter directly at details.
func New(calc *model.CalculationResult, requiresPricing bool, v *validatorv10.Validate) (*Machine, error) {
	if requiresPricing && calc == nil {
		return nil, model.ErrNoCalculation
	}

	step := model.StepSummary
	if !requiresPricing {
		step = model.StepDetails
	}

	return &Machine{
		step:            step,
		requiresPricing: requiresPricing,
		calc:            calc,
		validate:        v,
	}, nil
}

// Step returns the current step.
func (m *Machine) Step() model.Step {
	return m.step
}

// Calculation returns the carried price breakdown, nil when bypassed.
func (m *Machine) Calculation() *model.CalculationResult {
	return m.calc
}

// Customer returns the collected contact data.
func (m *Machine) Customer() model.CustomerInfo {
	return m.customer
}

// Address returns the chosen address, nil when none was selected.
func (m *Machine) Address() *model.Address {
	return m.address
}

// PaymentMethod returns the recorded payment choice, empty until chosen.
func (m *Machine) PaymentMethod() model.PaymentMethod {
	return m.payment
}

// Notes returns the optional order notes.
func (m *Machine) Notes() string {
	return m.notes
}

// Confirmation returns the terminal submission result, nil before success.
func (m *Machine) Confirmation() *model.OrderConfirmation {
	return m.confirmation
}

// SetCustomerInfo overwrites the contact data. Allowed at any step before
// the flow terminates; gating happens on Next, not on entry.
func (m *Machine) SetCustomerInfo(info model.CustomerInfo) error {
	if m.step.Terminal() {
		return model.NewDomainError(model.ErrCodeStepGate, "checkout already completed")
	}
	m.customer = info
	return nil
}

// SetAddress records the externally chosen address. Address selection is
// optional; a nil address clears the choice and booking may proceed
// without one.
func (m *Machine) SetAddress(addr *model.Address) error {
	if m.step.Terminal() {
		return model.NewDomainError(model.ErrCodeStepGate, "checkout already completed")
	}
	m.address = addr
	return nil
}

// SetPaymentMethod records the payment choice.
func (m *Machine) SetPaymentMethod(pm model.PaymentMethod) error {
	if m.step.Terminal() {
		return model.NewDomainError(model.ErrCodeStepGate, "checkout already completed")
	}
	m.payment = pm
	return nil
}

// SetNotes records the optional order notes.
func (m *Machine) SetNotes(notes string) error {
	if m.step.Terminal() {
		return model.NewDomainError(model.ErrCodeStepGate, "checkout already completed")
	}
	m.notes = notes
	return nil
}

// Next advances one step. Summary to details is unconditional (a
// calculation exists or was bypassed). Details to payment requires name,
// phone and email; failures come back as a *model.ValidationError keyed by
// contact field. Payment has no Next: only a successful submission leaves
// it.
func (m *Machine) Next() error {
	switch m.step {
	case model.StepSummary:
		m.step = model.StepDetails
		return nil

	case model.StepDetails:
		if fields := validation.Contact(m.validate, m.customer); fields != nil {
			return model.NewValidationError("contact details are incomplete", fields)
		}
		m.step = model.StepPayment
		return nil

	case model.StepPayment:
		return model.NewDomainError(model.ErrCodeStepGate, "payment step completes via order submission")
	}

	return model.NewDomainError(model.ErrCodeStepGate, "checkout already completed")
}

// Back moves one step backward without losing any entered values. The
// first step of the flow (summary, or details when pricing is bypassed) is
// the floor.
func (m *Machine) Back() error {
	switch m.step {
	case model.StepPayment:
		m.step = model.StepDetails
		return nil

	case model.StepDetails:
		if !m.requiresPricing {
			return model.NewDomainError(model.ErrCodeStepGate, "already at the first step")
		}
		m.step = model.StepSummary
		return nil
	}

	return model.NewDomainError(model.ErrCodeStepGate, "cannot move backward from this step")
}

// ReadyToSubmit reports whether a submission may be attempted: the flow
// must sit at payment with a payment method recorded.
func (m *Machine) ReadyToSubmit() error {
	if m.step != model.StepPayment {
		return model.NewDomainError(model.ErrCodeStepGate, "submission is only available at the payment step")
	}
	if m.payment == "" {
		return model.ErrInvalidPayment
	}
	return nil
}

// CompleteSubmission records the terminal success. A failed submission
// never reaches this: the machine simply stays at payment for a retry.
func (m *Machine) CompleteSubmission(conf *model.OrderConfirmation) error {
	if err := m.ReadyToSubmit(); err != nil {
		return err
	}
	m.confirmation = conf
	m.step = model.StepSubmitted
	return nil
}
