package booking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svc-forge/internal/model"
	"svc-forge/internal/validation"
)

func testCalc() *model.CalculationResult {
	return &model.CalculationResult{
		ServiceID: "svc-1",
		BasePrice: 50,
		Total:     75,
	}
}

func validCustomer() model.CustomerInfo {
	return model.CustomerInfo{
		Name:  "Priya Sharma",
		Phone: "+61 400 000 000",
		Email: "priya@example.com",
	}
}

func TestNew_RequiresCalculationWhenPriced(t *testing.T) {
	v := validation.New()

	_, err := New(nil, true, v)
	assert.ErrorIs(t, err, model.ErrNoCalculation)

	m, err := New(testCalc(), true, v)
	require.NoError(t, err)
	assert.Equal(t, model.StepSummary, m.Step())
	assert.NotNil(t, m.Calculation())
}

func TestNew_BypassesSummaryWithoutPricing(t *testing.T) {
	m, err := New(nil, false, validation.New())
	require.NoError(t, err)
	assert.Equal(t, model.StepDetails, m.Step())
	assert.Nil(t, m.Calculation())
}

func TestMachine_FullFlow(t *testing.T) {
	m, err := New(testCalc(), true, validation.New())
	require.NoError(t, err)

	require.NoError(t, m.Next())
	assert.Equal(t, model.StepDetails, m.Step())

	require.NoError(t, m.SetCustomerInfo(validCustomer()))
	require.NoError(t, m.SetPaymentMethod(model.PaymentCashOnDelivery))
	require.NoError(t, m.SetNotes("leave at side gate"))

	require.NoError(t, m.Next())
	assert.Equal(t, model.StepPayment, m.Step())

	require.NoError(t, m.ReadyToSubmit())
	conf := &model.OrderConfirmation{OrderID: "ord-42"}
	require.NoError(t, m.CompleteSubmission(conf))

	assert.Equal(t, model.StepSubmitted, m.Step())
	assert.True(t, m.Step().Terminal())
	assert.Equal(t, conf, m.Confirmation())
}

func TestMachine_DetailsGateOnContact(t *testing.T) {
	tests := []struct {
		name       string
		customer   model.CustomerInfo
		wantFields []string
	}{
		{
			name:       "all contact fields missing",
			customer:   model.CustomerInfo{},
			wantFields: []string{"name", "phone", "email"},
		},
		{
			name:       "malformed email",
			customer:   model.CustomerInfo{Name: "A", Phone: "1", Email: "not-an-email"},
			wantFields: []string{"email"},
		},
		{
			name:       "missing phone only",
			customer:   model.CustomerInfo{Name: "A", Email: "a@example.com"},
			wantFields: []string{"phone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(testCalc(), true, validation.New())
			require.NoError(t, err)
			require.NoError(t, m.Next())
			require.NoError(t, m.SetCustomerInfo(tt.customer))

			err = m.Next()
			var ve *model.ValidationError
			require.True(t, errors.As(err, &ve))
			for _, f := range tt.wantFields {
				assert.Contains(t, ve.Fields, f)
			}
			assert.Len(t, ve.Fields, len(tt.wantFields))
			assert.Equal(t, model.StepDetails, m.Step())
		})
	}
}

func TestMachine_BackIsNonDestructive(t *testing.T) {
	m, err := New(testCalc(), true, validation.New())
	require.NoError(t, err)

	require.NoError(t, m.Next())
	require.NoError(t, m.SetCustomerInfo(validCustomer()))
	require.NoError(t, m.SetPaymentMethod(model.PaymentCreditCard))
	require.NoError(t, m.Next())
	require.Equal(t, model.StepPayment, m.Step())

	require.NoError(t, m.Back())
	require.NoError(t, m.Back())
	assert.Equal(t, model.StepSummary, m.Step())

	// Everything entered on the way forward is still there
	assert.Equal(t, validCustomer(), m.Customer())
	assert.Equal(t, model.PaymentCreditCard, m.PaymentMethod())

	// And forward movement needs no re-entry
	require.NoError(t, m.Next())
	require.NoError(t, m.Next())
	assert.Equal(t, model.StepPayment, m.Step())
}

func TestMachine_BackFloors(t *testing.T) {
	m, err := New(testCalc(), true, validation.New())
	require.NoError(t, err)

	err = m.Back()
	var de *model.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, model.ErrCodeStepGate, de.Code)

	// Without pricing the details step is the floor
	m, err = New(nil, false, validation.New())
	require.NoError(t, err)
	err = m.Back()
	require.True(t, errors.As(err, &de))
	assert.Equal(t, model.ErrCodeStepGate, de.Code)
}

func TestMachine_NextBlockedAtPayment(t *testing.T) {
	m, err := New(nil, false, validation.New())
	require.NoError(t, err)
	require.NoError(t, m.SetCustomerInfo(validCustomer()))
	require.NoError(t, m.Next())

	err = m.Next()
	var de *model.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, model.ErrCodeStepGate, de.Code)
}

func TestMachine_ReadyToSubmit(t *testing.T) {
	m, err := New(nil, false, validation.New())
	require.NoError(t, err)

	// Not at payment yet
	var de *model.DomainError
	err = m.ReadyToSubmit()
	require.True(t, errors.As(err, &de))
	assert.Equal(t, model.ErrCodeStepGate, de.Code)

	require.NoError(t, m.SetCustomerInfo(validCustomer()))
	require.NoError(t, m.Next())

	// At payment but no payment method chosen
	assert.ErrorIs(t, m.ReadyToSubmit(), model.ErrInvalidPayment)

	require.NoError(t, m.SetPaymentMethod(model.PaymentBankTransfer))
	assert.NoError(t, m.ReadyToSubmit())
}

func TestMachine_TerminalRejectsMutation(t *testing.T) {
	m, err := New(nil, false, validation.New())
	require.NoError(t, err)
	require.NoError(t, m.SetCustomerInfo(validCustomer()))
	require.NoError(t, m.SetPaymentMethod(model.PaymentCashOnDelivery))
	require.NoError(t, m.Next())
	require.NoError(t, m.CompleteSubmission(&model.OrderConfirmation{OrderID: "ord-1"}))

	var de *model.DomainError
	for _, err := range []error{
		m.SetCustomerInfo(validCustomer()),
		m.SetAddress(nil),
		m.SetPaymentMethod(model.PaymentCreditCard),
		m.SetNotes("x"),
		m.Next(),
		m.Back(),
	} {
		require.True(t, errors.As(err, &de))
		assert.Equal(t, model.ErrCodeStepGate, de.Code)
	}
}

func TestMachine_AddressIsOptional(t *testing.T) {
	m, err := New(nil, false, validation.New())
	require.NoError(t, err)

	addr := &model.Address{ID: "addr-1", Line1: "12 Wattle St", City: "Sydney"}
	require.NoError(t, m.SetAddress(addr))
	assert.Equal(t, addr, m.Address())

	require.NoError(t, m.SetAddress(nil))
	assert.Nil(t, m.Address())

	// Submission succeeds without an address
	require.NoError(t, m.SetCustomerInfo(validCustomer()))
	require.NoError(t, m.SetPaymentMethod(model.PaymentCashOnDelivery))
	require.NoError(t, m.Next())
	require.NoError(t, m.CompleteSubmission(&model.OrderConfirmation{OrderID: "ord-2"}))
}
