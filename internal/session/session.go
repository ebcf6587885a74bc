// Package session owns the live state of one service configuration: the
// active schema, the value store, the product selection and, once checkout
// starts, the booking machine. Each session is owned by a single logical
// flow; a mutex serializes the HTTP callbacks that drive it.
package session

import (
	"context"
	"io"
	"sync"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"svc-forge/internal/booking"
	"svc-forge/internal/catalog"
	"svc-forge/internal/model"
	"svc-forge/internal/schema"
	"svc-forge/internal/upload"
	"svc-forge/internal/upstream"
)

// Session is one active configuration flow.
type Session struct {
	id       uuid.UUID
	client   upstream.Client
	uploads  upload.Store
	validate *validatorv10.Validate
	logger   zerolog.Logger

	mu         sync.Mutex
	svc        *model.ServiceSchema
	values     *schema.ValueStore
	selection  *catalog.Selection
	calc       *model.CalculationResult
	machine    *booking.Machine
	generation int
	calcBusy   bool
	submitBusy bool
	lastSeen   time.Time
}

func newSession(ctx context.Context, id uuid.UUID, serviceID string, client upstream.Client, uploads upload.Store, v *validatorv10.Validate, logger zerolog.Logger) (*Session, error) {
	svc, err := client.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:       id,
		client:   client,
		uploads:  uploads,
		validate: v,
		logger:   logger.With().Str("component", "session").Str("session_id", id.String()).Logger(),
		lastSeen: time.Now(),
	}
	s.install(svc)

	s.logger.Info().Str("service_id", serviceID).Msg("session created")
	return s, nil
}

// install wires a freshly loaded schema in, discarding all prior state.
// Caller holds the lock (or the session is not yet shared).
func (s *Session) install(svc *model.ServiceSchema) {
	s.svc = svc
	s.values = schema.NewValueStore(svc)
	s.selection = catalog.NewSelection(svc.Catalog)
	s.calc = nil
	s.machine = nil
	s.generation++
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) touch() {
	s.lastSeen = time.Now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SwitchService replaces the active schema. The value store, selection,
// calculation and any open checkout are discarded and rebuilt from scratch;
// values never carry across schemas even when field ids collide. Any
// calculation still in flight for the old schema will find its generation
// tag stale and be dropped.
func (s *Session) SwitchService(ctx context.Context, serviceID string) error {
	svc, err := s.client.GetService(ctx, serviceID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.discardUploadsLocked(ctx)
	s.install(svc)

	s.logger.Info().Str("service_id", serviceID).Msg("session switched to new service")
	return nil
}

// SetValue overwrites a scalar or single-choice field value.
func (s *Session) SetValue(fieldID, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.values.SetValue(fieldID, raw)
}

// ToggleCheckboxOption flips one option in a checkbox field's set.
func (s *Session) ToggleCheckboxOption(fieldID, optionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.values.ToggleCheckboxOption(fieldID, optionID)
}

// StageFile stages an uploaded file and stores its reference on the field,
// replacing (and unstaging) any previous file.
func (s *Session) StageFile(ctx context.Context, fieldID, filename string, r io.Reader) error {
	s.mu.Lock()
	f := s.svc.FieldByID(fieldID)
	if f == nil {
		s.mu.Unlock()
		return model.ErrUnknownField
	}
	if f.Type != model.FieldFile {
		s.mu.Unlock()
		return model.ErrFieldTypeMismatch
	}
	prev, _ := s.values.Get(fieldID)
	s.mu.Unlock()

	ref, err := s.uploads.Save(ctx, filename, r)
	if err != nil {
		return model.NewDomainError(model.ErrCodeUploadFailed, "failed to stage uploaded file")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if err := s.values.SetFile(fieldID, ref, filename); err != nil {
		// The schema changed while staging; drop the orphaned object.
		_ = s.uploads.Remove(ctx, ref)
		return err
	}

	if prev.File != nil {
		if rmErr := s.uploads.Remove(ctx, prev.File.Ref); rmErr != nil {
			s.logger.Warn().Err(rmErr).Str("ref", prev.File.Ref).Msg("failed to unstage replaced file")
		}
	}
	return nil
}

// ClearFile removes a file field's staged reference and display name.
func (s *Session) ClearFile(ctx context.Context, fieldID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	prev, _ := s.values.Get(fieldID)
	if err := s.values.ClearFile(fieldID); err != nil {
		return err
	}
	if prev.File != nil {
		if err := s.uploads.Remove(ctx, prev.File.Ref); err != nil {
			s.logger.Warn().Err(err).Str("ref", prev.File.Ref).Msg("failed to unstage cleared file")
		}
	}
	return nil
}

// ToggleProduct adds or removes an add-on product.
func (s *Session) ToggleProduct(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.selection.Toggle(productID)
}

// SetProductQuantity updates an add-on quantity; non-positive removes.
func (s *Session) SetProductQuantity(productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.selection.SetQuantity(productID, qty)
}

// Calculate validates the form, sends the pricing request and installs the
// result. Only one calculation may be in flight per session; a response
// that lands after the active service changed is discarded rather than
// applied to the newer session state. Failures leave the form untouched
// and a retry re-sends the full current state.
func (s *Session) Calculate(ctx context.Context) (*model.CalculationResult, error) {
	s.mu.Lock()
	s.touch()

	if s.calcBusy {
		s.mu.Unlock()
		return nil, model.ErrCalculationInFlight
	}

	if ok, failing := schema.Validate(s.svc, s.values); !ok {
		s.mu.Unlock()
		fields := make(map[string]string, len(failing))
		for _, id := range failing {
			fields[id] = "is required"
		}
		return nil, model.NewValidationError(model.ErrFormInvalid.Message, fields)
	}

	entries, err := schema.CalculationEntries(s.svc, s.values)
	if err != nil {
		s.mu.Unlock()
		return nil, model.NewDomainError(model.ErrCodeCalculationFailed, err.Error())
	}

	in := upstream.CalculationInput{
		ServiceID:   s.svc.ID,
		FieldValues: entries,
		Products:    s.selection.Items(),
	}
	gen := s.generation
	s.calcBusy = true
	s.mu.Unlock()

	result, err := s.client.Calculate(ctx, in)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calcBusy = false

	if gen != s.generation {
		s.logger.Warn().Str("service_id", in.ServiceID).Msg("discarding calculation response for superseded schema")
		return nil, model.ErrStaleResponse
	}
	if err != nil {
		return nil, err
	}

	// The new breakdown supersedes any previous one wholesale.
	s.calc = result
	return result, nil
}

// StartCheckout opens the booking flow. Services requiring pricing need a
// calculation first and enter at summary; others enter directly at
// details. Any previously abandoned checkout is discarded: a closed flow
// is not resumable.
func (s *Session) StartCheckout() (model.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	m, err := booking.New(s.calc, s.svc.RequiresPricing, s.validate)
	if err != nil {
		return "", err
	}
	s.machine = m
	return m.Step(), nil
}

// CancelCheckout discards the booking state in full. The configured form
// survives; reopening starts the flow from the beginning.
func (s *Session) CancelCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.machine = nil
}

// Advance moves the checkout one step forward, subject to the step gates.
func (s *Session) Advance() (model.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.machine == nil {
		return "", model.ErrBookingNotStarted
	}
	if err := s.machine.Next(); err != nil {
		return "", err
	}
	return s.machine.Step(), nil
}

// Retreat moves the checkout one step backward, non-destructively.
func (s *Session) Retreat() (model.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.machine == nil {
		return "", model.ErrBookingNotStarted
	}
	if err := s.machine.Back(); err != nil {
		return "", err
	}
	return s.machine.Step(), nil
}

// DetailsUpdate is a partial update of the checkout details; nil members
// are left as they are.
type DetailsUpdate struct {
	Customer      *model.CustomerInfo
	Address       *model.Address
	ClearAddress  bool
	PaymentMethod *model.PaymentMethod
	Notes         *string
}

// UpdateDetails applies a partial details update to the open checkout.
func (s *Session) UpdateDetails(u DetailsUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.machine == nil {
		return model.ErrBookingNotStarted
	}

	if u.Customer != nil {
		if err := s.machine.SetCustomerInfo(*u.Customer); err != nil {
			return err
		}
	}
	if u.Address != nil || u.ClearAddress {
		if err := s.machine.SetAddress(u.Address); err != nil {
			return err
		}
	}
	if u.PaymentMethod != nil {
		if err := s.machine.SetPaymentMethod(*u.PaymentMethod); err != nil {
			return err
		}
	}
	if u.Notes != nil {
		if err := s.machine.SetNotes(*u.Notes); err != nil {
			return err
		}
	}
	return nil
}

// Submit sends the order once. One submission in flight at a time; the
// conflict error is what lets the UI keep the confirm control disabled.
// On failure the machine stays at payment with everything retained for a
// retry; on success the flow terminates with the backend's confirmation.
func (s *Session) Submit(ctx context.Context) (*model.OrderConfirmation, error) {
	s.mu.Lock()
	s.touch()

	if s.machine == nil {
		s.mu.Unlock()
		return nil, model.ErrBookingNotStarted
	}
	if s.submitBusy {
		s.mu.Unlock()
		return nil, model.ErrSubmissionInFlight
	}
	if err := s.machine.ReadyToSubmit(); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	in := upstream.OrderInput{
		ServiceID:     s.svc.ID,
		Customer:      s.machine.Customer(),
		FieldValues:   schema.OrderEntries(s.svc, s.values),
		Products:      s.selection.Items(),
		Notes:         s.machine.Notes(),
		PaymentMethod: s.machine.PaymentMethod(),
		Address:       s.machine.Address(),
	}
	gen := s.generation
	s.submitBusy = true
	s.mu.Unlock()

	conf, err := s.client.SubmitOrder(ctx, in)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitBusy = false

	if gen != s.generation {
		s.logger.Warn().Str("service_id", in.ServiceID).Msg("discarding submission response for superseded schema")
		return nil, model.ErrStaleResponse
	}
	if err != nil {
		return nil, err
	}

	if err := s.machine.CompleteSubmission(conf); err != nil {
		return nil, err
	}
	s.logger.Info().Str("order_id", conf.OrderID).Msg("checkout completed")
	return conf, nil
}

// discard releases session resources: staged uploads are best-effort
// removed. Caller must not use the session afterwards.
func (s *Session) discard(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discardUploadsLocked(ctx)
}

func (s *Session) discardUploadsLocked(ctx context.Context) {
	for i := range s.svc.Fields {
		f := &s.svc.Fields[i]
		if f.Type != model.FieldFile {
			continue
		}
		if v, ok := s.values.Get(f.ID); ok && v.File != nil {
			if err := s.uploads.Remove(ctx, v.File.Ref); err != nil {
				s.logger.Warn().Err(err).Str("ref", v.File.Ref).Msg("failed to unstage file on discard")
			}
		}
	}
}
