package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"svc-forge/internal/catalog"
	"svc-forge/internal/model"
	"svc-forge/internal/validation"
)

const defaultTimeout = 20 * time.Second

// Client is the marketplace backend boundary: schema fetch, price
// calculation and order submission. All failures come back as DomainError
// or ValidationError values; nothing escapes as a transport detail.
type Client interface {
	// GetService fetches and normalizes one service schema.
	GetService(ctx context.Context, serviceID string) (*model.ServiceSchema, error)

	// Calculate prices the given configuration. Repeating the call with
	// unchanged inputs yields the same result, modulo backend-side price
	// changes.
	Calculate(ctx context.Context, in CalculationInput) (*model.CalculationResult, error)

	// SubmitOrder submits the order once, best effort. Backend validation
	// failures surface as *model.ValidationError with remapped field keys.
	SubmitOrder(ctx context.Context, in OrderInput) (*model.OrderConfirmation, error)
}

type tokenKey struct{}

// WithToken attaches the caller's bearer credential to the context. The
// client sends it on every upstream request; requests without one go out
// unauthenticated. Credentials are always passed this way, never read from
// any ambient store.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the attached credential, if any.
func TokenFromContext(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(tokenKey{}).(string)
	return tok, ok && tok != ""
}

// httpClient implements Client over the backend's REST contract.
type httpClient struct {
	baseURL string
	client  *http.Client
	keyMap  validation.KeyMap
	logger  zerolog.Logger
}

// NewClient creates a marketplace API client. A zero timeout falls back to
// the default; a nil keyMap falls back to the default mapping table.
func NewClient(baseURL string, timeout time.Duration, keyMap validation.KeyMap, logger zerolog.Logger) Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if keyMap == nil {
		keyMap = validation.DefaultKeyMap()
	}
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		keyMap:  keyMap,
		logger:  logger.With().Str("component", "upstream-client").Logger(),
	}
}

// GetService fetches and normalizes one service schema.
func (c *httpClient) GetService(ctx context.Context, serviceID string) (*model.ServiceSchema, error) {
	var resp serviceResponse
	if err := c.do(ctx, http.MethodGet, "/api/services/"+serviceID, nil, &resp, model.ErrCodeSchemaLoad); err != nil {
		return nil, err
	}

	s := &model.ServiceSchema{
		ID:              resp.ID,
		Name:            resp.Name,
		BasePrice:       resp.BasePrice,
		RequiresPricing: resp.RequiresPricing == nil || *resp.RequiresPricing,
		Fields:          make([]model.Field, 0, len(resp.Fields)),
	}

	for _, f := range resp.Fields {
		ft := model.FieldType(f.Type)
		if !ft.Known() {
			c.logger.Warn().
				Str("service_id", serviceID).
				Str("field_id", f.ID).
				Str("type", f.Type).
				Msg("dropping field with unknown type")
			continue
		}
		field := model.Field{
			ID:          f.ID,
			Type:        ft,
			Label:       f.Label,
			Description: f.Description,
			Required:    f.Required,
			MinValue:    f.MinValue,
			MaxValue:    f.MaxValue,
			Step:        f.Step,
			Unit:        f.Unit,
		}
		for _, o := range f.Options {
			field.Options = append(field.Options, model.Option{
				ID:            o.ID,
				Label:         o.Label,
				PriceModifier: o.PriceModifier,
				Image:         o.Image,
				IsDefault:     o.IsDefault,
			})
		}
		s.Fields = append(s.Fields, field)
	}

	tagged := make([]model.ProductGroup, 0, len(resp.ProductsByTag))
	for _, g := range resp.ProductsByTag {
		tagged = append(tagged, model.ProductGroup{Tag: g.Tag, Products: toProducts(g.Products)})
	}
	s.Catalog = catalog.Normalize(toProducts(resp.Products), tagged, toProducts(resp.ProductsWithoutTags))

	c.logger.Debug().
		Str("service_id", serviceID).
		Int("field_count", len(s.Fields)).
		Int("product_count", len(s.Catalog.ByID)).
		Bool("requires_pricing", s.RequiresPricing).
		Msg("service schema loaded")

	return s, nil
}

// Calculate prices the given configuration.
func (c *httpClient) Calculate(ctx context.Context, in CalculationInput) (*model.CalculationResult, error) {
	req := calculationRequest{
		ServiceID:   in.ServiceID,
		FieldValues: in.FieldValues,
		Products:    toProductRefs(in.Products),
	}

	var resp calculationResponse
	if err := c.do(ctx, http.MethodPost, "/api/calculate", req, &resp, model.ErrCodeCalculationFailed); err != nil {
		return nil, err
	}

	result := &model.CalculationResult{
		ServiceID:        in.ServiceID,
		BasePrice:        resp.BasePrice,
		AdjustmentsTotal: resp.AdjustmentsTotal,
		ProductsPrice:    resp.ProductsPrice,
		Total:            resp.Total,
	}
	for _, a := range resp.FieldAdjustments {
		result.FieldAdjustments = append(result.FieldAdjustments, model.FieldAdjustment(a))
	}
	for _, p := range resp.Products {
		result.Products = append(result.Products, model.ProductLine(p))
	}

	return result, nil
}

// SubmitOrder submits the accumulated checkout state once.
func (c *httpClient) SubmitOrder(ctx context.Context, in OrderInput) (*model.OrderConfirmation, error) {
	req := orderRequest{
		ServiceID:     in.ServiceID,
		CustomerName:  in.Customer.Name,
		CustomerEmail: in.Customer.Email,
		CustomerPhone: in.Customer.Phone,
		FieldValues:   in.FieldValues,
		Products:      toProductRefs(in.Products),
		Notes:         in.Notes,
		PaymentMethod: string(in.PaymentMethod),
	}
	if in.Address != nil {
		req.ShippingAddress = &shippingAddressDTO{
			ID:      in.Address.ID,
			Line1:   in.Address.Line1,
			City:    in.Address.City,
			State:   in.Address.State,
			Country: in.Address.Country,
			Phone:   in.Address.Phone,
		}
	}

	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &resp, model.ErrCodeSubmissionFailed); err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("service_id", in.ServiceID).
		Str("order_id", resp.OrderID).
		Msg("order submitted")

	return &model.OrderConfirmation{OrderID: resp.OrderID, Details: resp.OrderDetails}, nil
}

// do performs one request against the backend and decodes the response.
// Non-2xx responses are converted per failCode, except that field-scoped
// validation payloads become *model.ValidationError with remapped keys.
func (c *httpClient) do(ctx context.Context, method, path string, body, out any, failCode string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok, ok := TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("upstream request failed")
		return model.NewDomainError(failCode, fmt.Sprintf("marketplace API unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		_ = json.Unmarshal(raw, &apiErr)

		c.logger.Warn().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("message", apiErr.text()).
			Msg("upstream request rejected")

		if len(apiErr.Fields) > 0 {
			return model.NewValidationError(apiErr.text(), c.keyMap.Apply(apiErr.Fields))
		}
		msg := apiErr.text()
		if msg == "" {
			msg = fmt.Sprintf("marketplace API returned status %d", resp.StatusCode)
		}
		return model.NewDomainError(failCode, msg)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return model.NewDomainError(failCode, fmt.Sprintf("malformed marketplace API response: %v", err))
		}
	}

	return nil
}

func toProducts(dtos []productDTO) []model.Product {
	if len(dtos) == 0 {
		return nil
	}
	out := make([]model.Product, len(dtos))
	for i, p := range dtos {
		out[i] = model.Product(p)
	}
	return out
}
