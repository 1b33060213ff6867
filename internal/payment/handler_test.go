package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gigmarket-be/internal/gig"
	"gigmarket-be/internal/order"
	"gigmarket-be/internal/pricing"
	"gigmarket-be/internal/user"
	"gigmarket-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, in pricing.QuoteInput) (*pricing.Quote, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Quote), args.Error(1)
}

type MockStripe struct {
	mock.Mock
}

func (m *MockStripe) CreateCheckoutSession(ctx context.Context, amount float64, description string, meta CheckoutMetadata) (*CheckoutSession, error) {
	args := m.Called(ctx, amount, description, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutSession), args.Error(1)
}

func (m *MockStripe) VerifySignature(payload []byte, header string) error {
	return m.Called(payload, header).Error(0)
}

func (m *MockStripe) ParseEvent(payload []byte) (*StripeEvent, error) {
	args := m.Called(payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StripeEvent), args.Error(1)
}

type MockPayPal struct {
	mock.Mock
}

func (m *MockPayPal) CreateOrder(ctx context.Context, amount float64, description string, meta CheckoutMetadata) (*CheckoutSession, error) {
	args := m.Called(ctx, amount, description, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutSession), args.Error(1)
}

func (m *MockPayPal) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CaptureResult), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateFromConfirmation(ctx context.Context, in order.ConfirmationInput) (*order.Order, bool, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*order.Order), args.Bool(1), args.Error(2)
}

func (m *MockOrderService) List(ctx context.Context, filter *order.FilterInput, sort *order.SortInput, limit, page int32) ([]*order.Order, error) {
	args := m.Called(ctx, filter, sort, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) GetDetail(ctx context.Context, orderID uint) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID uint, status order.Status) error {
	return m.Called(ctx, orderID, status).Error(0)
}

func (m *MockOrderService) RequestCancel(ctx context.Context, orderID uint) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *MockOrderService) Delete(ctx context.Context, orderID uint) error {
	return m.Called(ctx, orderID).Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, name, email, phone, password string) (string, *user.User, error) {
	args := m.Called(ctx, name, email, phone, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*user.User), args.Error(2)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*user.User), args.Error(2)
}

func (m *MockUserService) GetByID(ctx context.Context, id uint) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

// --- Fixtures ---

type handlerMocks struct {
	resolver *MockResolver
	stripe   *MockStripe
	paypal   *MockPayPal
	orders   *MockOrderService
	users    *MockUserService
}

func newTestHandler() (*Handler, *handlerMocks) {
	m := &handlerMocks{
		resolver: new(MockResolver),
		stripe:   new(MockStripe),
		paypal:   new(MockPayPal),
		orders:   new(MockOrderService),
		users:    new(MockUserService),
	}
	return NewHandler(m.resolver, m.stripe, m.paypal, m.orders, m.users), m
}

func authedRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	ctx := utils.SetUserContext(req.Context(), 7, "alice@example.com", utils.RoleUser)
	return req.WithContext(ctx)
}

func sampleQuote() *pricing.Quote {
	return &pricing.Quote{
		GigID:        1,
		GigTitle:     "Logo Design",
		Tier:         "basic",
		ServicePrice: 50,
		FinalPrice:   45,
	}
}

// --- Tests ---

func TestHandler_StripeCheckout(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h, m := newTestHandler()

		m.resolver.On("Resolve", mock.Anything, pricing.QuoteInput{GigID: 1, Tier: "basic"}).
			Return(sampleQuote(), nil)
		m.stripe.On("CreateCheckoutSession", mock.Anything, 45.0, "Logo Design (basic)",
			MetadataFromQuote(sampleQuote(), 7)).
			Return(&CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/cs_1"}, nil)

		req := authedRequest(t, "POST", "/api/stripe/checkout",
			map[string]any{"serviceId": 1, "name": "basic", "title": "Logo Design"})
		rec := httptest.NewRecorder()

		h.StripeCheckout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "https://checkout.stripe.com/cs_1", resp["url"])
		m.stripe.AssertExpectations(t)
	})

	t.Run("MissingFieldsRejectedBeforeProviderCall", func(t *testing.T) {
		h, m := newTestHandler()

		req := authedRequest(t, "POST", "/api/stripe/checkout",
			map[string]any{"serviceId": 1, "name": "basic"}) // no title
		rec := httptest.NewRecorder()

		h.StripeCheckout(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		m.resolver.AssertNotCalled(t, "Resolve")
		m.stripe.AssertNotCalled(t, "CreateCheckoutSession")
	})

	t.Run("Anonymous", func(t *testing.T) {
		h, m := newTestHandler()

		body, _ := json.Marshal(map[string]any{"serviceId": 1, "name": "basic", "title": "Logo Design"})
		req := httptest.NewRequest("POST", "/api/stripe/checkout", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		h.StripeCheckout(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		m.stripe.AssertNotCalled(t, "CreateCheckoutSession")
	})

	t.Run("UnknownGig", func(t *testing.T) {
		h, m := newTestHandler()

		m.resolver.On("Resolve", mock.Anything, mock.Anything).Return(nil, gig.ErrGigNotFound)

		req := authedRequest(t, "POST", "/api/stripe/checkout",
			map[string]any{"serviceId": 99, "name": "basic", "title": "Logo Design"})
		rec := httptest.NewRecorder()

		h.StripeCheckout(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		m.stripe.AssertNotCalled(t, "CreateCheckoutSession")
	})
}

func TestHandler_PayPalCheckout(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h, m := newTestHandler()

		m.resolver.On("Resolve", mock.Anything, mock.Anything).Return(sampleQuote(), nil)
		m.paypal.On("CreateOrder", mock.Anything, 45.0, "Logo Design (basic)",
			MetadataFromQuote(sampleQuote(), 7)).
			Return(&CheckoutSession{ID: "PP-ORDER-1"}, nil)

		req := authedRequest(t, "POST", "/api/paypal/checkout",
			map[string]any{"serviceId": 1, "name": "basic", "title": "Logo Design"})
		rec := httptest.NewRecorder()

		h.PayPalCheckout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "PP-ORDER-1", resp["id"])
	})

	t.Run("CouponForwardedToResolver", func(t *testing.T) {
		h, m := newTestHandler()

		m.resolver.On("Resolve", mock.Anything,
			pricing.QuoteInput{GigID: 1, Tier: "basic", CouponCode: "SAVE10"}).
			Return(sampleQuote(), nil)
		m.paypal.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&CheckoutSession{ID: "PP-ORDER-2"}, nil)

		req := authedRequest(t, "POST", "/api/paypal/checkout",
			map[string]any{"serviceId": 1, "name": "basic", "title": "Logo Design", "couponCode": "SAVE10"})
		rec := httptest.NewRecorder()

		h.PayPalCheckout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		m.resolver.AssertExpectations(t)
	})
}

func TestHandler_PayPalCapture(t *testing.T) {
	meta := CheckoutMetadata{ServiceID: 1, Name: "basic", Title: "Logo Design", ServicePrice: 50, Price: 45, UserID: 7}
	blob, _ := meta.EncodeJSON()

	t.Run("Success", func(t *testing.T) {
		h, m := newTestHandler()

		m.paypal.On("CaptureOrder", mock.Anything, "PP-ORDER-1").
			Return(&CaptureResult{CaptureID: "CAP-1", Status: "COMPLETED", CustomID: blob}, nil)
		m.users.On("GetByID", mock.Anything, uint(7)).
			Return(&user.User{ID: 7, Name: "Alice", Email: "alice@example.com"}, nil)
		m.orders.On("CreateFromConfirmation", mock.Anything, mock.MatchedBy(func(in order.ConfirmationInput) bool {
			return in.TransactionID == "CAP-1" &&
				in.Method == order.MethodPayPal &&
				in.Price == 45.0 &&
				in.UserEmail == "alice@example.com"
		})).Return(&order.Order{ID: 1}, true, nil)

		req := authedRequest(t, "POST", "/api/paypal/capture", map[string]any{"orderID": "PP-ORDER-1"})
		rec := httptest.NewRecorder()

		h.PayPalCapture(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		m.orders.AssertExpectations(t)
	})

	t.Run("RetryReturnsExistingOrder", func(t *testing.T) {
		h, m := newTestHandler()

		m.paypal.On("CaptureOrder", mock.Anything, "PP-ORDER-1").
			Return(&CaptureResult{CaptureID: "CAP-1", Status: "COMPLETED", CustomID: blob}, nil)
		m.users.On("GetByID", mock.Anything, uint(7)).
			Return(&user.User{ID: 7, Name: "Alice"}, nil)
		m.orders.On("CreateFromConfirmation", mock.Anything, mock.Anything).
			Return(&order.Order{ID: 1}, false, nil)

		req := authedRequest(t, "POST", "/api/paypal/capture", map[string]any{"orderID": "PP-ORDER-1"})
		rec := httptest.NewRecorder()

		h.PayPalCapture(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "payment already recorded", resp["message"])
	})

	t.Run("MissingOrderID", func(t *testing.T) {
		h, m := newTestHandler()

		req := authedRequest(t, "POST", "/api/paypal/capture", map[string]any{})
		rec := httptest.NewRecorder()

		h.PayPalCapture(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		m.paypal.AssertNotCalled(t, "CaptureOrder")
	})

	t.Run("IncompleteCapture", func(t *testing.T) {
		h, m := newTestHandler()

		m.paypal.On("CaptureOrder", mock.Anything, "PP-ORDER-1").
			Return(&CaptureResult{CaptureID: "CAP-1", Status: "PENDING", CustomID: blob}, nil)

		req := authedRequest(t, "POST", "/api/paypal/capture", map[string]any{"orderID": "PP-ORDER-1"})
		rec := httptest.NewRecorder()

		h.PayPalCapture(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		m.orders.AssertNotCalled(t, "CreateFromConfirmation")
	})
}
