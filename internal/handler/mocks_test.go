package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

const (
	testSession = "sid_1"
	testDevice  = "dev_1"
)

// newRequest builds a request carrying the test session and device ids.
func newRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithSession(req.Context(), testSession, testDevice))
}

// MockPageService is a mock implementation of service.PageService.
type MockPageService struct {
	mock.Mock
}

func (m *MockPageService) Resolve(ctx context.Context, sessionID, slug, lang string) (*model.PageData, error) {
	args := m.Called(ctx, sessionID, slug, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PageData), args.Error(1)
}

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Get(ctx context.Context, sessionID string) (*model.Cart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) AddItems(ctx context.Context, sessionID string, items []model.LineItemRequest) (*model.Cart, error) {
	args := m.Called(ctx, sessionID, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// MockCheckoutService is a mock implementation of service.CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func actionArg(args mock.Arguments) (*model.ActionResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ActionResult), args.Error(1)
}

func (m *MockCheckoutService) GetState(ctx context.Context, sessionID string) (*model.ActionResult, error) {
	return actionArg(m.Called(ctx, sessionID))
}

func (m *MockCheckoutService) SubmitInformation(ctx context.Context, sessionID string, req *model.InformationRequest) (*model.ActionResult, error) {
	return actionArg(m.Called(ctx, sessionID, req))
}

func (m *MockCheckoutService) SubmitAddress(ctx context.Context, sessionID string, req *model.AddressRequest) (*model.ActionResult, error) {
	return actionArg(m.Called(ctx, sessionID, req))
}

func (m *MockCheckoutService) SelectShippingMethod(ctx context.Context, sessionID string, req *model.ShippingMethodRequest) (*model.ActionResult, error) {
	return actionArg(m.Called(ctx, sessionID, req))
}

func (m *MockCheckoutService) ConfirmPayment(ctx context.Context, sessionID string, req *model.PaymentConfirmation) (*model.ActionResult, error) {
	return actionArg(m.Called(ctx, sessionID, req))
}

func (m *MockCheckoutService) PlaceOrder(ctx context.Context, sessionID string) (*model.ActionResult, error) {
	return actionArg(m.Called(ctx, sessionID))
}

func (m *MockCheckoutService) GoBack(ctx context.Context, sessionID string, req *model.GoBackRequest) (*model.ActionResult, error) {
	return actionArg(m.Called(ctx, sessionID, req))
}

// MockMFAService is a mock implementation of service.MFAService.
type MockMFAService struct {
	mock.Mock
}

func enrollmentArg(args mock.Arguments) (*model.MFAEnrollmentResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MFAEnrollmentResponse), args.Error(1)
}

func (m *MockMFAService) Status(ctx context.Context) *model.MFAStatusResult {
	args := m.Called(ctx)
	return args.Get(0).(*model.MFAStatusResult)
}

func (m *MockMFAService) Banner(ctx context.Context, deviceID string) (*model.MFABanner, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MFABanner), args.Error(1)
}

func (m *MockMFAService) Dismiss(ctx context.Context, deviceID string, daysRemaining int) error {
	args := m.Called(ctx, deviceID, daysRemaining)
	return args.Error(0)
}

func (m *MockMFAService) Enrollment(ctx context.Context, sessionID string) (*model.MFAEnrollmentResponse, error) {
	return enrollmentArg(m.Called(ctx, sessionID))
}

func (m *MockMFAService) ChooseApp(ctx context.Context, sessionID, app string) (*model.MFAEnrollmentResponse, error) {
	return enrollmentArg(m.Called(ctx, sessionID, app))
}

func (m *MockMFAService) Continue(ctx context.Context, sessionID string) (*model.MFAEnrollmentResponse, error) {
	return enrollmentArg(m.Called(ctx, sessionID))
}

func (m *MockMFAService) SubmitCode(ctx context.Context, sessionID, code string) (*model.MFAEnrollmentResponse, error) {
	return enrollmentArg(m.Called(ctx, sessionID, code))
}

func (m *MockMFAService) Finish(ctx context.Context, sessionID string, saved bool) (*model.MFAEnrollmentResponse, error) {
	return enrollmentArg(m.Called(ctx, sessionID, saved))
}

func (m *MockMFAService) Restart(ctx context.Context, sessionID string) (*model.MFAEnrollmentResponse, error) {
	return enrollmentArg(m.Called(ctx, sessionID))
}

func (m *MockMFAService) Disable(ctx context.Context, password, code string) error {
	args := m.Called(ctx, password, code)
	return args.Error(0)
}

func (m *MockMFAService) RegenerateBackupCodes(ctx context.Context, password string) ([]string, error) {
	args := m.Called(ctx, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockRecoveryService is a mock implementation of service.RecoveryService.
type MockRecoveryService struct {
	mock.Mock
}

func (m *MockRecoveryService) Record(ctx context.Context, failure *model.SubscriptionFailure) error {
	args := m.Called(ctx, failure)
	return args.Error(0)
}

func (m *MockRecoveryService) List(ctx context.Context, limit, offset int, unresolvedOnly bool) ([]model.SubscriptionFailure, error) {
	args := m.Called(ctx, limit, offset, unresolvedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SubscriptionFailure), args.Error(1)
}

func (m *MockRecoveryService) Get(ctx context.Context, id uuid.UUID) (*model.SubscriptionFailure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionFailure), args.Error(1)
}

func (m *MockRecoveryService) Resolve(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
