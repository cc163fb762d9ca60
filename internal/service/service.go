package service

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// PageService resolves shop slugs into page data.
type PageService interface {
	// Resolve maps a catch-all shop slug to the data of one page type.
	Resolve(ctx context.Context, sessionID, slug, lang string) (*model.PageData, error)
}

// CartService manages the session's cart.
type CartService interface {
	// Get returns the session's cart, or an empty cart when there is none.
	Get(ctx context.Context, sessionID string) (*model.Cart, error)

	// AddItems adds line items one at a time, in order, stopping at the first failure.
	AddItems(ctx context.Context, sessionID string, items []model.LineItemRequest) (*model.Cart, error)

	// Clear forgets the session's cart.
	Clear(ctx context.Context, sessionID string) error
}

// CheckoutService runs the checkout server actions.
type CheckoutService interface {
	// GetState returns the persisted checkout state with the current cart.
	GetState(ctx context.Context, sessionID string) (*model.ActionResult, error)

	// SubmitInformation stores the customer's contact details and advances to shipping.
	SubmitInformation(ctx context.Context, sessionID string, req *model.InformationRequest) (*model.ActionResult, error)

	// SubmitAddress stores the shipping address and advances to payment.
	SubmitAddress(ctx context.Context, sessionID string, req *model.AddressRequest) (*model.ActionResult, error)

	// SelectShippingMethod applies a shipping option and ensures a payment session exists.
	SelectShippingMethod(ctx context.Context, sessionID string, req *model.ShippingMethodRequest) (*model.ActionResult, error)

	// ConfirmPayment records the payment form's confirmation and advances to review.
	ConfirmPayment(ctx context.Context, sessionID string, req *model.PaymentConfirmation) (*model.ActionResult, error)

	// PlaceOrder completes the cart once payment has been confirmed.
	PlaceOrder(ctx context.Context, sessionID string) (*model.ActionResult, error)

	// GoBack returns to an earlier step.
	GoBack(ctx context.Context, sessionID string, req *model.GoBackRequest) (*model.ActionResult, error)
}

// SubscriptionService runs the post-order subscription side effect.
type SubscriptionService interface {
	// AfterOrder creates a subscription when the completed cart had subscription
	// items. It never fails; problems are logged, alerted and recorded.
	AfterOrder(ctx context.Context, cart *model.Cart, order *model.Order)
}

// RecoveryService manages the subscription failure ledger.
type RecoveryService interface {
	// Record stores a failure with its items in one transaction.
	Record(ctx context.Context, failure *model.SubscriptionFailure) error

	// List returns failures newest first.
	List(ctx context.Context, limit, offset int, unresolvedOnly bool) ([]model.SubscriptionFailure, error)

	// Get returns a single failure with its items.
	Get(ctx context.Context, id uuid.UUID) (*model.SubscriptionFailure, error)

	// Resolve marks a failure as handled.
	Resolve(ctx context.Context, id uuid.UUID) error
}

// MFAService covers MFA status, the grace-period banner and enrollment.
type MFAService interface {
	// Status fetches the caller's MFA status. It never fails.
	Status(ctx context.Context) *model.MFAStatusResult

	// Banner evaluates the grace-period banner for a device.
	Banner(ctx context.Context, deviceID string) (*model.MFABanner, error)

	// Dismiss snoozes the banner for the given days-remaining value.
	Dismiss(ctx context.Context, deviceID string, daysRemaining int) error

	// Enrollment returns the session's enrollment wizard.
	Enrollment(ctx context.Context, sessionID string) (*model.MFAEnrollmentResponse, error)

	// ChooseApp starts enrollment for the chosen authenticator app.
	ChooseApp(ctx context.Context, sessionID, app string) (*model.MFAEnrollmentResponse, error)

	// Continue moves from the QR code to code entry.
	Continue(ctx context.Context, sessionID string) (*model.MFAEnrollmentResponse, error)

	// SubmitCode verifies a TOTP code once it has six digits.
	SubmitCode(ctx context.Context, sessionID, code string) (*model.MFAEnrollmentResponse, error)

	// Finish completes enrollment once backup codes are acknowledged.
	Finish(ctx context.Context, sessionID string, saved bool) (*model.MFAEnrollmentResponse, error)

	// Restart discards the session's wizard.
	Restart(ctx context.Context, sessionID string) (*model.MFAEnrollmentResponse, error)

	// Disable turns MFA off after re-authentication.
	Disable(ctx context.Context, password, code string) error

	// RegenerateBackupCodes invalidates old backup codes and returns new ones.
	RegenerateBackupCodes(ctx context.Context, password string) ([]string, error)
}

// AlertDispatcher sends admin alerts without blocking.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, alert model.AdminAlert)
}
