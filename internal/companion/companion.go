package companion

import (
	"context"
	"net/http"

	"storefront/internal/model"
	"storefront/internal/transport"

	"github.com/rs/zerolog"
)

// SubscriptionAPI creates subscription records for completed orders.
type SubscriptionAPI interface {
	CreateSubscription(ctx context.Context, req *model.SubscriptionRequest) (*model.Subscription, error)
}

// AlertAPI delivers operational alerts to administrators.
type AlertAPI interface {
	SendAlert(ctx context.Context, alert model.AdminAlert) error
}

// MFAAPI covers the customer MFA endpoints.
type MFAAPI interface {
	Status(ctx context.Context) (*model.MFAStatus, error)
	InitializeEnrollment(ctx context.Context) (*model.MFASetup, error)
	CompleteEnrollment(ctx context.Context, code string) (*model.MFAEnrollResult, error)
	Disable(ctx context.Context, password, code string) error
	RegenerateBackupCodes(ctx context.Context, password string) ([]string, error)
}

// mfaStatusNotApplicable are the MFA responses that mean the customer has
// nothing to show, not that the backend is unhealthy.
var mfaStatusNotApplicable = []int{
	http.StatusBadRequest,
	http.StatusUnauthorized,
	http.StatusNotFound,
	http.StatusInternalServerError,
}

// Client talks to the companion backend that owns subscriptions, alerts and MFA.
//
// MFA calls have their own breaker, separate from subscriptions and alerts.
type Client struct {
	http   *transport.Client
	mfa    *transport.Client
	logger zerolog.Logger
}

// NewClient creates a companion backend client.
func NewClient(opts transport.Options, logger zerolog.Logger) *Client {
	mfaOpts := opts
	mfaOpts.Name = opts.Name + "-mfa"
	mfaOpts.HealthyStatuses = append(append([]int(nil), opts.HealthyStatuses...), mfaStatusNotApplicable...)

	return &Client{
		http:   transport.New(opts, logger),
		mfa:    transport.New(mfaOpts, logger),
		logger: logger.With().Str("component", "companion-client").Logger(),
	}
}

var (
	_ SubscriptionAPI = (*Client)(nil)
	_ AlertAPI        = (*Client)(nil)
	_ MFAAPI          = (*Client)(nil)
)

// CreateSubscription posts a new subscription record.
func (c *Client) CreateSubscription(ctx context.Context, req *model.SubscriptionRequest) (*model.Subscription, error) {
	var env struct {
		Subscription *model.Subscription `json:"subscription"`
	}
	if err := c.http.Do(ctx, http.MethodPost, "/store/subscriptions", req, &env); err != nil {
		return nil, err
	}
	if env.Subscription == nil {
		return &model.Subscription{}, nil
	}
	return env.Subscription, nil
}

// SendAlert posts an admin alert.
func (c *Client) SendAlert(ctx context.Context, alert model.AdminAlert) error {
	return c.http.Do(ctx, http.MethodPost, "/admin/alert", alert, nil)
}

// Status fetches the caller's MFA grace-period status.
func (c *Client) Status(ctx context.Context) (*model.MFAStatus, error) {
	var status model.MFAStatus
	if err := c.mfa.Do(ctx, http.MethodGet, "/store/mfa/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// InitializeEnrollment requests a new TOTP secret and QR code.
func (c *Client) InitializeEnrollment(ctx context.Context) (*model.MFASetup, error) {
	var setup model.MFASetup
	if err := c.mfa.Do(ctx, http.MethodPost, "/store/mfa/enroll/initialize", nil, &setup); err != nil {
		return nil, err
	}
	return &setup, nil
}

// CompleteEnrollment verifies the first TOTP code and returns one-time backup codes.
func (c *Client) CompleteEnrollment(ctx context.Context, code string) (*model.MFAEnrollResult, error) {
	var result model.MFAEnrollResult
	body := model.MFAEnrollRequest{Code: code}
	if err := c.mfa.Do(ctx, http.MethodPost, "/store/mfa/enroll/complete", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Disable turns MFA off after re-authentication.
func (c *Client) Disable(ctx context.Context, password, code string) error {
	body := model.MFAPasswordRequest{Password: password, Code: code}
	return c.mfa.Do(ctx, http.MethodPost, "/store/mfa/disable", body, nil)
}

// RegenerateBackupCodes invalidates old backup codes and issues new ones.
func (c *Client) RegenerateBackupCodes(ctx context.Context, password string) ([]string, error) {
	var result model.MFAEnrollResult
	body := model.MFAPasswordRequest{Password: password}
	if err := c.mfa.Do(ctx, http.MethodPost, "/store/mfa/backup-codes/regenerate", body, &result); err != nil {
		return nil, err
	}
	return result.BackupCodes, nil
}
