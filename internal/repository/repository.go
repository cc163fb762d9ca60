package repository

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CheckoutStateRepository stores checkout step state in the session scope.
type CheckoutStateRepository interface {
	// Load returns the session's checkout state, or nil when none is stored.
	Load(ctx context.Context, sessionID string) (*model.CheckoutState, error)

	// Save replaces the session's checkout state.
	Save(ctx context.Context, sessionID string, state *model.CheckoutState) error

	// Delete removes the session's checkout state.
	Delete(ctx context.Context, sessionID string) error
}

// CartSessionRepository stores the session's cart ID.
type CartSessionRepository interface {
	// GetCartID returns the session's cart ID, or "" when none is stored.
	GetCartID(ctx context.Context, sessionID string) (string, error)

	// SetCartID stores the session's cart ID.
	SetCartID(ctx context.Context, sessionID, cartID string) error

	// ClearCartID forgets the session's cart.
	ClearCartID(ctx context.Context, sessionID string) error
}

// EnrollmentRepository stores the MFA enrollment wizard in the session scope.
type EnrollmentRepository interface {
	// Load returns the session's wizard, or nil when none is stored.
	Load(ctx context.Context, sessionID string) (*model.MFAWizard, error)

	// Save replaces the session's wizard.
	Save(ctx context.Context, sessionID string, wizard *model.MFAWizard) error

	// Delete removes the session's wizard.
	Delete(ctx context.Context, sessionID string) error
}

// DismissalRepository stores banner dismissals in the durable scope.
type DismissalRepository interface {
	// Get returns the stored expiry for key, or nil when none is stored.
	Get(ctx context.Context, scope, key string) (*time.Time, error)

	// Set stores expiry for key; the entry disappears once expiry passes.
	Set(ctx context.Context, scope, key string, expiry time.Time) error
}

// FailureRepository defines data access for the subscription recovery ledger.
type FailureRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateFailure inserts a failure record within the provided transaction.
	CreateFailure(ctx context.Context, tx pgx.Tx, failure *model.SubscriptionFailure) error

	// CreateFailureItems inserts the failure's subscription items within the provided transaction.
	CreateFailureItems(ctx context.Context, tx pgx.Tx, items []model.SubscriptionFailureItem) error

	// GetByID retrieves a failure with its items. Returns nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.SubscriptionFailure, error)

	// List retrieves failures newest first with pagination support.
	List(ctx context.Context, limit, offset int, unresolvedOnly bool) ([]model.SubscriptionFailure, error)

	// MarkResolved stamps a failure as resolved. Returns false when not found.
	MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}
