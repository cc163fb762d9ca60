package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testFailure() *model.SubscriptionFailure {
	id := uuid.New()
	return &model.SubscriptionFailure{
		ID:            id,
		OrderID:       "order_1",
		CustomerID:    "cus_1",
		CustomerEmail: "ada@example.com",
		OrderTotal:    4200,
		CurrencyCode:  "usd",
		ErrorMessage:  "boom",
		CreatedAt:     time.Now().UTC(),
		Items: []model.SubscriptionFailureItem{
			{ID: uuid.New(), FailureID: id, VariantID: "var_plan", Quantity: 1},
		},
	}
}

func TestRecoveryService_Record(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(repo *MockFailureRepository, tx *MockTx, failure *model.SubscriptionFailure)
		expectError    bool
		expectCommit   bool
		expectRollback bool
	}{
		{
			name: "Success",
			setupMock: func(repo *MockFailureRepository, tx *MockTx, failure *model.SubscriptionFailure) {
				repo.On("BeginTx", mock.Anything).Return(tx, nil)
				repo.On("CreateFailure", mock.Anything, tx, failure).Return(nil)
				repo.On("CreateFailureItems", mock.Anything, tx, failure.Items).Return(nil)
				tx.On("Commit", mock.Anything).Return(nil)
			},
			expectCommit: true,
		},
		{
			name: "Begin fails",
			setupMock: func(repo *MockFailureRepository, tx *MockTx, failure *model.SubscriptionFailure) {
				repo.On("BeginTx", mock.Anything).Return(nil, errors.New("pool exhausted"))
			},
			expectError: true,
		},
		{
			name: "Insert fails",
			setupMock: func(repo *MockFailureRepository, tx *MockTx, failure *model.SubscriptionFailure) {
				repo.On("BeginTx", mock.Anything).Return(tx, nil)
				repo.On("CreateFailure", mock.Anything, tx, failure).Return(errors.New("duplicate key"))
				tx.On("Rollback", mock.Anything).Return(nil)
			},
			expectError:    true,
			expectRollback: true,
		},
		{
			name: "Items fail",
			setupMock: func(repo *MockFailureRepository, tx *MockTx, failure *model.SubscriptionFailure) {
				repo.On("BeginTx", mock.Anything).Return(tx, nil)
				repo.On("CreateFailure", mock.Anything, tx, failure).Return(nil)
				repo.On("CreateFailureItems", mock.Anything, tx, failure.Items).Return(errors.New("check constraint"))
				tx.On("Rollback", mock.Anything).Return(nil)
			},
			expectError:    true,
			expectRollback: true,
		},
		{
			name: "Commit fails",
			setupMock: func(repo *MockFailureRepository, tx *MockTx, failure *model.SubscriptionFailure) {
				repo.On("BeginTx", mock.Anything).Return(tx, nil)
				repo.On("CreateFailure", mock.Anything, tx, failure).Return(nil)
				repo.On("CreateFailureItems", mock.Anything, tx, failure.Items).Return(nil)
				tx.On("Commit", mock.Anything).Return(errors.New("connection lost"))
				tx.On("Rollback", mock.Anything).Return(nil)
			},
			expectError:    true,
			expectCommit:   true,
			expectRollback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockFailureRepository)
			tx := new(MockTx)
			failure := testFailure()
			tt.setupMock(repo, tx, failure)

			svc := NewRecoveryService(repo, zerolog.Nop())
			err := svc.Record(context.Background(), failure)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.expectCommit {
				tx.AssertCalled(t, "Commit", mock.Anything)
			} else {
				tx.AssertNotCalled(t, "Commit", mock.Anything)
			}
			if tt.expectRollback {
				tx.AssertCalled(t, "Rollback", mock.Anything)
			} else {
				tx.AssertNotCalled(t, "Rollback", mock.Anything)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestRecoveryService_List_ClampsLimit(t *testing.T) {
	tests := []struct {
		name           string
		limit          int
		offset         int
		expectedLimit  int
		expectedOffset int
	}{
		{"Default", 0, 0, 50, 0},
		{"Custom", 10, 20, 10, 20},
		{"Too large", 1000, 0, 200, 0},
		{"Negative offset", 10, -5, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockFailureRepository)
			repo.On("List", mock.Anything, tt.expectedLimit, tt.expectedOffset, true).
				Return([]model.SubscriptionFailure{}, nil).Once()

			svc := NewRecoveryService(repo, zerolog.Nop())
			failures, err := svc.List(context.Background(), tt.limit, tt.offset, true)

			require.NoError(t, err)
			assert.NotNil(t, failures)
			repo.AssertExpectations(t)
		})
	}
}

func TestRecoveryService_Get(t *testing.T) {
	repo := new(MockFailureRepository)
	svc := NewRecoveryService(repo, zerolog.Nop())
	found := testFailure()
	missing := uuid.New()

	repo.On("GetByID", mock.Anything, found.ID).Return(found, nil)
	repo.On("GetByID", mock.Anything, missing).Return(nil, nil)

	got, err := svc.Get(context.Background(), found.ID)
	require.NoError(t, err)
	assert.Equal(t, "order_1", got.OrderID)

	_, err = svc.Get(context.Background(), missing)
	assert.ErrorIs(t, err, model.ErrFailureNotFound)
}

func TestRecoveryService_Resolve(t *testing.T) {
	repo := new(MockFailureRepository)
	svc := NewRecoveryService(repo, zerolog.Nop()).(*recoveryService)
	resolvedAt := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return resolvedAt }

	known := uuid.New()
	unknown := uuid.New()
	repo.On("MarkResolved", mock.Anything, known, resolvedAt).Return(true, nil)
	repo.On("MarkResolved", mock.Anything, unknown, resolvedAt).Return(false, nil)

	require.NoError(t, svc.Resolve(context.Background(), known))
	assert.ErrorIs(t, svc.Resolve(context.Background(), unknown), model.ErrFailureNotFound)
}
