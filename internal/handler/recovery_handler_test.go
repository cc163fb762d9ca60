package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func recoveryRouter(svc *MockRecoveryService) http.Handler {
	h := NewRecoveryHandler(svc, zerolog.Nop())
	r := chi.NewRouter()
	r.Get("/admin/subscription-failures", h.List)
	r.Get("/admin/subscription-failures/{id}", h.GetByID)
	r.Post("/admin/subscription-failures/{id}/resolve", h.Resolve)
	return r
}

func TestRecoveryHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		limit          int
		offset         int
		unresolvedOnly bool
		expectService  bool
		expectedStatus int
	}{
		{
			name:           "Defaults",
			limit:          50,
			expectService:  true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Unresolved page",
			query:          "?limit=10&offset=20&unresolved=true",
			limit:          10,
			offset:         20,
			unresolvedOnly: true,
			expectService:  true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid limit",
			query:          "?limit=ten",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid offset",
			query:          "?offset=-x",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockRecoveryService)
			if tt.expectService {
				svc.On("List", mock.Anything, tt.limit, tt.offset, tt.unresolvedOnly).
					Return([]model.SubscriptionFailure{{ID: uuid.New(), OrderID: "order_1"}}, nil).Once()
			}

			w := httptest.NewRecorder()
			recoveryRouter(svc).ServeHTTP(w, newRequest(http.MethodGet, "/admin/subscription-failures"+tt.query, ""))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				var resp FailureListResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Len(t, resp.Failures, 1)
				assert.Equal(t, tt.limit, resp.Limit)
				assert.Equal(t, tt.offset, resp.Offset)
			} else {
				svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestRecoveryHandler_GetByID(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name           string
		path           string
		mockReturn     *model.SubscriptionFailure
		mockError      error
		expectService  bool
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Found",
			path:           "/admin/subscription-failures/" + id.String(),
			mockReturn:     &model.SubscriptionFailure{ID: id, OrderID: "order_1", CreatedAt: time.Now()},
			expectService:  true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Not found",
			path:           "/admin/subscription-failures/" + id.String(),
			mockError:      model.ErrFailureNotFound,
			expectService:  true,
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeSubscriptionNotFound,
		},
		{
			name:           "Invalid ID",
			path:           "/admin/subscription-failures/not-a-uuid",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockRecoveryService)
			if tt.expectService {
				svc.On("Get", mock.Anything, id).Return(tt.mockReturn, tt.mockError).Once()
			}

			w := httptest.NewRecorder()
			recoveryRouter(svc).ServeHTTP(w, newRequest(http.MethodGet, tt.path, ""))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var resp model.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedCode, resp.Error)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestRecoveryHandler_Resolve(t *testing.T) {
	id := uuid.New()
	svc := new(MockRecoveryService)
	svc.On("Resolve", mock.Anything, id).Return(nil).Once()

	w := httptest.NewRecorder()
	recoveryRouter(svc).ServeHTTP(w, newRequest(http.MethodPost, "/admin/subscription-failures/"+id.String()+"/resolve", ""))

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}
