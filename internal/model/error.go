package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeMissingField         = "MISSING_FIELD"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeRedirectRequired     = "REDIRECT_REQUIRED"
	ErrCodeInvalidStep          = "INVALID_STEP"
	ErrCodeStepBackward         = "STEP_BACKWARD_ONLY"
	ErrCodePaymentNotProcessed  = "PAYMENT_NOT_PROCESSED"
	ErrCodePaymentNotConfirmed  = "PAYMENT_NOT_CONFIRMED"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeDismissNotAllowed    = "DISMISS_NOT_ALLOWED"
	ErrCodeIncompleteCode       = "INCOMPLETE_CODE"
	ErrCodeBackupCodesNotSaved  = "BACKUP_CODES_NOT_SAVED"
	ErrCodePasswordRequired     = "PASSWORD_REQUIRED"
	ErrCodeBackendRejected      = "BACKEND_REJECTED"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
	ErrCodeSubscriptionNotFound = "SUBSCRIPTION_FAILURE_NOT_FOUND"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(ErrCodeNotFound, "The requested page could not be found")
	ErrRedirectRequired    = NewDomainError(ErrCodeRedirectRequired, "No active cart for this session")
	ErrInvalidStep         = NewDomainError(ErrCodeInvalidStep, "Action is not available at the current checkout step")
	ErrStepBackward        = NewDomainError(ErrCodeStepBackward, "You can only go back to an earlier step")
	ErrPaymentNotProcessed = NewDomainError(ErrCodePaymentNotProcessed, "Please complete payment before placing your order")
	ErrPaymentNotConfirmed = NewDomainError(ErrCodePaymentNotConfirmed, "Payment has not been confirmed")
	ErrInvalidQuantity     = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrDismissNotAllowed   = NewDomainError(ErrCodeDismissNotAllowed, "This reminder can no longer be dismissed")
	ErrIncompleteCode      = NewDomainError(ErrCodeIncompleteCode, "Enter the 6-digit code from your authenticator app")
	ErrBackupCodesNotSaved = NewDomainError(ErrCodeBackupCodesNotSaved, "Confirm that you have saved your backup codes")
	ErrPasswordRequired    = NewDomainError(ErrCodePasswordRequired, "Password is required")
	ErrFailureNotFound     = NewDomainError(ErrCodeSubscriptionNotFound, "Subscription failure record not found")
)

// Fixed user-facing messages. Backend errors never reach the client verbatim.
const (
	MsgTryAgain            = "Something went wrong. Please try again."
	MsgCustomerInfoFailed  = "We couldn't save your contact details. Please check them and try again."
	MsgAddressFailed       = "We couldn't save your address. Please check it and try again."
	MsgShippingFailed      = "We couldn't set the shipping method. Please choose another option."
	MsgOrderFailed         = "We couldn't place your order. Please try again."
	MsgAddToCartFailed     = "We couldn't add this item to your cart."
	MsgMFAVerifyFailed     = "Invalid verification code. Please try again."
	MsgMFASetupFailed      = "We couldn't start two-factor setup. Please try again."
	MsgMFARegenerateFailed = "We couldn't regenerate your backup codes."
	MsgMFADisableFailed    = "We couldn't disable two-factor authentication."
)

// RejectedError wraps a backend rejection in a fixed user-facing message.
func RejectedError(message string) *DomainError {
	return NewDomainError(ErrCodeBackendRejected, message)
}

// MissingFieldError reports a required field that was left empty.
func MissingFieldError(field string) *DomainError {
	return NewDomainError(ErrCodeMissingField, field+" is required")
}
