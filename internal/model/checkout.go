package model

// Step is a checkout step. Steps are ordered; confirmation is terminal.
type Step string

const (
	StepInformation  Step = "information"
	StepShipping     Step = "shipping"
	StepPayment      Step = "payment"
	StepReview       Step = "review"
	StepConfirmation Step = "confirmation"
)

// CustomerInfo is collected on the information step.
type CustomerInfo struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
}

// CheckoutState is the persisted step-state bundle of one checkout session.
type CheckoutState struct {
	CurrentStep            Step         `json:"currentStep"`
	CustomerInfo           CustomerInfo `json:"customerInfo"`
	ShippingAddress        Address      `json:"shippingAddress"`
	SelectedShippingOption string       `json:"selectedShippingOption"`
	UseSameAddress         bool         `json:"useSameAddress"`
	PaymentProcessed       bool         `json:"paymentProcessed"`
	Order                  *Order       `json:"order,omitempty"`
}

// NewCheckoutState returns the state of a checkout that has not started.
func NewCheckoutState() *CheckoutState {
	return &CheckoutState{
		CurrentStep:    StepInformation,
		UseSameAddress: true,
	}
}

// ActionResult is returned by every checkout server action.
type ActionResult struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	State   *CheckoutState `json:"state,omitempty"`
	Cart    *Cart          `json:"cart,omitempty"`
	Order   *Order         `json:"order,omitempty"`
	// ClientSecret is the processor secret for the embedded payment form.
	ClientSecret string `json:"clientSecret,omitempty"`
}

// InformationRequest is the body of the information step.
type InformationRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
}

// AddressRequest is the body of the shipping-address step.
type AddressRequest struct {
	Address        Address  `json:"address"`
	UseSameAddress bool     `json:"useSameAddress"`
	BillingAddress *Address `json:"billingAddress,omitempty"`
}

// ShippingMethodRequest selects a shipping option.
type ShippingMethodRequest struct {
	OptionID string `json:"optionId"`
}

// PaymentConfirmation is the event raised by the embedded payment form.
type PaymentConfirmation struct {
	Status          string `json:"status"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
}

// GoBackRequest moves the checkout to an earlier step.
type GoBackRequest struct {
	Step Step `json:"step"`
}
