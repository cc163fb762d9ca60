package checkout

import (
	"storefront/internal/model"
)

// acceptedPaymentStatuses are processor statuses that count as a confirmed payment.
var acceptedPaymentStatuses = map[string]bool{
	"succeeded":        true,
	"processing":       true,
	"requires_capture": true,
}

// Require fails unless the checkout is currently at step.
func Require(state *model.CheckoutState, step model.Step) error {
	if state.CurrentStep != step {
		return model.ErrInvalidStep
	}
	return nil
}

// Advance moves the checkout from its current step to the next one.
// Steps are never skipped.
func Advance(state *model.CheckoutState) error {
	next, ok := Next(state.CurrentStep)
	if !ok {
		return model.ErrInvalidStep
	}
	state.CurrentStep = next
	return nil
}

// GoBack moves the checkout to target, which must be strictly earlier than
// the current step. A confirmed order cannot be revisited.
func GoBack(state *model.CheckoutState, target model.Step) error {
	if !Valid(target) {
		return model.ErrInvalidStep
	}
	if state.CurrentStep == model.StepConfirmation {
		return model.ErrInvalidStep
	}
	if Index(target) >= Index(state.CurrentStep) {
		return model.ErrStepBackward
	}
	state.CurrentStep = target
	return nil
}

// ConfirmPayment records the payment form's confirmation event and moves the
// checkout to review.
func ConfirmPayment(state *model.CheckoutState, status string) error {
	if err := Require(state, model.StepPayment); err != nil {
		return err
	}
	if !acceptedPaymentStatuses[status] {
		return model.ErrPaymentNotConfirmed
	}
	state.PaymentProcessed = true
	return Advance(state)
}

// CanPlaceOrder fails unless the checkout is at review with a processed payment.
func CanPlaceOrder(state *model.CheckoutState) error {
	if err := Require(state, model.StepReview); err != nil {
		return err
	}
	if !state.PaymentProcessed {
		return model.ErrPaymentNotProcessed
	}
	return nil
}

// Complete stores the order and moves the checkout to confirmation.
func Complete(state *model.CheckoutState, order *model.Order) error {
	if err := CanPlaceOrder(state); err != nil {
		return err
	}
	state.Order = order
	return Advance(state)
}
