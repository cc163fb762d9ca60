package checkout

import "storefront/internal/model"

// steps lists the checkout steps in order.
var steps = []model.Step{
	model.StepInformation,
	model.StepShipping,
	model.StepPayment,
	model.StepReview,
	model.StepConfirmation,
}

// Index returns the position of step in the checkout, or -1 when unknown.
func Index(step model.Step) int {
	for i, s := range steps {
		if s == step {
			return i
		}
	}
	return -1
}

// Valid reports whether step is a known checkout step.
func Valid(step model.Step) bool {
	return Index(step) >= 0
}

// Next returns the step after step. The terminal step has no successor.
func Next(step model.Step) (model.Step, bool) {
	i := Index(step)
	if i < 0 || i == len(steps)-1 {
		return "", false
	}
	return steps[i+1], true
}
