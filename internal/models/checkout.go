package models

// CheckoutState is the state of the checkout controller.
type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutSubmitting CheckoutState = "submitting"
	CheckoutSucceeded  CheckoutState = "succeeded"
	CheckoutFailed     CheckoutState = "failed"
)

// IsTerminal reports whether the state ends a checkout attempt.
func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutSucceeded || s == CheckoutFailed
}

func (s CheckoutState) String() string {
	return string(s)
}
