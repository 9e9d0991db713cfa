package domain

// CheckoutStatus tracks the client-side checkout flow. There is no PAID
// status: payment completes on the external gateway and is reported
// out-of-band to the backend.
type CheckoutStatus string

const (
	CheckoutStatusEditing   CheckoutStatus = "EDITING"
	CheckoutStatusConfirmed CheckoutStatus = "CONFIRMED"
)

// CanTransitionTo reports whether moving from s to next is legal.
func (s CheckoutStatus) CanTransitionTo(next CheckoutStatus) bool {
	switch s {
	case CheckoutStatusEditing:
		return next == CheckoutStatusConfirmed
	default:
		return false
	}
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}
