package enums

import "fmt"

// CheckoutState tracks how far a checkout attempt progressed. Each value
// names the last step that committed, so compensation knows what to undo.
type CheckoutState string

const (
	CheckoutStateInitiated      CheckoutState = "initiated"
	CheckoutStateStockReserved  CheckoutState = "stock_reserved"
	CheckoutStatePaymentPending CheckoutState = "payment_pending"
	CheckoutStateOrderPersisted CheckoutState = "order_persisted"
	CheckoutStateCartCleared    CheckoutState = "cart_cleared"
	CheckoutStateCompleted      CheckoutState = "completed"
	CheckoutStateCompensated    CheckoutState = "compensated"
	CheckoutStateFailed         CheckoutState = "failed"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateInitiated,
	CheckoutStateStockReserved,
	CheckoutStatePaymentPending,
	CheckoutStateOrderPersisted,
	CheckoutStateCartCleared,
	CheckoutStateCompleted,
	CheckoutStateCompensated,
	CheckoutStateFailed,
}

// IsValid reports whether the value matches the canonical checkout state enum.
func (s CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// HoldsReservations reports whether inventory is still held by an attempt
// in this state and must be released if the attempt is abandoned.
func (s CheckoutState) HoldsReservations() bool {
	return s == CheckoutStateStockReserved || s == CheckoutStatePaymentPending
}

// ParseCheckoutState converts the raw string to CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
