package enums

import "fmt"

// PaymentMethod selects the checkout path.
type PaymentMethod string

const (
	PaymentMethodCOD     PaymentMethod = "cod"
	PaymentMethodGateway PaymentMethod = "gateway"
)

// ParsePaymentMethod converts the raw string to PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	switch PaymentMethod(value) {
	case PaymentMethodCOD:
		return PaymentMethodCOD, nil
	case PaymentMethodGateway:
		return PaymentMethodGateway, nil
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

// PaymentStatus is the lifecycle state of a gateway payment.
type PaymentStatus string

const (
	PaymentStatusPending      PaymentStatus = "pending"
	PaymentStatusCompleted    PaymentStatus = "completed"
	PaymentStatusFailed       PaymentStatus = "failed"
	PaymentStatusRefunded     PaymentStatus = "refunded"
	PaymentStatusRefundFailed PaymentStatus = "refund_failed"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusCompleted,
	PaymentStatusFailed,
	PaymentStatusRefunded,
	PaymentStatusRefundFailed,
}

// IsValid reports whether the value matches the canonical payment status enum.
func (s PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}
