package enums

import "fmt"

// ShippingMode is the customer-requested delivery tier.
type ShippingMode string

const (
	ShippingModeStandard ShippingMode = "standard"
	ShippingModeExpress  ShippingMode = "express"
)

// IsValid reports whether the value matches the canonical shipping mode enum.
func (m ShippingMode) IsValid() bool {
	return m == ShippingModeStandard || m == ShippingModeExpress
}

// ParseShippingMode converts the raw string to ShippingMode.
func ParseShippingMode(value string) (ShippingMode, error) {
	switch ShippingMode(value) {
	case ShippingModeStandard:
		return ShippingModeStandard, nil
	case ShippingModeExpress:
		return ShippingModeExpress, nil
	}
	return "", fmt.Errorf("invalid shipping mode %q", value)
}
