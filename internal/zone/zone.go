// Package zone classifies shipping distance between a warehouse and a
// customer pincode into three bands: 1 is nearest, 3 is farthest.
package zone

import "strings"

const (
	// Local covers destinations sharing the full 3-digit postal prefix.
	Local = 1
	// Regional covers destinations sharing the leading postal circle digit.
	Regional = 2
	// National is everything else, including unknown pincodes.
	National = 3
)

// Classify maps a warehouse/customer pincode pair to a zone. Missing or
// blank input falls through to National so pricing stays conservative.
func Classify(warehousePincode, customerPincode string) int {
	wh := strings.TrimSpace(warehousePincode)
	cust := strings.TrimSpace(customerPincode)
	if wh == "" || cust == "" {
		return National
	}
	if len(wh) >= 3 && len(cust) >= 3 && wh[:3] == cust[:3] {
		return Local
	}
	if wh[0] == cust[0] {
		return Regional
	}
	return National
}
