package types

import "strings"

// Address is the customer shipping address snapshot frozen into orders.
// Fields are validated and whitelisted at the API boundary; nothing else
// the client sends is persisted.
type Address struct {
	Name    string `json:"name"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
}

// Validate reports the first missing required field, or "".
func (a Address) Validate() string {
	switch {
	case strings.TrimSpace(a.Line1) == "":
		return "line1"
	case strings.TrimSpace(a.City) == "":
		return "city"
	case strings.TrimSpace(a.State) == "":
		return "state"
	case strings.TrimSpace(a.Pincode) == "":
		return "pincode"
	}
	return ""
}
