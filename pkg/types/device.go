package types

import "strings"

// DeviceInfo describes the router a customer wants unlocked. The fields
// are fixed at order creation.
type DeviceInfo struct {
	Country string `json:"country"`
	Brand   string `json:"brand"`
	Model   string `json:"model"`
	IMEI    string `json:"imei"`
	Notes   string `json:"notes,omitempty"`
}

// MinIMEILength is the shortest IMEI the intake form accepts. Devices
// report 15 digits; the value is not checksum-validated server side.
const MinIMEILength = 15

// Validate returns a field→message map for every missing or malformed
// field, empty when the descriptor is acceptable.
func (d DeviceInfo) Validate() map[string]string {
	problems := map[string]string{}
	if strings.TrimSpace(d.Country) == "" {
		problems["country"] = "country is required"
	}
	if strings.TrimSpace(d.Brand) == "" {
		problems["brand"] = "brand is required"
	}
	if strings.TrimSpace(d.Model) == "" {
		problems["model"] = "model is required"
	}
	if len(strings.TrimSpace(d.IMEI)) < MinIMEILength {
		problems["imei"] = "imei must be at least 15 characters"
	}
	return problems
}
