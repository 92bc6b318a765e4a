package types

import "strings"

// Address is the shipping address snapshot stored on carts and orders.
// CustomFields carries free-form checkout fields configured by the store.
type Address struct {
	Name         string            `json:"name"`
	Address      string            `json:"address"`
	City         string            `json:"city"`
	State        string            `json:"state"`
	Zip          string            `json:"zip"`
	Phone        string            `json:"phone"`
	Country      string            `json:"country"`
	CustomFields map[string]string `json:"custom_fields,omitempty"`
}

// Field returns the named address field, checking the fixed fields before
// falling back to custom ones.
func (a Address) Field(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "name":
		return a.Name
	case "address":
		return a.Address
	case "city":
		return a.City
	case "state":
		return a.State
	case "zip":
		return a.Zip
	case "phone":
		return a.Phone
	case "country":
		return a.Country
	}
	if a.CustomFields == nil {
		return ""
	}
	return a.CustomFields[name]
}
