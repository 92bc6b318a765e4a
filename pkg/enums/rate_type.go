package enums

import "fmt"

// RateType describes how a shipping method prices an order.
type RateType string

const (
	RateTypeFlat     RateType = "flat"
	RateTypePerItem  RateType = "per_item"
	RateTypePerOrder RateType = "per_order"
)

var validRateTypes = []RateType{
	RateTypeFlat,
	RateTypePerItem,
	RateTypePerOrder,
}

// String implements fmt.Stringer.
func (r RateType) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RateType.
func (r RateType) IsValid() bool {
	for _, candidate := range validRateTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRateType converts raw input into a RateType.
func ParseRateType(value string) (RateType, error) {
	for _, candidate := range validRateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rate type %q", value)
}
