package property

import "strings"

// DeriveEffectiveStatus reports the status a property should display. A
// property counts as sold when it is marked sold itself, or when it has
// sub-properties and every one of them is sold. Otherwise its own status
// stands.
func DeriveEffectiveStatus(parent Property, children []SubProperty) Status {
	if isSold(parent.PropertyStatus) {
		return StatusSold
	}
	if len(children) == 0 {
		return parent.PropertyStatus
	}
	for _, c := range children {
		if !isSold(c.SubPropertyStatus) {
			return parent.PropertyStatus
		}
	}
	return StatusSold
}

// Availability counts sub-properties by status.
func Availability(children []SubProperty) map[Status]int {
	out := make(map[Status]int, 3)
	for _, c := range children {
		out[Status(strings.ToLower(string(c.SubPropertyStatus)))]++
	}
	return out
}

func isSold(s Status) bool {
	return strings.EqualFold(string(s), string(StatusSold))
}
