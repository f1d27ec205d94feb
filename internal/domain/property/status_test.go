package property

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveEffectiveStatus(t *testing.T) {
	sold := SubProperty{SubPropertyStatus: StatusSold}
	open := SubProperty{SubPropertyStatus: StatusAvailable}

	cases := []struct {
		name     string
		parent   Status
		children []SubProperty
		want     Status
	}{
		{"parent sold", StatusSold, []SubProperty{open}, StatusSold},
		{"parent sold mixed case", "SOLD", nil, StatusSold},
		{"all children sold", StatusAvailable, []SubProperty{sold, sold}, StatusSold},
		{"one child open", StatusAvailable, []SubProperty{sold, open}, StatusAvailable},
		{"no children", StatusReserved, nil, StatusReserved},
		{"reserved with open child", StatusReserved, []SubProperty{open}, StatusReserved},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveEffectiveStatus(Property{PropertyStatus: tc.parent}, tc.children)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestAvailability(t *testing.T) {
	got := Availability([]SubProperty{
		{SubPropertyStatus: StatusSold},
		{SubPropertyStatus: "Available"},
		{SubPropertyStatus: StatusAvailable},
	})
	require.Equal(t, map[Status]int{StatusSold: 1, StatusAvailable: 2}, got)
}
