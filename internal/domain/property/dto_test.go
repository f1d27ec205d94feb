package property

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreatePayloadNormalizesPrice(t *testing.T) {
	req := CreatePropertyRequest{Name: "Lekki Gardens", Location: "Lagos", Category: CategoryLand, Price: "₦1.5M"}

	raw, err := json.Marshal(req.Payload())
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"Lekki Gardens","location":"Lagos","description":"","category":"land","price":1500000,"status":"available"}`, string(raw))

	p := req.ToProperty()
	require.Equal(t, 1500000.0, p.Price.Float())
	require.Equal(t, StatusAvailable, p.PropertyStatus)
	require.Empty(t, p.ID)
}

func TestUpdateApplyOnlyTouchesSetFields(t *testing.T) {
	name := "Renamed"
	amount := "250,000"
	orig := Property{ID: "7", Name: "Old", Location: "Abuja", Price: 100, PropertyStatus: StatusReserved}

	got := UpdatePropertyRequest{Name: &name, Price: &amount}.Apply(orig)
	require.Equal(t, "Renamed", got.Name)
	require.Equal(t, "Abuja", got.Location)
	require.Equal(t, 250000.0, got.Price.Float())
	require.Equal(t, StatusReserved, got.PropertyStatus)

	raw, err := json.Marshal(UpdatePropertyRequest{Name: &name}.Payload())
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"Renamed"}`, string(raw))
}

func TestSubPropertyPayloadCarriesParent(t *testing.T) {
	req := CreateSubPropertyRequest{Name: "Plot 4", Price: "2K", Status: StatusReserved}

	raw, err := json.Marshal(req.Payload("12"))
	require.NoError(t, err)
	require.JSONEq(t, `{"propertyId":"12","name":"Plot 4","size":"","price":2000,"status":"reserved"}`, string(raw))

	s := req.ToSubProperty("12")
	require.Equal(t, "12", s.PropertyID.String())
	require.Equal(t, 2000.0, s.Price.Float())
}
