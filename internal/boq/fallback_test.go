package boq

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackBoq_SectionsAndGrandTotal(t *testing.T) {
	b := FallbackBoq()

	want := []string{
		"Earthwork and Foundation",
		"Concrete Works",
		"Masonry Works",
		"Plastering Works",
		"Flooring Works",
		"Doors and Windows",
		"Plumbing Works",
		"Electrical Works",
	}
	require.Len(t, b, len(want))
	for i, s := range b {
		assert.Equal(t, want[i], s.Section)
		assert.NotEmpty(t, s.Items)
	}
	assert.Equal(t, "3,287,066.60", GrandTotal(b))
	assert.NoError(t, ValidateBoq(b))
}

func TestFallbackBoq_TotalsEqualQuantityTimesRate(t *testing.T) {
	for _, section := range FallbackBoq() {
		for _, item := range section.Items {
			q, err := ParseAmountCents(item.Quantity)
			require.NoError(t, err, item.Ref)
			r, err := ParseAmountCents(item.Rate)
			require.NoError(t, err, item.Ref)
			total, err := ParseAmountCents(item.Total)
			require.NoError(t, err, item.Ref)

			// q and r are both in cents, so the product is in 1/10000ths
			assert.Equal(t, (q*r+50)/100, total, "%s %s", section.Section, item.Ref)
		}
	}
}

func TestFallbackDrawing(t *testing.T) {
	d := FallbackDrawing()

	assert.Equal(t, Footprint{Width: 15.4, Length: 18.2, Unit: "m"}, d.Dimensions.BuildingFootprint)
	assert.Equal(t, 3.2, d.Dimensions.FloorHeight)
	assert.Equal(t, 6.8, d.Dimensions.TotalHeight)

	var types []string
	for _, e := range d.Elements {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{
		ElementFoundation, ElementExternalWalls, ElementInternalWalls,
		ElementFloor, ElementRoof, ElementWindows, ElementDoors,
	}, types)

	foundation, ok := d.Element(ElementFoundation)
	require.True(t, ok)
	assert.Equal(t, 280.28, foundation.Area)

	require.Len(t, d.Rooms, 7)
	assert.Equal(t, Room{Name: "Living Room", Area: 84.08, Unit: "m²"}, d.Rooms[0])
	assert.Equal(t, Room{Name: "Corridor", Area: 25.23, Unit: "m²"}, d.Rooms[6])
}

func TestFallbackSpecification(t *testing.T) {
	s := FallbackSpecification()

	require.Len(t, s.Materials, 4)
	assert.Equal(t, "Concrete", s.Materials[0].Name)
	assert.Equal(t, "M25", s.Materials[0].Grade)
	assert.Equal(t, "Steel Reinforcement", s.Materials[1].Name)
	assert.Equal(t, "Fe500", s.Materials[1].Grade)
	assert.Equal(t, "Bricks", s.Materials[2].Name)
	assert.Equal(t, "Class A", s.Materials[2].Grade)
	assert.Equal(t, "Cement", s.Materials[3].Name)
	assert.Equal(t, "OPC 43", s.Materials[3].Grade)

	for _, key := range []string{"foundation", "walls", "flooring", "roofing", "plastering", "painting"} {
		assert.NotEmpty(t, s.Specifications[key], key)
	}
}

func TestFallbacks_AreFreshAndByteIdentical(t *testing.T) {
	first, err := json.Marshal(FallbackDrawing())
	require.NoError(t, err)

	mutated := FallbackDrawing()
	mutated.Elements[0].Area = 1
	mutated.Elements[5].AverageSize.Width = 99
	mutated.Rooms[0].Name = "changed"

	second, err := json.Marshal(FallbackDrawing())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	spec := FallbackSpecification()
	spec.Specifications["foundation"] = ""
	assert.NotEmpty(t, FallbackSpecification().Specifications["foundation"])

	b := FallbackBoq()
	b[0].Items[0].Total = "0.00"
	assert.Equal(t, "3,287,066.60", GrandTotal(FallbackBoq()))
}
