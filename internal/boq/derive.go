package boq

const (
	defaultFloorHeight   = 3.0
	derivedAreaFallback  = 200.0
	derivedExternalWalls = 60.0
	derivedInternalWalls = 40.0
)

// RoomShare is a fixed fraction of the footprint area assigned to a synthesized room.
type RoomShare struct {
	Name  string
	Share float64
}

// RoomShares sums to 1.
var RoomShares = []RoomShare{
	{Name: "Living Room", Share: 0.30},
	{Name: "Kitchen", Share: 0.15},
	{Name: "Bedroom 1", Share: 0.18},
	{Name: "Bedroom 2", Share: 0.15},
	{Name: "Bathroom 1", Share: 0.08},
	{Name: "Bathroom 2", Share: 0.05},
	{Name: "Corridor", Share: 0.09},
}

// DeriveRooms splits area into the seven standard rooms.
func DeriveRooms(area float64) []Room {
	rooms := make([]Room, 0, len(RoomShares))
	for _, rs := range RoomShares {
		rooms = append(rooms, Room{Name: rs.Name, Area: Round2(area * rs.Share), Unit: "m²"})
	}
	return rooms
}

// DeriveStructuralElements synthesizes foundation, walls, floor and roof from a footprint.
// A zero footprint yields the 200 m² / 60 m / 40 m defaults. internalWalls is
// width+length, a coarse partition estimate rather than a measurement.
func DeriveStructuralElements(fp Footprint, floorHeight float64) []Element {
	height := floorHeight
	if height <= 0 {
		height = defaultFloorHeight
	}

	area := Round2(fp.Width * fp.Length)
	external := Round2(2 * (fp.Width + fp.Length))
	internal := Round2(fp.Width + fp.Length)
	if area <= 0 {
		area = derivedAreaFallback
	}
	if external <= 0 {
		external = derivedExternalWalls
	}
	if internal <= 0 {
		internal = derivedInternalWalls
	}

	return []Element{
		{Type: ElementFoundation, Area: area, Unit: "m²"},
		{Type: ElementExternalWalls, Length: external, Height: height, Unit: DefaultUnit},
		{Type: ElementInternalWalls, Length: internal, Height: height, Unit: DefaultUnit},
		{Type: ElementFloor, Area: area, Unit: "m²"},
		{Type: ElementRoof, Area: area, Unit: "m²"},
	}
}

// backfillElements appends derived structural elements whose type is not yet present.
func backfillElements(elements []Element, fp Footprint, floorHeight float64) []Element {
	present := make(map[string]bool, len(elements))
	for _, e := range elements {
		present[e.Type] = true
	}
	for _, e := range DeriveStructuralElements(fp, floorHeight) {
		if !present[e.Type] {
			elements = append(elements, e)
		}
	}
	return elements
}
