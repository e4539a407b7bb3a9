package boq

// Fixed fallback datasets returned whenever live extraction or synthesis cannot
// complete. Each call builds a fresh value.

const (
	FallbackFootprintWidth  = 15.4
	FallbackFootprintLength = 18.2
	FallbackFloorHeight     = 3.2
	FallbackTotalHeight     = 6.8
	DefaultUnit             = "m"
)

// FallbackSpecification returns the canned specification dataset.
func FallbackSpecification() SpecificationData {
	return SpecificationData{
		Materials: []Material{
			{Name: "Concrete", Grade: "M25", Description: "Design mix concrete for RCC footings, columns, beams and slabs"},
			{Name: "Steel Reinforcement", Grade: "Fe500", Description: "High strength deformed TMT bars"},
			{Name: "Bricks", Grade: "Class A", Description: "Burnt clay bricks for load bearing and partition masonry"},
			{Name: "Cement", Grade: "OPC 43", Description: "Ordinary Portland cement for mortar and plaster"},
		},
		Standards: []Standard{
			{Code: "IS 456:2000", Description: "Plain and reinforced concrete - Code of practice"},
			{Code: "IS 1786:2008", Description: "High strength deformed steel bars for concrete reinforcement"},
			{Code: "IS 1077:1992", Description: "Common burnt clay building bricks"},
			{Code: "IS 269:2015", Description: "Ordinary Portland cement"},
		},
		Specifications: map[string]string{
			"foundation": "Isolated RCC footings in M25 concrete over 100 mm PCC bed, founded 1.2 m below ground level.",
			"walls":      "230 mm external and 115 mm internal brick masonry in cement mortar 1:6.",
			"flooring":   "600x600 mm vitrified tiles laid on 1:4 cement mortar bed with matching skirting.",
			"roofing":    "150 mm RCC roof slab in M25 concrete with brickbat coba waterproofing.",
			"plastering": "12 mm internal and 20 mm external cement plaster in 1:4 mix.",
			"painting":   "Two coats of acrylic emulsion over primer internally and weatherproof exterior paint externally.",
		},
	}
}

// FallbackDrawing returns the canned drawing dataset for a 15.4 m x 18.2 m two storey footprint.
func FallbackDrawing() DrawingData {
	area := Round2(FallbackFootprintWidth * FallbackFootprintLength)
	return DrawingData{
		Dimensions: Dimensions{
			BuildingFootprint: Footprint{Width: FallbackFootprintWidth, Length: FallbackFootprintLength, Unit: DefaultUnit},
			FloorHeight:       FallbackFloorHeight,
			TotalHeight:       FallbackTotalHeight,
		},
		Elements: []Element{
			{Type: ElementFoundation, Area: area, Depth: 1.2, Unit: "m²"},
			{Type: ElementExternalWalls, Length: 67.2, Height: FallbackFloorHeight, Thickness: 0.23, Unit: DefaultUnit},
			{Type: ElementInternalWalls, Length: 33.6, Height: FallbackFloorHeight, Thickness: 0.115, Unit: DefaultUnit},
			{Type: ElementFloor, Area: area, Unit: "m²"},
			{Type: ElementRoof, Area: area, Unit: "m²"},
			{Type: ElementWindows, Count: 14, AverageSize: &Size{Width: 1.2, Height: 1.5, Unit: DefaultUnit}},
			{Type: ElementDoors, Count: 8, AverageSize: &Size{Width: 0.9, Height: 2.1, Unit: DefaultUnit}},
		},
		Rooms: DeriveRooms(area),
	}
}

// FallbackBoq returns the canned eight-section bill of quantities.
// Its grand total is 3,287,066.60.
func FallbackBoq() Boq {
	return Boq{
		{
			Section: "Earthwork and Foundation",
			Items: []BoqItem{
				{Ref: "1.1", Description: "Site clearance.\nRemoval of debris, vegetation and topsoil over the building footprint", Quantity: "280.28", Unit: "m²", Rate: "25.00", RateRef: "EW01", Total: "7,007.00"},
				{Ref: "1.2", Description: "Excavation for foundations in ordinary soil\nincluding disposal of surplus material", Quantity: "100.90", Unit: "m³", Rate: "450.00", RateRef: "EW02", Total: "45,405.00"},
				{Ref: "1.3", Description: "Anti-termite soil treatment to horizontal and sloping surfaces", Quantity: "280.28", Unit: "m²", Rate: "120.00", RateRef: "EW03", Total: "33,633.60"},
				{Ref: "1.4", Description: "Backfilling with approved excavated material\nin layers not exceeding 200 mm, well compacted", Quantity: "67.26", Unit: "m³", Rate: "350.00", RateRef: "EW04", Total: "23,541.00"},
			},
		},
		{
			Section: "Concrete Works",
			Items: []BoqItem{
				{Ref: "2.1", Description: "Plain cement concrete 1:4:8 bed under footings", Quantity: "28.03", Unit: "m³", Rate: "5,200.00", RateRef: "CW01", Total: "145,756.00"},
				{Ref: "2.2", Description: "Reinforced concrete grade M25\nIn footings and plinth beams", Quantity: "48.50", Unit: "m³", Rate: "7,800.00", RateRef: "CW02", Total: "378,300.00"},
				{Ref: "2.3", Description: "Reinforced concrete grade M25\nIn columns, beams and slabs", Quantity: "56.06", Unit: "m³", Rate: "7,800.00", RateRef: "CW03", Total: "437,268.00"},
				{Ref: "2.4", Description: "Fe500 TMT reinforcement\ncut, bent and fixed in position", Quantity: "8420.00", Unit: "kg", Rate: "85.00", RateRef: "CW04", Total: "715,700.00"},
			},
		},
		{
			Section: "Masonry Works",
			Items: []BoqItem{
				{Ref: "3.1", Description: "230 mm brick masonry in cement mortar 1:6\nExternal walls", Quantity: "49.46", Unit: "m³", Rate: "6,200.00", RateRef: "MW01", Total: "306,652.00"},
				{Ref: "3.2", Description: "115 mm brick masonry in cement mortar 1:4\nInternal partitions", Quantity: "107.52", Unit: "m²", Rate: "950.00", RateRef: "MW02", Total: "102,144.00"},
			},
		},
		{
			Section: "Plastering Works",
			Items: []BoqItem{
				{Ref: "4.1", Description: "12 mm internal cement plaster 1:4", Quantity: "645.12", Unit: "m²", Rate: "220.00", RateRef: "PW01", Total: "141,926.40"},
				{Ref: "4.2", Description: "20 mm external cement plaster 1:4 in two coats", Quantity: "215.04", Unit: "m²", Rate: "280.00", RateRef: "PW02", Total: "60,211.20"},
				{Ref: "4.3", Description: "Acrylic emulsion paint, two coats over primer", Quantity: "645.12", Unit: "m²", Rate: "120.00", RateRef: "PW03", Total: "77,414.40"},
			},
		},
		{
			Section: "Flooring Works",
			Items: []BoqItem{
				{Ref: "5.1", Description: "600x600 mm vitrified tile flooring\nlaid on 1:4 cement mortar bed", Quantity: "280.28", Unit: "m²", Rate: "1,100.00", RateRef: "FW01", Total: "308,308.00"},
				{Ref: "5.2", Description: "100 mm high tile skirting", Quantity: "120.00", Unit: "m", Rate: "180.00", RateRef: "FW02", Total: "21,600.00"},
			},
		},
		{
			Section: "Doors and Windows",
			Items: []BoqItem{
				{Ref: "6.1", Description: "Flush doors 900 x 2100 mm\nwith hardwood frame and fittings", Quantity: "8", Unit: "nos", Rate: "12,500.00", RateRef: "DW01", Total: "100,000.00"},
				{Ref: "6.2", Description: "Aluminium sliding windows 1200 x 1500 mm\nwith 5 mm glazing", Quantity: "14", Unit: "nos", Rate: "9,800.00", RateRef: "DW02", Total: "137,200.00"},
			},
		},
		{
			Section: "Plumbing Works",
			Items: []BoqItem{
				{Ref: "7.1", Description: "Water supply and sanitary installation\nincluding fixtures for two bathrooms and kitchen", Quantity: "1", Unit: "Item", Rate: "85,000.00", RateRef: "PL01", Total: "85,000.00"},
				{Ref: "7.2", Description: "Soil, waste and rainwater drainage\nup to the first external manhole", Quantity: "1", Unit: "Item", Rate: "45,000.00", RateRef: "PL02", Total: "45,000.00"},
			},
		},
		{
			Section: "Electrical Works",
			Items: []BoqItem{
				{Ref: "8.1", Description: "Concealed wiring points for lights, fans and sockets", Quantity: "60", Unit: "nos", Rate: "1,450.00", RateRef: "EL01", Total: "87,000.00"},
				{Ref: "8.2", Description: "Distribution board, earthing and main cabling", Quantity: "1", Unit: "Item", Rate: "28,000.00", RateRef: "EL02", Total: "28,000.00"},
			},
		},
	}
}
