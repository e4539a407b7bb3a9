package boq

import (
	"errors"
	"regexp"
	"strings"
)

// Required specification sections, in backfill order.
var RequiredSpecSections = []string{"foundation", "walls", "flooring", "roofing"}

var defaultSpecSections = map[string]string{
	"foundation": "RCC foundation with concrete",
	"walls":      "Brick masonry walls with cement mortar",
	"flooring":   "Tiled flooring",
	"roofing":    "RCC slab roofing",
}

var specSectionPatterns = map[string][]*regexp.Regexp{
	"foundation": {sectionPattern("foundation"), sectionPattern("footing")},
	"walls":      {sectionPattern("wall"), sectionPattern("masonry")},
	"flooring":   {sectionPattern("floor")},
	"roofing":    {sectionPattern("roof"), sectionPattern("ceiling")},
}

// sectionPattern matches a sentence opening with word as a whole word, plural
// and -ing forms included.
func sectionPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + word + `(?:s|ing)?\b[^.\n]*[.\n]`)
}

var jsonPunctuation = strings.NewReplacer(`"`, " ", "{", " ", "}", " ", "[", " ", "]", " ")

// wellKnownElements may each appear at most once in DrawingData.Elements.
var wellKnownElements = map[string]bool{
	ElementFoundation:    true,
	ElementExternalWalls: true,
	ElementInternalWalls: true,
	ElementFloor:         true,
	ElementRoof:          true,
	ElementWindows:       true,
	ElementDoors:         true,
}

// NormalizeSpecification maps a decoded provider response onto SpecificationData.
// A response already carrying materials, standards and specifications is taken
// as-is. Otherwise required sections missing from it are recovered from rawText
// or replaced with a default sentence.
func NormalizeSpecification(raw map[string]any, rawText string) SpecificationData {
	out := SpecificationData{
		Materials:      []Material{},
		Standards:      []Standard{},
		Specifications: map[string]string{},
	}

	if list, ok := firstList(raw, "materials", "material_list"); ok {
		for _, entry := range list {
			switch v := entry.(type) {
			case map[string]any:
				out.Materials = append(out.Materials, Material{
					Name:        firstString(v, "name", "material"),
					Grade:       firstString(v, "grade"),
					Description: firstString(v, "description", "desc"),
				})
			case string:
				out.Materials = append(out.Materials, Material{Name: strings.TrimSpace(v)})
			}
		}
	}

	if list, ok := firstList(raw, "standards", "codes"); ok {
		for _, entry := range list {
			switch v := entry.(type) {
			case map[string]any:
				out.Standards = append(out.Standards, Standard{
					Code:        firstString(v, "code", "standard"),
					Description: firstString(v, "description", "desc"),
				})
			case string:
				out.Standards = append(out.Standards, Standard{Code: strings.TrimSpace(v)})
			}
		}
	}

	if sections := firstMap(raw, "specifications", "specs"); sections != nil {
		for k, v := range sections {
			if text := textOf(v); text != "" {
				out.Specifications[k] = text
			}
		}
	}

	if hasKeys(raw, "materials", "standards", "specifications") {
		return out
	}

	text := jsonPunctuation.Replace(rawText)
	for _, key := range RequiredSpecSections {
		if out.Specifications[key] != "" {
			continue
		}
		if found, ok := scanSection(text, key); ok {
			out.Specifications[key] = found
			continue
		}
		out.Specifications[key] = defaultSpecSections[key]
	}
	return out
}

func hasKeys(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

// scanSection finds the longest sentence in text that starts with one of the
// section's keywords.
func scanSection(text, key string) (string, bool) {
	for _, re := range specSectionPatterns[key] {
		best := ""
		for _, m := range re.FindAllString(text, -1) {
			if len(m) > len(best) {
				best = m
			}
		}
		best = strings.Join(strings.Fields(strings.Trim(best, " \t\r\n,")), " ")
		if best != "" {
			return best, true
		}
	}
	return "", false
}

// NormalizeDrawing maps a decoded provider response onto DrawingData, backfilling
// structural elements and rooms when the response is sparse. The returned
// footprint always has positive sides.
func NormalizeDrawing(raw map[string]any) DrawingData {
	var out DrawingData

	dims := firstMap(raw, "dimensions", "buildingDimensions")
	if dims == nil {
		dims = map[string]any{}
	}
	fp := firstMap(dims, "buildingFootprint", "footprint")
	if fp == nil {
		fp = map[string]any{}
	}
	out.Dimensions = Dimensions{
		BuildingFootprint: Footprint{
			Width:  firstNumber(fp, "width", "w"),
			Length: firstNumber(fp, "length", "l"),
			Unit:   firstString(fp, "unit"),
		},
		FloorHeight: firstNumber(dims, "floorHeight", "floor_height"),
		TotalHeight: firstNumber(dims, "totalHeight", "total_height"),
	}
	if out.Dimensions.BuildingFootprint.Unit == "" {
		out.Dimensions.BuildingFootprint.Unit = DefaultUnit
	}

	out.Elements = []Element{}
	seen := map[string]bool{}
	if list, ok := firstList(raw, "elements", "buildingElements", "structural_elements"); ok {
		for _, entry := range list {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			e := elementOf(m)
			if wellKnownElements[e.Type] {
				if seen[e.Type] {
					continue
				}
				seen[e.Type] = true
			}
			out.Elements = append(out.Elements, e)
		}
	}
	if len(out.Elements) < 3 {
		out.Elements = backfillElements(out.Elements, out.Dimensions.BuildingFootprint, out.Dimensions.FloorHeight)
	}

	out.Rooms = []Room{}
	if list, ok := firstList(raw, "rooms", "spaces"); ok {
		for _, entry := range list {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			r := Room{
				Name: firstString(m, "name", "room", "type"),
				Area: firstNumber(m, "area"),
				Unit: firstString(m, "unit"),
			}
			if r.Unit == "" {
				r.Unit = "m²"
			}
			out.Rooms = append(out.Rooms, r)
		}
	}
	if len(out.Rooms) == 0 {
		area := out.Dimensions.BuildingFootprint.Width * out.Dimensions.BuildingFootprint.Length
		if area <= 0 {
			area = derivedAreaFallback
		}
		out.Rooms = DeriveRooms(area)
	}

	if out.Dimensions.BuildingFootprint.Width <= 0 {
		out.Dimensions.BuildingFootprint.Width = FallbackFootprintWidth
	}
	if out.Dimensions.BuildingFootprint.Length <= 0 {
		out.Dimensions.BuildingFootprint.Length = FallbackFootprintLength
	}
	return out
}

func elementOf(m map[string]any) Element {
	e := Element{
		Type:      firstString(m, "type", "name"),
		Area:      firstNumber(m, "area"),
		Length:    firstNumber(m, "length"),
		Height:    firstNumber(m, "height"),
		Thickness: firstNumber(m, "thickness"),
		Depth:     firstNumber(m, "depth"),
		Count:     int(firstNumber(m, "count", "quantity")),
		Unit:      firstString(m, "unit"),
	}
	if e.Type == "" {
		e.Type = ElementUnknown
	}
	if size := firstMap(m, "averageSize", "size"); size != nil {
		e.AverageSize = &Size{
			Width:  firstNumber(size, "width", "w"),
			Height: firstNumber(size, "height", "h"),
			Unit:   firstString(size, "unit"),
		}
	}
	return e
}

var ErrBoqShape = errors.New("boq response has no boq, sections or top-level array")

// NormalizeBoq accepts {boq:[...]}, {sections:[...]} or a bare array and returns
// the sections with every item field rendered as a string.
func NormalizeBoq(raw any) (Boq, error) {
	var list []any
	switch v := raw.(type) {
	case []any:
		list = v
	case map[string]any:
		l, ok := firstList(v, "boq", "sections")
		if !ok {
			return nil, ErrBoqShape
		}
		list = l
	default:
		return nil, ErrBoqShape
	}

	out := make(Boq, 0, len(list))
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, ErrBoqShape
		}
		section := BoqSection{
			Section: firstString(m, "section", "title", "name"),
			Items:   []BoqItem{},
		}
		items, _ := firstList(m, "items")
		for _, it := range items {
			im, ok := it.(map[string]any)
			if !ok {
				continue
			}
			section.Items = append(section.Items, BoqItem{
				Ref:         firstString(im, "ref", "id"),
				Description: firstString(im, "description"),
				Quantity:    firstString(im, "quantity", "qty"),
				Unit:        firstString(im, "unit"),
				Rate:        amountText(im, "rate"),
				RateRef:     firstString(im, "rateRef", "rate_ref"),
				Total:       amountText(im, "total", "amount"),
			})
		}
		out = append(out, section)
	}
	return out, nil
}

// amountText renders numeric amounts with thousands separators and keeps
// strings as the provider wrote them.
func amountText(m map[string]any, keys ...string) string {
	v, ok := firstValue(m, keys...)
	if !ok {
		return ""
	}
	if s, isString := v.(string); isString {
		return strings.TrimSpace(s)
	}
	if f, ok := numberOf(v); ok {
		return FormatAmount(f)
	}
	return textOf(v)
}
