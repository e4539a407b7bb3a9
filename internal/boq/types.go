package boq

// UploadedDocument is a file the user selected for an estimate. Path and URL are
// assigned once the object has been stored and never change afterwards.
type UploadedDocument struct {
	Name        string   `json:"name"`
	ContentType string   `json:"content_type,omitempty"`
	Size        int64    `json:"size,omitempty"`
	Path        string   `json:"path"`
	URL         string   `json:"url"`
	Kind        FileKind `json:"kind"`
}

// Persisted reports whether the document has been stored and has a retrieval URL.
func (d *UploadedDocument) Persisted() bool {
	return d != nil && d.URL != ""
}

type Material struct {
	Name        string `json:"name"`
	Grade       string `json:"grade"`
	Description string `json:"description"`
}

type Standard struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// SpecificationData is the normalized result of specification OCR.
// All three fields are always non-nil.
type SpecificationData struct {
	Materials      []Material        `json:"materials"`
	Standards      []Standard        `json:"standards"`
	Specifications map[string]string `json:"specifications"`
}

type Footprint struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Unit   string  `json:"unit"`
}

type Dimensions struct {
	BuildingFootprint Footprint `json:"buildingFootprint"`
	FloorHeight       float64   `json:"floorHeight"`
	TotalHeight       float64   `json:"totalHeight"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit,omitempty"`
}

// Well-known element types.
const (
	ElementFoundation    = "foundation"
	ElementExternalWalls = "externalWalls"
	ElementInternalWalls = "internalWalls"
	ElementFloor         = "floor"
	ElementRoof          = "roof"
	ElementWindows       = "windows"
	ElementDoors         = "doors"
	ElementUnknown       = "unknown"
)

// Element is one measured building element. Type selects which of the numeric
// fields are meaningful; unused fields stay zero and are omitted from JSON.
type Element struct {
	Type        string  `json:"type"`
	Area        float64 `json:"area,omitempty"`
	Length      float64 `json:"length,omitempty"`
	Height      float64 `json:"height,omitempty"`
	Thickness   float64 `json:"thickness,omitempty"`
	Depth       float64 `json:"depth,omitempty"`
	Count       int     `json:"count,omitempty"`
	AverageSize *Size   `json:"averageSize,omitempty"`
	Unit        string  `json:"unit,omitempty"`
}

type Room struct {
	Name string  `json:"name"`
	Area float64 `json:"area"`
	Unit string  `json:"unit"`
}

// DrawingData is the normalized result of drawing analysis.
type DrawingData struct {
	Dimensions Dimensions `json:"dimensions"`
	Elements   []Element  `json:"elements"`
	Rooms      []Room     `json:"rooms"`
}

// Element returns the first element of the given type.
func (d DrawingData) Element(elementType string) (Element, bool) {
	for _, e := range d.Elements {
		if e.Type == elementType {
			return e, true
		}
	}
	return Element{}, false
}

// HasFootprint reports whether both footprint sides are positive.
func (d DrawingData) HasFootprint() bool {
	fp := d.Dimensions.BuildingFootprint
	return fp.Width > 0 && fp.Length > 0
}

// BoqItem is one priced line. Quantity, Rate and Total are display strings;
// Total is expected to equal Quantity × Rate rounded to two decimals.
type BoqItem struct {
	Ref         string `json:"ref"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	Rate        string `json:"rate"`
	RateRef     string `json:"rateRef"`
	Total       string `json:"total"`
}

type BoqSection struct {
	Section string    `json:"section"`
	Items   []BoqItem `json:"items"`
}

// Boq is an ordered list of sections.
type Boq []BoqSection
