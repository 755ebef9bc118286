package models

// Shape represents a drawing shape anchored on a sheet.
type Shape struct {
	// ID is the sequential shape id within the sheet (connectors have none).
	ID *int `json:"id,omitempty"`
	// Name is the shape name from its non-visual properties.
	Name string `json:"name,omitempty"`
	// Text is the visible text content of the shape.
	Text string `json:"text"`
	// Type is the shape type label derived from the preset geometry.
	Type string `json:"type,omitempty"`
	// Geometry is the preset geometry name (e.g., rect, straightConnector1).
	Geometry string `json:"geometry,omitempty"`
	// Anchor attaches the shape to the grid.
	Anchor Anchor `json:"anchor"`
	// L is the left offset in pixels.
	L int `json:"l"`
	// T is the top offset in pixels.
	T int `json:"t"`
	// W is the shape width in pixels.
	W int `json:"w"`
	// H is the shape height in pixels.
	H int `json:"h"`
	// Rotation is the rotation angle in degrees.
	Rotation *float64 `json:"rotation,omitempty"`
	// Connector reports a connector or line shape.
	Connector bool `json:"connector,omitempty"`
	// BeginArrow is the arrow head type at the start of a connector.
	BeginArrow string `json:"begin_arrow,omitempty"`
	// EndArrow is the arrow head type at the end of a connector.
	EndArrow string `json:"end_arrow,omitempty"`
	// BeginID is the shape id at the start of a connector.
	BeginID *int `json:"begin_id,omitempty"`
	// EndID is the shape id at the end of a connector.
	EndID *int `json:"end_id,omitempty"`
	// Direction is the connector direction (compass heading: N, NE, E, SE, S, SW, W, NW).
	Direction string `json:"direction,omitempty"`
	// Style is the fill and outline of the shape.
	Style *ShapeStyle `json:"style,omitempty"`
}
