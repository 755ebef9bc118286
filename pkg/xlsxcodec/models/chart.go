package models

// PlotType is the kind of a chart plot.
type PlotType string

// Plot types, named after the chart element that declares them.
const (
	PlotLine      PlotType = "Line"
	PlotLine3D    PlotType = "3DLine"
	PlotBar       PlotType = "Bar"
	PlotBar3D     PlotType = "3DBar"
	PlotArea      PlotType = "Area"
	PlotArea3D    PlotType = "3DArea"
	PlotPie       PlotType = "Pie"
	PlotPie3D     PlotType = "3DPie"
	PlotDoughnut  PlotType = "Doughnut"
	PlotOfPie     PlotType = "PieOfPie"
	PlotScatter   PlotType = "XYScatter"
	PlotBubble    PlotType = "Bubble"
	PlotRadar     PlotType = "Radar"
	PlotSurface   PlotType = "Surface"
	PlotSurface3D PlotType = "3DSurface"
	PlotStock     PlotType = "Stock"
)

// IsBar reports whether the plot draws bars.
func (t PlotType) IsBar() bool { return t == PlotBar || t == PlotBar3D }

// IsXY reports whether both axes of the plot are value axes.
func (t PlotType) IsXY() bool { return t == PlotScatter || t == PlotBubble }

// IsRadar reports whether the plot is a radar plot.
func (t PlotType) IsRadar() bool { return t == PlotRadar }

// IsSurface reports whether the plot is a surface plot.
func (t PlotType) IsSurface() bool { return t == PlotSurface || t == PlotSurface3D }

// HasAxes reports whether the plot is drawn against axes.
func (t PlotType) HasAxes() bool {
	switch t {
	case PlotPie, PlotPie3D, PlotDoughnut, PlotOfPie:
		return false
	}
	return true
}

// AxisType is the kind of a chart axis element.
type AxisType string

// Axis types.
const (
	AxisCat  AxisType = "cat"
	AxisVal  AxisType = "val"
	AxisDate AxisType = "date"
	AxisSer  AxisType = "ser"
)

// AxisRole is the geometric role an axis plays for its plots.
type AxisRole string

// Axis roles.
const (
	RoleX        AxisRole = "X"
	RoleY        AxisRole = "Y"
	RolePseudo3D AxisRole = "Pseudo3D"
	RoleCircular AxisRole = "Circular"
	RoleRadial   AxisRole = "Radial"
)

// AxisPos is the side of the plot area an axis is drawn on.
type AxisPos string

// Axis positions.
const (
	PosBottom AxisPos = "b"
	PosTop    AxisPos = "t"
	PosLeft   AxisPos = "l"
	PosRight  AxisPos = "r"
)

// CrossMode tells where an axis crosses its cross axis.
type CrossMode string

// Cross modes.
const (
	CrossAutoZero CrossMode = "autoZero"
	CrossMin      CrossMode = "min"
	CrossMax      CrossMode = "max"
	// CrossValue crosses at Axis.CrossValue.
	CrossValue CrossMode = "value"
)

// ShapeStyle is the fill and outline of a chart element or shape.
type ShapeStyle struct {
	Fill      *Color `json:"fill,omitempty"`
	Line      *Color `json:"line,omitempty"`
	NoFill    bool   `json:"no_fill,omitempty"`
	NoLine    bool   `json:"no_line,omitempty"`
	LineWidth *int64 `json:"line_width,omitempty"`
}

// IsEmpty reports whether nothing is set.
func (s *ShapeStyle) IsEmpty() bool {
	return s == nil || (s.Fill == nil && s.Line == nil && !s.NoFill && !s.NoLine && s.LineWidth == nil)
}

// Title is a chart or axis title.
type Title struct {
	Text string `json:"text,omitempty"`
	// Formula references the cell holding the title.
	Formula string      `json:"formula,omitempty"`
	Overlay bool        `json:"overlay,omitempty"`
	Style   *ShapeStyle `json:"style,omitempty"`
}

// DataRef is a series data source: a formula and its cached values, or literals.
type DataRef struct {
	Formula string `json:"formula,omitempty"`
	// Cache holds the cached values indexed by point.
	Cache      []string `json:"cache,omitempty"`
	FormatCode string   `json:"format_code,omitempty"`
	// Numeric reports a numRef/numLit source.
	Numeric bool `json:"numeric,omitempty"`
	// Literal reports inline values without a formula.
	Literal bool `json:"literal,omitempty"`
}

// Marker is a series or point marker.
type Marker struct {
	Symbol string      `json:"symbol,omitempty"`
	Size   *int        `json:"size,omitempty"`
	Style  *ShapeStyle `json:"style,omitempty"`
}

// DataPoint overrides the formatting of one point of a series.
type DataPoint struct {
	Index            int         `json:"index"`
	Explosion        *int        `json:"explosion,omitempty"`
	InvertIfNegative *bool       `json:"invert_if_negative,omitempty"`
	Marker           *Marker     `json:"marker,omitempty"`
	Style            *ShapeStyle `json:"style,omitempty"`
}

// DataLabels controls the labels of a series.
type DataLabels struct {
	ShowLegendKey bool   `json:"show_legend_key,omitempty"`
	ShowVal       bool   `json:"show_val,omitempty"`
	ShowCatName   bool   `json:"show_cat_name,omitempty"`
	ShowSerName   bool   `json:"show_ser_name,omitempty"`
	ShowPercent   bool   `json:"show_percent,omitempty"`
	Position      string `json:"position,omitempty"`
}

// Trendline is a regression line drawn over a series.
type Trendline struct {
	Name     string      `json:"name,omitempty"`
	Type     string      `json:"type"`
	Order    *int        `json:"order,omitempty"`
	Period   *int        `json:"period,omitempty"`
	DispRSqr bool        `json:"disp_rsqr,omitempty"`
	DispEq   bool        `json:"disp_eq,omitempty"`
	Style    *ShapeStyle `json:"style,omitempty"`
}

// Series is one data series of a plot.
type Series struct {
	Index int `json:"index"`
	Order int `json:"order"`
	// Name is the literal or cached series name.
	Name string `json:"name,omitempty"`
	// NameRef is the formula of the series name.
	NameRef          string      `json:"name_ref,omitempty"`
	Categories       *DataRef    `json:"categories,omitempty"`
	Values           *DataRef    `json:"values,omitempty"`
	XValues          *DataRef    `json:"x_values,omitempty"`
	YValues          *DataRef    `json:"y_values,omitempty"`
	BubbleSizes      *DataRef    `json:"bubble_sizes,omitempty"`
	Points           []DataPoint `json:"points,omitempty"`
	Marker           *Marker     `json:"marker,omitempty"`
	Smooth           *bool       `json:"smooth,omitempty"`
	Explosion        *int        `json:"explosion,omitempty"`
	InvertIfNegative *bool       `json:"invert_if_negative,omitempty"`
	Labels           *DataLabels `json:"labels,omitempty"`
	Trendline        *Trendline  `json:"trendline,omitempty"`
	Style            *ShapeStyle `json:"style,omitempty"`
}

// Plot is a group of series drawn the same way against the same axes.
type Plot struct {
	Type PlotType `json:"type"`
	// Horizontal reports bars drawn along the Y direction (barDir="bar").
	Horizontal      bool      `json:"horizontal,omitempty"`
	Grouping        string    `json:"grouping,omitempty"`
	GapWidth        *int      `json:"gap_width,omitempty"`
	Overlap         *int      `json:"overlap,omitempty"`
	VaryColors      bool      `json:"vary_colors,omitempty"`
	ScatterStyle    string    `json:"scatter_style,omitempty"`
	RadarStyle      string    `json:"radar_style,omitempty"`
	HoleSize        *int      `json:"hole_size,omitempty"`
	FirstSliceAngle *int      `json:"first_slice_angle,omitempty"`
	ShowMarker      *bool     `json:"show_marker,omitempty"`
	Series          []*Series `json:"series"`
	// AxisIDs lists the ids of the axes the plot is drawn against.
	AxisIDs []string `json:"axis_ids,omitempty"`
	// Axes holds the linked axes.
	Axes []*Axis `json:"-"`
}

// Axis is a chart axis.
type Axis struct {
	ID string `json:"id"`
	// Name is the display name derived from the role, e.g. "X-Axis".
	Name         string      `json:"name,omitempty"`
	Type         AxisType    `json:"type"`
	Role         AxisRole    `json:"role"`
	Position     AxisPos     `json:"position,omitempty"`
	Cross        CrossMode   `json:"cross,omitempty"`
	CrossValue   float64     `json:"cross_value,omitempty"`
	CrossAxisID  string      `json:"cross_axis_id,omitempty"`
	Inverted     bool        `json:"inverted,omitempty"`
	LogBase      *float64    `json:"log_base,omitempty"`
	Min          *float64    `json:"min,omitempty"`
	Max          *float64    `json:"max,omitempty"`
	MajorUnit    *float64    `json:"major_unit,omitempty"`
	MinorUnit    *float64    `json:"minor_unit,omitempty"`
	Deleted      bool        `json:"deleted,omitempty"`
	Title        *Title      `json:"title,omitempty"`
	NumFmt       string      `json:"num_fmt,omitempty"`
	SourceLinked bool        `json:"source_linked,omitempty"`
	MajorGrid    *ShapeStyle `json:"major_grid,omitempty"`
	MinorGrid    *ShapeStyle `json:"minor_grid,omitempty"`
	MajorTick    string      `json:"major_tick,omitempty"`
	MinorTick    string      `json:"minor_tick,omitempty"`
	TickLabelPos string      `json:"tick_label_pos,omitempty"`
	// DisplayUnits is a built-in display unit such as "thousands".
	DisplayUnits  string      `json:"display_units,omitempty"`
	DisplayFactor *float64    `json:"display_factor,omitempty"`
	Style         *ShapeStyle `json:"style,omitempty"`
	// Plots holds the plots drawn against the axis.
	Plots []*Plot `json:"-"`
}

// Legend is a chart legend.
type Legend struct {
	Position string      `json:"position,omitempty"`
	Overlay  bool        `json:"overlay,omitempty"`
	Style    *ShapeStyle `json:"style,omitempty"`
}

// Chart represents a chart anchored on a sheet.
type Chart struct {
	// Name is the chart name from the drawing.
	Name   string `json:"name"`
	Anchor Anchor `json:"anchor"`
	Title  *Title `json:"title,omitempty"`
	// AutoTitleDeleted suppresses the automatic title.
	AutoTitleDeleted bool    `json:"auto_title_deleted,omitempty"`
	Plots            []*Plot `json:"plots"`
	Axes             []*Axis `json:"axes,omitempty"`
	Legend           *Legend `json:"legend,omitempty"`
	PlotVisOnly      bool    `json:"plot_vis_only,omitempty"`
	DispBlanksAs     string  `json:"disp_blanks_as,omitempty"`
	RoundedCorners   bool    `json:"rounded_corners,omitempty"`
	// Style is the chart area fill and outline.
	Style *ShapeStyle `json:"style,omitempty"`
	// PlotArea is the plot area fill and outline.
	PlotArea *ShapeStyle `json:"plot_area,omitempty"`
}

// Axis returns the axis with the given id, or nil.
func (c *Chart) Axis(id string) *Axis {
	for _, a := range c.Axes {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// LinkAxis attaches the plot and the axis to each other once.
func LinkAxis(p *Plot, a *Axis) {
	for _, x := range p.Axes {
		if x == a {
			return
		}
	}
	p.Axes = append(p.Axes, a)
	p.AxisIDs = append(p.AxisIDs, a.ID)
	a.Plots = append(a.Plots, p)
}

// UnlinkAxis detaches the plot and the axis.
func UnlinkAxis(p *Plot, a *Axis) {
	for i, x := range p.Axes {
		if x == a {
			p.Axes = append(p.Axes[:i], p.Axes[i+1:]...)
			break
		}
	}
	for i, id := range p.AxisIDs {
		if id == a.ID {
			p.AxisIDs = append(p.AxisIDs[:i], p.AxisIDs[i+1:]...)
			break
		}
	}
	for i, x := range a.Plots {
		if x == p {
			a.Plots = append(a.Plots[:i], a.Plots[i+1:]...)
			break
		}
	}
}
