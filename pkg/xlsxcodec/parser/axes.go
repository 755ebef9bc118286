package parser

import (
	"fmt"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
)

// axisInfo links an axis id to the plots referencing it. The axis itself
// may be defined after its first reference.
type axisInfo struct {
	id    string
	axis  *models.Axis
	plots []*models.Plot
}

// axisRegistry resolves the axis ids of a chart part.
type axisRegistry struct {
	byID  map[string]*axisInfo
	order []*axisInfo
}

func newAxisRegistry() *axisRegistry {
	return &axisRegistry{byID: make(map[string]*axisInfo)}
}

func (r *axisRegistry) info(id string) *axisInfo {
	if info, ok := r.byID[id]; ok {
		return info
	}
	info := &axisInfo{id: id}
	r.byID[id] = info
	r.order = append(r.order, info)
	return info
}

// reference records that plot p is drawn against axis id.
func (r *axisRegistry) reference(id string, p *models.Plot) {
	info := r.info(id)
	for _, x := range info.plots {
		if x == p {
			return
		}
	}
	info.plots = append(info.plots, p)
}

// define records a parsed axis. A second definition of an id is dropped.
func (r *axisRegistry) define(c *Context, a *models.Axis) bool {
	info := r.info(a.ID)
	if info.axis != nil {
		c.Warnf("Duplicate axis id '%s'", a.ID)
		return false
	}
	info.axis = a
	return true
}

// resolve links plots and axes once the chart subtree is complete.
// Referenced ids without an axis are reported and skipped; axes no plot
// refers to are removed.
func (r *axisRegistry) resolve(c *Context, chart *models.Chart) {
	for _, info := range r.order {
		if info.axis == nil {
			if len(info.plots) > 0 {
				c.Warnf("Undefined axis id '%s'", info.id)
			}
			continue
		}
		for _, p := range info.plots {
			models.LinkAxis(p, info.axis)
		}
	}

	axes := chart.Axes[:0]
	for _, a := range chart.Axes {
		if len(a.Plots) > 0 {
			axes = append(axes, a)
		}
	}
	chart.Axes = axes

	for _, a := range chart.Axes {
		a.Role = axisRole(a)
	}
	redirectDeleted(chart)
	for _, a := range chart.Axes {
		fixCross(chart, a)
	}
	renameAxes(chart)
}

// axisRole derives the role of an axis from its type and the geometry of
// the first plot drawn against it. a must have at least one plot.
func axisRole(a *models.Axis) models.AxisRole {
	catOrDate := a.Type == models.AxisCat || a.Type == models.AxisDate
	p := a.Plots[0]
	inverted := false
	switch {
	case p.Type.IsRadar():
		if catOrDate {
			return models.RoleCircular
		}
		return models.RoleRadial
	case p.Type.IsXY():
		if a.Position == models.PosTop || a.Position == models.PosBottom {
			return models.RoleX
		}
		return models.RoleY
	case p.Type.IsBar():
		inverted = p.Horizontal
	case p.Type.IsSurface():
		if a.Type == models.AxisSer {
			return models.RolePseudo3D
		}
	}
	if inverted != catOrDate {
		return models.RoleX
	}
	return models.RoleY
}

// redirectDeleted moves the plots of a deleted axis to a visible axis of
// the same role. A plot already drawn against that axis keeps its link.
func redirectDeleted(chart *models.Chart) {
	var removed []*models.Axis
	for _, a := range chart.Axes {
		if !a.Deleted {
			continue
		}
		var visible *models.Axis
		for _, b := range chart.Axes {
			if b.Role == a.Role && !b.Deleted {
				visible = b
				break
			}
		}
		if visible == nil {
			continue
		}
		for _, p := range append([]*models.Plot(nil), a.Plots...) {
			if hasAxis(p, visible) {
				continue
			}
			models.UnlinkAxis(p, a)
			models.LinkAxis(p, visible)
		}
		if len(a.Plots) == 0 {
			removed = append(removed, a)
		}
	}
	if len(removed) == 0 {
		return
	}
	axes := chart.Axes[:0]
	for _, a := range chart.Axes {
		if !containsAxis(removed, a) {
			axes = append(axes, a)
		}
	}
	chart.Axes = axes
	for _, a := range chart.Axes {
		if a.CrossAxisID != "" && chart.Axis(a.CrossAxisID) == nil {
			// the crossed axis was merged into a visible one
			for _, b := range chart.Axes {
				if b != a && b.Role != a.Role && !b.Deleted {
					a.CrossAxisID = b.ID
					break
				}
			}
		}
	}
}

func hasAxis(p *models.Plot, a *models.Axis) bool {
	return containsAxis(p.Axes, a)
}

func containsAxis(list []*models.Axis, a *models.Axis) bool {
	for _, x := range list {
		if x == a {
			return true
		}
	}
	return false
}

// fixCross swaps min and max crossing when the crossed axis is inverted.
func fixCross(chart *models.Chart, a *models.Axis) {
	if a.Cross == "" {
		a.Cross = models.CrossAutoZero
	}
	cross := chart.Axis(a.CrossAxisID)
	if cross == nil || !cross.Inverted {
		return
	}
	switch a.Cross {
	case models.CrossMin:
		a.Cross = models.CrossMax
	case models.CrossMax:
		a.Cross = models.CrossMin
	}
}

// renameAxes numbers the axes of each role: "X-Axis", "X-Axis2", ...
func renameAxes(chart *models.Chart) {
	seen := make(map[models.AxisRole]int)
	for _, a := range chart.Axes {
		seen[a.Role]++
		a.Name = string(a.Role) + "-Axis"
		if n := seen[a.Role]; n > 1 {
			a.Name += fmt.Sprint(n)
		}
	}
}
