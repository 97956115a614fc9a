package models

import "slices"

// Series is one curve handed to the renderer: a title and a gnuplot
// "using" selector over the data file columns (1-based, e.g. "1:2:3").
type Series struct {
	Title string
	Using string
}

// PlotSpec is the ordered list of series drawn from the data file.
type PlotSpec []Series

// Equal reports whether both specs draw the same series in the same order.
func (p PlotSpec) Equal(o PlotSpec) bool {
	return slices.Equal(p, o)
}
