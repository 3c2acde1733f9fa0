package window

import (
	"github.com/1broseidon/treetile/internal/platform"
	"github.com/1broseidon/treetile/internal/tree"
)

// BindingData says where a newly discovered window attaches to the tree.
type BindingData struct {
	Parent *tree.Container
	Weight float64
	Index  int
}

// ShouldFloat reports whether a window stays out of tiling. Anything that is
// not a standard window floats, including windows whose subrole cannot be
// read.
func ShouldFloat(geo platform.Geometry, id platform.WindowID) bool {
	subrole, ok := geo.Subrole(id)
	return !ok || subrole != platform.SubroleStandard
}

// DecidePlacement computes the tree position of a new window in ws.
//
// Floating windows go last into the workspace bucket. Tiled windows open
// right after the workspace's most recent window when that window sits in a
// tiling container, and last in the root tiling container otherwise.
func DecidePlacement(geo platform.Geometry, id platform.WindowID, ws *tree.Workspace) BindingData {
	if ShouldFloat(geo, id) {
		return BindingData{Parent: ws.Bucket(), Weight: tree.WeightAuto, Index: tree.IndexBindLast}
	}

	if mru := ws.MostRecentWindow(); mru != nil {
		if parent := mru.Parent(); parent != nil && parent.Kind() == tree.KindTiling {
			return BindingData{Parent: parent, Weight: tree.WeightAuto, Index: tree.OwnIndex(mru) + 1}
		}
	}
	return BindingData{Parent: ws.RootTilingContainer(), Weight: tree.WeightAuto, Index: tree.IndexBindLast}
}
