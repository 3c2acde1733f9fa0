package window

import (
	"testing"

	"github.com/1broseidon/treetile/internal/platform"
	"github.com/1broseidon/treetile/internal/platform/platformtest"
	"github.com/1broseidon/treetile/internal/tree"
)

type stubLeaf struct {
	tree.Leaf
}

func TestDecidePlacement(t *testing.T) {
	const id platform.WindowID = 42

	tests := []struct {
		name    string
		subrole platform.Subrole
		unknown bool
		setup   func(ws *tree.Workspace) (wantParent *tree.Container, wantIndex int)
	}{
		{
			name:    "empty workspace appends to root",
			subrole: platform.SubroleStandard,
			setup: func(ws *tree.Workspace) (*tree.Container, int) {
				return ws.RootTilingContainer(), tree.IndexBindLast
			},
		},
		{
			name:    "next to most recent window",
			subrole: platform.SubroleStandard,
			setup: func(ws *tree.Workspace) (*tree.Container, int) {
				c := tree.NewContainer(tree.LayoutTiles)
				tree.Bind(c, ws.RootTilingContainer(), tree.IndexBindLast, 1)
				var leaves []*stubLeaf
				for i := 0; i < 4; i++ {
					l := &stubLeaf{}
					tree.Bind(l, c, tree.IndexBindLast, 1)
					leaves = append(leaves, l)
				}
				tree.MarkAsMostRecentChild(leaves[2])
				return c, 3
			},
		},
		{
			name:    "most recent window floating",
			subrole: platform.SubroleStandard,
			setup: func(ws *tree.Workspace) (*tree.Container, int) {
				tiled := &stubLeaf{}
				tree.Bind(tiled, ws.RootTilingContainer(), tree.IndexBindLast, 1)
				l := &stubLeaf{}
				tree.Bind(l, ws.Bucket(), tree.IndexBindLast, 1)
				tree.MarkAsMostRecentChild(l)
				return ws.RootTilingContainer(), tree.IndexBindLast
			},
		},
		{
			name:    "dialog floats regardless of MRU",
			subrole: platform.SubroleDialog,
			setup: func(ws *tree.Workspace) (*tree.Container, int) {
				l := &stubLeaf{}
				tree.Bind(l, ws.RootTilingContainer(), tree.IndexBindLast, 1)
				tree.MarkAsMostRecentChild(l)
				return ws.Bucket(), tree.IndexBindLast
			},
		},
		{
			name:    "unreadable subrole floats",
			unknown: true,
			setup: func(ws *tree.Workspace) (*tree.Container, int) {
				return ws.Bucket(), tree.IndexBindLast
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := platformtest.NewGeometry()
			if !tt.unknown {
				geo.Add(id, platformtest.Window{Subrole: tt.subrole})
			}
			ws := tree.NewWorkspace("1")
			wantParent, wantIndex := tt.setup(ws)

			got := DecidePlacement(geo, id, ws)
			if got.Parent != wantParent {
				t.Fatalf("parent mismatch: got kind %s", got.Parent.Kind())
			}
			if got.Index != wantIndex {
				t.Fatalf("index = %d, want %d", got.Index, wantIndex)
			}
			if got.Weight != tree.WeightAuto {
				t.Fatalf("weight = %v, want auto", got.Weight)
			}
		})
	}
}
