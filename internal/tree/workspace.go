package tree

import (
	"github.com/1broseidon/treetile/internal/platform"
)

// Workspace is the top of one tree. Its direct children are floating leaves
// plus a single root tiling container.
type Workspace struct {
	Container

	name     string
	root     *Container
	assigned platform.Rect
}

// NewWorkspace returns an empty workspace with a tiles root container.
func NewWorkspace(name string) *Workspace {
	ws := &Workspace{name: name}
	ws.Container = Container{link: link{weight: 1}, kind: KindWorkspace}
	ws.Container.workspace = ws
	ws.root = NewContainer(LayoutTiles)
	Bind(ws.root, &ws.Container, 0, 1)
	return ws
}

// Name returns the workspace name.
func (ws *Workspace) Name() string { return ws.name }

// Bucket is the container that holds floating windows.
func (ws *Workspace) Bucket() *Container { return &ws.Container }

// RootTilingContainer returns the root of the tiled part of the tree.
func (ws *Workspace) RootTilingContainer() *Container { return ws.root }

// AssignedRect is the screen rectangle the workspace is shown on.
func (ws *Workspace) AssignedRect() platform.Rect { return ws.assigned }

// AssignRect updates the workspace rectangle.
func (ws *Workspace) AssignRect(r platform.Rect) { ws.assigned = r }

// MostRecentWindow returns the most recently used leaf, or nil.
func (ws *Workspace) MostRecentWindow() Node {
	return MostRecentLeaf(&ws.Container)
}

// Leaves returns every leaf in the workspace, floating and tiled.
func (ws *Workspace) Leaves() []Node {
	return Leaves(&ws.Container)
}

// IsEmpty reports whether the workspace holds no leaves.
func (ws *Workspace) IsEmpty() bool {
	return len(ws.Leaves()) == 0
}

// Workspaces is an ordered set of workspaces with one focused member.
type Workspaces struct {
	byName  map[string]*Workspace
	order   []string
	focused *Workspace
}

// NewWorkspaces creates the named workspaces and focuses the first one.
// With no names a single workspace "1" is created.
func NewWorkspaces(names ...string) *Workspaces {
	if len(names) == 0 {
		names = []string{"1"}
	}
	w := &Workspaces{byName: make(map[string]*Workspace)}
	for _, name := range names {
		w.Get(name)
	}
	w.focused = w.byName[names[0]]
	return w
}

// Get returns the named workspace, creating it when missing.
func (w *Workspaces) Get(name string) *Workspace {
	if ws, ok := w.byName[name]; ok {
		return ws
	}
	ws := NewWorkspace(name)
	w.byName[name] = ws
	w.order = append(w.order, name)
	return ws
}

// Lookup returns the named workspace without creating it.
func (w *Workspaces) Lookup(name string) (*Workspace, bool) {
	ws, ok := w.byName[name]
	return ws, ok
}

// Focused returns the focused workspace.
func (w *Workspaces) Focused() *Workspace { return w.focused }

// SetFocused changes the focused workspace. Foreign workspaces are ignored.
func (w *Workspaces) SetFocused(ws *Workspace) {
	if ws == nil || w.byName[ws.name] != ws {
		return
	}
	w.focused = ws
}

// All returns the workspaces in creation order.
func (w *Workspaces) All() []*Workspace {
	all := make([]*Workspace, 0, len(w.order))
	for _, name := range w.order {
		all = append(all, w.byName[name])
	}
	return all
}

// Names returns workspace names in creation order.
func (w *Workspaces) Names() []string {
	return append([]string(nil), w.order...)
}
