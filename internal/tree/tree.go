// Package tree holds windows as leaves of per-workspace container trees and
// keeps most-recently-used bookkeeping for focus-relative placement.
//
// The tree is not safe for concurrent use; callers serialize access.
package tree

import (
	"fmt"
	"slices"
)

const (
	// IndexBindLast appends a node after its future siblings.
	IndexBindLast = -1
	// WeightAuto lets Bind pick a weight from the new siblings.
	WeightAuto = -1.0
)

// Kind tells containers apart without inspecting their dynamic type.
type Kind int

const (
	// KindWorkspace is the top of a workspace: its children are floating
	// windows plus exactly one root tiling container.
	KindWorkspace Kind = iota
	// KindTiling arranges its children according to a tiling layout.
	KindTiling
)

func (k Kind) String() string {
	switch k {
	case KindWorkspace:
		return "workspace"
	case KindTiling:
		return "tiling"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Layout is the arrangement used by a tiling container.
type Layout int

const (
	LayoutTiles Layout = iota
	LayoutAccordion
)

func (l Layout) String() string {
	if l == LayoutAccordion {
		return "accordion"
	}
	return "tiles"
}

// Node is anything that can be bound under a Container.
type Node interface {
	Parent() *Container
	Weight() float64
	base() *link
}

type link struct {
	parent *Container
	weight float64
}

// Parent returns the container holding the node, or nil when detached.
func (l *link) Parent() *Container { return l.parent }

// Weight is the adaptive weight used by tiling layouts.
func (l *link) Weight() float64 { return l.weight }

func (l *link) base() *link { return l }

// Leaf is embedded by types stored as tree leaves.
type Leaf struct {
	link
}

// Container is a non-leaf node.
type Container struct {
	link
	kind     Kind
	layout   Layout
	children []Node

	mru          Node
	accordionMRU Node

	// workspace is set on the top container of a workspace only.
	workspace *Workspace
}

// NewContainer returns a detached tiling container.
func NewContainer(layout Layout) *Container {
	return &Container{
		link:   link{weight: 1},
		kind:   KindTiling,
		layout: layout,
	}
}

// Kind returns the container kind.
func (c *Container) Kind() Kind { return c.kind }

// Layout returns the layout of a tiling container.
func (c *Container) Layout() Layout { return c.layout }

// SetLayout changes the layout of a tiling container.
func (c *Container) SetLayout(l Layout) { c.layout = l }

// Len returns the number of children.
func (c *Container) Len() int { return len(c.children) }

// Children returns a copy of the child list.
func (c *Container) Children() []Node {
	return slices.Clone(c.children)
}

// MostRecentChild returns the child marked most recently used, defaulting to
// the last child.
func (c *Container) MostRecentChild() Node {
	if c.mru != nil {
		return c.mru
	}
	if len(c.children) == 0 {
		return nil
	}
	return c.children[len(c.children)-1]
}

// AccordionMostRecentChild returns the child focused most recently while the
// container was an accordion, or nil.
func (c *Container) AccordionMostRecentChild() Node {
	return c.accordionMRU
}

// mruOrder lists children with the most recent one first, then the rest
// from last to first.
func (c *Container) mruOrder() []Node {
	order := make([]Node, 0, len(c.children))
	first := c.MostRecentChild()
	if first != nil {
		order = append(order, first)
	}
	for i := len(c.children) - 1; i >= 0; i-- {
		if c.children[i] != first {
			order = append(order, c.children[i])
		}
	}
	return order
}

func (c *Container) autoWeight() float64 {
	if c.kind != KindTiling || len(c.children) == 0 {
		return 1
	}
	var sum float64
	for _, child := range c.children {
		sum += child.Weight()
	}
	return sum / float64(len(c.children))
}

// Bind attaches n under parent at index. A bound node is unbound first.
// IndexBindLast appends; other indexes are clamped to the valid range.
func Bind(n Node, parent *Container, index int, weight float64) {
	if n.Parent() != nil {
		Unbind(n)
	}
	if index == IndexBindLast || index > len(parent.children) {
		index = len(parent.children)
	}
	if index < 0 {
		index = 0
	}
	if weight == WeightAuto {
		weight = parent.autoWeight()
	}

	l := n.base()
	l.parent = parent
	l.weight = weight
	parent.children = slices.Insert(parent.children, index, n)
}

// Unbind detaches n from its parent and returns the index it had, or -1
// when it was not bound.
func Unbind(n Node) int {
	parent := n.Parent()
	if parent == nil {
		return -1
	}
	idx := slices.Index(parent.children, n)
	if idx >= 0 {
		parent.children = slices.Delete(parent.children, idx, idx+1)
	}
	if parent.mru == n {
		parent.mru = nil
	}
	if parent.accordionMRU == n {
		parent.accordionMRU = nil
	}
	n.base().parent = nil
	return idx
}

// OwnIndex returns the position of n among its siblings, or -1.
func OwnIndex(n Node) int {
	parent := n.Parent()
	if parent == nil {
		return -1
	}
	return slices.Index(parent.children, n)
}

// MostRecentLeaf descends c in most-recently-used order and returns the first
// leaf found, or nil when c holds no leaves.
func MostRecentLeaf(c *Container) Node {
	for _, child := range c.mruOrder() {
		if sub, ok := child.(*Container); ok {
			if leaf := MostRecentLeaf(sub); leaf != nil {
				return leaf
			}
			continue
		}
		return child
	}
	return nil
}

// Leaves returns every leaf under c in tree order.
func Leaves(c *Container) []Node {
	var leaves []Node
	for _, child := range c.children {
		if sub, ok := child.(*Container); ok {
			leaves = append(leaves, Leaves(sub)...)
			continue
		}
		leaves = append(leaves, child)
	}
	return leaves
}

// MarkAsMostRecentChild records n as the most recent child of every
// ancestor up to its workspace.
func MarkAsMostRecentChild(n Node) {
	var cur Node = n
	for parent := cur.Parent(); parent != nil; parent = cur.Parent() {
		parent.mru = cur
		cur = parent
	}
}

// MarkAsMostRecentChildForAccordion records the path to n in its nearest
// accordion ancestor.
func MarkAsMostRecentChildForAccordion(n Node) {
	var cur Node = n
	for parent := cur.Parent(); parent != nil; parent = cur.Parent() {
		if parent.kind == KindTiling && parent.layout == LayoutAccordion {
			parent.accordionMRU = cur
			return
		}
		cur = parent
	}
}

// WorkspaceOf returns the workspace n is bound into, or nil when n is
// detached from any workspace.
func WorkspaceOf(n Node) *Workspace {
	var cur Node = n
	for cur.Parent() != nil {
		cur = cur.Parent()
	}
	if c, ok := cur.(*Container); ok {
		return c.workspace
	}
	return nil
}
