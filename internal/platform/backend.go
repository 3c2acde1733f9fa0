package platform

import "fmt"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// AppID identifies the process owning a window.
type AppID int

// Point is a screen coordinate.
type Point struct {
	X int
	Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a width/height pair.
type Size struct {
	Width  int
	Height int
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// TopLeft returns the top-left corner of r.
func (r Rect) TopLeft() Point {
	return Point{X: r.X, Y: r.Y}
}

// BottomRight returns the corner just past the bottom-right pixel of r.
func (r Rect) BottomRight() Point {
	return Point{X: r.X + r.Width, Y: r.Y + r.Height}
}

// Size returns the dimensions of r.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Union returns the smallest rectangle containing both r and o.
// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

func (r Rect) Union(o Rect) Rect {
	x1 := min(r.X, o.X)
	y1 := min(r.Y, o.Y)
	x2 := max(r.X+r.Width, o.X+o.Width)
	y2 := max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d at %d,%d", r.Width, r.Height, r.X, r.Y)
}

// RectFrom builds a Rect from a corner and a size.
func RectFrom(topLeft Point, size Size) Rect {
	return Rect{X: topLeft.X, Y: topLeft.Y, Width: size.Width, Height: size.Height}
}

// UnionOf returns the union of every display's bounds. ok is false when
// displays is empty.
func UnionOf(displays []Display) (Rect, bool) {
	if len(displays) == 0 {
		return Rect{}, false
	}
	u := displays[0].Bounds
	for _, d := range displays[1:] {
		u = u.Union(d.Bounds)
	}
	return u, true
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID     WindowID
	PID    int
	AppID  string
	Title  string
	Bounds Rect
}

// Backend abstracts window-system enumeration across platforms.
type Backend interface {
	Displays() ([]Display, error)
	ActiveDisplay() (Display, error)
	ActiveWindow() (WindowID, error)
	CurrentDesktop() (int, error)
	ListWindows() ([]Window, error)
	AppFor(windowID WindowID) App
}
