package platform

import "fmt"

// Subrole classifies a foreign window. Only SubroleStandard windows are tiled.
type Subrole string

const (
	SubroleStandard     Subrole = "standard"
	SubroleDialog       Subrole = "dialog"
	SubroleUtility      Subrole = "utility"
	SubroleToolbar      Subrole = "toolbar"
	SubroleMenu         Subrole = "menu"
	SubroleTooltip      Subrole = "tooltip"
	SubroleNotification Subrole = "notification"
	SubroleSplash       Subrole = "splash"
	SubroleSystem       Subrole = "system"
	SubroleUnknown      Subrole = "unknown"
)

// Control is a pressable affordance of a foreign window, such as its close
// button.
type Control struct {
	Window WindowID
	Action string
}

// Geometry reads and writes attributes of foreign windows. Every call may
// fail because the window is stale, mid-teardown or does not support the
// attribute; reads report that with ok == false and writes return false.
type Geometry interface {
	Title(id WindowID) (string, bool)
	Subrole(id WindowID) (Subrole, bool)
	TopLeft(id WindowID) (Point, bool)
	SetTopLeft(id WindowID, p Point) bool
	Size(id WindowID) (Size, bool)
	SetSize(id WindowID, s Size) bool
	CloseControl(id WindowID) (Control, bool)
	Press(c Control) bool
	// Raise puts the window above its siblings within its own application.
	Raise(id WindowID) bool
}

// EventKind is a lifecycle or geometry event of a foreign window.
type EventKind int

const (
	EventDestroyed EventKind = iota
	EventDeminiaturized
	EventMiniaturized
	EventMoved
	EventResized
)

func (k EventKind) String() string {
	switch k {
	case EventDestroyed:
		return "destroyed"
	case EventDeminiaturized:
		return "deminiaturized"
	case EventMiniaturized:
		return "miniaturized"
	case EventMoved:
		return "moved"
	case EventResized:
		return "resized"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Callback receives a notification. It runs on a goroutine chosen by the
// Notifier and never before Subscribe has returned.
type Callback func(id WindowID, kind EventKind)

// Subscription is a handle to one installed callback.
type Subscription interface {
	Window() WindowID
	Kind() EventKind
}

// Notifier installs event callbacks on foreign windows.
type Notifier interface {
	Subscribe(app AppID, kind EventKind, id WindowID, cb Callback) (Subscription, error)
	Unsubscribe(s Subscription)
}

// App is the process-level owner of one or more windows.
type App interface {
	ID() AppID
	Name() string
	// Activate brings the application to the foreground.
	Activate() bool
}
