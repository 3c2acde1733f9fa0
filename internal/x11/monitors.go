package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display as reported by RandR.
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

func (m Monitor) contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTCs have no size or no outputs.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}

	return monitors, nil
}

// GetActiveMonitor returns the monitor containing the focused window, falling
// back to the monitor under the pointer and then to the first monitor.
func (c *Connection) GetActiveMonitor() (*Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}

	if active, err := ewmh.ActiveWindowGet(c.XUtil); err == nil && active != 0 {
		if rect, ok := c.WindowRect(active); ok {
			cx, cy := rect.X+rect.Width/2, rect.Y+rect.Height/2
			for i := range monitors {
				if monitors[i].contains(cx, cy) {
					return &monitors[i], nil
				}
			}
		}
	}

	if pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		for i := range monitors {
			if monitors[i].contains(int(pointer.RootX), int(pointer.RootY)) {
				return &monitors[i], nil
			}
		}
	}

	return &monitors[0], nil
}

// UsableArea intersects m with the EWMH work area of the current desktop so
// that panels and docks are excluded. m is returned unchanged when no work
// area is published or it does not overlap m.
func (c *Connection) UsableArea(m Monitor) Monitor {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return m
	}

	idx := 0
	if desktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(desktop) < len(areas) {
		idx = int(desktop)
	}
	wa := areas[idx]

	waX, waY := int(wa.X), int(wa.Y)
	x1 := max(m.X, waX)
	y1 := max(m.Y, waY)
	x2 := min(m.X+m.Width, waX+int(wa.Width))
	y2 := min(m.Y+m.Height, waY+int(wa.Height))
	if x2 <= x1 || y2 <= y1 {
		return m
	}

	m.X, m.Y, m.Width, m.Height = x1, y1, x2-x1, y2-y1
	return m
}
