package daemon

import (
	"context"
	"time"

	"github.com/1broseidon/treetile/internal/ipc"
)

// Controller serves IPC requests by running them on the dispatcher.
type Controller struct {
	dispatcher *Dispatcher
	session    *Session
	reload     func() error
	timeout    time.Duration
}

var _ ipc.Controller = (*Controller)(nil)

// NewController returns an ipc.Controller backed by session. reload may be
// nil.
func NewController(d *Dispatcher, s *Session, reload func() error) *Controller {
	return &Controller{dispatcher: d, session: s, reload: reload, timeout: 3 * time.Second}
}

func (c *Controller) call(fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	return c.dispatcher.Call(ctx, fn)
}

func (c *Controller) Status() (ipc.StatusData, error) {
	var status ipc.StatusData
	err := c.call(func() error {
		status = c.session.Status()
		return nil
	})
	return status, err
}

func (c *Controller) Windows() ([]ipc.WindowInfo, error) {
	var windows []ipc.WindowInfo
	err := c.call(func() error {
		windows = c.session.Windows()
		return nil
	})
	return windows, err
}

func (c *Controller) FocusWindow(id uint32) error {
	return c.call(func() error { return c.session.FocusWindow(id) })
}

func (c *Controller) CloseWindow(id uint32) error {
	return c.call(func() error { return c.session.CloseWindow(id) })
}

func (c *Controller) HideWindow(id uint32) error {
	return c.call(func() error { return c.session.HideWindow(id) })
}

func (c *Controller) UnhideWindow(id uint32) error {
	return c.call(func() error { return c.session.UnhideWindow(id) })
}

func (c *Controller) MoveWindow(id uint32, x, y int) error {
	return c.call(func() error { return c.session.MoveWindow(id, x, y) })
}

func (c *Controller) ResizeWindow(id uint32, width, height int) error {
	return c.call(func() error { return c.session.ResizeWindow(id, width, height) })
}

func (c *Controller) FocusWorkspace(name string) error {
	return c.call(func() error { return c.session.FocusWorkspace(name) })
}

func (c *Controller) MoveWindowToWorkspace(id uint32, workspace string) error {
	return c.call(func() error { return c.session.MoveWindowToWorkspace(id, workspace) })
}

func (c *Controller) Reload() error {
	if c.reload == nil {
		return nil
	}
	return c.reload()
}
