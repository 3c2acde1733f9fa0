package palette

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/1broseidon/treetile/internal/ipc"
)

// WindowItems lists windows grouped under a header per workspace, in the
// order of workspaces. Windows on the focused workspace are active and
// hidden windows are urgent.
func WindowItems(status ipc.StatusData, windows []ipc.WindowInfo) []Item {
	byWorkspace := make(map[string][]ipc.WindowInfo)
	for _, w := range windows {
		byWorkspace[w.Workspace] = append(byWorkspace[w.Workspace], w)
	}

	order := append([]string(nil), status.Workspaces...)
	known := make(map[string]bool, len(order))
	for _, name := range order {
		known[name] = true
	}
	for _, w := range windows {
		if !known[w.Workspace] {
			known[w.Workspace] = true
			order = append(order, w.Workspace)
		}
	}

	var items []Item
	for _, name := range order {
		group := byWorkspace[name]
		if len(group) == 0 {
			continue
		}
		items = append(items, Item{Label: "workspace " + name, IsHeader: true})
		for _, w := range group {
			title := w.Title
			if title == "" {
				title = fmt.Sprintf("0x%x", w.ID)
			}
			items = append(items, Item{
				Label:    title,
				Icon:     "window",
				Info:     strconv.FormatUint(uint64(w.ID), 10),
				Meta:     name,
				IsActive: name == status.FocusedWorkspace,
				IsUrgent: w.Hidden,
			})
		}
	}
	return items
}

// PickWindow shows the windows in b and returns the chosen window id.
func PickWindow(b Backend, status ipc.StatusData, windows []ipc.WindowInfo) (uint32, error) {
	items := WindowItems(status, windows)
	if len(items) == 0 {
		return 0, errors.New("no windows to pick from")
	}
	item, err := b.Show("window", items, "workspace "+status.FocusedWorkspace)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(item.Info, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("palette: selected row carries no window id")
	}
	return uint32(id), nil
}
