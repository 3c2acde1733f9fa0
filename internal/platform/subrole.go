package platform

// ClassifyWindowType maps EWMH window type and state atoms to a Subrole.
//
// Windows without a type are standard unless they are transient for another
// window, in which case they are dialogs. Hidden (iconified) windows report
// as dialogs so that they are never tiled on discovery.
func ClassifyWindowType(types, states []string, transient bool) Subrole {
	for _, s := range states {
		if s == "_NET_WM_STATE_HIDDEN" {
			return SubroleDialog
		}
	}

	if len(types) == 0 {
		if transient {
			return SubroleDialog
		}
		return SubroleStandard
	}

	// The first recognised atom wins; the list is ordered by preference.
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			if transient {
				return SubroleDialog
			}
			return SubroleStandard
		case "_NET_WM_WINDOW_TYPE_DIALOG":
			return SubroleDialog
		case "_NET_WM_WINDOW_TYPE_UTILITY":
			return SubroleUtility
		case "_NET_WM_WINDOW_TYPE_TOOLBAR":
			return SubroleToolbar
		case "_NET_WM_WINDOW_TYPE_MENU",
			"_NET_WM_WINDOW_TYPE_POPUP_MENU",
			"_NET_WM_WINDOW_TYPE_DROPDOWN_MENU",
			"_NET_WM_WINDOW_TYPE_COMBO":
			return SubroleMenu
		case "_NET_WM_WINDOW_TYPE_TOOLTIP", "_NET_WM_WINDOW_TYPE_DND":
			return SubroleTooltip
		case "_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return SubroleNotification
		case "_NET_WM_WINDOW_TYPE_SPLASH":
			return SubroleSplash
		case "_NET_WM_WINDOW_TYPE_DESKTOP", "_NET_WM_WINDOW_TYPE_DOCK":
			return SubroleSystem
		}
	}
	return SubroleUnknown
}
