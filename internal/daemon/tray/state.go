// Package tray renders the menu tree in the system tray.
package tray

// Controls are the daemon actions reachable from the tray menu.
type Controls interface {
	Refresh()
	EditPreferences()
	RequestShutdown()
}
