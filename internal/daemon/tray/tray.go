package tray

import (
	_ "embed"
	"sync"

	"github.com/getlantern/systray"
	"github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/indicator-tide/indicator-tide/internal/menu"
)

const (
	maxRootSlots  = 32
	maxChildSlots = 16
)

//go:embed icon.png
var iconData []byte

var (
	controls Controls
	onStart  func()
	onExit   func()
	logger   = zap.NewNop()

	// Each root position has a plain item and a submenu item; Render shows
	// whichever the tree needs so leaves never carry a submenu arrow.
	leafSlots  [maxRootSlots]*systray.MenuItem
	groupSlots [maxRootSlots]*systray.MenuItem
	childSlots [maxRootSlots][maxChildSlots]*systray.MenuItem

	refreshItem *systray.MenuItem
	prefsItem   *systray.MenuItem
	quitItem    *systray.MenuItem

	slotMu    sync.RWMutex
	ready     bool
	rootURLs  [maxRootSlots]string
	childURLs [maxRootSlots][maxChildSlots]string

	openURL = browser.OpenURL
)

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStartFn is called once the menu exists; onExitFn when the tray exits.
func Run(c Controls, log *zap.Logger, onStartFn, onExitFn func()) {
	controls = c
	if log != nil {
		logger = log
	}
	onStart = onStartFn
	onExit = onExitFn
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

// Renderer displays menu trees in the tray.
type Renderer struct{}

// Render implements cycle.Renderer.
func (Renderer) Render(root *menu.Node, headline string) {
	Render(root, headline)
}

func onReady() {
	systray.SetIcon(iconData)
	systray.SetTitle("")
	systray.SetTooltip(formatTooltip(""))

	for i := 0; i < maxRootSlots; i++ {
		leafSlots[i] = systray.AddMenuItem("", "")
		leafSlots[i].Hide()
		groupSlots[i] = systray.AddMenuItem("", "")
		for j := 0; j < maxChildSlots; j++ {
			childSlots[i][j] = groupSlots[i].AddSubMenuItem("", "")
			childSlots[i][j].Hide()
			go watchClicks(childSlots[i][j], childURL(i, j))
		}
		groupSlots[i].Hide()
		go watchClicks(leafSlots[i], rootURL(i))
	}

	systray.AddSeparator()
	refreshItem = systray.AddMenuItem("Refresh", "Fetch tide data now")
	prefsItem = systray.AddMenuItem("Preferences…", "Edit the configuration file")
	quitItem = systray.AddMenuItem("Quit", "Quit indicator-tide")

	slotMu.Lock()
	ready = true
	slotMu.Unlock()

	if onStart != nil {
		onStart()
	}

	go handleClicks()
}

func onQuit() {
	if onExit != nil {
		onExit()
	}
}

func handleClicks() {
	for {
		select {
		case <-refreshItem.ClickedCh:
			if controls != nil {
				controls.Refresh()
			}
		case <-prefsItem.ClickedCh:
			if controls != nil {
				controls.EditPreferences()
			}
		case <-quitItem.ClickedCh:
			if controls != nil {
				controls.RequestShutdown()
			}
		}
	}
}

func watchClicks(item *systray.MenuItem, url func() string) {
	for range item.ClickedCh {
		u := url()
		if u == "" {
			continue
		}
		if err := openURL(u); err != nil {
			logger.Warn("Failed to open URL", zap.String("url", u), zap.Error(err))
		}
	}
}

func rootURL(i int) func() string {
	return func() string {
		slotMu.RLock()
		defer slotMu.RUnlock()
		return rootURLs[i]
	}
}

func childURL(i, j int) func() string {
	return func() string {
		slotMu.RLock()
		defer slotMu.RUnlock()
		return childURLs[i][j]
	}
}

// Render replaces the menu contents with root and shows headline next to the
// icon. Calls before the tray is ready are dropped.
func Render(root *menu.Node, headline string) {
	slots := layout(root, maxRootSlots, maxChildSlots)

	slotMu.Lock()
	if !ready {
		slotMu.Unlock()
		return
	}
	for i := 0; i < maxRootSlots; i++ {
		rootURLs[i] = ""
		for j := 0; j < maxChildSlots; j++ {
			childURLs[i][j] = ""
		}
		if i >= len(slots) {
			continue
		}
		if slots[i].Enabled {
			rootURLs[i] = slots[i].URL
		}
		for j, c := range slots[i].Children {
			if c.Enabled {
				childURLs[i][j] = c.URL
			}
		}
	}
	slotMu.Unlock()

	for i := 0; i < maxRootSlots; i++ {
		if i >= len(slots) {
			leafSlots[i].Hide()
			groupSlots[i].Hide()
			continue
		}
		s := slots[i]
		if !s.Group {
			groupSlots[i].Hide()
			apply(leafSlots[i], s)
			continue
		}
		leafSlots[i].Hide()
		for j := 0; j < maxChildSlots; j++ {
			if j < len(s.Children) {
				apply(childSlots[i][j], s.Children[j])
			} else {
				childSlots[i][j].Hide()
			}
		}
		apply(groupSlots[i], s)
	}

	systray.SetTitle(headline)
	systray.SetTooltip(formatTooltip(headline))
}

func apply(item *systray.MenuItem, s slot) {
	item.SetTitle(s.Title)
	if s.Enabled {
		item.Enable()
	} else {
		item.Disable()
	}
	item.Show()
}
