package transport

import (
	"context"
	"sync/atomic"

	"deskprefs/internal/common"
	domain "deskprefs/internal/domain/preferences"
	"deskprefs/internal/services"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

type emitFunc func(ctx context.Context, name string, data ...interface{})

// WailsNavigator opens URLs in the system browser.
type WailsNavigator struct {
	ctx  context.Context
	open func(ctx context.Context, url string)
}

func NewWailsNavigator(ctx context.Context) *WailsNavigator {
	return &WailsNavigator{ctx: ctx, open: wailsruntime.BrowserOpenURL}
}

func (n *WailsNavigator) OpenExternal(url string) {
	n.open(n.ctx, url)
}

// WailsPresenter forwards the update workflow to the frontend as events.
type WailsPresenter struct {
	ctx  context.Context
	emit emitFunc
}

func NewWailsPresenter(ctx context.Context) *WailsPresenter {
	return &WailsPresenter{ctx: ctx, emit: wailsruntime.EventsEmit}
}

func (p *WailsPresenter) ShowChecking() func() {
	p.emit(p.ctx, common.EventUpdateChecking, true)
	return func() {
		p.emit(p.ctx, common.EventUpdateChecking, false)
	}
}

func (p *WailsPresenter) ShowUpToDate() {
	p.emit(p.ctx, common.EventUpdateLatest)
}

func (p *WailsPresenter) ShowUpdateAvailable(notice services.UpdateNotice) {
	p.emit(p.ctx, common.EventUpdateAvailable, notice)
}

// PreferencesChanged tells the frontend to refresh its copy of the
// preferences.
func (p *WailsPresenter) PreferencesChanged(prefs domain.Preferences) {
	p.emit(p.ctx, common.EventPrefsChanged, prefs)
}

// ThemeWatcher tracks the operating system colour scheme reported by the
// frontend on the os:theme event.
type ThemeWatcher struct {
	theme atomic.Value
}

func NewThemeWatcher() *ThemeWatcher {
	w := &ThemeWatcher{}
	w.theme.Store(domain.ThemeLight)
	return w
}

// Start subscribes to theme changes. The returned function unsubscribes.
func (w *ThemeWatcher) Start(ctx context.Context) func() {
	return wailsruntime.EventsOn(ctx, common.EventOSTheme, func(data ...interface{}) {
		if len(data) == 0 {
			return
		}
		if s, ok := data[0].(string); ok {
			w.Set(s)
		}
	})
}

// Set records the reported scheme. Anything but "dark" counts as light.
func (w *ThemeWatcher) Set(theme string) {
	if domain.Theme(theme) == domain.ThemeDark {
		w.theme.Store(domain.ThemeDark)
		return
	}
	w.theme.Store(domain.ThemeLight)
}

func (w *ThemeWatcher) Current() domain.Theme {
	return w.theme.Load().(domain.Theme)
}
