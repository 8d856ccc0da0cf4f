package container

import (
	"log/slog"

	domain "deskprefs/internal/domain/preferences"
	"deskprefs/internal/services"

	"github.com/pkg/browser"
)

// LogPresenter reports the update workflow through the logger when no
// window is available.
type LogPresenter struct {
	logger *slog.Logger
}

func NewLogPresenter(logger *slog.Logger) *LogPresenter {
	return &LogPresenter{logger: logger}
}

func (p *LogPresenter) ShowChecking() func() {
	p.logger.Info("Checking for updates")
	return func() {}
}

func (p *LogPresenter) ShowUpToDate() {
	p.logger.Info("Already on the latest version")
}

func (p *LogPresenter) ShowUpdateAvailable(notice services.UpdateNotice) {
	p.logger.Info("New version available",
		"id", notice.ID,
		"latest", notice.Latest,
		"current", notice.Current,
		"page_url", notice.PageURL)
}

// BrowserNavigator opens URLs with the platform browser.
type BrowserNavigator struct {
	logger *slog.Logger
	open   func(url string) error
}

func NewBrowserNavigator(logger *slog.Logger) *BrowserNavigator {
	return &BrowserNavigator{logger: logger, open: browser.OpenURL}
}

func (n *BrowserNavigator) OpenExternal(url string) {
	if err := n.open(url); err != nil {
		n.logger.Error("Failed to open browser", "url", url, "error", err)
	}
}

// StaticTheme is an OS theme that never changes.
type StaticTheme domain.Theme

func (t StaticTheme) Current() domain.Theme {
	return domain.Theme(t)
}
