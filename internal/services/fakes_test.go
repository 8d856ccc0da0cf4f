package services

import (
	"context"
	"encoding/json"

	domain "deskprefs/internal/domain/preferences"
)

type fakePersistence struct {
	raw        json.RawMessage
	loadErr    error
	saveErr    error
	restoreErr error
	defaults   domain.Preferences
	saved      []domain.Preferences
}

func (f *fakePersistence) LoadPreferences(ctx context.Context) (json.RawMessage, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.raw, nil
}

func (f *fakePersistence) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, prefs)
	return nil
}

func (f *fakePersistence) RestoreDefaults(ctx context.Context) (domain.Preferences, error) {
	if f.restoreErr != nil {
		return domain.Preferences{}, f.restoreErr
	}
	return f.defaults, nil
}

type fakeFontCatalog struct {
	fonts []domain.FontItem
	err   error
}

func (f *fakeFontCatalog) ListFonts(ctx context.Context) ([]domain.FontItem, error) {
	return f.fonts, f.err
}

type fakeDecoderCatalog struct {
	decoders []domain.BuiltInDecoder
	err      error
}

func (f *fakeDecoderCatalog) ListBuiltIn(ctx context.Context) ([]domain.BuiltInDecoder, error) {
	return f.decoders, f.err
}

type fakeOSTheme struct {
	theme domain.Theme
}

func (f *fakeOSTheme) Current() domain.Theme {
	return f.theme
}

type fakeUpdateService struct {
	result domain.CheckResult
	err    error
	calls  int
}

func (f *fakeUpdateService) CheckForUpdate(ctx context.Context) (domain.CheckResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeNavigator struct {
	opened []string
}

func (f *fakeNavigator) OpenExternal(url string) {
	f.opened = append(f.opened, url)
}

type fakePresenter struct {
	checking  int
	dismissed int
	upToDate  int
	notices   []UpdateNotice
}

func (f *fakePresenter) ShowChecking() func() {
	f.checking++
	return func() { f.dismissed++ }
}

func (f *fakePresenter) ShowUpToDate() {
	f.upToDate++
}

func (f *fakePresenter) ShowUpdateAvailable(n UpdateNotice) {
	f.notices = append(f.notices, n)
}

func newTestStore(p *fakePersistence) *Store {
	return NewStore(StoreDeps{
		Persistence: p,
		OSTheme:     &fakeOSTheme{theme: domain.ThemeLight},
	})
}
