package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"deskprefs/internal/common"
	"deskprefs/internal/config"
	"deskprefs/internal/container"
	domain "deskprefs/internal/domain/preferences"
	"deskprefs/internal/services"
	"deskprefs/internal/transport"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// App is the Wails binding. Every store access goes through mu.
type App struct {
	ctx       context.Context
	mu        sync.Mutex
	config    *config.Config
	container *container.Container
	theme     *transport.ThemeWatcher

	presenter *transport.WailsPresenter
	navigator *transport.WailsNavigator
	dialogs   transport.DialogHandler

	stopSchedule     context.CancelFunc
	unsubscribeTheme func()
}

// NewApp builds the application and loads the stored preferences.
func NewApp(cfg *config.Config) (*App, error) {
	a := &App{
		ctx:    context.Background(),
		config: cfg,
		theme:  transport.NewThemeWatcher(),
	}

	c, err := container.New(cfg, container.Options{
		Presenter: windowBridge{app: a},
		Navigator: windowBridge{app: a},
		OSTheme:   a.theme,
		StoreLock: &a.mu,
	})
	if err != nil {
		return nil, err
	}
	a.container = c

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := c.Store().Load(a.ctx); err != nil {
		cfg.Logger.Error("Failed to load preferences, using defaults", "error", err)
	}
	return a, nil
}

// WindowSize returns the start-up window geometry.
func (a *App) WindowSize() (width, height int, maximised bool) {
	return a.container.Database().WindowSize(a.ctx)
}

func (a *App) OnStartup(ctx context.Context) {
	a.ctx = ctx
	a.presenter = transport.NewWailsPresenter(ctx)
	a.navigator = transport.NewWailsNavigator(ctx)
	a.dialogs = transport.NewDialogsHandler(ctx)
	a.unsubscribeTheme = a.theme.Start(ctx)

	scheduleCtx, cancel := context.WithCancel(ctx)
	a.stopSchedule = cancel
	go a.runScheduledChecks(scheduleCtx, a.config.UpdateInterval)

	a.config.Logger.Info("Wails app initialized successfully")
	a.config.Logger.Info("Application configuration",
		"data_dir", a.config.AppDataDir,
		"database_path", a.config.DatabasePath,
		"update_interval", a.config.UpdateInterval)
}

func (a *App) OnShutdown(ctx context.Context) {
	if a.stopSchedule != nil {
		a.stopSchedule()
	}
	if a.unsubscribeTheme != nil {
		a.unsubscribeTheme()
	}

	width, height := wailsruntime.WindowGetSize(ctx)
	maximised := wailsruntime.WindowIsMaximised(ctx)
	if err := a.container.Database().SaveWindowSize(ctx, width, height, maximised); err != nil {
		a.config.Logger.Error("Failed to save window size", "error", err)
	}

	if err := a.container.Close(); err != nil {
		a.config.Logger.Error("Failed to close database", "error", err)
	}
}

// runScheduledChecks checks for updates once at start-up and then every
// interval while automatic checks are enabled.
func (a *App) runScheduledChecks(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	a.scheduledCheck(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.scheduledCheck(ctx)
		}
	}
}

func (a *App) scheduledCheck(ctx context.Context) {
	a.mu.Lock()
	enabled := a.container.Store().AutoCheckUpdate()
	a.mu.Unlock()
	if !enabled {
		return
	}
	a.container.Checker().Check(ctx, false)
}

func (a *App) GetPreferences() transport.JSResp {
	a.mu.Lock()
	defer a.mu.Unlock()
	return transport.OK(a.container.Store().Preferences())
}

// SetPreferences applies the edited fields sent by the frontend and saves.
func (a *App) SetPreferences(data map[string]interface{}) transport.JSResp {
	doc, err := json.Marshal(data)
	if err != nil {
		return transport.Fail(err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	store := a.container.Store()
	if err := store.ApplyDocument(doc); err != nil {
		return transport.Fail(err)
	}
	if err := store.Save(a.ctx); err != nil {
		return transport.Fail(err)
	}
	a.notifyChanged(store.Preferences())
	return transport.OK(nil)
}

func (a *App) SavePreferences() transport.JSResp {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.container.Store().Save(a.ctx); err != nil {
		return transport.Fail(err)
	}
	return transport.OK(nil)
}

// ResetPreferences drops unsaved edits.
func (a *App) ResetPreferences() transport.JSResp {
	a.mu.Lock()
	defer a.mu.Unlock()
	store := a.container.Store()
	if !store.ResetToLastPreferences() {
		return transport.Fail(common.ErrNoSnapshot)
	}
	a.notifyChanged(store.Preferences())
	return transport.OK(store.Preferences())
}

func (a *App) RestorePreferences() transport.JSResp {
	a.mu.Lock()
	defer a.mu.Unlock()
	store := a.container.Store()
	if err := store.RestoreToDefault(a.ctx); err != nil {
		return transport.Fail(err)
	}
	prefs := store.Preferences()
	a.notifyChanged(prefs)
	return transport.OK(map[string]interface{}{"pref": prefs})
}

func (a *App) GetFontList() transport.JSResp {
	a.mu.Lock()
	defer a.mu.Unlock()
	fonts, err := a.container.Store().LoadFontList(a.ctx)
	if err != nil {
		return transport.Fail(err)
	}
	return transport.OK(map[string]interface{}{"fonts": fonts})
}

func (a *App) GetBuildInDecoder() transport.JSResp {
	a.mu.Lock()
	defer a.mu.Unlock()
	store := a.container.Store()
	if err := store.LoadBuildInDecoders(a.ctx); err != nil {
		return transport.Fail(err)
	}
	return transport.OK(map[string]interface{}{"decoder": store.BuildInDecoders()})
}

// ViewState holds the values derived from the preferences for rendering.
type ViewState struct {
	IsDark             bool                  `json:"isDark"`
	GeneralFont        services.FontStyle    `json:"generalFont"`
	EditorFont         services.FontStyle    `json:"editorFont"`
	CLIFont            services.TermFont     `json:"cliFont"`
	ShowLineNum        bool                  `json:"showLineNum"`
	ShowFolding        bool                  `json:"showFolding"`
	DropText           bool                  `json:"dropText"`
	EditorLinks        bool                  `json:"editorLinks"`
	AutoCheckUpdate    bool                  `json:"autoCheckUpdate"`
	KeyIconStyle       int                   `json:"keyIconStyle"`
	Separator          string                `json:"separator"`
	ThemeOptions       []services.Option     `json:"themeOptions"`
	CursorStyleOptions []services.Option     `json:"cursorStyleOptions"`
	FontOptions        []services.FontOption `json:"fontOptions"`
}

func (a *App) GetViewState() transport.JSResp {
	a.mu.Lock()
	defer a.mu.Unlock()
	return transport.OK(a.viewState())
}

func (a *App) viewState() ViewState {
	s := a.container.Store()
	return ViewState{
		IsDark:             s.IsDark(),
		GeneralFont:        s.GeneralFont(),
		EditorFont:         s.EditorFont(),
		CLIFont:            s.CLIFont(),
		ShowLineNum:        s.ShowLineNum(),
		ShowFolding:        s.ShowFolding(),
		DropText:           s.DropText(),
		EditorLinks:        s.EditorLinks(),
		AutoCheckUpdate:    s.AutoCheckUpdate(),
		KeyIconStyle:       s.KeyIconStyle(),
		Separator:          s.Separator(),
		ThemeOptions:       s.ThemeOptions(),
		CursorStyleOptions: s.CursorStyleOptions(),
		FontOptions:        s.FontOptions(),
	}
}

func (a *App) AddCustomDecoder(in transport.DecoderInput) transport.JSResp {
	cfg := in.Config()
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.container.Store().AddCustomDecoder(cfg) {
		return transport.Fail(fmt.Errorf("%w: %s", ErrDecoderExists, cfg.Name))
	}
	return transport.OK(nil)
}

func (a *App) UpdateCustomDecoder(name string, in transport.DecoderInput) transport.JSResp {
	cfg := in.Config()
	a.mu.Lock()
	defer a.mu.Unlock()
	store := a.container.Store()
	if _, ok := store.Decoders().Get(name); !ok {
		return transport.Fail(fmt.Errorf("%w: %s", ErrDecoderNotFound, name))
	}
	if !store.UpdateCustomDecoder(name, cfg) {
		return transport.Fail(fmt.Errorf("%w: %s", ErrDecoderExists, cfg.Name))
	}
	return transport.OK(nil)
}

func (a *App) RemoveCustomDecoder(name string) transport.JSResp {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.container.Store().RemoveCustomDecoder(name) {
		return transport.Fail(fmt.Errorf("%w: %s", ErrDecoderNotFound, name))
	}
	return transport.OK(nil)
}

func (a *App) SetAsWelcomed(acceptTrack bool) transport.JSResp {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.container.Store().SetAsWelcomed(a.ctx, acceptTrack); err != nil {
		return transport.Fail(err)
	}
	return transport.OK(nil)
}

// CheckForUpdate runs an update check. The offered notice, if any, is
// returned and also emitted as an event.
func (a *App) CheckForUpdate(manual bool) transport.JSResp {
	notice, ok := a.container.Checker().Check(a.ctx, manual)
	if !ok {
		return transport.OK(nil)
	}
	return transport.OK(notice)
}

func (a *App) ResolveUpdate(id, action string) transport.JSResp {
	if err := a.container.Checker().Resolve(a.ctx, id, services.UpdateAction(action)); err != nil {
		return transport.Fail(err)
	}
	return transport.OK(nil)
}

func (a *App) SelectExecutable(title string) transport.JSResp {
	if a.dialogs == nil {
		return transport.Fail(ErrNotStarted)
	}
	path, err := a.dialogs.SelectExecutable(title)
	if err != nil {
		return transport.Fail(err)
	}
	return transport.OK(path)
}

func (a *App) OpenDataDir() transport.JSResp {
	if a.dialogs == nil {
		return transport.Fail(ErrNotStarted)
	}
	if err := a.dialogs.OpenFile(a.config.AppDataDir); err != nil {
		return transport.Fail(err)
	}
	return transport.OK(nil)
}

func (a *App) GetAppVersion() transport.JSResp {
	return transport.OK(map[string]string{"version": a.config.AppVersion})
}

// windowBridge forwards the update workflow to the window once it exists.
// It keeps these methods off the bound App.
type windowBridge struct {
	app *App
}

func (b windowBridge) ShowChecking() func() {
	if b.app.presenter == nil {
		return nil
	}
	return b.app.presenter.ShowChecking()
}

func (b windowBridge) ShowUpToDate() {
	if b.app.presenter != nil {
		b.app.presenter.ShowUpToDate()
	}
}

func (b windowBridge) ShowUpdateAvailable(notice services.UpdateNotice) {
	if b.app.presenter != nil {
		b.app.presenter.ShowUpdateAvailable(notice)
	}
}

func (b windowBridge) OpenExternal(url string) {
	if b.app.navigator == nil {
		b.app.config.Logger.Warn("Cannot open URL before start-up", "url", url)
		return
	}
	b.app.navigator.OpenExternal(url)
}

func (a *App) notifyChanged(prefs domain.Preferences) {
	if a.presenter != nil {
		a.presenter.PreferencesChanged(prefs)
	}
}
