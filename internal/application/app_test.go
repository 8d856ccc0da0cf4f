package application

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"deskprefs/internal/common"
	"deskprefs/internal/config"
	domain "deskprefs/internal/domain/preferences"
	"deskprefs/internal/services"
	"deskprefs/internal/transport"
)

func setupTestApp(t *testing.T, updateURL string) *App {
	t.Helper()
	cfg := config.NewWithDataDir("1.0.0", t.TempDir())
	cfg.DatabasePath = filepath.Join(cfg.AppDataDir, "test.sqlite3")
	cfg.UpdateURL = updateURL

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}
	t.Cleanup(func() { app.container.Close() })
	return app
}

func TestNewApp(t *testing.T) {
	app := setupTestApp(t, "http://127.0.0.1:0")

	resp := app.GetPreferences()
	if !resp.Success {
		t.Fatalf("Expected success, got %+v", resp)
	}
	prefs, ok := resp.Data.(domain.Preferences)
	if !ok {
		t.Fatalf("Expected preferences payload, got %T", resp.Data)
	}
	if prefs.General.Theme != domain.ThemeAuto {
		t.Errorf("Expected default theme, got %s", prefs.General.Theme)
	}

	width, height, _ := app.WindowSize()
	if width != common.DefaultWindowWidth || height != common.DefaultWindowHeight {
		t.Errorf("Expected default window size, got %dx%d", width, height)
	}
}

func TestSetPreferencesAndReset(t *testing.T) {
	app := setupTestApp(t, "http://127.0.0.1:0")

	resp := app.SetPreferences(map[string]interface{}{
		"general": map[string]interface{}{"theme": "dark", "fontSize": 16},
	})
	if !resp.Success {
		t.Fatalf("SetPreferences failed: %s", resp.Msg)
	}

	state := app.GetViewState().Data.(ViewState)
	if !state.IsDark || state.GeneralFont.FontSize != "16px" {
		t.Errorf("Unexpected view state %+v", state)
	}

	// Reset returns to the state loaded at start-up, not the saved one.
	if resp := app.ResetPreferences(); !resp.Success {
		t.Fatalf("ResetPreferences failed: %s", resp.Msg)
	}
	if app.GetViewState().Data.(ViewState).IsDark {
		t.Error("Expected reset to drop the theme change")
	}
}

func TestCustomDecoderBindings(t *testing.T) {
	app := setupTestApp(t, "http://127.0.0.1:0")
	in := transport.DecoderInput{Name: "zstd", DecodePath: "/usr/bin/zstd"}

	if resp := app.AddCustomDecoder(in); !resp.Success {
		t.Fatalf("Expected add to succeed: %s", resp.Msg)
	}
	if resp := app.AddCustomDecoder(in); resp.Success {
		t.Error("Expected duplicate add to fail")
	}
	added := app.GetPreferences().Data.(domain.Preferences).Decoder[0]
	if !added.Enable || !added.Auto {
		t.Errorf("Expected omitted enable and auto to default to true, got %+v", added)
	}

	if resp := app.UpdateCustomDecoder("missing", in); resp.Success {
		t.Error("Expected update of missing decoder to fail")
	}
	off := false
	if resp := app.UpdateCustomDecoder("zstd", transport.DecoderInput{Name: "zstd2", Auto: &off}); !resp.Success {
		t.Errorf("Expected rename to succeed: %s", resp.Msg)
	}
	updated := app.GetPreferences().Data.(domain.Preferences).Decoder[0]
	if updated.Name != "zstd2" || !updated.Enable || updated.Auto {
		t.Errorf("Unexpected updated decoder %+v", updated)
	}

	if resp := app.RemoveCustomDecoder("zstd"); resp.Success {
		t.Error("Expected removal of the old name to fail")
	}
	if resp := app.RemoveCustomDecoder("zstd2"); !resp.Success {
		t.Errorf("Expected removal to succeed: %s", resp.Msg)
	}
}

func TestCatalogBindings(t *testing.T) {
	app := setupTestApp(t, "http://127.0.0.1:0")

	resp := app.GetBuildInDecoder()
	if !resp.Success {
		t.Fatalf("GetBuildInDecoder failed: %s", resp.Msg)
	}
	data := resp.Data.(map[string]interface{})
	if list := data["decoder"].([]domain.BuiltInDecoder); len(list) == 0 {
		t.Error("Expected built-in decoders")
	}
}

func TestUpdateBindings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name":"v1.1.0","html_url":"https://example.com/v1.1.0"}`))
	}))
	defer srv.Close()

	app := setupTestApp(t, srv.URL)

	resp := app.CheckForUpdate(true)
	if !resp.Success {
		t.Fatalf("CheckForUpdate failed: %s", resp.Msg)
	}
	notice, ok := resp.Data.(services.UpdateNotice)
	if !ok {
		t.Fatalf("Expected a notice, got %+v", resp.Data)
	}

	if resp := app.ResolveUpdate(notice.ID, "bogus"); resp.Success {
		t.Error("Expected unknown action to fail")
	}
	// Before start-up the navigator only logs.
	if resp := app.ResolveUpdate(notice.ID, "open"); !resp.Success {
		t.Errorf("Expected open to succeed: %s", resp.Msg)
	}
	if resp := app.ResolveUpdate(notice.ID, "skip"); resp.Success {
		t.Error("Expected resolved notice to be gone")
	}
}

func TestScheduledChecks(t *testing.T) {
	hits := make(chan struct{}, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case hits <- struct{}{}:
		default:
		}
		w.Write([]byte(`{"tag_name":"v1.0.0","html_url":"https://x"}`))
	}))
	defer srv.Close()

	app := setupTestApp(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.runScheduledChecks(ctx, 10*time.Millisecond)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-hits:
		case <-time.After(2 * time.Second):
			t.Fatal("Expected scheduled checks to reach the release endpoint")
		}
	}
	cancel()
	<-done
}

func TestScheduledCheckDisabled(t *testing.T) {
	app := setupTestApp(t, "http://127.0.0.1:0")
	app.container.Store().Update(func(p *domain.Preferences) { p.General.CheckUpdate = false })

	// Must return without touching the network.
	app.scheduledCheck(context.Background())
}

func TestDialogBindingsBeforeStartup(t *testing.T) {
	app := setupTestApp(t, "http://127.0.0.1:0")

	resp := app.SelectExecutable("Pick")
	if resp.Success || resp.Msg != ErrNotStarted.Error() {
		t.Errorf("Expected ErrNotStarted, got %+v", resp)
	}
	if resp := app.GetAppVersion(); !resp.Success {
		t.Error("Expected version to be available")
	}
}
