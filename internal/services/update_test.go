package services

import (
	"context"
	"errors"
	"testing"

	"deskprefs/internal/common"
	domain "deskprefs/internal/domain/preferences"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name        string
		manual      bool
		skipVersion string
		result      domain.CheckResult
		expected    bool
	}{
		{
			name:     "manual newer release",
			manual:   true,
			result:   domain.CheckResult{Version: "1.0.0", Latest: "1.1.0", PageURL: "https://x"},
			expected: true,
		},
		{
			name:        "background skipped version",
			skipVersion: "2.0.0",
			result:      domain.CheckResult{Version: "1.0.0", Latest: "2.0.0", PageURL: "https://x"},
			expected:    false,
		},
		{
			name:        "manual ignores skipped version",
			manual:      true,
			skipVersion: "2.0.0",
			result:      domain.CheckResult{Version: "1.0.0", Latest: "2.0.0", PageURL: "https://x"},
			expected:    true,
		},
		{
			name:        "background above skipped version",
			skipVersion: "2.0.0",
			result:      domain.CheckResult{Version: "1.0.0", Latest: "2.0.1", PageURL: "https://x"},
			expected:    true,
		},
		{
			name:     "not newer than running version",
			manual:   true,
			result:   domain.CheckResult{Version: "1.2.0", Latest: "1.2", PageURL: "https://x"},
			expected: false,
		},
		{
			name:     "missing page",
			manual:   true,
			result:   domain.CheckResult{Version: "1.0.0", Latest: "1.1.0"},
			expected: false,
		},
		{
			name:     "missing running version",
			manual:   true,
			result:   domain.CheckResult{Latest: "v1.0.1", PageURL: "https://x"},
			expected: true,
		},
		{
			name:     "empty response",
			manual:   true,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.manual, tt.skipVersion, tt.result)
			if d.Available != tt.expected {
				t.Errorf("Expected available %v, got %v", tt.expected, d.Available)
			}
			if d.Available && len(d.Actions) != 3 {
				t.Errorf("Expected three actions, got %v", d.Actions)
			}
		})
	}
}

type checkerFixture struct {
	persistence *fakePersistence
	store       *Store
	service     *fakeUpdateService
	presenter   *fakePresenter
	navigator   *fakeNavigator
	checker     *Checker
}

func newCheckerFixture(result domain.CheckResult, err error) *checkerFixture {
	f := &checkerFixture{
		persistence: &fakePersistence{},
		service:     &fakeUpdateService{result: result, err: err},
		presenter:   &fakePresenter{},
		navigator:   &fakeNavigator{},
	}
	f.store = newTestStore(f.persistence)
	f.checker = NewChecker(CheckerDeps{
		Store:     f.store,
		Service:   f.service,
		Presenter: f.presenter,
		Navigator: f.navigator,
	})
	return f
}

func TestChecker_BackgroundSkippedVersion(t *testing.T) {
	f := newCheckerFixture(domain.CheckResult{Version: "1.0.0", Latest: "2.0.0", PageURL: "https://x"}, nil)
	f.store.SetSkipVersion("2.0.0")

	if _, ok := f.checker.Check(context.Background(), false); ok {
		t.Fatal("Expected no notification for skipped version")
	}
	if len(f.presenter.notices) != 0 || f.presenter.upToDate != 0 || f.presenter.checking != 0 {
		t.Errorf("Expected background check to be silent, got %+v", f.presenter)
	}
	if f.checker.State() != StateIdle {
		t.Errorf("Expected idle, got %s", f.checker.State())
	}
}

func TestChecker_ManualSkip(t *testing.T) {
	f := newCheckerFixture(domain.CheckResult{Version: "1.0.0", Latest: "1.1.0", PageURL: "https://x"}, nil)
	ctx := context.Background()

	notice, ok := f.checker.Check(ctx, true)
	if !ok {
		t.Fatal("Expected an update notice")
	}
	if f.checker.State() != StateUpdateAvailable {
		t.Errorf("Expected update-available, got %s", f.checker.State())
	}
	if f.presenter.checking != 1 || f.presenter.dismissed != 1 {
		t.Errorf("Expected checking indicator shown and dismissed once, got %d/%d", f.presenter.checking, f.presenter.dismissed)
	}
	if len(f.presenter.notices) != 1 || f.presenter.notices[0].ID != notice.ID {
		t.Fatalf("Expected notice to be presented, got %+v", f.presenter.notices)
	}

	if err := f.checker.Resolve(ctx, notice.ID, ActionSkip); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if f.store.SkipVersion() != "1.1.0" {
		t.Errorf("Expected skipVersion 1.1.0, got %s", f.store.SkipVersion())
	}
	if len(f.persistence.saved) != 1 || f.persistence.saved[0].General.SkipVersion != "1.1.0" {
		t.Errorf("Expected skipVersion to be saved, got %+v", f.persistence.saved)
	}
	if f.checker.State() != StateIdle {
		t.Errorf("Expected idle after decision, got %s", f.checker.State())
	}
}

func TestChecker_ResolveActions(t *testing.T) {
	result := domain.CheckResult{Version: "1.0.0", Latest: "1.1.0", PageURL: "https://example.com/release"}

	t.Run("later", func(t *testing.T) {
		f := newCheckerFixture(result, nil)
		notice, _ := f.checker.Check(context.Background(), false)

		if err := f.checker.Resolve(context.Background(), notice.ID, ActionLater); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if len(f.persistence.saved) != 0 || len(f.navigator.opened) != 0 || f.store.SkipVersion() != "" {
			t.Error("Expected remind-later to change nothing")
		}
		if f.checker.State() != StateIdle {
			t.Errorf("Expected idle, got %s", f.checker.State())
		}
	})

	t.Run("open", func(t *testing.T) {
		f := newCheckerFixture(result, nil)
		notice, _ := f.checker.Check(context.Background(), false)

		if err := f.checker.Resolve(context.Background(), notice.ID, ActionOpen); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if len(f.navigator.opened) != 1 || f.navigator.opened[0] != result.PageURL {
			t.Errorf("Expected page to be opened, got %v", f.navigator.opened)
		}
		if len(f.persistence.saved) != 0 {
			t.Error("Expected open not to save")
		}
		if err := f.checker.Resolve(context.Background(), notice.ID, ActionOpen); !errors.Is(err, common.ErrNoticeNotFound) {
			t.Errorf("Expected resolved notice to be gone, got %v", err)
		}
	})

	t.Run("unknown action keeps notice", func(t *testing.T) {
		f := newCheckerFixture(result, nil)
		notice, _ := f.checker.Check(context.Background(), false)

		if err := f.checker.Resolve(context.Background(), notice.ID, "maybe"); !errors.Is(err, common.ErrUnknownAction) {
			t.Errorf("Expected ErrUnknownAction, got %v", err)
		}
		if len(f.checker.Pending()) != 1 {
			t.Error("Expected notice to stay pending")
		}
	})

	t.Run("unknown notice", func(t *testing.T) {
		f := newCheckerFixture(result, nil)
		if err := f.checker.Resolve(context.Background(), "missing", ActionSkip); !errors.Is(err, common.ErrNoticeNotFound) {
			t.Errorf("Expected ErrNoticeNotFound, got %v", err)
		}
	})

	t.Run("skip save failure", func(t *testing.T) {
		f := newCheckerFixture(result, nil)
		f.persistence.saveErr = errors.New("disk full")
		notice, _ := f.checker.Check(context.Background(), true)

		if err := f.checker.Resolve(context.Background(), notice.ID, ActionSkip); err == nil {
			t.Error("Expected save failure to be reported")
		}
		if f.checker.State() != StateIdle {
			t.Errorf("Expected idle, got %s", f.checker.State())
		}
	})
}

func TestChecker_ManualUpToDate(t *testing.T) {
	f := newCheckerFixture(domain.CheckResult{Version: "1.1.0", Latest: "1.1.0", PageURL: "https://x"}, nil)

	if _, ok := f.checker.Check(context.Background(), true); ok {
		t.Fatal("Expected no update")
	}
	if f.presenter.upToDate != 1 {
		t.Errorf("Expected one up-to-date acknowledgment, got %d", f.presenter.upToDate)
	}
	if f.presenter.dismissed != 1 {
		t.Errorf("Expected indicator dismissed once, got %d", f.presenter.dismissed)
	}
}

func TestChecker_ServiceFailure(t *testing.T) {
	f := newCheckerFixture(domain.CheckResult{}, errors.New("network down"))

	if _, ok := f.checker.Check(context.Background(), true); ok {
		t.Fatal("Expected failure to count as no update")
	}
	if f.presenter.dismissed != 1 {
		t.Errorf("Expected indicator dismissed once, got %d", f.presenter.dismissed)
	}
	if f.presenter.upToDate != 1 {
		t.Errorf("Expected up-to-date path after failure, got %d", f.presenter.upToDate)
	}

	f.presenter = &fakePresenter{}
	f.checker.presenter = f.presenter
	f.checker.Check(context.Background(), false)
	if f.presenter.checking != 0 || f.presenter.upToDate != 0 {
		t.Error("Expected background failure to be silent")
	}
}

func TestUpdateStateString(t *testing.T) {
	if StateUpdateAvailable.String() != "update-available" {
		t.Errorf("Unexpected state name %s", StateUpdateAvailable)
	}
	if UpdateState(42).String() != "UpdateState(42)" {
		t.Errorf("Unexpected unknown state name %s", UpdateState(42))
	}
}
