package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"deskprefs/internal/common"
	domain "deskprefs/internal/domain/preferences"
)

// UpdateState is a state of the update check workflow.
type UpdateState int

const (
	StateIdle UpdateState = iota
	StateChecking
	StateUpToDate
	StateUpdateAvailable
)

func (s UpdateState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChecking:
		return "checking"
	case StateUpToDate:
		return "up-to-date"
	case StateUpdateAvailable:
		return "update-available"
	default:
		return fmt.Sprintf("UpdateState(%d)", int(s))
	}
}

// UpdateAction is a user decision on an available update.
type UpdateAction string

const (
	ActionSkip  UpdateAction = "skip"
	ActionLater UpdateAction = "later"
	ActionOpen  UpdateAction = "open"
)

// updateActions are offered with every notice, in display order.
var updateActions = []UpdateAction{ActionSkip, ActionLater, ActionOpen}

// defaultCurrentVersion stands in for a response without a running version.
const defaultCurrentVersion = "v1.0.0"

// Decision is the outcome of comparing an update check response with the
// stored preferences.
type Decision struct {
	Available bool
	Latest    string
	Current   string
	PageURL   string
	Actions   []UpdateAction
}

// Decide reports whether an update should be offered. A background check
// only offers versions lexically above skipVersion; every check requires a
// newer latest version and a download page.
func Decide(manual bool, skipVersion string, result domain.CheckResult) Decision {
	current := result.Version
	if current == "" {
		current = defaultCurrentVersion
	}
	d := Decision{
		Latest:  result.Latest,
		Current: current,
		PageURL: result.PageURL,
	}
	if (manual || result.Latest > skipVersion) &&
		common.CompareVersion(result.Latest, current) > 0 &&
		result.PageURL != "" {
		d.Available = true
		d.Actions = append([]UpdateAction(nil), updateActions...)
	}
	return d
}

// UpdateNotice is an offered update awaiting a decision.
type UpdateNotice struct {
	ID      string         `json:"id"`
	Latest  string         `json:"latest"`
	Current string         `json:"current"`
	PageURL string         `json:"pageUrl"`
	Actions []UpdateAction `json:"actions"`
}

// Presenter renders the update workflow. ShowChecking returns the function
// that dismisses the checking indicator.
type Presenter interface {
	ShowChecking() func()
	ShowUpToDate()
	ShowUpdateAvailable(notice UpdateNotice)
}

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

// Checker drives the update workflow: check, compare, notify and apply the
// user's decision.
type Checker struct {
	store     *Store
	storeMu   sync.Locker
	service   domain.UpdateService
	presenter Presenter
	navigator domain.Navigator
	logger    *slog.Logger

	mu      sync.Mutex
	state   UpdateState
	pending map[string]UpdateNotice
}

// CheckerDeps are the collaborators of a Checker. StoreLock, when set, is
// held around every access to the store.
type CheckerDeps struct {
	Store     *Store
	StoreLock sync.Locker
	Service   domain.UpdateService
	Presenter Presenter
	Navigator domain.Navigator
	Logger    *slog.Logger
}

func NewChecker(deps CheckerDeps) *Checker {
	c := &Checker{
		store:     deps.Store,
		storeMu:   deps.StoreLock,
		service:   deps.Service,
		presenter: deps.Presenter,
		navigator: deps.Navigator,
		logger:    deps.Logger,
		pending:   make(map[string]UpdateNotice),
	}
	if c.storeMu == nil {
		c.storeMu = nopLocker{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// State returns the current workflow state.
func (c *Checker) State() UpdateState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending returns the notices still awaiting a decision.
func (c *Checker) Pending() []UpdateNotice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]UpdateNotice, 0, len(c.pending))
	for _, n := range c.pending {
		out = append(out, n)
	}
	return out
}

// Check asks the update service for the latest release. Manual checks show
// a checking indicator, dismissed exactly once when Check returns, and
// acknowledge when nothing newer exists. A failed service call counts as no
// update. The notice is returned when an update is offered.
func (c *Checker) Check(ctx context.Context, manual bool) (UpdateNotice, bool) {
	if manual {
		if dismiss := c.presenter.ShowChecking(); dismiss != nil {
			defer dismiss()
		}
	}

	c.setState(StateChecking)

	c.storeMu.Lock()
	skipVersion := c.store.SkipVersion()
	c.storeMu.Unlock()

	result, err := c.service.CheckForUpdate(ctx)
	if err != nil {
		c.logger.Warn("Update check failed", "error", err, "manual", manual)
		result = domain.CheckResult{}
	}

	decision := Decide(manual, skipVersion, result)
	if !decision.Available {
		c.logger.Debug("No update available", "latest", result.Latest, "current", decision.Current)
		c.setState(StateUpToDate)
		if manual {
			c.presenter.ShowUpToDate()
		}
		c.finish()
		return UpdateNotice{}, false
	}

	notice := UpdateNotice{
		ID:      common.GenerateUUID(),
		Latest:  decision.Latest,
		Current: decision.Current,
		PageURL: decision.PageURL,
		Actions: decision.Actions,
	}

	c.mu.Lock()
	c.pending[notice.ID] = notice
	c.state = StateUpdateAvailable
	c.mu.Unlock()

	c.logger.Info("Update available", "latest", notice.Latest, "current", notice.Current)
	c.presenter.ShowUpdateAvailable(notice)
	return notice, true
}

// Resolve applies the user's decision on the notice with the given id. Skip
// persists the offered version as skipped, later does nothing, open navigates
// to the download page. Each decision closes the notice.
func (c *Checker) Resolve(ctx context.Context, id string, action UpdateAction) error {
	c.mu.Lock()
	notice, ok := c.pending[id]
	c.mu.Unlock()
	if !ok {
		return common.ErrNoticeNotFound
	}

	switch action {
	case ActionSkip:
		c.storeMu.Lock()
		c.store.SetSkipVersion(notice.Latest)
		err := c.store.Save(ctx)
		c.storeMu.Unlock()
		if err != nil {
			c.logger.Error("Failed to save skipped version", "version", notice.Latest, "error", err)
			c.close(id)
			return fmt.Errorf("skip version %s: %w", notice.Latest, err)
		}
	case ActionLater:
	case ActionOpen:
		c.navigator.OpenExternal(notice.PageURL)
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownAction, action)
	}

	c.logger.Debug("Update notice resolved", "id", id, "action", action)
	c.close(id)
	return nil
}

func (c *Checker) close(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
	if len(c.pending) == 0 {
		c.state = StateIdle
	}
}

func (c *Checker) setState(s UpdateState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

// finish returns to idle unless an earlier notice is still open.
func (c *Checker) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) > 0 {
		c.state = StateUpdateAvailable
		return
	}
	c.state = StateIdle
}
