// Package app turns user actions into API calls, banners and list refreshes.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"todolist/pkg/alert"
	"todolist/pkg/client"
	"todolist/pkg/notify"
	"todolist/pkg/state"
	"todolist/pkg/todo"
)

// API is the part of the REST client the controller needs.
type API interface {
	Items(ctx context.Context) ([]todo.Item, error)
	NewList(ctx context.Context) error
	Add(ctx context.Context, it todo.Item) (int, error)
	Update(ctx context.Context, it todo.Item) error
	Done(ctx context.Context, id int) error
	Activate(ctx context.Context, id int) error
	Deactivate(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
	User(ctx context.Context) (string, error)
	Version(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
}

var _ API = (*client.Client)(nil)

// Options tunes an App. Zero values fall back to the defaults below.
type Options struct {
	// Fade is how long self-dismissing banners stay up.
	Fade time.Duration
	// NotifyDelay is the wait between Start and the due-date scan.
	NotifyDelay time.Duration
	// RefreshInterval enables periodic list refreshes when positive.
	RefreshInterval time.Duration
	Logger          zerolog.Logger
	// OnLogout runs after a successful logout, typically to reload the view.
	OnLogout func()
	Now      func() time.Time
}

const (
	DefaultFade        = 5 * time.Second
	DefaultNotifyDelay = 1500 * time.Millisecond
)

// App is the controller shared by the views.
type App struct {
	Store  *state.Store
	Alerts *alert.Manager

	api             API
	log             zerolog.Logger
	fade            time.Duration
	notifyDelay     time.Duration
	refreshInterval time.Duration
	onLogout        func()
	now             func() time.Time

	mu   sync.Mutex
	stop context.CancelFunc
}

// New creates an App around api with an empty store and no banners.
func New(api API, opts Options) *App {
	a := &App{
		Store:           state.NewStore(),
		Alerts:          alert.NewManager(),
		api:             api,
		log:             opts.Logger,
		fade:            opts.Fade,
		notifyDelay:     opts.NotifyDelay,
		refreshInterval: opts.RefreshInterval,
		onLogout:        opts.OnLogout,
		now:             opts.Now,
	}
	if a.fade <= 0 {
		a.fade = DefaultFade
	}
	if a.notifyDelay <= 0 {
		a.notifyDelay = DefaultNotifyDelay
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// Start bootstraps the session, schedules the one-shot due-date scan and,
// when configured, the periodic refresh. It returns once bootstrap is done;
// the scheduled work stops when ctx ends or Start is called again.
func (a *App) Start(ctx context.Context) {
	a.mu.Lock()
	if a.stop != nil {
		a.stop()
	}
	ctx, a.stop = context.WithCancel(ctx)
	a.mu.Unlock()

	a.Bootstrap(ctx)
	notify.After(ctx, a.notifyDelay, a.CheckDue)
	if a.refreshInterval > 0 {
		go a.poll(ctx)
	}
}

// Reload drops banners, wizards and cached data and starts a new session.
func (a *App) Reload(ctx context.Context) {
	a.Store.Reset()
	a.Alerts.Clear()
	a.Start(ctx)
}

func (a *App) poll(ctx context.Context) {
	ticker := time.NewTicker(a.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Refresh(ctx)
		}
	}
}

// Bootstrap fetches the user, the version and the list concurrently.
func (a *App) Bootstrap(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		user, err := a.api.User(ctx)
		if err != nil {
			a.log.Error().Err(err).Str("endpoint", "user").Msg("get user")
			a.Alerts.Danger("u", "Failed to get user!", a.fade)
			return nil
		}
		a.Store.SetUser(user)
		return nil
	})
	g.Go(func() error {
		version, err := a.api.Version(ctx)
		if err != nil {
			a.log.Error().Err(err).Str("endpoint", "version").Msg("get version")
			a.Alerts.Danger("v", "Failed to get version!", a.fade)
			return nil
		}
		a.Store.SetVersion(version)
		return nil
	})
	g.Go(func() error {
		a.Refresh(ctx)
		return nil
	})
	_ = g.Wait()
}

// Refresh replaces the cached list with the server's. A missing list is
// provisioned once and fetched again.
func (a *App) Refresh(ctx context.Context) {
	a.refresh(ctx, true)
}

func (a *App) refresh(ctx context.Context, provision bool) {
	items, err := a.api.Items(ctx)
	if err == nil {
		a.Store.SetItems(items)
		return
	}

	if provision && client.IsNotFound(err) {
		a.log.Info().Msg("no list for session, provisioning")
		if err := a.api.NewList(ctx); err != nil {
			a.log.Error().Err(err).Str("endpoint", "new").Msg("add new list")
			a.Alerts.Danger("n", "Failed to add new list!", a.fade)
			return
		}
		a.Alerts.Success("n", "Added new list!", a.fade)
		a.refresh(ctx, false)
		return
	}

	a.log.Error().Err(err).Str("endpoint", "items").Msg("get items")
	a.Store.ClearItems()
	a.Alerts.Danger("i", "Failed to get items!", 0)
}

// Complete marks an item done.
func (a *App) Complete(ctx context.Context, id int) error {
	return a.mutate(ctx, id, "done", a.api.Done, "%s completed!", "Failed to set %s completed!")
}

// Activate moves a done item back to the active list.
func (a *App) Activate(ctx context.Context, id int) error {
	return a.mutate(ctx, id, "activate", a.api.Activate, "%s activated!", "Failed to activate %s")
}

// Deactivate retires an item.
func (a *App) Deactivate(ctx context.Context, id int) error {
	return a.mutate(ctx, id, "deactivate", a.api.Deactivate, "%s deactivated!", "Failed to deactivate %s")
}

// Delete removes an item.
func (a *App) Delete(ctx context.Context, id int) error {
	return a.mutate(ctx, id, "delete", a.api.Delete, "%s deleted!", "Failed to delete %s")
}

// mutate calls the API and refreshes the list. Banners name the item by its
// cached title; items missing from the cache get no banner.
func (a *App) mutate(ctx context.Context, id int, endpoint string, call func(context.Context, int) error, okFmt, failFmt string) error {
	it, cached := a.Store.Item(id)
	err := call(ctx, id)
	if err != nil {
		a.log.Error().Err(err).Str("endpoint", endpoint).Int("id", id).Msg("item action")
		if cached {
			a.Alerts.Danger(id, fmt.Sprintf(failFmt, it.Title), 0)
		}
	} else if cached {
		a.Alerts.Success(id, fmt.Sprintf(okFmt, it.Title), a.fade)
	}
	a.Refresh(ctx)
	return err
}

// Save validates the wizard draft and persists it: new drafts are added,
// existing items updated. An invalid draft leaves the wizard open, marks the
// offending fields and issues no request.
func (a *App) Save(ctx context.Context, mode state.Mode) error {
	it, err := a.Store.Save(mode)
	if err != nil {
		return err
	}

	if it.IsNew() {
		_, err = a.api.Add(ctx, it)
		if err != nil {
			a.log.Error().Err(err).Str("endpoint", "add").Str("title", it.Title).Msg("add item")
			a.Alerts.Danger(it.ID, "Failed to add "+it.Title+"!", 0)
		} else {
			a.Alerts.Success(it.ID, it.Title+" added!", a.fade)
		}
	} else {
		err = a.api.Update(ctx, it)
		if err != nil {
			a.log.Error().Err(err).Str("endpoint", "update").Int("id", it.ID).Msg("save item")
			a.Alerts.Danger(it.ID, "Failed to save "+it.Title+"!", 0)
		} else {
			a.Alerts.Success(it.ID, it.Title+" saved!", a.fade)
		}
	}
	a.Refresh(ctx)
	return err
}

// CheckDue scans the cached list once and raises a banner per due item.
func (a *App) CheckDue() {
	for _, n := range notify.Classify(a.Store.Snapshot().Items, a.now()) {
		it := n.Item
		switch n.Reason {
		case notify.DueToday:
			a.Alerts.Publish(alert.Alert{Kind: alert.Info, ItemID: it.ID, Actionable: true,
				Message: it.Title + " is due today!"}, 0)
		case notify.Overdue:
			a.Alerts.Publish(alert.Alert{Kind: alert.Warning, ItemID: it.ID, Actionable: true,
				Message: it.Title + " is overdue!"}, 0)
		case notify.DueTomorrow:
			a.Alerts.Publish(alert.Alert{Kind: alert.Info, ItemID: it.ID, Actionable: true,
				Message: it.Title + " is due tomorrow!"}, a.fade)
		}
	}
}

// CompleteFromAlert handles "Set todo as done" on a due-date banner.
func (a *App) CompleteFromAlert(ctx context.Context, key string) error {
	al, ok := a.Alerts.Get(key)
	if !ok || !al.Actionable {
		return nil
	}
	a.Alerts.Dismiss(key)
	return a.Complete(ctx, al.ItemID)
}

// Logout ends the session. Failures are only logged.
func (a *App) Logout(ctx context.Context) {
	if err := a.api.Logout(ctx); err != nil {
		a.log.Error().Err(err).Str("endpoint", "logout").Msg("logout")
		return
	}
	a.Store.SetUser("")
	if a.onLogout != nil {
		a.onLogout()
	}
}
