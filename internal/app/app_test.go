package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/apitest"
	"todolist/pkg/alert"
	"todolist/pkg/client"
	"todolist/pkg/state"
	"todolist/pkg/todo"
)

func newTestApp(t *testing.T, opts Options) (*App, *apitest.Server) {
	t.Helper()
	srv := apitest.Start(t)
	c, err := client.New(srv.URL)
	require.NoError(t, err)
	return New(c, opts), srv
}

func alertMessage(t *testing.T, a *App, key string) string {
	t.Helper()
	al, ok := a.Alerts.Get(key)
	require.True(t, ok, "no banner %s in %v", key, a.Alerts.List())
	return al.Message
}

func TestRefreshProvisionsMissingList(t *testing.T) {
	a, srv := newTestApp(t, Options{})

	a.Refresh(context.Background())

	assert.Equal(t, "Added new list!", alertMessage(t, a, "alertsn"))
	assert.Equal(t, 2, srv.Count(http.MethodGet, "/api/v1/items"))
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/api/v1/new"))
	assert.Empty(t, a.Store.Snapshot().Items)
}

func TestRefreshStoresExactlyTheReturnedItems(t *testing.T) {
	a, srv := newTestApp(t, Options{})
	srv.Provision(todo.Item{ID: 1, Title: "a"}, todo.Item{ID: 2, Title: "b", Done: true})

	a.Refresh(context.Background())

	st := a.Store.Snapshot()
	assert.Equal(t, srv.Items(), st.Items)
	assert.Len(t, st.Active(), 1)
	assert.Len(t, st.Inactive(), 1)
	assert.Empty(t, a.Alerts.List())
}

func TestRefreshProvisionFailure(t *testing.T) {
	a, srv := newTestApp(t, Options{})
	srv.Fail("new", http.StatusInternalServerError)

	a.Refresh(context.Background())

	assert.Equal(t, "Failed to add new list!", alertMessage(t, a, "alertdn"))
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/api/v1/items"))
}

func TestRefreshProvisionsOnlyOnce(t *testing.T) {
	a, srv := newTestApp(t, Options{})
	srv.Fail("items", http.StatusNotFound)

	a.Refresh(context.Background())

	assert.Equal(t, 1, srv.Count(http.MethodGet, "/api/v1/new"))
	assert.Equal(t, 2, srv.Count(http.MethodGet, "/api/v1/items"))
	assert.Equal(t, "Failed to get items!", alertMessage(t, a, "alertdi"))
}

func TestRefreshFailureClearsList(t *testing.T) {
	a, srv := newTestApp(t, Options{})
	srv.Provision(todo.Item{ID: 1, Title: "a"})
	ctx := context.Background()
	a.Refresh(ctx)
	require.Len(t, a.Store.Snapshot().Items, 1)

	srv.Fail("items", http.StatusInternalServerError)
	a.Refresh(ctx)

	assert.Empty(t, a.Store.Snapshot().Items)
	assert.Equal(t, "Failed to get items!", alertMessage(t, a, "alertdi"))
}

func TestSaveNewItem(t *testing.T) {
	a, srv := newTestApp(t, Options{})
	srv.Provision()
	ctx := context.Background()

	a.Store.OpenNew()
	d := todo.NewDraft()
	d.Title = "Buy milk"
	a.Store.UpdateDraft(state.ModeNew, d)

	require.NoError(t, a.Save(ctx, state.ModeNew))

	assert.Equal(t, 1, srv.Count(http.MethodPost, "/api/v1/items/add"))
	assert.Equal(t, "Buy milk added!", alertMessage(t, a, "alerts-1"))
	reqs := srv.Requests()
	assert.Equal(t, "/api/v1/items", reqs[len(reqs)-1].Path)

	st := a.Store.Snapshot()
	require.Len(t, st.Items, 1)
	assert.Equal(t, "Buy milk", st.Items[0].Title)
	assert.False(t, st.New.Visible)
	assert.Equal(t, "", st.New.Draft.Title)
}

func TestSaveFailureStillRefreshes(t *testing.T) {
	a, srv := newTestApp(t, Options{})
	srv.Provision()
	srv.Fail("add", http.StatusInternalServerError)

	a.Store.OpenNew()
	d := todo.NewDraft()
	d.Title = "Buy milk"
	a.Store.UpdateDraft(state.ModeNew, d)

	err := a.Save(context.Background(), state.ModeNew)

	assert.Error(t, err)
	assert.Equal(t, "Failed to add Buy milk!", alertMessage(t, a, "alertd-1"))
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/api/v1/items"))
}

func TestSaveExistingItem(t *testing.T) {
	a, srv := newTestApp(t, Options{})
	srv.Provision(todo.Item{ID: 3, Title: "Walk dog", Repeating: todo.RepeatNo})
	ctx := context.Background()
	a.Refresh(ctx)

	a.Store.OpenEdit(3, state.PageDetails)
	d := a.Store.Snapshot().Edit.Draft
	d.Title = "Walk the dog"
	a.Store.UpdateDraft(state.ModeEdit, d)

	require.Equal(t, "Walk dog", a.Store.Title(3))
	require.NoError(t, a.Save(ctx, state.ModeEdit))

	assert.Equal(t, 1, srv.Count(http.MethodPost, "/api/v1/items/3/update"))
	assert.Equal(t, "Walk the dog saved!", alertMessage(t, a, "alerts3"))
	assert.Equal(t, "Walk the dog", a.Store.Title(3))
}

func TestInvalidDueDateIssuesNoRequest(t *testing.T) {
	a, srv := newTestApp(t, Options{})
	srv.Provision()
	ctx := context.Background()

	a.Store.OpenNew()
	d := todo.NewDraft()
	d.Title = "Pay rent"
	d.Scheduled = true
	d.DueDate = "2024-13-40"
	a.Store.UpdateDraft(state.ModeNew, d)

	_, err := a.Store.Next(state.ModeNew)
	require.NoError(t, err)
	st, err := a.Store.Next(state.ModeNew)
	require.Error(t, err)
	assert.Equal(t, state.PageSchedule, st.New.Page)
	assert.Contains(t, st.New.Invalid, todo.FieldDueDate)

	err = a.Save(ctx, state.ModeNew)

	assert.Error(t, err)
	assert.Empty(t, srv.Requests())
	assert.True(t, a.Store.Snapshot().New.Visible)
}

func TestItemActions(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		fail    string
		path    string
		key     string
		message string
	}{
		{"complete", ActionComplete, "", "/api/v1/items/1/done", "alerts1", "Milk completed!"},
		{"activate", ActionActivate, "", "/api/v1/items/1/activate", "alerts1", "Milk activated!"},
		{"deactivate", ActionDeactivate, "", "/api/v1/items/1/deactivate", "alerts1", "Milk deactivated!"},
		{"delete", ActionDelete, "", "/api/v1/items/1/delete", "alerts1", "Milk deleted!"},
		{"complete fails", ActionComplete, "done", "/api/v1/items/1/done", "alertd1", "Failed to set Milk completed!"},
		{"activate fails", ActionActivate, "activate", "/api/v1/items/1/activate", "alertd1", "Failed to activate Milk"},
		{"deactivate fails", ActionDeactivate, "deactivate", "/api/v1/items/1/deactivate", "alertd1", "Failed to deactivate Milk"},
		{"delete fails", ActionDelete, "delete", "/api/v1/items/1/delete", "alertd1", "Failed to delete Milk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, srv := newTestApp(t, Options{})
			srv.Provision(todo.Item{ID: 1, Title: "Milk"})
			ctx := context.Background()
			a.Refresh(ctx)
			if tt.fail != "" {
				srv.Fail(tt.fail, http.StatusInternalServerError)
			}

			err := a.Perform(ctx, 1, tt.action)

			if tt.fail != "" {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.message, alertMessage(t, a, tt.key))
			assert.Equal(t, 1, srv.Count(http.MethodGet, tt.path))
			assert.Equal(t, 2, srv.Count(http.MethodGet, "/api/v1/items"))
		})
	}
}

func TestFailureBannersPersist(t *testing.T) {
	a, srv := newTestApp(t, Options{Fade: 10 * time.Millisecond})
	srv.Provision(todo.Item{ID: 1, Title: "Milk"})
	srv.Fail("delete", http.StatusInternalServerError)
	ctx := context.Background()
	a.Refresh(ctx)

	_ = a.Delete(ctx, 1)
	require.NoError(t, a.Complete(ctx, 1))

	assert.Eventually(t, func() bool {
		_, ok := a.Alerts.Get("alerts1")
		return !ok
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Failed to delete Milk", alertMessage(t, a, "alertd1"))
}

func TestPerformEditOpensCopy(t *testing.T) {
	a, srv := newTestApp(t, Options{})
	srv.Provision(todo.Item{ID: 5, Title: "Plan trip", Scheduled: true, DueDate: "2024-06-01"})
	ctx := context.Background()
	a.Refresh(ctx)

	require.NoError(t, a.Perform(ctx, 5, ActionEditSchedule))
	st := a.Store.Snapshot()
	assert.True(t, st.Edit.Visible)
	assert.Equal(t, state.PageSchedule, st.Edit.Page)

	d := st.Edit.Draft
	d.Title = "changed"
	a.Store.UpdateDraft(state.ModeEdit, d)
	assert.Equal(t, "Plan trip", a.Store.Title(5))

	assert.Error(t, a.Perform(ctx, 5, Action("explode")))
	assert.Empty(t, srv.Requests()[1:])
}

func TestRowControls(t *testing.T) {
	plain := RowControls(todo.Item{Title: "a", Repeating: todo.RepeatNo})
	assert.Equal(t, []Action{ActionComplete, ActionEdit}, actions(plain))
	assert.Equal(t, RolePrimary, plain[0].Role)

	repeating := RowControls(todo.Item{Title: "a", Scheduled: true, Repeating: todo.RepeatWeekly})
	assert.Equal(t, []Action{ActionComplete, ActionEdit, ActionEditSchedule, ActionDeactivate}, actions(repeating))
	assert.Equal(t, RoleDanger, repeating[3].Role)

	done := RowControls(todo.Item{Title: "a", Done: true, Repeating: todo.RepeatDaily})
	assert.Equal(t, []Action{ActionActivate, ActionEdit, ActionDelete}, actions(done))
}

func actions(cs []Control) []Action {
	out := make([]Action, len(cs))
	for i, c := range cs {
		out[i] = c.Action
	}
	return out
}

func TestBootstrap(t *testing.T) {
	a, srv := newTestApp(t, Options{})
	srv.Provision(todo.Item{ID: 1, Title: "a"})

	a.Bootstrap(context.Background())

	st := a.Store.Snapshot()
	assert.Equal(t, "tester", st.User)
	assert.Equal(t, "1.0.0", st.Version)
	assert.Len(t, st.Items, 1)
	assert.Empty(t, a.Alerts.List())
}

func TestBootstrapFailures(t *testing.T) {
	a, srv := newTestApp(t, Options{})
	srv.Provision()
	srv.Fail("user", http.StatusInternalServerError)
	srv.Fail("version", http.StatusBadGateway)

	a.Bootstrap(context.Background())

	assert.Equal(t, "Failed to get user!", alertMessage(t, a, "alertdu"))
	assert.Equal(t, "Failed to get version!", alertMessage(t, a, "alertdv"))
	st := a.Store.Snapshot()
	assert.Equal(t, "user", st.User)
	assert.Equal(t, "n/a", st.Version)
}

func TestCheckDue(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	a, srv := newTestApp(t, Options{Now: func() time.Time { return now }})
	srv.Provision(
		todo.Item{ID: 1, Title: "Today", Scheduled: true, DueDate: "2024-05-10", Repeating: todo.RepeatNo},
		todo.Item{ID: 2, Title: "Weekly", Scheduled: true, DueDate: "2024-05-01", Repeating: todo.RepeatWeekly},
		todo.Item{ID: 3, Title: "Tomorrow", Scheduled: true, DueDate: "2024-05-11", Repeating: todo.RepeatNo},
		todo.Item{ID: 4, Title: "Missed", Scheduled: true, DueDate: "2024-05-01", Repeating: todo.RepeatNo},
		todo.Item{ID: 5, Title: "Finished", Done: true, Scheduled: true, DueDate: "2024-05-10", Repeating: todo.RepeatNo},
	)
	a.Refresh(context.Background())

	a.CheckDue()

	assert.Len(t, a.Alerts.List(), 3)
	assert.Equal(t, "Today is due today!", alertMessage(t, a, "alerti1"))
	assert.Equal(t, "Weekly is overdue!", alertMessage(t, a, "alertw2"))
	assert.Equal(t, "Tomorrow is due tomorrow!", alertMessage(t, a, "alerti3"))

	al, _ := a.Alerts.Get("alertw2")
	assert.Equal(t, alert.Warning, al.Kind)
	assert.True(t, al.Actionable)
}

func TestCompleteFromAlert(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	a, srv := newTestApp(t, Options{Now: func() time.Time { return now }})
	srv.Provision(todo.Item{ID: 1, Title: "Today", Scheduled: true, DueDate: "2024-05-10", Repeating: todo.RepeatNo})
	ctx := context.Background()
	a.Refresh(ctx)
	a.CheckDue()

	require.NoError(t, a.CompleteFromAlert(ctx, "alerti1"))

	_, shown := a.Alerts.Get("alerti1")
	assert.False(t, shown)
	assert.Equal(t, "Today completed!", alertMessage(t, a, "alerts1"))
	assert.True(t, srv.Items()[0].Done)

	require.NoError(t, a.CompleteFromAlert(ctx, "alertsn"))
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/api/v1/items/1/done"))
}

func TestStartRunsDueCheck(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	a, srv := newTestApp(t, Options{
		NotifyDelay: 10 * time.Millisecond,
		Now:         func() time.Time { return now },
	})
	srv.Provision(todo.Item{ID: 1, Title: "Today", Scheduled: true, DueDate: "2024-05-10", Repeating: todo.RepeatNo})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.Start(ctx)

	assert.Eventually(t, func() bool {
		_, ok := a.Alerts.Get("alerti1")
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestLogout(t *testing.T) {
	called := false
	a, srv := newTestApp(t, Options{OnLogout: func() { called = true }})

	a.Logout(context.Background())

	assert.True(t, srv.LoggedOut())
	assert.True(t, called)
	assert.Equal(t, "", a.Store.Snapshot().User)
}

func TestLogoutFailure(t *testing.T) {
	called := false
	a, srv := newTestApp(t, Options{OnLogout: func() { called = true }})
	srv.Fail("logout", http.StatusInternalServerError)

	a.Logout(context.Background())

	assert.False(t, called)
	assert.Equal(t, "user", a.Store.Snapshot().User)
	assert.Empty(t, a.Alerts.List())
}

func TestActionOnUncachedItemHasNoBanner(t *testing.T) {
	a, srv := newTestApp(t, Options{})
	srv.Provision(todo.Item{ID: 1, Title: "Milk"})
	ctx := context.Background()

	require.NoError(t, a.Complete(ctx, 1))
	assert.Error(t, a.Delete(ctx, 42))

	assert.Empty(t, a.Alerts.List())
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/api/v1/items/1/done"))
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/api/v1/items/42/delete"))
	assert.Equal(t, 2, srv.Count(http.MethodGet, "/api/v1/items"))
}

func TestReloadStartsFreshSession(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	a, srv := newTestApp(t, Options{
		NotifyDelay: 10 * time.Millisecond,
		Now:         func() time.Time { return now },
	})
	srv.Provision(todo.Item{ID: 1, Title: "Today", Scheduled: true, DueDate: "2024-05-10", Repeating: todo.RepeatNo})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.Alerts.Danger(9, "Failed to delete Old", 0)
	a.Store.OpenNew()
	a.Store.ToggleAbout()

	a.Reload(ctx)

	_, stale := a.Alerts.Get("alertd9")
	assert.False(t, stale)
	st := a.Store.Snapshot()
	assert.False(t, st.New.Visible)
	assert.False(t, st.ShowAbout)
	assert.Equal(t, "tester", st.User)
	assert.Len(t, st.Items, 1)
	assert.Eventually(t, func() bool {
		_, ok := a.Alerts.Get("alerti1")
		return ok
	}, time.Second, 5*time.Millisecond)
}
