package dietplans

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/coachkit/coachkit/api"
	"github.com/coachkit/coachkit/broadcast"
	"github.com/coachkit/coachkit/cache"
	"github.com/coachkit/coachkit/internal/apitest"
)

func newLibrary(t *testing.T) (*Library, *apitest.Server) {
	t.Helper()
	fake := apitest.New()
	srv := httptest.NewServer(fake.Handler)
	t.Cleanup(srv.Close)

	l := New(api.New(api.WithBaseURL(srv.URL)), Options{
		Cache:  cache.NewMemory(),
		Buses:  broadcast.NewRegistry(),
		Logger: zerolog.Nop(),
	})
	t.Cleanup(l.Close)
	return l, fake
}

func seedThreePlans(fake *apitest.Server) {
	fake.SeedDietPlans(
		api.DietPlan{ID: "p1", ClientID: "c1", Title: "Cut", IsActive: true},
		api.DietPlan{ID: "p2", ClientID: "c1", Title: "Bulk"},
		api.DietPlan{ID: "p3", ClientID: "c2", Title: "Maintain", IsActive: true},
	)
}

func TestLibraryActivateEnforcesSingleActive(t *testing.T) {
	l, fake := newLibrary(t)
	seedThreePlans(fake)
	_, err := l.Fetch(context.Background(), false)
	require.NoError(t, err)

	activated, ok, err := l.Activate(context.Background(), "p2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "p2", activated.ID)
	require.True(t, activated.IsActive)
	require.False(t, activated.Pending)

	active, found := l.ActiveFor("c1")
	require.True(t, found)
	require.Equal(t, "p2", active.ID)

	p1, _ := l.Get("p1")
	require.False(t, p1.IsActive, "previous active plan must be deactivated")

	p3, _ := l.Get("p3")
	require.True(t, p3.IsActive, "other clients' plans are untouched")
}

func TestLibraryActivateRollbackRestoresPreviousActive(t *testing.T) {
	l, fake := newLibrary(t)
	seedThreePlans(fake)
	_, err := l.Fetch(context.Background(), false)
	require.NoError(t, err)

	fake.FailNext("POST /api/diet-plans/client/{clientID}/activate", "plan archived")
	_, ok, err := l.Activate(context.Background(), "p2")
	require.Error(t, err)
	require.True(t, ok)

	p1, _ := l.Get("p1")
	require.True(t, p1.IsActive, "rollback must restore the previously active plan")
	p2, _ := l.Get("p2")
	require.False(t, p2.IsActive)
	require.False(t, p2.Pending)
}

func TestLibraryActivateUnknownPlanIsNoOp(t *testing.T) {
	l, fake := newLibrary(t)
	_, err := l.Fetch(context.Background(), false)
	require.NoError(t, err)

	_, ok, err := l.Activate(context.Background(), "ghost")
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, fake.Calls("POST /api/diet-plans/client/{clientID}/activate"))
}

func TestLibraryDeactivate(t *testing.T) {
	l, fake := newLibrary(t)
	seedThreePlans(fake)
	_, err := l.Fetch(context.Background(), false)
	require.NoError(t, err)

	deactivated, ok, err := l.Deactivate(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, deactivated.IsActive)

	_, found := l.ActiveFor("c1")
	require.False(t, found)
}

func TestLibraryCreateAndRemove(t *testing.T) {
	l, fake := newLibrary(t)
	fake.SetNextIDs("p9")
	_, err := l.Fetch(context.Background(), false)
	require.NoError(t, err)

	created, err := l.Create(context.Background(), api.DietPlan{ClientID: "c1", Title: "Keto", MealsPerDay: 4})
	require.NoError(t, err)
	require.Equal(t, "p9", created.ID)
	require.Len(t, l.ForClient("c1"), 1)

	ok, err := l.Remove(context.Background(), "p9")
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, l.Count())
}
