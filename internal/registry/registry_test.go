package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parkpilot/location-core/internal/model"
)

type fakeGeofenceStore struct {
	fences []model.Geofence
	err    error
	calls  int
}

func (f *fakeGeofenceStore) FetchActive(_ context.Context, _ string) ([]model.Geofence, error) {
	f.calls++
	return f.fences, f.err
}

func TestLoad_FiltersInactive(t *testing.T) {
	fs := &fakeGeofenceStore{
		fences: []model.Geofence{
			{ID: "gf-1", Name: "Castle Hub", IsActive: true},
			{ID: "gf-2", Name: "Retired Fence", IsActive: false},
			{ID: "gf-3", Name: "Splash Zone", IsActive: true},
		},
	}
	r := New(fs)

	r.Load(context.Background(), "vac-1")

	active := r.All()
	assert.Len(t, active, 2)
	assert.Equal(t, "gf-1", active[0].ID)
	assert.Equal(t, "gf-3", active[1].ID)
	assert.Equal(t, "vac-1", r.VacationID())
}

func TestLoad_ClearsOnError(t *testing.T) {
	fs := &fakeGeofenceStore{
		fences: []model.Geofence{{ID: "gf-1", IsActive: true}},
	}
	r := New(fs)

	r.Load(context.Background(), "vac-1")
	assert.Len(t, r.All(), 1)

	// second load fails: fail safe to no active geofencing, not stale data
	fs.err = errors.New("store unreachable")
	r.Load(context.Background(), "vac-1")
	assert.Empty(t, r.All())
}

func TestLoad_ReplacesWholesale(t *testing.T) {
	fs := &fakeGeofenceStore{
		fences: []model.Geofence{{ID: "gf-1", IsActive: true}},
	}
	r := New(fs)
	r.Load(context.Background(), "vac-1")

	fs.fences = []model.Geofence{
		{ID: "gf-9", IsActive: true},
	}
	r.Load(context.Background(), "vac-2")

	active := r.All()
	assert.Len(t, active, 1)
	assert.Equal(t, "gf-9", active[0].ID)
	assert.Equal(t, "vac-2", r.VacationID())
	assert.Equal(t, 2, fs.calls)
}

func TestAll_ReturnsCopy(t *testing.T) {
	fs := &fakeGeofenceStore{
		fences: []model.Geofence{{ID: "gf-1", Name: "Castle Hub", IsActive: true}},
	}
	r := New(fs)
	r.Load(context.Background(), "vac-1")

	snapshot := r.All()
	snapshot[0].Name = "mutated"

	assert.Equal(t, "Castle Hub", r.All()[0].Name)
}
