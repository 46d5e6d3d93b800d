package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrent_FetchesSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"condition":"rainy","temperatureC":19.5,"crowdLevel":"high"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	snap := c.Current(context.Background())

	assert.Equal(t, ConditionRainy, snap.Condition)
	assert.Equal(t, 19.5, snap.TemperatureC)
	assert.Equal(t, CrowdHigh, snap.CrowdLevel)
	assert.True(t, snap.IsRainy())
	assert.False(t, snap.IsHot())
}

func TestCurrent_FallsBackToDefault(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 100*time.Millisecond)
	snap := c.Current(context.Background())

	assert.Equal(t, defaultSnapshot.Condition, snap.Condition)
	assert.Equal(t, defaultSnapshot.TemperatureC, snap.TemperatureC)
	assert.Equal(t, defaultSnapshot.CrowdLevel, snap.CrowdLevel)
}

func TestCurrent_FallsBackToLastGood(t *testing.T) {
	failing := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if failing {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"condition":"cloudy","temperatureC":28,"crowdLevel":"low"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	first := c.Current(context.Background())
	assert.Equal(t, ConditionCloudy, first.Condition)

	failing = true
	second := c.Current(context.Background())
	assert.Equal(t, ConditionCloudy, second.Condition)
	assert.Equal(t, 28.0, second.TemperatureC)
}

func TestCurrent_MalformedPayloadFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	snap := c.Current(context.Background())
	assert.Equal(t, defaultSnapshot.Condition, snap.Condition)
}

func TestSnapshot_IsHot(t *testing.T) {
	assert.False(t, Snapshot{TemperatureC: 32}.IsHot())
	assert.True(t, Snapshot{TemperatureC: 32.5}.IsHot())
}
