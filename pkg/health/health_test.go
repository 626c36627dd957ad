package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passing() Check {
	return func(context.Context) error { return nil }
}

func failing(msg string) Check {
	return func(context.Context) error { return errors.New(msg) }
}

func getStatus(t *testing.T, handler http.HandlerFunc) (int, statusResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body statusResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return w.Code, body
}

func TestLive_AllPassing(t *testing.T) {
	s := New()
	s.AddLiveness("check1", time.Second, passing())
	s.AddLiveness("check2", time.Second, passing())

	// Probes start healthy before the first execution.
	code, body := getStatus(t, s.Live)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
}

func TestLive_FailureThreshold(t *testing.T) {
	s := New()
	s.AddLiveness("db", time.Second, failing("connection refused"))
	p := s.liveness[0]
	ctx := context.Background()

	// Two failures stay under the threshold of three.
	p.execute(ctx)
	p.execute(ctx)
	code, _ := getStatus(t, s.Live)
	assert.Equal(t, http.StatusOK, code)

	p.execute(ctx)
	code, body := getStatus(t, s.Live)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "connection refused", body.Checks["db"])
}

func TestProbeRecovery(t *testing.T) {
	down := true
	s := New()
	s.AddLiveness("flaky", time.Second, func(context.Context) error {
		if down {
			return errors.New("down")
		}
		return nil
	})
	p := s.liveness[0]
	ctx := context.Background()

	p.execute(ctx)
	p.execute(ctx)
	p.execute(ctx)
	ok, _ := p.status()
	assert.False(t, ok)

	// One success is enough to recover.
	down = false
	p.execute(ctx)
	ok, _ = p.status()
	assert.True(t, ok)
}

func TestReady_ManualGate(t *testing.T) {
	s := New()
	s.AddReadiness("postgres", time.Second, passing())

	// Not ready until SetReady(true).
	code, body := getStatus(t, s.Ready)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body.Checks, "_readiness")
	assert.False(t, s.IsReady())

	s.SetReady(true)
	code, body = getStatus(t, s.Ready)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.True(t, s.IsReady())

	s.SetReady(false)
	code, _ = getStatus(t, s.Ready)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestReady_OneProbeFailing(t *testing.T) {
	s := New()
	s.AddReadiness("postgres", time.Second, passing())
	s.AddReadiness("broker", time.Second, failing("connection reset"))
	s.SetReady(true)

	ctx := context.Background()
	for range failureThreshold {
		s.readiness[1].execute(ctx)
	}

	code, body := getStatus(t, s.Ready)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body.Checks, "broker")
	assert.NotContains(t, body.Checks, "postgres")
	assert.False(t, s.IsReady())
}

func TestLive_NoProbes(t *testing.T) {
	code, body := getStatus(t, New().Live)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
}

func TestStopIdempotent(t *testing.T) {
	s := New()
	s.AddLiveness("noop", time.Second, passing())
	s.Start(context.Background(), 50*time.Millisecond)

	time.Sleep(25 * time.Millisecond)

	s.Stop()
	s.Stop()
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	s.AddLiveness("concurrent", time.Second, failing("err"))
	s.AddReadiness("concurrent", time.Second, passing())
	s.SetReady(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx, 10*time.Millisecond)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				s.IsReady()
				getStatus(t, s.Live)
				getStatus(t, s.Ready)
			}
		}()
	}
	wg.Wait()
	s.Stop()
}

func TestMaxGoroutines(t *testing.T) {
	assert.NoError(t, MaxGoroutines(100000)(context.Background()))

	err := MaxGoroutines(0)(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")
}

func TestMaxGCPause(t *testing.T) {
	assert.NoError(t, MaxGCPause(time.Hour)(context.Background()))
}
