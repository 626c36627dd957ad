// Package health serves Kubernetes-style liveness and readiness probes.
//
// Probes run on a shared background ticker. A probe flips to unhealthy only
// after three consecutive failures, and recovers on the first success, so a
// single slow database ping does not bounce the pod.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Check reports the health of one component. A nil return means healthy.
type Check func(ctx context.Context) error

const failureThreshold = 3

// probe is one registered check plus its rolling state. All state is guarded
// by mu; the scheduler writes it and the HTTP handlers read it.
type probe struct {
	name    string
	timeout time.Duration
	fn      Check

	mu      sync.Mutex
	healthy bool
	fails   int
	lastErr error
}

func (p *probe) execute(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.fn(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = err
	if err != nil {
		p.fails++
		if p.fails >= failureThreshold {
			p.healthy = false
		}
		return
	}
	p.fails = 0
	p.healthy = true
}

// status returns the probe's current health and, when unhealthy, the message
// to report.
func (p *probe) status() (bool, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.healthy {
		return true, ""
	}
	if p.lastErr != nil {
		return false, p.lastErr.Error()
	}
	return false, "check is unhealthy"
}

// Service runs liveness and readiness probes and serves their state over HTTP.
type Service struct {
	mu        sync.Mutex
	liveness  []*probe
	readiness []*probe
	ready     bool
	cancel    context.CancelFunc
}

// New creates a Service. It starts not ready; call SetReady(true) once
// initialization is done.
func New() *Service {
	return &Service{}
}

func (s *Service) add(dst *[]*probe, name string, timeout time.Duration, fn Check) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*dst = append(*dst, &probe{
		name:    name,
		timeout: timeout,
		fn:      fn,
		healthy: true, // assume healthy until proven otherwise
	})
}

// AddLiveness registers a liveness probe: is the process itself functional.
func (s *Service) AddLiveness(name string, timeout time.Duration, fn Check) {
	s.add(&s.liveness, name, timeout, fn)
}

// AddReadiness registers a readiness probe: can the service take traffic.
func (s *Service) AddReadiness(name string, timeout time.Duration, fn Check) {
	s.add(&s.readiness, name, timeout, fn)
}

// Start runs every registered probe once, then again on each tick of interval,
// until the context is canceled or Stop is called. Register all probes before
// calling Start.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	probes := make([]*probe, 0, len(s.liveness)+len(s.readiness))
	probes = append(probes, s.liveness...)
	probes = append(probes, s.readiness...)
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for _, p := range probes {
			p.execute(ctx)
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, p := range probes {
					p.execute(ctx)
				}
			}
		}
	}()
}

// Stop halts the probe scheduler. Safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// SetReady flips the manual readiness gate. Set false during graceful shutdown
// so load balancers stop sending new traffic before the listener closes.
func (s *Service) SetReady(ready bool) {
	s.mu.Lock()
	s.ready = ready
	s.mu.Unlock()
}

// IsReady reports whether the manual gate is open and every readiness probe is
// passing.
func (s *Service) IsReady() bool {
	s.mu.Lock()
	ready := s.ready
	probes := s.readiness
	s.mu.Unlock()

	if !ready {
		return false
	}
	for _, p := range probes {
		if ok, _ := p.status(); !ok {
			return false
		}
	}
	return true
}

type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Live handles the /livez endpoint: 200 {"status":"ok"} while all liveness
// probes pass, 503 with per-check failures otherwise.
func (s *Service) Live(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	probes := make([]*probe, len(s.liveness))
	copy(probes, s.liveness)
	s.mu.Unlock()

	writeStatus(w, failures(probes))
}

// Ready handles the /readyz endpoint. It fails while the manual gate is closed
// even if every probe passes.
func (s *Service) Ready(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	ready := s.ready
	probes := make([]*probe, len(s.readiness))
	copy(probes, s.readiness)
	s.mu.Unlock()

	failed := failures(probes)
	if !ready {
		failed["_readiness"] = "service is not ready"
	}
	writeStatus(w, failed)
}

func failures(probes []*probe) map[string]string {
	failed := make(map[string]string)
	for _, p := range probes {
		if ok, msg := p.status(); !ok {
			failed[p.name] = msg
		}
	}
	return failed
}

func writeStatus(w http.ResponseWriter, failed map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	resp := statusResponse{Status: "ok"}
	code := http.StatusOK
	if len(failed) > 0 {
		resp = statusResponse{Status: "unhealthy", Checks: failed}
		code = http.StatusServiceUnavailable
	}

	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
