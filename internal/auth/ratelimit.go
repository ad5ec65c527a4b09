package auth

import (
	"sync"
	"time"
)

// ipAttemptFactor scales MaxAttempts into the per-address budget that
// applies across all usernames tried from one IP.
const ipAttemptFactor = 4

// LoginThrottle counts failed logins in two scopes: the IP+username pair
// and the IP alone. Exceeding either budget inside the window locks the
// scope out for LockoutDuration.
type LoginThrottle struct {
	mu      sync.Mutex
	pairs   map[throttleKey]*failureWindow
	ips     map[string]*failureWindow
	cfg     ThrottleConfig
	now     func() time.Time
	stop    chan struct{}
	stopped sync.Once
}

type throttleKey struct {
	ip       string
	username string
}

type failureWindow struct {
	failures    int
	opened      time.Time
	lockedUntil time.Time
}

// ThrottleConfig tunes a LoginThrottle. Zero fields take the defaults.
type ThrottleConfig struct {
	MaxAttempts     int           // default 5
	Window          time.Duration // default 15m
	LockoutDuration time.Duration // default 30m
	SweepInterval   time.Duration // default 5m
}

func (c ThrottleConfig) withDefaults() ThrottleConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.Window <= 0 {
		c.Window = 15 * time.Minute
	}
	if c.LockoutDuration <= 0 {
		c.LockoutDuration = 30 * time.Minute
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = 5 * time.Minute
	}
	return c
}

// NewLoginThrottle starts a throttle and its background sweeper.
func NewLoginThrottle(cfg ThrottleConfig) *LoginThrottle {
	t := &LoginThrottle{
		pairs: make(map[throttleKey]*failureWindow),
		ips:   make(map[string]*failureWindow),
		cfg:   cfg.withDefaults(),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go t.sweepLoop()
	return t
}

// Stop ends the sweeper. It is safe to call more than once.
func (t *LoginThrottle) Stop() {
	t.stopped.Do(func() { close(t.stop) })
}

// Allow reports whether a login from ip for username may proceed, and if
// not, how long until it may.
func (t *LoginThrottle) Allow(ip, username string) (bool, time.Duration) {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	wait := max(
		blockedFor(t.pairs[throttleKey{ip, username}], now),
		blockedFor(t.ips[ip], now),
	)
	return wait == 0, wait
}

// RecordFailure counts a failed login. It returns true and the lockout
// length when this failure exhausted a budget.
func (t *LoginThrottle) RecordFailure(ip, username string) (bool, time.Duration) {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	key := throttleKey{ip, username}
	if t.pairs[key] == nil {
		t.pairs[key] = &failureWindow{opened: now}
	}
	if t.ips[ip] == nil {
		t.ips[ip] = &failureWindow{opened: now}
	}

	pairLocked := t.fail(t.pairs[key], t.cfg.MaxAttempts, now)
	ipLocked := t.fail(t.ips[ip], t.cfg.MaxAttempts*ipAttemptFactor, now)
	if pairLocked || ipLocked {
		return true, t.cfg.LockoutDuration
	}
	return false, 0
}

// RecordSuccess forgets the failures of the IP+username pair. The IP-wide
// counter is kept so one valid account cannot reset a guessing run.
func (t *LoginThrottle) RecordSuccess(ip, username string) {
	t.mu.Lock()
	delete(t.pairs, throttleKey{ip, username})
	t.mu.Unlock()
}

// blockedFor is the time left on a lockout. Only lockedUntil counts: once
// it passes the scope is open again, even inside the same window.
func blockedFor(w *failureWindow, now time.Time) time.Duration {
	if w == nil || !now.Before(w.lockedUntil) {
		return 0
	}
	return w.lockedUntil.Sub(now)
}

// fail counts one failure. An expired window or a served lockout starts a
// fresh budget.
func (t *LoginThrottle) fail(w *failureWindow, budget int, now time.Time) bool {
	served := !w.lockedUntil.IsZero() && !now.Before(w.lockedUntil)
	if served || now.Sub(w.opened) > t.cfg.Window {
		*w = failureWindow{opened: now}
	}
	w.failures++
	if w.failures >= budget {
		w.lockedUntil = now.Add(t.cfg.LockoutDuration)
		return true
	}
	return false
}

func (t *LoginThrottle) sweepLoop() {
	ticker := time.NewTicker(t.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.sweep()
		case <-t.stop:
			return
		}
	}
}

// sweep drops windows that are neither open nor locked.
func (t *LoginThrottle) sweep() {
	now := t.now()
	stale := func(w *failureWindow) bool {
		return now.Sub(w.opened) > t.cfg.Window && !now.Before(w.lockedUntil)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for k, w := range t.pairs {
		if stale(w) {
			delete(t.pairs, k)
		}
	}
	for ip, w := range t.ips {
		if stale(w) {
			delete(t.ips, ip)
		}
	}
}
