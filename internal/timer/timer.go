// internal/timer/timer.go
//
// Per-player countdown driving turn timeouts.
// Responsibilities:
//   - Hold remaining seconds per player; only one player's clock runs at a time.
//   - Tick once per interval (1s in production) on a background goroutine.
//   - Fan every update/expiry out to all registered listeners.
//
// Concurrency notes:
//   - All state is guarded by one mutex.
//   - Listeners are always notified outside the lock, from a snapshot copy,
//     so a listener may call Stop/Start/Reset without deadlocking.
//   - Expiry fires at most once per Start; ticking an unset or already
//     expired player is a silent no-op.

package timer

import (
	"sync"
	"time"

	"github.com/robalobadob/wordduel/internal/game"
)

// Listener receives countdown updates for the currently active player.
type Listener interface {
	// OnTimeUpdated is called with the new remaining seconds after each tick
	// and after SetTimeForPlayer seeds a value.
	OnTimeUpdated(p game.Player, remainingSeconds int)

	// OnTimeExpired is called exactly once when the active player's clock
	// reaches zero.
	OnTimeExpired(p game.Player)
}

// Timer is a concurrency-safe per-player countdown.
type Timer struct {
	mu        sync.Mutex
	interval  time.Duration
	remaining map[game.Player]int
	listeners []Listener
	active    *game.Player
	cancel    chan struct{} // closed to stop the running tick goroutine
	gen       uint64        // invalidates stale tick goroutines
}

// New constructs a timer with the production 1-second tick interval.
func New() *Timer { return NewWithInterval(time.Second) }

// NewWithInterval constructs a timer with a custom tick interval. Tests use
// short intervals to keep countdown runs fast.
func NewWithInterval(interval time.Duration) *Timer {
	return &Timer{
		interval:  interval,
		remaining: make(map[game.Player]int),
	}
}

// AddListener registers a listener for update/expiry events.
func (t *Timer) AddListener(l Listener) {
	if l == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, l)
}

// RemoveListener unregisters a previously added listener.
func (t *Timer) RemoveListener(l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, x := range t.listeners {
		if x == l {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return
		}
	}
}

// SetTimeForPlayer seeds a player's remaining seconds and immediately
// notifies listeners of the new value.
func (t *Timer) SetTimeForPlayer(p game.Player, seconds int) {
	t.mu.Lock()
	t.remaining[p] = seconds
	ls := t.snapshotLocked()
	t.mu.Unlock()

	for _, l := range ls {
		l.OnTimeUpdated(p, seconds)
	}
}

// RemainingFor reports a player's remaining seconds; unset players read as 0.
func (t *Timer) RemainingFor(p game.Player) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining[p]
}

// Start switches the running clock to p, stopping any previous countdown.
func (t *Timer) Start(p game.Player) {
	t.mu.Lock()
	t.stopLocked()
	t.active = &p
	t.gen++
	gen := t.gen
	ch := make(chan struct{})
	t.cancel = ch
	t.mu.Unlock()

	go t.run(p, gen, ch)
}

// Stop halts further ticks without clearing remaining time.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Reset stops the countdown and clears all remaining-time state.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.remaining = make(map[game.Player]int)
}

// stopLocked cancels the running goroutine and bumps the generation so any
// tick already past the channel select falls through harmlessly.
func (t *Timer) stopLocked() {
	if t.cancel != nil {
		close(t.cancel)
		t.cancel = nil
	}
	t.active = nil
	t.gen++
}

// run drives the countdown for one Start call and exits when cancelled or
// when the clock can no longer tick.
func (t *Timer) run(p game.Player, gen uint64, cancel <-chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			if !t.tick(p, gen) {
				return
			}
		}
	}
}

// tick decrements p's clock by one second. Returns false once the countdown
// is over (expired, superseded, or never seeded).
func (t *Timer) tick(p game.Player, gen uint64) bool {
	t.mu.Lock()
	if gen != t.gen || t.active == nil || *t.active != p {
		t.mu.Unlock()
		return false
	}
	rem := t.remaining[p]
	if rem <= 0 {
		// Unset or already expired: benign race with a just-finished game.
		t.mu.Unlock()
		return false
	}
	rem--
	t.remaining[p] = rem
	ls := t.snapshotLocked()
	if rem == 0 {
		t.stopLocked()
		t.mu.Unlock()
		for _, l := range ls {
			l.OnTimeExpired(p)
		}
		return false
	}
	t.mu.Unlock()

	for _, l := range ls {
		l.OnTimeUpdated(p, rem)
	}
	return true
}

func (t *Timer) snapshotLocked() []Listener {
	ls := make([]Listener, len(t.listeners))
	copy(ls, t.listeners)
	return ls
}
