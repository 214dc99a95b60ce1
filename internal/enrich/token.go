package enrich

import "sync"

// controlToken carries cooperative pause/cancel signals to the driver loop.
// The driver inspects it only at item boundaries; an in-flight step is never
// interrupted.
type controlToken struct {
	mu        sync.Mutex
	paused    bool
	cancelled bool
	changed   chan struct{}
}

func newControlToken() *controlToken {
	return &controlToken{changed: make(chan struct{})}
}

func (t *controlToken) RequestPause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled || t.paused {
		return
	}
	t.paused = true
	t.notifyLocked()
}

func (t *controlToken) RequestResume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled || !t.paused {
		return
	}
	t.paused = false
	t.notifyLocked()
}

func (t *controlToken) RequestCancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled {
		return
	}
	t.cancelled = true
	t.paused = false
	t.notifyLocked()
}

// State returns the pause/cancel flags plus a channel closed on the next
// state change. Flags and channel come from the same critical section, so a
// change landing after the read always fires the returned channel; reading
// them separately could miss a resume and park the driver forever.
func (t *controlToken) State() (paused, cancelled bool, changed <-chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused, t.cancelled, t.changed
}

func (t *controlToken) notifyLocked() {
	close(t.changed)
	t.changed = make(chan struct{})
}
