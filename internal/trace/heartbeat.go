package trace

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"
)

// Heartbeat periodically emits liveness events naming the file and pass
// that has been running longest. The same file and pass showing up beat
// after beat points at a fixer that does not terminate.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	started  bool
	mu       sync.Mutex
	active   map[string]passMark
	now      func() time.Time
}

type passMark struct {
	pass  int
	since time.Time
}

// StartHeartbeat returns nil when tracing is off or interval is not positive.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}

	h := newHeartbeat(tracer, interval)
	h.mu.Lock()
	h.started = true
	h.mu.Unlock()

	h.wg.Add(1)
	go h.run()

	return h
}

func newHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	return &Heartbeat{
		tracer:   tracer,
		interval: interval,
		stopCh:   make(chan struct{}),
		active:   make(map[string]passMark),
		now:      time.Now,
	}
}

// Enter records that file has started rewrite pass n. Safe on nil.
func (h *Heartbeat) Enter(file string, pass int) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.active[file] = passMark{pass: pass, since: h.now()}
	h.mu.Unlock()
}

// Leave records that file is no longer being rewritten. Safe on nil.
func (h *Heartbeat) Leave(file string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	delete(h.active, file)
	h.mu.Unlock()
}

func (h *Heartbeat) run() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	seq := uint64(0)
	for {
		select {
		case <-ticker.C:
			seq++
			h.tracer.Emit(h.beat(seq))
		case <-h.stopCh:
			return
		}
	}
}

// beat builds the event for one tick. Ties on the start time go to the
// lexically first file so output is stable.
func (h *Heartbeat) beat(seq uint64) *Event {
	h.mu.Lock()
	files := make([]string, 0, len(h.active))
	for f := range h.active {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool {
		a, b := h.active[files[i]], h.active[files[j]]
		if !a.since.Equal(b.since) {
			return a.since.Before(b.since)
		}
		return files[i] < files[j]
	})
	var oldest string
	var mark passMark
	if len(files) > 0 {
		oldest, mark = files[0], h.active[files[0]]
	}
	now := h.now()
	h.mu.Unlock()

	ev := &Event{
		Time:  now,
		Kind:  KindHeartbeat,
		Scope: ScopeDriver,
		GID:   getGoroutineID(),
		Name:  "heartbeat",
		Extra: map[string]string{"active": strconv.Itoa(len(files))},
	}
	if oldest == "" {
		ev.Detail = fmt.Sprintf("#%d idle", seq)
		return ev
	}
	running := now.Sub(mark.since).Round(time.Millisecond)
	ev.Detail = fmt.Sprintf("#%d pass %d of %s for %s", seq, mark.pass, oldest, running)
	ev.Extra["file"] = oldest
	ev.Extra["pass"] = strconv.Itoa(mark.pass)
	return ev
}

// Stop ends the loop and waits for it. Safe on nil and when called twice.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}

	h.mu.Lock()
	if !h.started {
		h.mu.Unlock()
		return
	}
	h.started = false
	h.mu.Unlock()

	close(h.stopCh)
	h.wg.Wait()
}
