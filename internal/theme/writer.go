package theme

import (
	"context"
	"sync"

	"caseflow-cli/internal/model"

	"github.com/charmbracelet/log"
)

// remoteWriter pushes settings snapshots to the remote profile in the
// background, with at most one write in flight. A snapshot enqueued while a
// write is running replaces any queued one, so the last setter call always
// determines the final remote state (no out-of-order overtaking between
// writes). Failures are logged and dropped; there are no retries, and no
// timeout is applied to a write.
type remoteWriter struct {
	remote Remote
	logger *log.Logger

	mu       sync.Mutex
	pending  *pendingWrite
	inflight bool
	wg       sync.WaitGroup
}

type pendingWrite struct {
	userID  string
	payload model.ThemeSettings
}

func newRemoteWriter(remote Remote, logger *log.Logger) *remoteWriter {
	return &remoteWriter{remote: remote, logger: logger}
}

// Enqueue records a snapshot for the background loop. The caller is never
// blocked on the remote round-trip.
func (w *remoteWriter) Enqueue(userID string, payload model.ThemeSettings) {
	w.mu.Lock()
	w.pending = &pendingWrite{userID: userID, payload: payload}
	if !w.inflight {
		w.inflight = true
		w.wg.Add(1)
		go w.run()
	}
	w.mu.Unlock()
}

func (w *remoteWriter) run() {
	defer w.wg.Done()
	for {
		w.mu.Lock()
		p := w.pending
		w.pending = nil
		if p == nil {
			w.inflight = false
			w.mu.Unlock()
			return
		}
		w.mu.Unlock()

		if err := w.remote.SaveThemeSettings(context.Background(), p.userID, p.payload); err != nil {
			w.logger.Warn("remote theme write failed", "user", p.userID, "err", err)
		}
	}
}

// Flush blocks until the queue is drained. Meant for shutdown; it does not
// prevent later Enqueue calls.
func (w *remoteWriter) Flush() {
	w.wg.Wait()
}
