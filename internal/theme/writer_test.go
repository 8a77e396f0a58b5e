package theme

import (
	"context"
	"io"
	"testing"
	"time"

	"caseflow-cli/internal/model"

	"github.com/charmbracelet/log"
)

func TestRemoteWriter_CoalescesWhileInFlight(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{
		blockSave:   make(chan struct{}),
		saveEntered: make(chan struct{}, 4),
	}
	w := newRemoteWriter(remote, log.New(io.Discard))

	first := model.ThemeSettings{HeaderColor: strPtr("#111111")}
	second := model.ThemeSettings{HeaderColor: strPtr("#222222")}
	third := model.ThemeSettings{HeaderColor: strPtr("#333333")}

	w.Enqueue("user-1", first)
	// Wait for the background goroutine to pick up the first write and park
	// inside SaveThemeSettings.
	<-remote.saveEntered
	w.Enqueue("user-1", second)
	w.Enqueue("user-1", third)

	close(remote.blockSave)
	w.Flush()

	// The second snapshot was replaced by the third before any write slot
	// opened up: one in-flight write plus one coalesced follow-up.
	if n := remote.saveCount(); n != 2 {
		t.Fatalf("saveCount = %d, want 2 (first + coalesced latest)", n)
	}
	last, _ := remote.lastSave()
	if last.HeaderColor == nil || *last.HeaderColor != "#333333" {
		t.Fatalf("final remote state = %v, want last-call snapshot", last.HeaderColor)
	}
}

func TestRemoteWriter_FlushOnIdleReturnsImmediately(t *testing.T) {
	t.Parallel()

	w := newRemoteWriter(&fakeRemote{}, log.New(io.Discard))
	done := make(chan struct{})
	go func() {
		w.Flush()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Flush blocked with an empty queue")
	}
}

func TestRemoteWriter_SequentialWritesAllLand(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{}
	w := newRemoteWriter(remote, log.New(io.Discard))

	w.Enqueue("user-1", model.ThemeSettings{MainColor: strPtr("#aaaaaa")})
	w.Flush()
	w.Enqueue("user-1", model.ThemeSettings{MainColor: strPtr("#bbbbbb")})
	w.Flush()

	if n := remote.saveCount(); n != 2 {
		t.Fatalf("saveCount = %d, want 2", n)
	}
	last, _ := remote.lastSave()
	if last.MainColor == nil || *last.MainColor != "#bbbbbb" {
		t.Fatalf("last payload = %v", last.MainColor)
	}
}

// Compile-time check that the writer only ever uses the Remote interface
// (the manager hands it the same client the initial load uses).
var _ Remote = (*fakeRemote)(nil)

func TestManagerClose_DrainsPendingWrite(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{}
	m := newTestManager(newFakeCache(), remote, fakeSession{userID: "user-1"})
	m.Initialize(context.Background())

	m.SetAvatarColor("#dddddd")
	m.Close()

	if n := remote.saveCount(); n == 0 {
		t.Fatal("Close returned before the pending write landed")
	}
}
