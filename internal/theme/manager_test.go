package theme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"caseflow-cli/internal/model"
)

type fakeCache struct {
	mu     sync.Mutex
	data   map[string]string
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (c *fakeCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *fakeCache) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	return nil
}

type fakeRemote struct {
	mu       sync.Mutex
	payload  *model.ThemeSettings
	fetchErr error
	saveErr  error
	saves    []model.ThemeSettings

	// blockSave, when non-nil, holds each SaveThemeSettings call until the
	// channel is closed. saveEntered, when non-nil, receives one value as
	// each save call starts (buffer it).
	blockSave   chan struct{}
	saveEntered chan struct{}
}

func (r *fakeRemote) FetchThemeSettings(ctx context.Context, userID string) (*model.ThemeSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	return r.payload, nil
}

func (r *fakeRemote) SaveThemeSettings(ctx context.Context, userID string, payload model.ThemeSettings) error {
	if r.saveEntered != nil {
		r.saveEntered <- struct{}{}
	}
	if r.blockSave != nil {
		<-r.blockSave
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, payload)
	return r.saveErr
}

func (r *fakeRemote) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func (r *fakeRemote) lastSave() (model.ThemeSettings, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saves) == 0 {
		return model.ThemeSettings{}, false
	}
	return r.saves[len(r.saves)-1], true
}

type fakeSession struct {
	userID string
	err    error
}

func (s fakeSession) CurrentUserID(ctx context.Context) (string, error) {
	return s.userID, s.err
}

func newTestManager(cache *fakeCache, remote *fakeRemote, session fakeSession) *Manager {
	return NewManager(Options{Cache: cache, Remote: remote, Session: session})
}

func strPtr(s string) *string { return &s }

func TestInitialize_NoSession_UsesCacheOverDefaults(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	cache.data[cacheKeyHeaderColor] = "#111111"
	cache.data[cacheKeyCaseStatusColors] = `{"completed":"#0f0"}`

	m := newTestManager(cache, &fakeRemote{}, fakeSession{})
	m.Initialize(context.Background())

	if m.State() != StateReady {
		t.Fatalf("state = %v, want StateReady", m.State())
	}
	if got := m.HeaderColor(); got != "#111111" {
		t.Fatalf("HeaderColor = %q, want cached value", got)
	}
	// Uncached fields keep their defaults.
	if got := m.MainColor(); got != DefaultMainColor {
		t.Fatalf("MainColor = %q, want default %q", got, DefaultMainColor)
	}
	cs := m.CaseStatusColors()
	if cs[model.StatusCompleted] != "#0f0" {
		t.Fatalf("cached completed color not adopted: %#v", cs)
	}
	if cs[model.StatusDelayed] != defaultCaseStatusColors()[model.StatusDelayed] {
		t.Fatalf("uncached delayed color lost its default: %#v", cs)
	}
}

func TestInitialize_CorruptCachedMap_KeepsDefaults(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	cache.data[cacheKeyTaskStatusColors] = `{not json`

	m := newTestManager(cache, &fakeRemote{}, fakeSession{})
	m.Initialize(context.Background())

	if m.State() != StateReady {
		t.Fatalf("corrupt cache entry must not block readiness; state = %v", m.State())
	}
	if !reflect.DeepEqual(m.TaskStatusColors(), defaultTaskStatusColors()) {
		t.Fatalf("task colors = %#v, want defaults", m.TaskStatusColors())
	}
}

func TestInitialize_PartialRemotePayload(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{payload: &model.ThemeSettings{HeaderColor: strPtr("#222222")}}
	m := newTestManager(newFakeCache(), remote, fakeSession{userID: "user-1"})
	m.Initialize(context.Background())

	if got := m.HeaderColor(); got != "#222222" {
		t.Fatalf("HeaderColor = %q, want remote value", got)
	}
	if got := m.AvatarColor(); got != DefaultAvatarColor {
		t.Fatalf("AvatarColor = %q, want default (absent in payload)", got)
	}
	if got := m.ButtonColor(); got != DefaultButtonColor {
		t.Fatalf("ButtonColor = %q, want default (absent in payload)", got)
	}
	if !reflect.DeepEqual(m.CaseStatusColors(), defaultCaseStatusColors()) {
		t.Fatalf("case colors = %#v, want defaults", m.CaseStatusColors())
	}
}

func TestInitialize_RemoteErrorFallsBackToCache(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	cache.data[cacheKeyButtonColor] = "#333333"
	remote := &fakeRemote{fetchErr: errors.New("boom")}

	m := newTestManager(cache, remote, fakeSession{userID: "user-1"})
	m.Initialize(context.Background())

	if m.State() != StateReady {
		t.Fatalf("state = %v, want StateReady", m.State())
	}
	if got := m.ButtonColor(); got != "#333333" {
		t.Fatalf("ButtonColor = %q, want cached fallback", got)
	}
}

func TestInitialize_NoProfileRowFallsBackToCache(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	cache.data[cacheKeyAvatarColor] = "#444444"
	remote := &fakeRemote{fetchErr: fmt.Errorf("fetch: %w", ErrNoProfile)}

	m := newTestManager(cache, remote, fakeSession{userID: "user-1"})
	m.Initialize(context.Background())

	if got := m.AvatarColor(); got != "#444444" {
		t.Fatalf("AvatarColor = %q, want cached fallback", got)
	}
}

func TestInitialize_SecondCallIsNoop(t *testing.T) {
	t.Parallel()

	m := newTestManager(newFakeCache(), &fakeRemote{}, fakeSession{})
	m.Initialize(context.Background())
	m.SetMainColor("#abcdef")
	m.Initialize(context.Background())

	if got := m.MainColor(); got != "#abcdef" {
		t.Fatalf("repeat Initialize clobbered state: MainColor = %q", got)
	}
}

func TestSetHeaderColor_DerivesTextColor(t *testing.T) {
	t.Parallel()

	m := newTestManager(newFakeCache(), &fakeRemote{}, fakeSession{})
	m.Initialize(context.Background())

	m.SetHeaderColor("#000000")
	if got := m.TextColor(); got != TextLight {
		t.Fatalf("black header: TextColor = %q, want %q", got, TextLight)
	}
	m.SetHeaderColor("#FFFFFF")
	if got := m.TextColor(); got != TextDark {
		t.Fatalf("white header: TextColor = %q, want %q", got, TextDark)
	}
}

func TestSetHeaderColor_BothFieldsInOneRemoteWrite(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{}
	m := newTestManager(newFakeCache(), remote, fakeSession{userID: "user-1"})
	m.Initialize(context.Background())

	m.SetHeaderColor("#000000")
	m.Close()

	last, ok := remote.lastSave()
	if !ok {
		t.Fatal("expected a remote write")
	}
	if last.HeaderColor == nil || *last.HeaderColor != "#000000" {
		t.Fatalf("payload header = %v, want #000000", last.HeaderColor)
	}
	if last.TextColor == nil || *last.TextColor != TextLight {
		t.Fatalf("payload text = %v, want derived %q", last.TextColor, TextLight)
	}
}

func TestTextColorOverride_LastWriteWins(t *testing.T) {
	t.Parallel()

	m := newTestManager(newFakeCache(), &fakeRemote{}, fakeSession{})
	m.Initialize(context.Background())

	m.SetHeaderColor("#FFFFFF")
	m.SetTextColor("text-pink-500")
	if got := m.TextColor(); got != "text-pink-500" {
		t.Fatalf("override lost: TextColor = %q", got)
	}
	// Header is untouched by the override.
	if got := m.HeaderColor(); got != "#FFFFFF" {
		t.Fatalf("HeaderColor = %q", got)
	}
}

func TestSetterBeforeInitialize_NoRemoteWrite(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{}
	m := newTestManager(newFakeCache(), remote, fakeSession{userID: "user-1"})

	m.SetMainColor("#555555")
	m.SetHeaderColor("#000000")
	m.Close()

	if n := remote.saveCount(); n != 0 {
		t.Fatalf("remote writes before Initialize: %d, want 0", n)
	}
	// In-memory and cache updates still happen.
	if got := m.MainColor(); got != "#555555" {
		t.Fatalf("MainColor = %q", got)
	}
}

func TestStatusSetter_TouchesOnlyItsKey(t *testing.T) {
	t.Parallel()

	m := newTestManager(newFakeCache(), &fakeRemote{}, fakeSession{})
	m.Initialize(context.Background())

	before := m.CaseStatusColors()
	taskBefore := m.TaskStatusColors()

	m.SetCaseStatusColor(model.StatusDelayed, "#f97316")

	after := m.CaseStatusColors()
	if after[model.StatusDelayed] != "#f97316" {
		t.Fatalf("delayed = %q", after[model.StatusDelayed])
	}
	for _, k := range []model.StatusKey{model.StatusCompleted, model.StatusInProgress, model.StatusAnalysis} {
		if after[k] != before[k] {
			t.Fatalf("key %q changed: %q -> %q", k, before[k], after[k])
		}
	}
	if !reflect.DeepEqual(m.TaskStatusColors(), taskBefore) {
		t.Fatalf("task map changed by case setter: %#v", m.TaskStatusColors())
	}
}

func TestStatusSetter_RejectsUnknownKey(t *testing.T) {
	t.Parallel()

	m := newTestManager(newFakeCache(), &fakeRemote{}, fakeSession{})
	m.Initialize(context.Background())

	m.SetCaseStatusColor("bogus", "#123456")

	cs := m.CaseStatusColors()
	if len(cs) != 4 {
		t.Fatalf("map polluted by unknown key: %#v", cs)
	}
	if _, ok := cs["bogus"]; ok {
		t.Fatalf("unknown key adopted: %#v", cs)
	}
}

func TestCurrentStatusView_NeverWrittenRemotely(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	remote := &fakeRemote{}
	m := newTestManager(cache, remote, fakeSession{userID: "user-1"})
	m.Initialize(context.Background())

	m.SetCurrentStatusView(model.StatusViewTasks)
	m.Close()

	if n := remote.saveCount(); n != 0 {
		t.Fatalf("status view setter triggered %d remote writes, want 0", n)
	}
	if v, ok := cache.Get(cacheKeyCurrentStatusView); !ok || v != string(model.StatusViewTasks) {
		t.Fatalf("status view not cached: %q %v", v, ok)
	}

	// Restored on the next load.
	m2 := newTestManager(cache, remote, fakeSession{userID: "user-1"})
	m2.Initialize(context.Background())
	if got := m2.CurrentStatusView(); got != model.StatusViewTasks {
		t.Fatalf("status view not restored: %q", got)
	}
}

func TestRoundTrip_LocalCacheReproducesSettings(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	m := newTestManager(cache, &fakeRemote{}, fakeSession{})
	m.Initialize(context.Background())

	m.SetHeaderColor("#0a0a0a")
	m.SetAvatarColor("#bada55")
	m.SetMainColor("#fafafa")
	m.SetButtonColor("#112233")
	m.SetTextColor("text-custom")
	m.SetCaseStatusColor(model.StatusAnalysis, "#c084fc")
	m.SetTaskStatusColor(model.StatusCompleted, "#16a34a")
	m.SetCaseStatusTextColor(model.StatusDelayed, TextDark)
	m.SetCurrentStatusView(model.StatusViewTasks)
	want := m.Snapshot()

	m2 := newTestManager(cache, &fakeRemote{}, fakeSession{})
	m2.Initialize(context.Background())

	if got := m2.Snapshot(); !reflect.DeepEqual(want, got) {
		t.Fatalf("round-trip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestCacheWriteFailure_DoesNotRollBackMemory(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	cache.setErr = errors.New("disk full")
	m := newTestManager(cache, &fakeRemote{}, fakeSession{})
	m.Initialize(context.Background())

	m.SetButtonColor("#999999")
	if got := m.ButtonColor(); got != "#999999" {
		t.Fatalf("ButtonColor = %q, want in-memory update despite cache failure", got)
	}
}

func TestRemoteWriteFailure_IsSwallowed(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{saveErr: errors.New("503")}
	m := newTestManager(newFakeCache(), remote, fakeSession{userID: "user-1"})
	m.Initialize(context.Background())

	m.SetMainColor("#222222")
	m.Close()

	// State is not rolled back on remote failure.
	if got := m.MainColor(); got != "#222222" {
		t.Fatalf("MainColor = %q", got)
	}
	if n := remote.saveCount(); n != 1 {
		t.Fatalf("saveCount = %d, want exactly 1 (no retries)", n)
	}
}

func TestCachedMapRoundTripsAsJSON(t *testing.T) {
	t.Parallel()

	cache := newFakeCache()
	m := newTestManager(cache, &fakeRemote{}, fakeSession{})
	m.Initialize(context.Background())

	m.SetTaskStatusColor(model.StatusInProgress, "#7c3aed")

	raw, ok := cache.Get(cacheKeyTaskStatusColors)
	if !ok {
		t.Fatal("task map not cached")
	}
	var decoded map[model.StatusKey]string
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("cached map is not JSON: %v", err)
	}
	if decoded[model.StatusInProgress] != "#7c3aed" {
		t.Fatalf("decoded = %#v", decoded)
	}
}
