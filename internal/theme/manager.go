package theme

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"caseflow-cli/internal/model"

	"github.com/charmbracelet/log"
)

// ErrNoProfile is returned by Remote implementations when the user has no
// profile row yet. It is an expected condition, not a failure.
var ErrNoProfile = errors.New("profile not found")

// Cache is the local device tier: a plain string key/value store with one
// key per top-level settings field (maps are stored as JSON text). Reads
// answer absent-or-string; there is no atomicity across keys.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Remote is the hosted profile row, keyed by user id. Fetch returns
// ErrNoProfile (possibly wrapped) when no row exists.
type Remote interface {
	FetchThemeSettings(ctx context.Context, userID string) (*model.ThemeSettings, error)
	SaveThemeSettings(ctx context.Context, userID string, payload model.ThemeSettings) error
}

// Session resolves the current user. An empty id with a nil error means no
// session is established (the expected logged-out state).
type Session interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// State is the manager's load lifecycle. Remote writes are only dispatched
// once the manager is StateReady, so defaults are never written over a
// profile that simply hasn't been loaded yet.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

// Cache keys, one per top-level field.
const (
	cacheKeyHeaderColor          = "headerColor"
	cacheKeyAvatarColor          = "avatarColor"
	cacheKeyTextColor            = "textColor"
	cacheKeyMainColor            = "mainColor"
	cacheKeyButtonColor          = "buttonColor"
	cacheKeyCaseStatusColors     = "caseStatusColors"
	cacheKeyTaskStatusColors     = "taskStatusColors"
	cacheKeyCaseStatusTextColors = "caseStatusTextColors"
	cacheKeyCurrentStatusView    = "currentStatusView"
)

// Manager owns the in-memory Settings and keeps the two persistence tiers
// (local cache, remote profile) trailing behind it. Setters never fail from
// the caller's point of view: persistence problems are logged and swallowed,
// and in-memory state is never rolled back.
type Manager struct {
	mu       sync.Mutex
	settings Settings
	state    State
	userID   string

	cache   Cache
	remote  Remote
	session Session
	logger  *log.Logger
	writer  *remoteWriter
}

// Options wires a Manager's collaborators. Cache, Remote, and Session are
// required; Logger defaults to a discard logger.
type Options struct {
	Cache   Cache
	Remote  Remote
	Session Session
	Logger  *log.Logger
}

func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &Manager{
		settings: DefaultSettings(),
		cache:    opts.Cache,
		remote:   opts.Remote,
		session:  opts.Session,
		logger:   logger,
	}
	m.writer = newRemoteWriter(opts.Remote, logger)
	return m
}

// Initialize performs the one-time load: remote profile when a session
// exists, local cache otherwise, hardcoded defaults underneath both.
// It transitions to StateReady exactly once regardless of outcome; repeat
// calls are no-ops. Nothing here is fatal: a corrupt cache entry or a
// remote fetch error degrades to the next tier down.
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateUninitialized {
		m.mu.Unlock()
		return
	}
	m.state = StateLoading
	m.mu.Unlock()

	userID, err := m.session.CurrentUserID(ctx)
	if err != nil {
		m.logger.Warn("resolve session failed, using local settings", "err", err)
		userID = ""
	}

	settings := DefaultSettings()
	if userID == "" {
		m.loadFromCache(&settings)
	} else {
		payload, err := m.remote.FetchThemeSettings(ctx, userID)
		switch {
		case errors.Is(err, ErrNoProfile):
			m.loadFromCache(&settings)
		case err != nil:
			m.logger.Error("fetch theme settings failed, falling back to local cache", "err", err)
			m.loadFromCache(&settings)
		case payload == nil:
			m.loadFromCache(&settings)
		default:
			settings.applyPayload(payload)
		}
	}

	// The status view is UI-only; it always comes from the device, even
	// when the color fields were just adopted from the remote payload.
	if v, ok := m.cache.Get(cacheKeyCurrentStatusView); ok && v != "" {
		settings.CurrentStatusView = model.StatusView(v)
	}

	m.mu.Lock()
	m.settings = settings
	m.userID = userID
	m.state = StateReady
	m.mu.Unlock()
}

// Close drains any pending remote write. Call it before process exit so a
// just-issued fire-and-forget write isn't dropped on the floor.
func (m *Manager) Close() {
	m.writer.Flush()
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns a deep copy of the current settings for rendering.
func (m *Manager) Snapshot() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.Clone()
}

func (m *Manager) HeaderColor() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.HeaderColor
}

func (m *Manager) AvatarColor() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.AvatarColor
}

func (m *Manager) TextColor() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.TextColor
}

func (m *Manager) MainColor() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.MainColor
}

func (m *Manager) ButtonColor() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.ButtonColor
}

func (m *Manager) CaseStatusColors() map[model.StatusKey]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyStatusMap(m.settings.CaseStatusColors)
}

func (m *Manager) TaskStatusColors() map[model.StatusKey]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyStatusMap(m.settings.TaskStatusColors)
}

func (m *Manager) CaseStatusTextColors() map[model.StatusKey]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyStatusMap(m.settings.CaseStatusTextColors)
}

func (m *Manager) CurrentStatusView() model.StatusView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.CurrentStatusView
}

// SetHeaderColor updates the header color and recomputes the derived text
// color in the same call; both land in one remote write.
func (m *Manager) SetHeaderColor(color string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.HeaderColor = color
	m.settings.TextColor = TextColorFor(color)
	m.persistLocal(cacheKeyHeaderColor, color)
	m.persistLocal(cacheKeyTextColor, m.settings.TextColor)
	m.queueRemoteWriteLocked()
}

func (m *Manager) SetAvatarColor(color string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.AvatarColor = color
	m.persistLocal(cacheKeyAvatarColor, color)
	m.queueRemoteWriteLocked()
}

// SetTextColor overrides the derived text color. The override is not
// re-validated against the header color; a later SetHeaderColor simply
// recomputes it again (last write wins).
func (m *Manager) SetTextColor(color string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.TextColor = color
	m.persistLocal(cacheKeyTextColor, color)
	m.queueRemoteWriteLocked()
}

func (m *Manager) SetMainColor(color string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.MainColor = color
	m.persistLocal(cacheKeyMainColor, color)
	m.queueRemoteWriteLocked()
}

func (m *Manager) SetButtonColor(color string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.ButtonColor = color
	m.persistLocal(cacheKeyButtonColor, color)
	m.queueRemoteWriteLocked()
}

// SetCaseStatusColor merges one (key, color) pair into the case board map.
// Keys outside the fixed four are rejected so the map can't grow extra
// entries.
func (m *Manager) SetCaseStatusColor(key model.StatusKey, color string) {
	m.setStatusColor(cacheKeyCaseStatusColors, key, color, func(s *Settings) map[model.StatusKey]string {
		return s.CaseStatusColors
	})
}

func (m *Manager) SetTaskStatusColor(key model.StatusKey, color string) {
	m.setStatusColor(cacheKeyTaskStatusColors, key, color, func(s *Settings) map[model.StatusKey]string {
		return s.TaskStatusColors
	})
}

func (m *Manager) SetCaseStatusTextColor(key model.StatusKey, color string) {
	m.setStatusColor(cacheKeyCaseStatusTextColors, key, color, func(s *Settings) map[model.StatusKey]string {
		return s.CaseStatusTextColors
	})
}

func (m *Manager) setStatusColor(cacheKey string, key model.StatusKey, color string, pick func(*Settings) map[model.StatusKey]string) {
	if !key.Valid() {
		m.logger.Warn("ignoring unknown status key", "key", key)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	statusMap := pick(&m.settings)
	statusMap[key] = color
	m.persistLocalMap(cacheKey, statusMap)
	m.queueRemoteWriteLocked()
}

// SetCurrentStatusView is local-only: it updates memory and the device
// cache but never triggers a remote write.
func (m *Manager) SetCurrentStatusView(view model.StatusView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.CurrentStatusView = view
	m.persistLocal(cacheKeyCurrentStatusView, string(view))
}

func (m *Manager) persistLocal(key, value string) {
	if err := m.cache.Set(key, value); err != nil {
		m.logger.Warn("local cache write failed", "key", key, "err", err)
	}
}

func (m *Manager) persistLocalMap(key string, statusMap map[model.StatusKey]string) {
	raw, _ := json.Marshal(statusMap)
	m.persistLocal(key, string(raw))
}

// queueRemoteWriteLocked hands the full persisted subset to the background
// writer. Gated on StateReady so stale defaults are never pushed over a
// profile before the initial load lands.
func (m *Manager) queueRemoteWriteLocked() {
	if m.state != StateReady || m.userID == "" {
		return
	}
	m.writer.Enqueue(m.userID, m.settings.payload())
}

// loadFromCache overlays cached values onto settings. Each field degrades
// independently: a missing or unparseable entry leaves that field at its
// default and never aborts the load.
func (m *Manager) loadFromCache(settings *Settings) {
	if v, ok := m.cache.Get(cacheKeyHeaderColor); ok {
		settings.HeaderColor = v
	}
	if v, ok := m.cache.Get(cacheKeyAvatarColor); ok {
		settings.AvatarColor = v
	}
	if v, ok := m.cache.Get(cacheKeyTextColor); ok {
		settings.TextColor = v
	}
	if v, ok := m.cache.Get(cacheKeyMainColor); ok {
		settings.MainColor = v
	}
	if v, ok := m.cache.Get(cacheKeyButtonColor); ok {
		settings.ButtonColor = v
	}
	m.loadCachedMap(cacheKeyCaseStatusColors, settings.CaseStatusColors)
	m.loadCachedMap(cacheKeyTaskStatusColors, settings.TaskStatusColors)
	m.loadCachedMap(cacheKeyCaseStatusTextColors, settings.CaseStatusTextColors)
}

func (m *Manager) loadCachedMap(key string, dst map[model.StatusKey]string) {
	v, ok := m.cache.Get(key)
	if !ok || v == "" {
		return
	}
	var cached map[model.StatusKey]string
	if err := json.Unmarshal([]byte(v), &cached); err != nil {
		m.logger.Warn("discarding unparseable cached map", "key", key, "err", err)
		return
	}
	mergeStatusMap(dst, cached)
}
