package profile

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"caseflow-cli/internal/model"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler is an in-memory stand-in for the hosted service, used by
// `caseflow serve` during development and by client tests. It backs the
// same contract the real service exposes: profile rows keyed by user id
// with a JSON theme-settings field, plus the billing tables the payment
// simulator touches.
type Handler struct {
	mu            sync.Mutex
	profiles      map[string]*model.Profile
	payments      []model.Payment
	notifications []model.Notification

	// tokens maps bearer tokens to user ids.
	tokens map[string]string

	logger *log.Logger
}

type HandlerOptions struct {
	// Tokens seeds the token -> user mapping. Every mapped user gets a
	// profile row created up front.
	Tokens map[string]string
	Logger *log.Logger
}

func NewHandler(opts HandlerOptions) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &Handler{
		profiles: map[string]*model.Profile{},
		tokens:   map[string]string{},
		logger:   logger,
	}
	for token, userID := range opts.Tokens {
		h.tokens[token] = userID
		h.profiles[userID] = &model.Profile{UserID: userID, UpdatedAt: time.Now().UTC()}
	}
	return h
}

// DropProfile removes a user's row so "no row found" paths can be
// exercised against a live server.
func (h *Handler) DropProfile(userID string) {
	h.mu.Lock()
	delete(h.profiles, userID)
	h.mu.Unlock()
}

// ProfileFor returns a snapshot of a user's row.
func (h *Handler) ProfileFor(userID string) (model.Profile, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.profiles[userID]
	if !ok {
		return model.Profile{}, false
	}
	return *p, true
}

// Payments returns a copy of the payment rows, newest last.
func (h *Handler) Payments() []model.Payment {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]model.Payment, len(h.payments))
	copy(out, h.payments)
	return out
}

// Notifications returns a copy of the notification rows, newest last.
func (h *Handler) Notifications() []model.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]model.Notification, len(h.notifications))
	copy(out, h.notifications)
	return out
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/auth/user", h.handleAuthUser)
	r.Get("/v1/profiles/{userID}", h.handleGetProfile)
	r.Put("/v1/profiles/{userID}/theme-settings", h.handlePutThemeSettings)
	r.Post("/v1/profiles/{userID}/balance", h.handleCreditBalance)
	r.Post("/v1/payments", h.handleCreatePayment)
	r.Post("/v1/notifications", h.handleCreateNotification)
	return r
}

func (h *Handler) userForRequest(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	if token == "" || token == auth {
		return "", false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	userID, ok := h.tokens[token]
	return userID, ok
}

func (h *Handler) handleAuthUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userForRequest(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"userId": userID})
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.userForRequest(r); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	userID := chi.URLParam(r, "userID")
	h.mu.Lock()
	p, ok := h.profiles[userID]
	var snapshot model.Profile
	if ok {
		snapshot = *p
	}
	h.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handlePutThemeSettings(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.userForRequest(r); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	userID := chi.URLParam(r, "userID")
	var payload model.ThemeSettings
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	h.mu.Lock()
	p, ok := h.profiles[userID]
	if ok {
		p.ThemeSettings = &payload
		p.UpdatedAt = time.Now().UTC()
	}
	h.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	h.logger.Debug("theme settings updated", "user", userID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreditBalance(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.userForRequest(r); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	userID := chi.URLParam(r, "userID")
	var body struct {
		Delta int64 `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	h.mu.Lock()
	p, ok := h.profiles[userID]
	var balance int64
	if ok {
		p.Balance += body.Delta
		p.UpdatedAt = time.Now().UTC()
		balance = p.Balance
	}
	h.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

func (h *Handler) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.userForRequest(r); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	var body struct {
		UserID string `json:"userId"`
		Amount int64  `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	payment := model.Payment{
		ID:        uuid.NewString(),
		UserID:    body.UserID,
		Amount:    body.Amount,
		Status:    "simulated",
		CreatedAt: time.Now().UTC(),
	}
	h.mu.Lock()
	h.payments = append(h.payments, payment)
	h.mu.Unlock()
	writeJSON(w, http.StatusCreated, payment)
}

func (h *Handler) handleCreateNotification(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.userForRequest(r); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	var body struct {
		UserID  string `json:"userId"`
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	n := model.Notification{
		ID:        uuid.NewString(),
		UserID:    body.UserID,
		Kind:      body.Kind,
		Message:   body.Message,
		CreatedAt: time.Now().UTC(),
	}
	h.mu.Lock()
	h.notifications = append(h.notifications, n)
	h.mu.Unlock()
	writeJSON(w, http.StatusCreated, n)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
