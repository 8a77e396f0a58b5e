package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"caseflow-cli/internal/model"
	"caseflow-cli/internal/theme"
)

// Client talks to the hosted caseflow service. It implements theme.Remote
// (profile row point read/update) and theme.Session (current-user lookup).
//
// The zero http.Client carries no timeout on purpose: theme writes are
// fire-and-forget and the manager never waits on them, so a hung write
// simply never resolves instead of surfacing a spurious failure.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{},
	}
}

// CurrentUserID resolves the session. An empty id with a nil error means no
// session: either no token is configured or the service rejected it.
func (c *Client) CurrentUserID(ctx context.Context) (string, error) {
	if strings.TrimSpace(c.token) == "" {
		return "", nil
	}
	resp, err := c.do(ctx, http.MethodGet, "/v1/auth/user", nil)
	if err != nil {
		return "", err
	}
	defer drain(resp)
	if resp.StatusCode == http.StatusUnauthorized {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", unexpectedStatus("auth/user", resp)
	}
	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode auth/user: %w", err)
	}
	return body.UserID, nil
}

// FetchThemeSettings reads the profile row's theme-settings field. A
// missing row maps to theme.ErrNoProfile; a row with no settings yet
// returns (nil, nil).
func (c *Client) FetchThemeSettings(ctx context.Context, userID string) (*model.ThemeSettings, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/profiles/"+userID, nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp)
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("profile %s: %w", userID, theme.ErrNoProfile)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, unexpectedStatus("profiles", resp)
	}
	var p model.Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return p.ThemeSettings, nil
}

// SaveThemeSettings point-updates the theme-settings field on the profile
// row (last write wins; no read-modify-write).
func (c *Client) SaveThemeSettings(ctx context.Context, userID string, payload model.ThemeSettings) error {
	resp, err := c.do(ctx, http.MethodPut, "/v1/profiles/"+userID+"/theme-settings", payload)
	if err != nil {
		return err
	}
	defer drain(resp)
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("profile %s: %w", userID, theme.ErrNoProfile)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return unexpectedStatus("theme-settings", resp)
	}
	return nil
}

// CreatePayment inserts a simulated payment row.
func (c *Client) CreatePayment(ctx context.Context, userID string, amount int64) (model.Payment, error) {
	req := struct {
		UserID string `json:"userId"`
		Amount int64  `json:"amount"`
	}{UserID: userID, Amount: amount}
	resp, err := c.do(ctx, http.MethodPost, "/v1/payments", req)
	if err != nil {
		return model.Payment{}, err
	}
	defer drain(resp)
	if resp.StatusCode != http.StatusCreated {
		return model.Payment{}, unexpectedStatus("payments", resp)
	}
	var p model.Payment
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return model.Payment{}, fmt.Errorf("decode payment: %w", err)
	}
	return p, nil
}

// CreditBalance adjusts the profile balance by delta and returns the new
// balance.
func (c *Client) CreditBalance(ctx context.Context, userID string, delta int64) (int64, error) {
	req := struct {
		Delta int64 `json:"delta"`
	}{Delta: delta}
	resp, err := c.do(ctx, http.MethodPost, "/v1/profiles/"+userID+"/balance", req)
	if err != nil {
		return 0, err
	}
	defer drain(resp)
	if resp.StatusCode == http.StatusNotFound {
		return 0, fmt.Errorf("profile %s: %w", userID, theme.ErrNoProfile)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, unexpectedStatus("balance", resp)
	}
	var body struct {
		Balance int64 `json:"balance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode balance: %w", err)
	}
	return body.Balance, nil
}

// CreateNotification appends a notification row for the user.
func (c *Client) CreateNotification(ctx context.Context, userID, kind, message string) error {
	req := struct {
		UserID  string `json:"userId"`
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}{UserID: userID, Kind: kind, Message: message}
	resp, err := c.do(ctx, http.MethodPost, "/v1/notifications", req)
	if err != nil {
		return err
	}
	defer drain(resp)
	if resp.StatusCode != http.StatusCreated {
		return unexpectedStatus("notifications", resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.http.Do(req)
}

func unexpectedStatus(what string, resp *http.Response) error {
	return fmt.Errorf("%s: unexpected status %d", what, resp.StatusCode)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
