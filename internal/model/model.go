package model

import "time"

// StatusKey is one of the four fixed board statuses. Both the case board and
// the task board use the same key set.
type StatusKey string

const (
	StatusCompleted  StatusKey = "completed"
	StatusInProgress StatusKey = "in-progress"
	StatusDelayed    StatusKey = "delayed"
	StatusAnalysis   StatusKey = "analysis"
)

// StatusKeys returns the fixed key set in display order.
func StatusKeys() []StatusKey {
	return []StatusKey{StatusCompleted, StatusInProgress, StatusDelayed, StatusAnalysis}
}

func (k StatusKey) Valid() bool {
	switch k {
	case StatusCompleted, StatusInProgress, StatusDelayed, StatusAnalysis:
		return true
	}
	return false
}

// StatusView selects which board the status widgets render.
type StatusView string

const (
	StatusViewCases StatusView = "cases"
	StatusViewTasks StatusView = "tasks"
)

func (v StatusView) Valid() bool {
	return v == StatusViewCases || v == StatusViewTasks
}

// ThemeSettings is the wire shape of the theme-settings field on a profile
// row. Every field is optional: a partial payload is valid, and missing
// sub-fields fall back to hardcoded defaults on load.
//
// currentStatusView is deliberately absent; it is a local-only UI selector
// and never appears in a remote payload.
type ThemeSettings struct {
	HeaderColor *string `json:"headerColor,omitempty"`
	AvatarColor *string `json:"avatarColor,omitempty"`
	TextColor   *string `json:"textColor,omitempty"`
	MainColor   *string `json:"mainColor,omitempty"`
	ButtonColor *string `json:"buttonColor,omitempty"`

	CaseStatusColors     map[StatusKey]string `json:"caseStatusColors,omitempty"`
	TaskStatusColors     map[StatusKey]string `json:"taskStatusColors,omitempty"`
	CaseStatusTextColors map[StatusKey]string `json:"caseStatusTextColors,omitempty"`
}

// Profile is the remote profile row as served by the caseflow service.
// The theme client only reads/writes ThemeSettings; Balance is touched by
// the payment simulator.
type Profile struct {
	UserID        string         `json:"userId"`
	Email         string         `json:"email,omitempty"`
	Balance       int64          `json:"balance"`
	ThemeSettings *ThemeSettings `json:"themeSettings,omitempty"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Payment is a simulated billing row (dev-only flows).
type Payment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification is a receipt-style message appended after a simulated payment.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
