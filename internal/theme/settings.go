package theme

import (
	"caseflow-cli/internal/model"
)

// Hardcoded defaults. These are what a fresh session renders before (or
// instead of) any persisted preferences.
const (
	DefaultHeaderColor = "#1e293b"
	DefaultAvatarColor = "#2563eb"
	DefaultTextColor   = TextLight
	DefaultMainColor   = "#f1f5f9"
	DefaultButtonColor = "#2563eb"
)

func defaultCaseStatusColors() map[model.StatusKey]string {
	return map[model.StatusKey]string{
		model.StatusCompleted:  "#22c55e",
		model.StatusInProgress: "#3b82f6",
		model.StatusDelayed:    "#ef4444",
		model.StatusAnalysis:   "#eab308",
	}
}

func defaultTaskStatusColors() map[model.StatusKey]string {
	return map[model.StatusKey]string{
		model.StatusCompleted:  "#22c55e",
		model.StatusInProgress: "#3b82f6",
		model.StatusDelayed:    "#ef4444",
		model.StatusAnalysis:   "#eab308",
	}
}

func defaultCaseStatusTextColors() map[model.StatusKey]string {
	return map[model.StatusKey]string{
		model.StatusCompleted:  TextLight,
		model.StatusInProgress: TextLight,
		model.StatusDelayed:    TextLight,
		model.StatusAnalysis:   TextDark,
	}
}

// Settings is the in-memory preference set. It is the source of truth for
// rendering; the local cache and the remote profile row are best-effort
// mirrors updated behind it.
//
// The three status-color maps always contain exactly the four fixed keys.
type Settings struct {
	HeaderColor string
	AvatarColor string
	TextColor   string
	MainColor   string
	ButtonColor string

	CaseStatusColors     map[model.StatusKey]string
	TaskStatusColors     map[model.StatusKey]string
	CaseStatusTextColors map[model.StatusKey]string

	// CurrentStatusView is a local-only UI selector; it is cached on the
	// device but never written to the remote profile.
	CurrentStatusView model.StatusView
}

// DefaultSettings returns a fresh Settings with every field at its
// hardcoded default.
func DefaultSettings() Settings {
	return Settings{
		HeaderColor:          DefaultHeaderColor,
		AvatarColor:          DefaultAvatarColor,
		TextColor:            DefaultTextColor,
		MainColor:            DefaultMainColor,
		ButtonColor:          DefaultButtonColor,
		CaseStatusColors:     defaultCaseStatusColors(),
		TaskStatusColors:     defaultTaskStatusColors(),
		CaseStatusTextColors: defaultCaseStatusTextColors(),
		CurrentStatusView:    model.StatusViewCases,
	}
}

// Clone returns a deep copy (the maps are copied, not shared).
func (s Settings) Clone() Settings {
	out := s
	out.CaseStatusColors = copyStatusMap(s.CaseStatusColors)
	out.TaskStatusColors = copyStatusMap(s.TaskStatusColors)
	out.CaseStatusTextColors = copyStatusMap(s.CaseStatusTextColors)
	return out
}

func copyStatusMap(in map[model.StatusKey]string) map[model.StatusKey]string {
	out := make(map[model.StatusKey]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// applyPayload merges a (possibly partial) remote payload over s. Absent
// fields keep their current values; within a status map, only the keys
// present in the payload are adopted, and unknown keys are dropped.
func (s *Settings) applyPayload(p *model.ThemeSettings) {
	if p == nil {
		return
	}
	if p.HeaderColor != nil {
		s.HeaderColor = *p.HeaderColor
	}
	if p.AvatarColor != nil {
		s.AvatarColor = *p.AvatarColor
	}
	if p.TextColor != nil {
		s.TextColor = *p.TextColor
	}
	if p.MainColor != nil {
		s.MainColor = *p.MainColor
	}
	if p.ButtonColor != nil {
		s.ButtonColor = *p.ButtonColor
	}
	mergeStatusMap(s.CaseStatusColors, p.CaseStatusColors)
	mergeStatusMap(s.TaskStatusColors, p.TaskStatusColors)
	mergeStatusMap(s.CaseStatusTextColors, p.CaseStatusTextColors)
}

func mergeStatusMap(dst map[model.StatusKey]string, src map[model.StatusKey]string) {
	for k, v := range src {
		if !k.Valid() {
			continue
		}
		dst[k] = v
	}
}

// payload builds the remote-relevant subset of s (everything except
// CurrentStatusView) as a full wire payload.
func (s Settings) payload() model.ThemeSettings {
	header := s.HeaderColor
	avatar := s.AvatarColor
	text := s.TextColor
	main := s.MainColor
	button := s.ButtonColor
	return model.ThemeSettings{
		HeaderColor:          &header,
		AvatarColor:          &avatar,
		TextColor:            &text,
		MainColor:            &main,
		ButtonColor:          &button,
		CaseStatusColors:     copyStatusMap(s.CaseStatusColors),
		TaskStatusColors:     copyStatusMap(s.TaskStatusColors),
		CaseStatusTextColors: copyStatusMap(s.CaseStatusTextColors),
	}
}
