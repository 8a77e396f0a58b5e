// Package statusutil normalizes user-typed status keys and board names
// before they reach the theme manager.
package statusutil

import (
	"fmt"
	"strings"

	"caseflow-cli/internal/model"
)

// NormalizeStatusKey maps common spellings ("In Progress", "in_progress")
// onto the fixed key set. Anything outside the four keys is an error; the
// manager would only drop it later with a less helpful message.
func NormalizeStatusKey(s string) (model.StatusKey, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "-")
	norm = strings.ReplaceAll(norm, "_", "-")
	key := model.StatusKey(norm)
	if !key.Valid() {
		return "", fmt.Errorf("invalid status key %q (want completed|in-progress|delayed|analysis)", s)
	}
	return key, nil
}

// NormalizeStatusView accepts "cases"/"tasks" plus singular spellings.
func NormalizeStatusView(s string) (model.StatusView, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cases", "case":
		return model.StatusViewCases, nil
	case "tasks", "task":
		return model.StatusViewTasks, nil
	default:
		return "", fmt.Errorf("invalid view %q (want cases|tasks)", s)
	}
}
