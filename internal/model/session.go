package model

import "time"

// SessionState is the serializable state of one respondent's survey session
type SessionState struct {
	ID           string          `json:"id"`
	CatalogID    string          `json:"catalogId"`
	CurrentTheme string          `json:"currentTheme"`
	Completed    map[string]bool `json:"completed"`
	Answers      []Answer        `json:"answers"` // Write order
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ThemeStatus is a theme as shown in the navigation list
type ThemeStatus struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

// SessionView is everything a renderer needs at one instant
type SessionView struct {
	SessionID        string            `json:"sessionId"`
	ThemeID          string            `json:"themeId"`
	ThemeTitle       string            `json:"themeTitle"`
	ThemeDescription string            `json:"themeDescription"`
	Questions        []Question        `json:"questions"`
	Answers          map[string]string `json:"answers"` // Answers of the visible questions only
	Themes           []ThemeStatus     `json:"themes"`
	Busy             bool              `json:"busy"`
}

// AdvanceOutcome is the result of a progression attempt
type AdvanceOutcome string

const (
	OutcomeAdvanced   AdvanceOutcome = "advanced"   // Saved and moved to the next theme
	OutcomeCompleted  AdvanceOutcome = "completed"  // Saved on the last theme
	OutcomeIncomplete AdvanceOutcome = "incomplete" // Visible questions unanswered
	OutcomeFailed     AdvanceOutcome = "failed"     // Persistence failed
	OutcomeBusy       AdvanceOutcome = "busy"       // Another advance is in flight
)

// AdvanceResponse is returned by the advance endpoint
type AdvanceResponse struct {
	Outcome      AdvanceOutcome `json:"outcome"`
	Notification *Notification  `json:"notification,omitempty"`
	Unanswered   []string       `json:"unanswered,omitempty"`
	View         *SessionView   `json:"view"`
}

// SessionStartResponse is returned when a respondent starts a session
type SessionStartResponse struct {
	SessionID string       `json:"sessionId"`
	Token     string       `json:"token"`
	View      *SessionView `json:"view"`
}

// ThemeSelectResponse is returned by the theme selection endpoint
type ThemeSelectResponse struct {
	Selected bool         `json:"selected"`
	View     *SessionView `json:"view"`
}
