package model

// ProgressEntry is one session on a catalog's progress board
type ProgressEntry struct {
	SessionID       string `json:"sessionId"`
	CompletedThemes int    `json:"completedThemes"`
	Rank            int    `json:"rank"`
}
