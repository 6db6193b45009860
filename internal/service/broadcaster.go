package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
	BroadcastToHost(catalogID string, msgType string, payload interface{})
}

// WebSocket message types
const (
	MsgViewUpdated    = "view_updated"
	MsgNotification   = "notification"
	MsgProgressUpdate = "progress_update"
)
