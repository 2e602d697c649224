package events

import "github.com/asaskevich/EventBus"

// GlobalBus is the shared event bus for the entire application
var GlobalBus EventBus.Bus

func init() {
	GlobalBus = EventBus.New()
}

// Event types for application-wide coordination
const (
	// Reconcile progress. Payload: action string, relpath string,
	// processed int, total int.
	EventSyncAction = "sync:action"

	// Run lifecycle
	EventSyncStarted  = "sync:started"
	EventSyncFinished = "sync:finished"

	// Watch mode
	EventWatchTriggered = "watch:triggered"
)
