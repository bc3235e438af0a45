package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserCreated        = "user.created"
	EventTypeUserDeleted        = "user.deleted"
	EventTypeAssignmentAssigned = "assignment.assigned"
	EventTypeAssignmentRevoked  = "assignment.revoked"
	EventTypeAdminAdded         = "admin.added"
	EventTypeAdminRemoved       = "admin.removed"
	EventTypeSessionOpened      = "session.opened"
	EventTypeSessionClosed      = "session.closed"
)

// DirectoryEventTypes lists every event the directory publishes, for
// subscribers that want all of them.
var DirectoryEventTypes = []string{
	EventTypeUserCreated,
	EventTypeUserDeleted,
	EventTypeAssignmentAssigned,
	EventTypeAssignmentRevoked,
	EventTypeAdminAdded,
	EventTypeAdminRemoved,
	EventTypeSessionOpened,
	EventTypeSessionClosed,
}

// DirectoryEvent records a change made by ActorID. ActorID is zero for
// unauthenticated flows such as registration and login.
type DirectoryEvent struct {
	BaseEvent
	ActorID  int64 `json:"actor_id"`
	EntityID int64 `json:"entity_id"`
}

func NewDirectoryEvent(eventType string, actorID, entityID int64, data map[string]interface{}) *DirectoryEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["actor_id"] = actorID
	data["entity_id"] = entityID

	return &DirectoryEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data:      data,
		},
		ActorID:  actorID,
		EntityID: entityID,
	}
}
