package models

import "time"

// ActivityLogEntry là một dòng nhật ký thao tác, append-only.
type ActivityLogEntry struct {
	EntryID    string    `bson:"entryID" json:"id"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
	ActorEmail string    `bson:"actorEmail" json:"actorEmail"`
	Action     string    `bson:"action" json:"action"`
	Details    string    `bson:"details" json:"details"`
}
