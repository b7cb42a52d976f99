package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit action types recorded for cart activity.
const (
	ActionCartAdd      = "cart_add"
	ActionCartUpdate   = "cart_update"
	ActionCartRemove   = "cart_remove"
	ActionCartClear    = "cart_clear"
	ActionCartChanged  = "cart_changed"
	ActionCheckout     = "checkout"
	ActionCatalogWrite = "catalog_write"
)

// LogEntry is an audit record of something that happened to a cart or the catalog.
// Context-specific data goes into Fields.
type LogEntry struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Timestamp  time.Time              `bson:"timestamp" json:"timestamp"`
	Level      string                 `bson:"level" json:"level"`
	Message    string                 `bson:"message" json:"message"`
	RequestID  string                 `bson:"request_id,omitempty" json:"request_id,omitempty"`
	SessionID  string                 `bson:"session_id,omitempty" json:"session_id,omitempty"`
	ActionType string                 `bson:"action_type,omitempty" json:"action_type,omitempty"`
	ProductID  string                 `bson:"product_id,omitempty" json:"product_id,omitempty"`
	ItemCount  int                    `bson:"item_count" json:"item_count"`
	Total      string                 `bson:"total,omitempty" json:"total,omitempty"`
	Version    uint64                 `bson:"version,omitempty" json:"version,omitempty"`
	Error      string                 `bson:"error,omitempty" json:"error,omitempty"`
	Fields     map[string]interface{} `bson:"fields,omitempty" json:"fields,omitempty"`
}

// WithField adds a field to the entry, initializing Fields if needed.
func (e *LogEntry) WithField(key string, value interface{}) *LogEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// WithFields merges fields into the entry.
func (e *LogEntry) WithFields(fields map[string]interface{}) *LogEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{}, len(fields))
	}
	for k, v := range fields {
		e.Fields[k] = v
	}
	return e
}

// LogQueryOptions filters audit log queries.
type LogQueryOptions struct {
	SessionID  string
	ActionType string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Skip       int
}
