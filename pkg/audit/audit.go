package audit

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Actions recorded against a complaint.
const (
	ActionIncidentCreated = "incident_created"
	ActionStatusChanged   = "status_changed"
	ActionNoteAdded       = "note_added"
)

// Logger appends free-form action entries to the audit_logs collection.
// Audit writes are best-effort: a failure is logged, never surfaced.
type Logger struct {
	coll *mongo.Collection
}

func NewLogger(db *mongo.Database) *Logger {
	if db == nil {
		return &Logger{}
	}
	return &Logger{coll: db.Collection("audit_logs")}
}

// Record appends one audit entry. Safe to call on a nil or disconnected
// logger; the caller's flow must not depend on the audit trail.
func (l *Logger) Record(action, complaintID, ticketCode, performedBy string, details map[string]interface{}) {
	if l == nil || l.coll == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	doc := bson.M{
		"action":       action,
		"complaint_id": complaintID,
		"ticket_code":  ticketCode,
		"performed_by": performedBy,
		"created_at":   time.Now().UTC(),
	}
	if len(details) > 0 {
		doc["details"] = details
	}

	if _, err := l.coll.InsertOne(ctx, doc); err != nil {
		log.Printf("[WARN] Failed to write audit entry for %s: %v", action, err)
	}
}
