package entity

import (
	"time"
)

// EventKind is one of the four OOOI lifecycle markers reported by the
// flight-tracking provider: gate departure, wheels-up, wheels-down, gate
// arrival.
type EventKind string

const (
	EventOut EventKind = "out"
	EventOff EventKind = "off"
	EventOn  EventKind = "on"
	EventIn  EventKind = "in"
)

// EventKinds lists every kind in lifecycle order.
var EventKinds = []EventKind{EventOut, EventOff, EventOn, EventIn}

// ValidEventKind reports whether s names a known OOOI kind.
func ValidEventKind(s string) bool {
	switch EventKind(s) {
	case EventOut, EventOff, EventOn, EventIn:
		return true
	}
	return false
}

// StatusEvent is the canonical normalized form of one provider delivery.
// ReceivedAt is assigned by the ingestion clock and is authoritative for
// conflict resolution; SourceTimestamp is the provider's own clock and is
// advisory only. RawPayload keeps the inbound body verbatim for audit.
type StatusEvent struct {
	ID              string     `bson:"_id,omitempty"`
	Ident           string     `bson:"ident"`
	Kind            EventKind  `bson:"kind"`
	Aircraft        string     `bson:"aircraft,omitempty"`
	Origin          string     `bson:"origin,omitempty"`
	Destination     string     `bson:"destination,omitempty"`
	SourceTimestamp *time.Time `bson:"sourceTimestamp,omitempty"`
	ReceivedAt      string     `bson:"receivedAt"` // ISO-8601 UTC, lexicographically sortable
	RawPayload      string     `bson:"rawPayload"`
	ExpireAt        *time.Time `bson:"expireAt,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt"`
}

// ReceivedAtLayout is the storage layout of StatusEvent.ReceivedAt. Zero-padded
// so string ordering matches time ordering.
const ReceivedAtLayout = "2006-01-02T15:04:05.000000000Z"
