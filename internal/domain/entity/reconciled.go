package entity

import (
	"time"
)

// FlightPhase classifies where a flight is in its lifecycle.
type FlightPhase string

const (
	PhaseToDepart FlightPhase = "to_depart"
	PhaseEnroute  FlightPhase = "enroute"
	PhaseLanded   FlightPhase = "landed"
)

// ReconciledFlightState is the merged view of one roster row and the latest
// status events recorded for its identifier. It is recomputed every cycle and
// never persisted; consumers receive read-only copies.
type ReconciledFlightState struct {
	Ident        string
	Phase        FlightPhase
	Leg          FlightLeg
	LatestEvents map[EventKind]StatusEvent
	LastUpdated  time.Time
}

// Clone returns a deep copy safe to hand to a consumer.
func (r ReconciledFlightState) Clone() ReconciledFlightState {
	out := r
	if r.LatestEvents != nil {
		out.LatestEvents = make(map[EventKind]StatusEvent, len(r.LatestEvents))
		for k, v := range r.LatestEvents {
			out.LatestEvents[k] = v
		}
	}
	return out
}
