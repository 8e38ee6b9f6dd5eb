package entity

import (
	"time"
)

// FlightLeg is one roster row of a schedule snapshot. Booking is the stable
// flight identifier shared with inbound status events.
type FlightLeg struct {
	Booking       string
	From          string // ICAO
	To            string // ICAO
	OffBlockSched *time.Time
	OnBlockSched  *time.Time
	ActualTakeoff *time.Time
	ActualLanding *time.Time
	FlightTimeEst string
	PIC           string
	SIC           string
	Account       string
	Aircraft      string
	AircraftType  string
	Workflow      string
	Status        string // free-text phase cue from the roster source
}

// ScheduleSnapshot is a complete, timestamped replacement of the flight
// roster. It is immutable once fetched; the next fetch supersedes it
// wholesale.
type ScheduleSnapshot struct {
	Source    string
	FetchedAt time.Time
	Hash      string
	Legs      []FlightLeg
}

// FlightCount returns the number of roster rows in the snapshot.
func (s *ScheduleSnapshot) FlightCount() int {
	if s == nil {
		return 0
	}
	return len(s.Legs)
}
