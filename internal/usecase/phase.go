package usecase

import (
	"strings"

	"flightwatch-service/internal/domain/entity"
)

// PhaseRulesVersion identifies the cue table below. Bump it when keywords are
// added or removed so downstream consumers can tell classifications apart.
const PhaseRulesVersion = "2025-10"

// landedKeywords are roster status cues meaning the flight is on the ground at
// destination. "delayed arrival" is excluded: it contains "arrival" but the
// flight is still airborne.
var landedKeywords = []string{
	"landed",
	"on block",
	"blocks on",
	"arrived",
	"arrival",
	"on ground",
}

var landedExcludeKeywords = []string{
	"delayed arrival",
}

// enrouteKeywords are roster status cues meaning the flight has gone blocks
// off or is airborne.
var enrouteKeywords = []string{
	"airborne",
	"enroute",
	"en route",
	"departed",
	"block off",
	"blocks off",
	"off block",
	"takeoff",
	"in flight",
	"delayed arrival",
}

// PhaseClassifier assigns a lifecycle phase to one reconciled flight. Rules
// are evaluated top-down, first match wins; landing cues outrank airborne cues
// so a flight that both departed and arrived is never left in enroute.
type PhaseClassifier struct{}

// NewPhaseClassifier creates a new phase classifier
func NewPhaseClassifier() *PhaseClassifier {
	return &PhaseClassifier{}
}

// Classify derives the phase from the roster row and the latest events per
// kind. The result depends only on content, never on input arrival order.
func (c *PhaseClassifier) Classify(leg entity.FlightLeg, latest map[entity.EventKind]entity.StatusEvent) entity.FlightPhase {
	if c.hasLandingCue(leg, latest) {
		return entity.PhaseLanded
	}
	if c.hasAirborneCue(leg, latest) {
		return entity.PhaseEnroute
	}
	return entity.PhaseToDepart
}

func (c *PhaseClassifier) hasLandingCue(leg entity.FlightLeg, latest map[entity.EventKind]entity.StatusEvent) bool {
	if _, ok := latest[entity.EventIn]; ok {
		return true
	}
	if _, ok := latest[entity.EventOn]; ok {
		return true
	}
	if leg.ActualLanding != nil {
		return true
	}
	return matchesKeywords(leg.Status, landedKeywords, landedExcludeKeywords)
}

func (c *PhaseClassifier) hasAirborneCue(leg entity.FlightLeg, latest map[entity.EventKind]entity.StatusEvent) bool {
	if _, ok := latest[entity.EventOut]; ok {
		return true
	}
	if _, ok := latest[entity.EventOff]; ok {
		return true
	}
	if leg.ActualTakeoff != nil {
		return true
	}
	return matchesKeywords(leg.Status, enrouteKeywords, nil)
}

func matchesKeywords(status string, keywords, excludes []string) bool {
	text := strings.ToLower(status)
	if text == "" {
		return false
	}
	for _, exclude := range excludes {
		if strings.Contains(text, exclude) {
			return false
		}
	}
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
