package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"flightwatch-service/internal/domain/entity"
)

// digestEntry is the projection of one reconciled flight that participates in
// the fingerprint. LastUpdated is deliberately left out: it changes every
// cycle and would defeat change detection.
type digestEntry struct {
	Ident  string                      `json:"ident"`
	Phase  entity.FlightPhase          `json:"phase"`
	Leg    digestLeg                   `json:"leg"`
	Latest map[entity.EventKind]string `json:"latest"`
}

type digestLeg struct {
	From          string     `json:"from"`
	To            string     `json:"to"`
	OffBlockSched *time.Time `json:"offBlockSched"`
	OnBlockSched  *time.Time `json:"onBlockSched"`
	ActualTakeoff *time.Time `json:"actualTakeoff"`
	ActualLanding *time.Time `json:"actualLanding"`
	Aircraft      string     `json:"aircraft"`
	Workflow      string     `json:"workflow"`
	Status        string     `json:"status"`
}

// Digest returns a fixed-size fingerprint over the reconciled set. The
// reconciler sorts its output by identifier, so hashing the serialized order
// is deterministic.
func Digest(states []entity.ReconciledFlightState) string {
	entries := make([]digestEntry, 0, len(states))
	for _, state := range states {
		latest := make(map[entity.EventKind]string, len(state.LatestEvents))
		for kind, event := range state.LatestEvents {
			latest[kind] = event.ReceivedAt
		}
		entries = append(entries, digestEntry{
			Ident: state.Ident,
			Phase: state.Phase,
			Leg: digestLeg{
				From:          state.Leg.From,
				To:            state.Leg.To,
				OffBlockSched: state.Leg.OffBlockSched,
				OnBlockSched:  state.Leg.OnBlockSched,
				ActualTakeoff: state.Leg.ActualTakeoff,
				ActualLanding: state.Leg.ActualLanding,
				Aircraft:      state.Leg.Aircraft,
				Workflow:      state.Leg.Workflow,
				Status:        state.Leg.Status,
			},
			Latest: latest,
		})
	}

	serialized, _ := json.Marshal(entries)
	sum := sha256.Sum256(serialized)
	return hex.EncodeToString(sum[:])
}

// Changed reports whether the current digest differs from the previous one.
// Digest equality is advisory for skipping refresh work, never a correctness
// check.
func Changed(previous, current string) bool {
	return previous != current
}
