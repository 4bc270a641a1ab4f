// model/event.go
package model

import (
	"time"

	"github.com/zukapustikova/ai-governance-transparency-ledger/crypto"
)

// EventType enumerates the auditable lifecycle events.
type EventType string

const (
	EventTrainingStarted   EventType = "training_started"
	EventTrainingCompleted EventType = "training_completed"
	EventSafetyEvalRun     EventType = "safety_eval_run"
	EventSafetyEvalPassed  EventType = "safety_eval_passed"
	EventSafetyEvalFailed  EventType = "safety_eval_failed"
	EventModelDeployed     EventType = "model_deployed"
	EventIncidentReported  EventType = "incident_reported"
)

// EventTypes lists every valid event type in declaration order.
var EventTypes = []EventType{
	EventTrainingStarted,
	EventTrainingCompleted,
	EventSafetyEvalRun,
	EventSafetyEvalPassed,
	EventSafetyEvalFailed,
	EventModelDeployed,
	EventIncidentReported,
}

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Event is one entry of the hash-chained audit log.
type Event struct {
	ID           int            `json:"id"`
	EventType    EventType      `json:"event_type"`
	Description  string         `json:"description"`
	Metadata     map[string]any `json:"metadata"`
	Timestamp    time.Time      `json:"timestamp"`
	PreviousHash string         `json:"previous_hash"`
	Hash         string         `json:"hash"`
}

// HashBody returns the canonical hashing input: every field except the
// self hash, with the timestamp rendered in the canonical layout.
func (e Event) HashBody() map[string]any {
	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return map[string]any{
		"id":            e.ID,
		"event_type":    string(e.EventType),
		"description":   e.Description,
		"metadata":      metadata,
		"timestamp":     e.Timestamp.Format(crypto.TimeLayout),
		"previous_hash": e.PreviousHash,
	}
}

// ChainVerification is the result of walking the full hash chain.
type ChainVerification struct {
	Valid          bool   `json:"valid"`
	CheckedEvents  int    `json:"checked_events"`
	FirstInvalidID *int   `json:"first_invalid_id,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// LedgerStatus summarizes the log for GET /status.
type LedgerStatus struct {
	EventCount int    `json:"event_count"`
	LatestHash string `json:"latest_hash"`
	MerkleRoot string `json:"merkle_root"`
	ChainValid bool   `json:"chain_valid"`
}

// ProofStep is one node of a Merkle inclusion proof; Position names the
// side the sibling sits on.
type ProofStep struct {
	SiblingHash string `json:"sibling_hash"`
	Position    string `json:"position"`
}

// InclusionProof is the response of GET /proof/{id}.
type InclusionProof struct {
	EventID    int         `json:"event_id"`
	LeafHash   string      `json:"leaf_hash"`
	Proof      []ProofStep `json:"proof"`
	MerkleRoot string      `json:"merkle_root"`
}
