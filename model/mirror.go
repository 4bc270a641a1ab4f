// model/mirror.go
package model

import "time"

// MirrorParties are the three fixed holders of ledger snapshots.
var MirrorParties = []string{"lab", "auditor", "government"}

// ValidMirrorParty reports whether p names one of the fixed parties.
func ValidMirrorParty(p string) bool {
	for _, party := range MirrorParties {
		if p == party {
			return true
		}
	}
	return false
}

// MirrorRecord is one snapshotted ledger record. Data holds the record's
// canonical fields so demo tampering can rewrite any of them.
type MirrorRecord struct {
	RecordType string         `json:"record_type"`
	ID         string         `json:"id"`
	Data       map[string]any `json:"data"`
}

// MirrorSnapshot is one party's local copy of the transparency store plus
// the content hash taken at sync time.
type MirrorSnapshot struct {
	Party        string         `json:"party"`
	Records      []MirrorRecord `json:"records"`
	ContentHash  string         `json:"content_hash"`
	LastSyncedAt *time.Time     `json:"last_synced_at"`
}

// MirrorStatus is the per-party view for GET /demo/mirror/status.
type MirrorStatus struct {
	Party        string     `json:"party"`
	ContentHash  string     `json:"content_hash"`
	RecordCount  int        `json:"record_count"`
	LastSyncedAt *time.Time `json:"last_synced_at"`
}

// MirrorSyncResult reports a completed sync_all.
type MirrorSyncResult struct {
	SyncedParties []string  `json:"synced_parties"`
	RecordCount   int       `json:"record_count"`
	SyncTime      time.Time `json:"sync_time"`
}

// MirrorComparison is the cross-party content-hash check.
type MirrorComparison struct {
	Consistent       bool              `json:"consistent"`
	Hashes           map[string]string `json:"hashes"`
	DivergentParties []string          `json:"divergent_parties"`
	Message          string            `json:"message"`
}

// DivergentRecord pinpoints one record whose copies disagree.
type DivergentRecord struct {
	RecordID      string                    `json:"record_id"`
	ValuesByParty map[string]map[string]any `json:"values_by_party"`
}

// TamperDetection is the result of recomputing every party's content hash.
type TamperDetection struct {
	TamperingDetected bool              `json:"tampering_detected"`
	DivergentParties  []string          `json:"divergent_parties"`
	DivergentRecords  []DivergentRecord `json:"divergent_records"`
	Message           string            `json:"message"`
}
