// model/zk.go
package model

import "time"

// ZKCommitment binds a hidden count without revealing it:
// commitment = SHA256(str(count) || ":" || blinding).
type ZKCommitment struct {
	ID         string         `json:"id"`
	Commitment string         `json:"commitment"`
	CreatedAt  time.Time      `json:"created_at"`
	Metadata   map[string]any `json:"metadata"`
}

// ZKCommitmentIssued is the creation response; the blinding factor is the
// client's witness and is only ever returned here.
type ZKCommitmentIssued struct {
	ZKCommitment
	Blinding string `json:"blinding"`
}

// ZKProof demonstrates that a committed count meets a threshold:
// proof_value = SHA256(commitment || ":" || threshold || ":" || count || ":" || blinding).
type ZKProof struct {
	CommitmentID string    `json:"commitment_id"`
	Threshold    int       `json:"threshold"`
	ProofValue   string    `json:"proof_value"`
	Claim        string    `json:"claim"`
	CreatedAt    time.Time `json:"created_at"`
}

// ZKVerification is the verdict of POST /zk/verify.
type ZKVerification struct {
	CommitmentID string `json:"commitment_id"`
	Threshold    int    `json:"threshold"`
	Valid        bool   `json:"valid"`
	Message      string `json:"message"`
}
