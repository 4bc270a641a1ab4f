// merkle/service.go
package merkle

import (
	"github.com/zukapustikova/ai-governance-transparency-ledger/auditlog"
	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
)

// Service answers inclusion-proof queries over the audit log. The tree is
// rebuilt from the current leaf set on every call; the log is small enough
// that no incremental maintenance is warranted.
type Service struct {
	log *auditlog.Service
}

// NewService creates the proof service over log.
func NewService(log *auditlog.Service) *Service {
	return &Service{log: log}
}

// Root returns the current Merkle root, "" when the log is empty.
func (s *Service) Root() string {
	return Build(s.log.LeafHashes()).Root()
}

// Prove builds the inclusion proof for the event with the given id.
func (s *Service) Prove(eventID int) (model.InclusionProof, error) {
	event, err := s.log.Get(eventID)
	if err != nil {
		return model.InclusionProof{}, err
	}

	tree := Build(s.log.LeafHashes())
	proof, err := tree.Prove(eventID)
	if err != nil {
		return model.InclusionProof{}, err
	}

	return model.InclusionProof{
		EventID:    eventID,
		LeafHash:   event.Hash,
		Proof:      proof,
		MerkleRoot: tree.Root(),
	}, nil
}
