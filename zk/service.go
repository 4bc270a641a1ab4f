// zk/service.go
package zk

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/zukapustikova/ai-governance-transparency-ledger/crypto"
	ledger_errors "github.com/zukapustikova/ai-governance-transparency-ledger/errors"
	logger "github.com/zukapustikova/ai-governance-transparency-ledger/logging"
	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
	"github.com/zukapustikova/ai-governance-transparency-ledger/storage"
)

// StorageFile is the commitment store's document name.
const StorageFile = "zk_store.json"

// record is a commitment plus its witness. The witness stays server-side
// so verification can recompute proofs; a production scheme would keep it
// with the prover only.
type record struct {
	model.ZKCommitment
	Count    int    `json:"count"`
	Blinding string `json:"blinding"`
}

type state struct {
	Commitments []record `json:"commitments"`
}

// Service issues hash-based threshold commitments and checks proofs
// against them.
type Service struct {
	mu    sync.RWMutex
	state state
	doc   *storage.Document
}

// NewService loads the commitment store from dir on fs.
func NewService(fs afero.Fs, dir string) *Service {
	s := &Service{doc: storage.NewDocument(fs, filepath.Join(dir, StorageFile))}
	if s.doc.Load(&s.state) {
		logger.Info("ZK commitment store loaded",
			zap.Int("commitments", len(s.state.Commitments)))
	}
	return s
}

// Commitment computes SHA256(count || ":" || blinding).
func Commitment(count int, blinding string) string {
	return crypto.HashString(fmt.Sprintf("%d:%s", count, blinding))
}

// ProofValue computes SHA256(commitment || ":" || threshold || ":" || count || ":" || blinding).
func ProofValue(commitment string, threshold, count int, blinding string) string {
	return crypto.HashString(fmt.Sprintf("%s:%d:%d:%s", commitment, threshold, count, blinding))
}

// Commit binds count under a fresh random blinding factor. The blinding
// is returned once, in the issue response, and never listed again.
func (s *Service) Commit(count int, metadata map[string]any) (model.ZKCommitmentIssued, error) {
	if count < 0 {
		return model.ZKCommitmentIssued{}, ledger_errors.Validationf("count must be non-negative")
	}

	blinding := crypto.RandomHex(32)
	rec := record{
		ZKCommitment: model.ZKCommitment{
			ID:         crypto.NewRecordID(),
			Commitment: Commitment(count, blinding),
			CreatedAt:  crypto.Now(),
			Metadata:   metadata,
		},
		Count:    count,
		Blinding: blinding,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Commitments = append(s.state.Commitments, rec)
	if err := s.doc.Save(s.state); err != nil {
		s.state.Commitments = s.state.Commitments[:len(s.state.Commitments)-1]
		return model.ZKCommitmentIssued{}, err
	}

	return model.ZKCommitmentIssued{ZKCommitment: rec.ZKCommitment, Blinding: blinding}, nil
}

// Get returns one commitment without its witness.
func (s *Service) Get(id string) (model.ZKCommitment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.find(id)
	if err != nil {
		return model.ZKCommitment{}, err
	}
	return rec.ZKCommitment, nil
}

// List returns every commitment, newest first, witnesses excluded.
func (s *Service) List() []model.ZKCommitment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ZKCommitment, 0, len(s.state.Commitments))
	for i := len(s.state.Commitments) - 1; i >= 0; i-- {
		out = append(out, s.state.Commitments[i].ZKCommitment)
	}
	return out
}

func (s *Service) find(id string) (record, error) {
	for _, rec := range s.state.Commitments {
		if rec.ID == id {
			return rec, nil
		}
	}
	return record{}, ledger_errors.NotFoundf("commitment %s", id)
}

// Prove produces a threshold proof for a commitment. Fails when the
// committed count does not actually meet the threshold.
func (s *Service) Prove(commitmentID string, threshold int) (model.ZKProof, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.find(commitmentID)
	if err != nil {
		return model.ZKProof{}, err
	}
	if rec.Count < threshold {
		return model.ZKProof{}, ledger_errors.Preconditionf("committed count does not meet threshold %d", threshold)
	}

	return model.ZKProof{
		CommitmentID: commitmentID,
		Threshold:    threshold,
		ProofValue:   ProofValue(rec.Commitment, threshold, rec.Count, rec.Blinding),
		Claim:        fmt.Sprintf("count >= %d", threshold),
		CreatedAt:    crypto.Now(),
	}, nil
}

// Verify checks a proof value against the stored witness. A proof is
// valid only when it recomputes exactly and the committed count still
// meets the claimed threshold.
func (s *Service) Verify(commitmentID string, threshold int, proofValue string) (model.ZKVerification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.find(commitmentID)
	if err != nil {
		return model.ZKVerification{}, err
	}

	verdict := model.ZKVerification{
		CommitmentID: commitmentID,
		Threshold:    threshold,
	}
	expected := ProofValue(rec.Commitment, threshold, rec.Count, rec.Blinding)
	switch {
	case proofValue != expected:
		verdict.Message = "proof value does not match the commitment"
	case rec.Count < threshold:
		verdict.Message = fmt.Sprintf("committed count does not meet threshold %d", threshold)
	default:
		verdict.Valid = true
		verdict.Message = fmt.Sprintf("proof demonstrates count >= %d", threshold)
	}
	return verdict, nil
}

// Reset clears the store. Demo only.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.state
	s.state = state{}
	if err := s.doc.Save(s.state); err != nil {
		s.state = previous
		return err
	}
	return nil
}
