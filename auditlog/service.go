// auditlog/service.go
package auditlog

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/zukapustikova/ai-governance-transparency-ledger/crypto"
	ledger_errors "github.com/zukapustikova/ai-governance-transparency-ledger/errors"
	logger "github.com/zukapustikova/ai-governance-transparency-ledger/logging"
	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
	"github.com/zukapustikova/ai-governance-transparency-ledger/storage"
)

// StorageFile is the audit log's document name under the data directory.
const StorageFile = "audit_log.json"

// Service is the append-only, hash-chained audit log. Every event's hash
// incorporates its predecessor's, so any later modification breaks the
// chain at the earliest tampered entry.
type Service struct {
	mu     sync.RWMutex
	events []model.Event
	doc    *storage.Document
}

// NewService loads the audit log from dir on fs, starting empty when no
// document exists yet.
func NewService(fs afero.Fs, dir string) *Service {
	s := &Service{
		doc: storage.NewDocument(fs, filepath.Join(dir, StorageFile)),
	}
	if s.doc.Load(&s.events) {
		logger.Info("Audit log loaded", zap.Int("events", len(s.events)))
	}
	return s
}

// Append adds a new event to the chain and persists the log. On a
// persistence failure the in-memory append is rolled back.
func (s *Service) Append(eventType model.EventType, description string, metadata map[string]any) (model.Event, error) {
	if !eventType.Valid() {
		return model.Event{}, ledger_errors.Validationf("unknown event_type %q", eventType)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	event := model.Event{
		ID:           len(s.events),
		EventType:    eventType,
		Description:  description,
		Metadata:     metadata,
		Timestamp:    crypto.Now(),
		PreviousHash: crypto.GenesisHash,
	}
	if len(s.events) > 0 {
		event.PreviousHash = s.events[len(s.events)-1].Hash
	}

	hash, err := crypto.HashWithPrevious(event.HashBody(), event.PreviousHash)
	if err != nil {
		return model.Event{}, ledger_errors.Validationf("unhashable metadata: %v", err)
	}
	event.Hash = hash

	s.events = append(s.events, event)
	if err := s.doc.Save(s.events); err != nil {
		s.events = s.events[:len(s.events)-1]
		return model.Event{}, err
	}

	logger.Info("Event appended",
		zap.Int("id", event.ID),
		zap.String("event_type", string(event.EventType)))
	return event, nil
}

// List returns events newest first, optionally filtered by type and capped
// at limit (0 means no cap).
func (s *Service) List(eventType model.EventType, limit int) []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Event, 0, len(s.events))
	for i := len(s.events) - 1; i >= 0; i-- {
		if eventType != "" && s.events[i].EventType != eventType {
			continue
		}
		out = append(out, s.events[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Get returns the event with the given id.
func (s *Service) Get(id int) (model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id < 0 || id >= len(s.events) {
		return model.Event{}, ledger_errors.NotFoundf("event %d", id)
	}
	return s.events[id], nil
}

// Count returns the number of events in the log.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// LatestHash returns the chain tip, or the empty string for an empty log.
func (s *Service) LatestHash() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) == 0 {
		return ""
	}
	return s.events[len(s.events)-1].Hash
}

// LeafHashes returns every event hash in id order, the Merkle leaf set.
func (s *Service) LeafHashes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	leaves := make([]string, len(s.events))
	for i, e := range s.events {
		leaves[i] = e.Hash
	}
	return leaves
}

// VerifyChain walks the whole chain and reports the earliest entry whose
// linkage or recomputed hash does not hold. Integrity failures are data,
// not errors.
func (s *Service) VerifyChain() model.ChainVerification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, event := range s.events {
		expectedPrevious := crypto.GenesisHash
		if i > 0 {
			expectedPrevious = s.events[i-1].Hash
		}
		if event.PreviousHash != expectedPrevious {
			id := i
			return model.ChainVerification{
				Valid:          false,
				CheckedEvents:  i + 1,
				FirstInvalidID: &id,
				Reason:         "previous_hash mismatch",
			}
		}

		recomputed, err := crypto.HashWithPrevious(event.HashBody(), event.PreviousHash)
		if err != nil || recomputed != event.Hash {
			id := i
			return model.ChainVerification{
				Valid:          false,
				CheckedEvents:  i + 1,
				FirstInvalidID: &id,
				Reason:         "hash mismatch",
			}
		}
	}

	return model.ChainVerification{Valid: true, CheckedEvents: len(s.events)}
}

// Reset empties the log. Demo only.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.events
	s.events = nil
	if err := s.doc.Save([]model.Event{}); err != nil {
		s.events = previous
		return err
	}
	return nil
}

// Tamper overwrites one field of a stored event without recomputing its
// hash. Demo only: it exists to prove VerifyChain catches modification.
func (s *Service) Tamper(id int, field string, newValue any) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id < 0 || id >= len(s.events) {
		return model.Event{}, ledger_errors.NotFoundf("event %d", id)
	}

	event := s.events[id]
	switch field {
	case "description":
		v, ok := newValue.(string)
		if !ok {
			return model.Event{}, ledger_errors.Validationf("description must be a string")
		}
		event.Description = v
	case "event_type":
		v, ok := newValue.(string)
		if !ok {
			return model.Event{}, ledger_errors.Validationf("event_type must be a string")
		}
		event.EventType = model.EventType(v)
	case "metadata":
		v, ok := newValue.(map[string]any)
		if !ok {
			return model.Event{}, ledger_errors.Validationf("metadata must be an object")
		}
		event.Metadata = v
	case "timestamp":
		v, ok := newValue.(string)
		if !ok {
			return model.Event{}, ledger_errors.Validationf("timestamp must be a string")
		}
		ts, err := time.Parse(crypto.TimeLayout, v)
		if err != nil {
			return model.Event{}, ledger_errors.Validationf("timestamp must be %s", crypto.TimeLayout)
		}
		event.Timestamp = ts
	case "previous_hash":
		v, ok := newValue.(string)
		if !ok {
			return model.Event{}, ledger_errors.Validationf("previous_hash must be a string")
		}
		event.PreviousHash = v
	default:
		return model.Event{}, ledger_errors.Validationf("field %q cannot be tampered", field)
	}

	original := s.events[id]
	s.events[id] = event
	if err := s.doc.Save(s.events); err != nil {
		s.events[id] = original
		return model.Event{}, err
	}

	logger.Warn("Event tampered (demo)",
		zap.Int("id", id),
		zap.String("field", field))
	return event, nil
}
