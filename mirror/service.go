// mirror/service.go
package mirror

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zukapustikova/ai-governance-transparency-ledger/crypto"
	ledger_errors "github.com/zukapustikova/ai-governance-transparency-ledger/errors"
	logger "github.com/zukapustikova/ai-governance-transparency-ledger/logging"
	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
	"github.com/zukapustikova/ai-governance-transparency-ledger/storage"
)

// StorageFile is the mirror store's document name.
const StorageFile = "mirror_store.json"

// SnapshotSource provides the canonical record set mirrors replicate.
type SnapshotSource interface {
	SnapshotRecords() []model.MirrorRecord
}

type state struct {
	Snapshots map[string]*model.MirrorSnapshot `json:"snapshots"`
}

// Service maintains one ledger snapshot per fixed party and detects
// divergence between them by content hash.
type Service struct {
	mu     sync.RWMutex
	state  state
	doc    *storage.Document
	source SnapshotSource
}

// NewService loads the mirror store from dir on fs.
func NewService(fs afero.Fs, dir string, source SnapshotSource) *Service {
	s := &Service{
		doc:    storage.NewDocument(fs, filepath.Join(dir, StorageFile)),
		source: source,
	}
	if !s.doc.Load(&s.state) || s.state.Snapshots == nil {
		s.state.Snapshots = make(map[string]*model.MirrorSnapshot)
	}
	for _, party := range model.MirrorParties {
		if s.state.Snapshots[party] == nil {
			s.state.Snapshots[party] = &model.MirrorSnapshot{Party: party, Records: []model.MirrorRecord{}}
		}
	}
	return s
}

// contentHash digests the canonical JSON of the sorted record set. An
// empty snapshot has no hash and is excluded from comparison.
func contentHash(records []model.MirrorRecord) string {
	if len(records) == 0 {
		return ""
	}
	b, err := crypto.CanonicalJSON(records)
	if err != nil {
		// Records are plain maps decoded from JSON; this cannot fail.
		panic(fmt.Sprintf("unencodable snapshot: %v", err))
	}
	return crypto.HashString(string(b))
}

func cloneRecords(records []model.MirrorRecord) []model.MirrorRecord {
	out := make([]model.MirrorRecord, len(records))
	for i, r := range records {
		data := make(map[string]any, len(r.Data))
		for k, v := range r.Data {
			data[k] = v
		}
		out[i] = model.MirrorRecord{RecordType: r.RecordType, ID: r.ID, Data: data}
	}
	return out
}

// SyncAll pushes the current ledger state to every party concurrently.
// Each party gets its own copy of the records so a later tamper on one
// mirror cannot bleed into another.
func (s *Service) SyncAll() (model.MirrorSyncResult, error) {
	records := s.source.SnapshotRecords()
	now := crypto.Now()

	snapshots := make(map[string]*model.MirrorSnapshot, len(model.MirrorParties))
	var smu sync.Mutex

	var g errgroup.Group
	for _, party := range model.MirrorParties {
		party := party
		g.Go(func() error {
			copied := cloneRecords(records)
			syncedAt := now
			snap := &model.MirrorSnapshot{
				Party:        party,
				Records:      copied,
				ContentHash:  contentHash(copied),
				LastSyncedAt: &syncedAt,
			}
			smu.Lock()
			snapshots[party] = snap
			smu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.MirrorSyncResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.state.Snapshots
	s.state.Snapshots = snapshots
	if err := s.doc.Save(s.state); err != nil {
		s.state.Snapshots = previous
		return model.MirrorSyncResult{}, err
	}

	logger.Info("Mirrors synchronized",
		zap.Int("records", len(records)),
		zap.Strings("parties", model.MirrorParties))
	return model.MirrorSyncResult{
		SyncedParties: model.MirrorParties,
		RecordCount:   len(records),
		SyncTime:      now,
	}, nil
}

// Status reports each party's hash, record count and last sync time.
func (s *Service) Status() []model.MirrorStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.MirrorStatus, 0, len(model.MirrorParties))
	for _, party := range model.MirrorParties {
		snap := s.state.Snapshots[party]
		out = append(out, model.MirrorStatus{
			Party:        party,
			ContentHash:  snap.ContentHash,
			RecordCount:  len(snap.Records),
			LastSyncedAt: snap.LastSyncedAt,
		})
	}
	return out
}

// Compare checks whether every synced party holds the same content hash.
// Parties that have never synced are excluded from the comparison.
func (s *Service) Compare() model.MirrorComparison {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comparison := model.MirrorComparison{
		Hashes:           map[string]string{},
		DivergentParties: []string{},
	}

	counts := map[string]int{}
	for _, party := range model.MirrorParties {
		hash := s.state.Snapshots[party].ContentHash
		comparison.Hashes[party] = hash
		if hash != "" {
			counts[hash]++
		}
	}
	if len(counts) == 0 {
		comparison.Consistent = true
		comparison.Message = "no mirrors have been synced"
		return comparison
	}

	majority := ""
	for hash, n := range counts {
		if n > counts[majority] {
			majority = hash
		}
	}
	for _, party := range model.MirrorParties {
		hash := comparison.Hashes[party]
		if hash != "" && hash != majority {
			comparison.DivergentParties = append(comparison.DivergentParties, party)
		}
	}

	if len(counts) == 1 {
		comparison.Consistent = true
		comparison.Message = "all mirrors agree"
	} else {
		comparison.Message = fmt.Sprintf("%d divergent mirror(s) detected", len(comparison.DivergentParties))
	}
	return comparison
}

// Tamper rewrites one field of one record in a single party's copy
// without updating that party's stored content hash. Demo only.
func (s *Service) Tamper(req model.MirrorTamperRequest) error {
	if !model.ValidMirrorParty(req.Party) {
		return ledger_errors.Validationf("unknown party %q", req.Party)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.state.Snapshots[req.Party]
	for i := range snap.Records {
		rec := &snap.Records[i]
		if rec.RecordType != req.RecordType || rec.ID != req.RecordID {
			continue
		}
		previous, had := rec.Data[req.Field]
		rec.Data[req.Field] = req.NewValue
		if err := s.doc.Save(s.state); err != nil {
			if had {
				rec.Data[req.Field] = previous
			} else {
				delete(rec.Data, req.Field)
			}
			return err
		}
		logger.Warn("Mirror record tampered for demo",
			zap.String("party", req.Party),
			zap.String("recordID", req.RecordID),
			zap.String("field", req.Field))
		return nil
	}
	return ledger_errors.NotFoundf("%s %s in %s mirror", req.RecordType, req.RecordID, req.Party)
}

// Detect recomputes every synced party's content hash and pinpoints the
// records whose copies disagree across parties.
func (s *Service) Detect() model.TamperDetection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	detection := model.TamperDetection{
		DivergentParties: []string{},
		DivergentRecords: []model.DivergentRecord{},
	}

	recomputed := map[string]string{}
	synced := []string{}
	for _, party := range model.MirrorParties {
		snap := s.state.Snapshots[party]
		if snap.LastSyncedAt == nil {
			continue
		}
		synced = append(synced, party)
		recomputed[party] = contentHash(snap.Records)
		if recomputed[party] != snap.ContentHash {
			detection.DivergentParties = append(detection.DivergentParties, party)
		}
	}

	// Cross-party check catches a tamper that also refreshed the stored
	// hash: any party whose recomputed hash stands apart from the rest.
	counts := map[string]int{}
	for _, party := range synced {
		counts[recomputed[party]]++
	}
	majority := ""
	for hash, n := range counts {
		if n > counts[majority] {
			majority = hash
		}
	}
	for _, party := range synced {
		if recomputed[party] != majority && !contains(detection.DivergentParties, party) {
			detection.DivergentParties = append(detection.DivergentParties, party)
		}
	}
	sort.Strings(detection.DivergentParties)

	if len(detection.DivergentParties) > 0 {
		detection.TamperingDetected = true
		detection.DivergentRecords = s.divergentRecords(synced)
		detection.Message = fmt.Sprintf("tampering detected in %d mirror(s)", len(detection.DivergentParties))
	} else {
		detection.Message = "all mirrors consistent"
	}
	return detection
}

// divergentRecords diffs record copies across synced parties. Caller
// holds the lock.
func (s *Service) divergentRecords(synced []string) []model.DivergentRecord {
	byID := map[string]map[string]model.MirrorRecord{}
	for _, party := range synced {
		for _, rec := range s.state.Snapshots[party].Records {
			if byID[rec.ID] == nil {
				byID[rec.ID] = map[string]model.MirrorRecord{}
			}
			byID[rec.ID][party] = rec
		}
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []model.DivergentRecord
	for _, id := range ids {
		copies := byID[id]
		hashes := map[string]bool{}
		for _, rec := range copies {
			hashes[contentHash([]model.MirrorRecord{rec})] = true
		}
		if len(hashes) <= 1 && len(copies) == len(synced) {
			continue
		}
		divergent := model.DivergentRecord{
			RecordID:      id,
			ValuesByParty: map[string]map[string]any{},
		}
		for party, rec := range copies {
			divergent.ValuesByParty[party] = rec.Data
		}
		out = append(out, divergent)
	}
	if out == nil {
		out = []model.DivergentRecord{}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Reset clears every mirror. Demo only.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.state.Snapshots
	s.state.Snapshots = make(map[string]*model.MirrorSnapshot)
	for _, party := range model.MirrorParties {
		s.state.Snapshots[party] = &model.MirrorSnapshot{Party: party, Records: []model.MirrorRecord{}}
	}
	if err := s.doc.Save(s.state); err != nil {
		s.state.Snapshots = previous
		return err
	}
	return nil
}
