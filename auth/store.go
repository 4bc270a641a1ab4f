// auth/store.go
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
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

// StorageFile is the party store's document name.
const StorageFile = "auth.json"

// KeyWarning accompanies every key issuance.
const KeyWarning = "Store this API key securely. It cannot be retrieved again."

type state struct {
	Parties []model.Party `json:"parties"`
}

// Store holds registered parties and verifies their API keys. Raw keys
// never touch disk; only SHA-256 digests are persisted.
type Store struct {
	mu    sync.RWMutex
	state state
	doc   *storage.Document
}

// NewStore loads the party store from dir on fs.
func NewStore(fs afero.Fs, dir string) *Store {
	s := &Store{doc: storage.NewDocument(fs, filepath.Join(dir, StorageFile))}
	if s.doc.Load(&s.state) {
		logger.Info("Auth store loaded", zap.Int("parties", len(s.state.Parties)))
	}
	return s
}

// newAPIKey mints an opaque bearer key: a recognizable prefix plus
// 32 random bytes, base64url without padding.
func newAPIKey() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return "afr_" + base64.RawURLEncoding.EncodeToString(buf)
}

// HashKey digests a raw API key for storage and lookup.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Register creates a party and issues its only copy of the API key.
func (s *Store) Register(name string, role model.Role) (model.Registration, error) {
	if !role.Valid() {
		return model.Registration{}, ledger_errors.Validationf("unknown role %q", role)
	}

	key := newAPIKey()
	party := model.Party{
		PartyID:   "party_" + crypto.RandomHex(8),
		Name:      name,
		Role:      role,
		KeyHash:   HashKey(key),
		CreatedAt: crypto.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Parties = append(s.state.Parties, party)
	if err := s.doc.Save(s.state); err != nil {
		s.state.Parties = s.state.Parties[:len(s.state.Parties)-1]
		return model.Registration{}, err
	}

	logger.Info("Party registered",
		zap.String("partyID", party.PartyID),
		zap.String("role", string(role)))
	return model.Registration{
		PartyID: party.PartyID,
		Name:    name,
		Role:    role,
		APIKey:  key,
		Warning: KeyWarning,
	}, nil
}

// VerifyKey resolves a raw API key to its active party.
func (s *Store) VerifyKey(key string) (model.Party, error) {
	hash := HashKey(key)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, party := range s.state.Parties {
		if party.KeyHash == hash && !party.Revoked {
			return party, nil
		}
	}
	return model.Party{}, ledger_errors.ErrUnauthorized
}

// Get returns one party's public info.
func (s *Store) Get(partyID string) (model.PartyInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, party := range s.state.Parties {
		if party.PartyID == partyID {
			return party.Info(), nil
		}
	}
	return model.PartyInfo{}, ledger_errors.NotFoundf("party %s", partyID)
}

// List returns every party's public info, registration order.
func (s *Store) List() []model.PartyInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.PartyInfo, 0, len(s.state.Parties))
	for _, party := range s.state.Parties {
		out = append(out, party.Info())
	}
	return out
}

// Rotate replaces a party's key. The old key stops working immediately.
func (s *Store) Rotate(partyID string) (model.KeyRotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Parties {
		if s.state.Parties[i].PartyID != partyID {
			continue
		}
		if s.state.Parties[i].Revoked {
			return model.KeyRotation{}, ledger_errors.Statef("party %s is revoked", partyID)
		}
		key := newAPIKey()
		previousHash := s.state.Parties[i].KeyHash
		s.state.Parties[i].KeyHash = HashKey(key)
		if err := s.doc.Save(s.state); err != nil {
			s.state.Parties[i].KeyHash = previousHash
			return model.KeyRotation{}, err
		}
		logger.Info("API key rotated", zap.String("partyID", partyID))
		return model.KeyRotation{PartyID: partyID, APIKey: key, Warning: KeyWarning}, nil
	}
	return model.KeyRotation{}, ledger_errors.NotFoundf("party %s", partyID)
}

// Revoke deactivates a party; its key stops verifying but the record
// stays listed for audit.
func (s *Store) Revoke(partyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Parties {
		if s.state.Parties[i].PartyID != partyID {
			continue
		}
		if s.state.Parties[i].Revoked {
			return ledger_errors.Statef("party %s is already revoked", partyID)
		}
		s.state.Parties[i].Revoked = true
		if err := s.doc.Save(s.state); err != nil {
			s.state.Parties[i].Revoked = false
			return err
		}
		logger.Info("Party revoked", zap.String("partyID", partyID))
		return nil
	}
	return ledger_errors.NotFoundf("party %s", partyID)
}

// Reset clears the store. Demo only.
func (s *Store) Reset() error {
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
