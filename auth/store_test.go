// auth/store_test.go
package auth

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledger_errors "github.com/zukapustikova/ai-governance-transparency-ledger/errors"
	logger "github.com/zukapustikova/ai-governance-transparency-ledger/logging"
	"github.com/zukapustikova/ai-governance-transparency-ledger/model"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func newTestStore() *Store {
	return NewStore(afero.NewMemMapFs(), "data")
}

func TestRegisterIssuesKeyOnce(t *testing.T) {
	s := newTestStore()

	reg, err := s.Register("Frontier Lab", model.RoleLab)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reg.PartyID, "party_"))
	assert.Len(t, reg.PartyID, len("party_")+16)
	assert.True(t, strings.HasPrefix(reg.APIKey, "afr_"))
	assert.NotEmpty(t, reg.Warning)

	// Only the digest is retained.
	info, err := s.Get(reg.PartyID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleLab, info.Role)
	assert.False(t, info.Revoked)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	s := newTestStore()

	_, err := s.Register("Someone", "journalist")
	assert.ErrorIs(t, err, ledger_errors.ErrValidation)
}

func TestVerifyKey(t *testing.T) {
	s := newTestStore()
	reg, err := s.Register("Auditor Co", model.RoleAuditor)
	require.NoError(t, err)

	party, err := s.VerifyKey(reg.APIKey)
	require.NoError(t, err)
	assert.Equal(t, reg.PartyID, party.PartyID)
	assert.Equal(t, model.RoleAuditor, party.Role)

	_, err = s.VerifyKey("afr_not-a-real-key")
	assert.ErrorIs(t, err, ledger_errors.ErrUnauthorized)
}

func TestRotateInvalidatesOldKey(t *testing.T) {
	s := newTestStore()
	reg, err := s.Register("Lab", model.RoleLab)
	require.NoError(t, err)

	rotation, err := s.Rotate(reg.PartyID)
	require.NoError(t, err)
	assert.NotEqual(t, reg.APIKey, rotation.APIKey)

	_, err = s.VerifyKey(reg.APIKey)
	assert.ErrorIs(t, err, ledger_errors.ErrUnauthorized)

	party, err := s.VerifyKey(rotation.APIKey)
	require.NoError(t, err)
	assert.Equal(t, reg.PartyID, party.PartyID)
}

func TestRevokeStopsVerification(t *testing.T) {
	s := newTestStore()
	reg, err := s.Register("Gov Agency", model.RoleGovernment)
	require.NoError(t, err)

	require.NoError(t, s.Revoke(reg.PartyID))

	_, err = s.VerifyKey(reg.APIKey)
	assert.ErrorIs(t, err, ledger_errors.ErrUnauthorized)

	info, err := s.Get(reg.PartyID)
	require.NoError(t, err)
	assert.True(t, info.Revoked)

	assert.ErrorIs(t, s.Revoke(reg.PartyID), ledger_errors.ErrState)
	_, err = s.Rotate(reg.PartyID)
	assert.ErrorIs(t, err, ledger_errors.ErrState)
}

func TestRevokeAndRotateUnknownParty(t *testing.T) {
	s := newTestStore()

	assert.ErrorIs(t, s.Revoke("party_unknown"), ledger_errors.ErrNotFound)
	_, err := s.Rotate("party_unknown")
	assert.ErrorIs(t, err, ledger_errors.ErrNotFound)
}

func TestListKeepsRegistrationOrder(t *testing.T) {
	s := newTestStore()
	first, err := s.Register("One", model.RoleLab)
	require.NoError(t, err)
	second, err := s.Register("Two", model.RoleAuditor)
	require.NoError(t, err)

	parties := s.List()
	require.Len(t, parties, 2)
	assert.Equal(t, first.PartyID, parties[0].PartyID)
	assert.Equal(t, second.PartyID, parties[1].PartyID)
}

func TestStoreSurvivesReload(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewStore(fs, "data")
	reg, err := s.Register("Lab", model.RoleLab)
	require.NoError(t, err)

	reloaded := NewStore(fs, "data")
	party, err := reloaded.VerifyKey(reg.APIKey)
	require.NoError(t, err)
	assert.Equal(t, reg.PartyID, party.PartyID)
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "attempt %d", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "sixth attempt inside the window")

	// A different client is unaffected.
	assert.True(t, rl.Allow("10.0.0.2"))

	// The window slides: a minute later the budget is back.
	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiterReset(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))

	rl.Reset()
	assert.True(t, rl.Allow("k"))
}
