// mirror/service_test.go
package mirror

import (
	"os"
	"testing"

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

type fakeSource struct {
	records []model.MirrorRecord
}

func (f *fakeSource) SnapshotRecords() []model.MirrorRecord {
	return f.records
}

func testRecords() []model.MirrorRecord {
	return []model.MirrorRecord{
		{RecordType: "concern", ID: "aaa111", Data: map[string]any{"id": "aaa111", "status": "open"}},
		{RecordType: "submission", ID: "bbb222", Data: map[string]any{"id": "bbb222", "status": "verified"}},
	}
}

func newTestService(records []model.MirrorRecord) *Service {
	return NewService(afero.NewMemMapFs(), "data", &fakeSource{records: records})
}

func TestSyncAllCopiesToEveryParty(t *testing.T) {
	s := newTestService(testRecords())

	result, err := s.SyncAll()
	require.NoError(t, err)
	assert.Equal(t, model.MirrorParties, result.SyncedParties)
	assert.Equal(t, 2, result.RecordCount)

	statuses := s.Status()
	require.Len(t, statuses, 3)
	for _, status := range statuses {
		assert.Equal(t, 2, status.RecordCount)
		assert.NotEmpty(t, status.ContentHash)
		assert.NotNil(t, status.LastSyncedAt)
	}
	assert.Equal(t, statuses[0].ContentHash, statuses[1].ContentHash)
	assert.Equal(t, statuses[1].ContentHash, statuses[2].ContentHash)
}

func TestCompareConsistentAfterSync(t *testing.T) {
	s := newTestService(testRecords())
	_, err := s.SyncAll()
	require.NoError(t, err)

	comparison := s.Compare()
	assert.True(t, comparison.Consistent)
	assert.Empty(t, comparison.DivergentParties)
	assert.Equal(t, "all mirrors agree", comparison.Message)
}

func TestCompareBeforeAnySync(t *testing.T) {
	s := newTestService(testRecords())

	comparison := s.Compare()
	assert.True(t, comparison.Consistent)
	assert.Equal(t, "no mirrors have been synced", comparison.Message)
}

func TestTamperedMirrorDetected(t *testing.T) {
	s := newTestService(testRecords())
	_, err := s.SyncAll()
	require.NoError(t, err)

	require.NoError(t, s.Tamper(model.MirrorTamperRequest{
		Party:      "lab",
		RecordType: "submission",
		RecordID:   "bbb222",
		Field:      "status",
		NewValue:   "rejected",
	}))

	detection := s.Detect()
	assert.True(t, detection.TamperingDetected)
	assert.Equal(t, []string{"lab"}, detection.DivergentParties)
	require.NotEmpty(t, detection.DivergentRecords)
	assert.Equal(t, "bbb222", detection.DivergentRecords[0].RecordID)
	assert.Equal(t, "rejected", detection.DivergentRecords[0].ValuesByParty["lab"]["status"])
	assert.Equal(t, "verified", detection.DivergentRecords[0].ValuesByParty["auditor"]["status"])
}

func TestDetectCleanMirrors(t *testing.T) {
	s := newTestService(testRecords())
	_, err := s.SyncAll()
	require.NoError(t, err)

	detection := s.Detect()
	assert.False(t, detection.TamperingDetected)
	assert.Empty(t, detection.DivergentParties)
	assert.Equal(t, "all mirrors consistent", detection.Message)
}

func TestTamperValidation(t *testing.T) {
	s := newTestService(testRecords())
	_, err := s.SyncAll()
	require.NoError(t, err)

	err = s.Tamper(model.MirrorTamperRequest{Party: "press", RecordType: "concern", RecordID: "aaa111", Field: "status", NewValue: "x"})
	assert.ErrorIs(t, err, ledger_errors.ErrValidation)

	err = s.Tamper(model.MirrorTamperRequest{Party: "lab", RecordType: "concern", RecordID: "missing", Field: "status", NewValue: "x"})
	assert.ErrorIs(t, err, ledger_errors.ErrNotFound)
}

func TestResyncRepairsTamperedMirror(t *testing.T) {
	s := newTestService(testRecords())
	_, err := s.SyncAll()
	require.NoError(t, err)

	require.NoError(t, s.Tamper(model.MirrorTamperRequest{
		Party: "government", RecordType: "concern", RecordID: "aaa111", Field: "status", NewValue: "resolved",
	}))
	require.True(t, s.Detect().TamperingDetected)

	_, err = s.SyncAll()
	require.NoError(t, err)
	assert.False(t, s.Detect().TamperingDetected)
}

func TestEmptySnapshotHasNoHash(t *testing.T) {
	s := newTestService(nil)
	_, err := s.SyncAll()
	require.NoError(t, err)

	for _, status := range s.Status() {
		assert.Equal(t, "", status.ContentHash)
	}
	comparison := s.Compare()
	assert.True(t, comparison.Consistent)
	assert.False(t, s.Detect().TamperingDetected)
}

func TestMirrorsSurviveReload(t *testing.T) {
	fs := afero.NewMemMapFs()
	source := &fakeSource{records: testRecords()}
	s := NewService(fs, "data", source)
	_, err := s.SyncAll()
	require.NoError(t, err)

	reloaded := NewService(fs, "data", source)
	statuses := reloaded.Status()
	require.Len(t, statuses, 3)
	assert.Equal(t, 2, statuses[0].RecordCount)
	assert.True(t, reloaded.Compare().Consistent)
}

func TestReset(t *testing.T) {
	s := newTestService(testRecords())
	_, err := s.SyncAll()
	require.NoError(t, err)

	require.NoError(t, s.Reset())
	for _, status := range s.Status() {
		assert.Zero(t, status.RecordCount)
		assert.Nil(t, status.LastSyncedAt)
	}
}
