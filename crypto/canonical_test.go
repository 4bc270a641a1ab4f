// crypto/canonical_test.go
package crypto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalJSONSortsKeysAtEveryDepth(t *testing.T) {
	b, err := CanonicalJSON(map[string]any{
		"zeta":  1,
		"alpha": map[string]any{"nested_z": true, "nested_a": "v"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":{"nested_a":"v","nested_z":true},"zeta":1}`, string(b))
}

func TestCanonicalJSONCompactAndUnescaped(t *testing.T) {
	b, err := CanonicalJSON(map[string]any{"url": "https://a.example/x?y=1&z=<2>"})
	require.NoError(t, err)
	assert.Equal(t, `{"url":"https://a.example/x?y=1&z=<2>"}`, string(b))
}

func TestCanonicalJSONPreservesNumbers(t *testing.T) {
	b, err := CanonicalJSON(map[string]any{"count": 7, "score": 0.97})
	require.NoError(t, err)
	assert.Equal(t, `{"count":7,"score":0.97}`, string(b))
}

func TestCanonicalJSONStableAcrossCalls(t *testing.T) {
	v := map[string]any{"b": []any{1, "two", map[string]any{"y": 0, "x": 1}}, "a": nil}
	first, err := CanonicalJSON(v)
	require.NoError(t, err)
	second, err := CanonicalJSON(v)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNowIsUTCSecondPrecision(t *testing.T) {
	now := Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond())

	b, err := CanonicalJSON(map[string]any{"ts": now})
	require.NoError(t, err)
	assert.Equal(t, `{"ts":"`+now.Format(TimeLayout)+`"}`, string(b))
}

func TestHashDataMatchesKnownDigest(t *testing.T) {
	// SHA256(`{"a":1}`)
	got, err := HashData(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, HashString(`{"a":1}`), got)
	assert.True(t, IsHexHash(got))
}

func TestHashWithPreviousConcatenatesASCIIHex(t *testing.T) {
	prev := GenesisHash
	got, err := HashWithPrevious(map[string]any{"a": 1}, prev)
	require.NoError(t, err)
	assert.Equal(t, HashString(`{"a":1}`+prev), got)
}

func TestCombineHashesConcatenatesHexStrings(t *testing.T) {
	left := HashString("l")
	right := HashString("r")
	assert.Equal(t, HashString(left+right), CombineHashes(left, right))
}

func TestAnonymousID(t *testing.T) {
	id := AnonymousID("reporter@example.org", "salt-1")
	assert.Len(t, id, len("anon_")+12)
	assert.True(t, VerifyAnonymousID("reporter@example.org", "salt-1", id))
	assert.False(t, VerifyAnonymousID("reporter@example.org", "salt-2", id))
	assert.NotEqual(t, id, AnonymousID("reporter@example.org", "salt-2"))
}

func TestIsHexHash(t *testing.T) {
	assert.True(t, IsHexHash(GenesisHash))
	assert.True(t, IsHexHash(HashString("x")))
	assert.False(t, IsHexHash("short"))
	assert.False(t, IsHexHash(GenesisHash[:63]+"G"))
}

func TestRandomIdentifiers(t *testing.T) {
	a := NewRecordID()
	b := NewRecordID()
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
	assert.Len(t, RandomHex(32), 64)
}
