// storage/document_test.go
package storage

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logger "github.com/zukapustikova/ai-governance-transparency-ledger/logging"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestDocumentRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := NewDocument(fs, "data/test.json")

	require.NoError(t, doc.Save(payload{Name: "ledger", Count: 3}))

	var got payload
	assert.True(t, doc.Load(&got))
	assert.Equal(t, payload{Name: "ledger", Count: 3}, got)
}

func TestDocumentSaveWritesCanonicalJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := NewDocument(fs, "data/test.json")

	require.NoError(t, doc.Save(map[string]any{"b": 2, "a": 1}))

	data, err := afero.ReadFile(fs, "data/test.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2}`, string(data))

	exists, err := afero.Exists(fs, "data/test.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists, "temp file should not survive a save")
}

func TestDocumentLoadMissingFile(t *testing.T) {
	doc := NewDocument(afero.NewMemMapFs(), "data/missing.json")

	var got payload
	assert.False(t, doc.Load(&got))
	assert.Zero(t, got)
}

func TestDocumentLoadEmptyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/empty.json", nil, 0o644))

	var got payload
	assert.False(t, NewDocument(fs, "data/empty.json").Load(&got))
}

func TestDocumentLoadCorruptFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/bad.json", []byte("{not json"), 0o644))

	var got payload
	assert.False(t, NewDocument(fs, "data/bad.json").Load(&got))
}

func TestDocumentSaveOverwrites(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := NewDocument(fs, "data/test.json")

	require.NoError(t, doc.Save(payload{Name: "first"}))
	require.NoError(t, doc.Save(payload{Name: "second", Count: 2}))

	var got payload
	require.True(t, doc.Load(&got))
	assert.Equal(t, "second", got.Name)
}

func TestDocumentRemove(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := NewDocument(fs, "data/test.json")

	require.NoError(t, doc.Save(payload{Name: "gone"}))
	require.NoError(t, doc.Remove())
	require.NoError(t, doc.Remove())

	var got payload
	assert.False(t, doc.Load(&got))
}
