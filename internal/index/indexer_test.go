package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convosync/convosync/internal/clean"
)

const sampleExport = `{
  "chunkedPrompt": {
    "chunks": [
      {"role": "user", "text": "How do I parse JSON in Go?"},
      {"role": "model", "isThought": true, "text": "let me think"},
      {"role": "model", "text": "Use the encoding/json package."}
    ]
  }
}`

func testSetup(t *testing.T) (*DB, string) {
	t.Helper()
	tmp := t.TempDir()

	root := filepath.Join(tmp, "exports")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "proj"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "proj", "chat.json"), []byte(sampleExport), 0o644))

	db, err := OpenDB(filepath.Join(tmp, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db, root
}

func testCleaner() *clean.Cleaner {
	return clean.NewCleaner(clean.Options{KeepCode: true})
}

func TestDocKey(t *testing.T) {
	assert.Equal(t, "proj/chat", DocKey("/exports", "/exports/proj/chat.json"))
	assert.Equal(t, "top", DocKey("/exports", "/exports/top.json"))
}

func TestIndexAll(t *testing.T) {
	db, root := testSetup(t)

	stats, err := IndexAll(db, root, testCleaner())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Scanned)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 0, stats.Errors)

	docCount, err := db.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, 1, docCount)

	doc, err := db.GetDocumentByKey("proj/chat")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "How do I parse JSON in Go?", doc.Title)
	assert.Equal(t, 1, doc.ThoughtsRemoved)

	msgs, err := db.GetMessages("proj/chat")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "model", msgs[1].Role)
}

func TestIndexAllSkipsUnchanged(t *testing.T) {
	db, root := testSetup(t)

	_, err := IndexAll(db, root, testCleaner())
	require.NoError(t, err)

	stats, err := IndexAll(db, root, testCleaner())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Updated)
	assert.Equal(t, 1, stats.Skipped)
}

func TestIndexAllPrunesDeleted(t *testing.T) {
	db, root := testSetup(t)

	_, err := IndexAll(db, root, testCleaner())
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "proj", "chat.json")))

	stats, err := IndexAll(db, root, testCleaner())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pruned)

	docCount, err := db.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, 0, docCount)
}

func TestIndexAllCountsParseErrors(t *testing.T) {
	db, root := testSetup(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.json"), []byte("{not json"), 0o644))

	stats, err := IndexAll(db, root, testCleaner())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Scanned)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 1, stats.Errors)
}

func TestIndexAllMissingRoot(t *testing.T) {
	tmp := t.TempDir()
	db, err := OpenDB(filepath.Join(tmp, "test.db"))
	require.NoError(t, err)
	defer db.Close()

	stats, err := IndexAll(db, filepath.Join(tmp, "does-not-exist"), testCleaner())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Scanned)
}
