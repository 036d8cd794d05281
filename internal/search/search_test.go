package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convosync/convosync/internal/clean"
	"github.com/convosync/convosync/internal/index"
)

const englishExport = `{
  "chunkedPrompt": {
    "chunks": [
      {"role": "user", "text": "How do I configure logging in production?"},
      {"role": "model", "text": "Point the logger at stderr and rotate files."}
    ]
  }
}`

const cjkExport = `{
  "chunkedPrompt": {
    "chunks": [
      {"role": "user", "text": "如何配置日志系统"},
      {"role": "model", "text": "把日志写到标准错误即可"}
    ]
  }
}`

func testDB(t *testing.T) *index.DB {
	t.Helper()
	tmp := t.TempDir()

	root := filepath.Join(tmp, "exports")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "english.json"), []byte(englishExport), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "chinese.json"), []byte(cjkExport), 0o644))

	db, err := index.OpenDB(filepath.Join(tmp, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cleaner := clean.NewCleaner(clean.Options{KeepCode: true})
	_, err = index.IndexAll(db, root, cleaner)
	require.NoError(t, err)

	return db
}

func TestSearchFTS(t *testing.T) {
	db := testDB(t)

	results, err := Search(db, Options{Query: "logging"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "english", results[0].DocKey)
	assert.Equal(t, "user", results[0].Role)
	assert.Contains(t, results[0].Snippet, ">>>")
	assert.Contains(t, results[0].Snippet, "<<<")
}

func TestSearchRoleFilter(t *testing.T) {
	db := testDB(t)

	results, err := Search(db, Options{Query: "logger", Role: "user"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = Search(db, Options{Query: "logger", Role: "model"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchCJKFallback(t *testing.T) {
	db := testDB(t)

	results, err := Search(db, Options{Query: "日志"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "chinese", results[0].DocKey)
	assert.Contains(t, results[0].Snippet, ">>>日志<<<")
}

func TestSearchDedupsPerDocument(t *testing.T) {
	db := testDB(t)

	// "日志" appears in both messages of the CJK document
	results, err := Search(db, Options{Query: "日志"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchNoResults(t *testing.T) {
	db := testDB(t)

	results, err := Search(db, Options{Query: "nonexistentterm"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestListAll(t *testing.T) {
	db := testDB(t)

	results, err := ListAll(db, Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		assert.Equal(t, -1, r.MsgID)
		assert.Equal(t, "2 messages", r.Snippet)
	}
}

func TestListAllTitleFilter(t *testing.T) {
	db := testDB(t)

	results, err := ListAll(db, Options{Query: "logging"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "english", results[0].DocKey)
}

func TestMakeSnippet(t *testing.T) {
	text := "aaaa target bbbb"
	snippet := makeSnippet(text, "target", 30)
	assert.Equal(t, "aaaa >>>target<<< bbbb", snippet)

	long := "prefix padding words before the needle appears somewhere in a much longer sentence than the context window allows"
	snippet = makeSnippet(long, "needle", 10)
	assert.Contains(t, snippet, ">>>needle<<<")
	assert.True(t, len(snippet) < len(long))
}
