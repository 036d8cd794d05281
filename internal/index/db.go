package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS documents (
    doc_key        TEXT PRIMARY KEY,
    file_path      TEXT NOT NULL,
    title          TEXT NOT NULL DEFAULT '',
    updated_at     TEXT NOT NULL DEFAULT '',
    message_count  INTEGER NOT NULL DEFAULT 0,
    user_count     INTEGER NOT NULL DEFAULT 0,
    model_count    INTEGER NOT NULL DEFAULT 0,
    thoughts_removed INTEGER NOT NULL DEFAULT 0,
    code_removed   INTEGER NOT NULL DEFAULT 0,
    mtime          INTEGER NOT NULL DEFAULT 0,
    size           INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS messages (
    doc_key TEXT NOT NULL,
    msg_id  INTEGER NOT NULL,
    role    TEXT NOT NULL,
    text    TEXT NOT NULL,
    PRIMARY KEY (doc_key, msg_id)
);

CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
    text,
    content=messages,
    content_rowid=rowid,
    tokenize='unicode61'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, text) VALUES (new.rowid, new.text);
END;

CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, text) VALUES('delete', old.rowid, old.text);
END;

CREATE TRIGGER IF NOT EXISTS messages_au AFTER UPDATE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, text) VALUES('delete', old.rowid, old.text);
    INSERT INTO messages_fts(rowid, text) VALUES (new.rowid, new.text);
END;
`

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	// schema version tracking for forced re-index
	db.Exec("CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT)")
	d := &DB{db: db}
	d.migrateSchemaVersion()

	return d, nil
}

// schemaVersion should be bumped whenever cleaning or indexing logic
// changes in a way that alters the stored text, to force a re-index.
const schemaVersion = "1"

func (d *DB) migrateSchemaVersion() {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err != nil || ver != schemaVersion {
		d.db.Exec("UPDATE documents SET mtime = 0, size = 0")
		d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	}
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

type DocInfo struct {
	Mtime int64
	Size  int64
}

func (d *DB) GetDocInfo(docKey string) (*DocInfo, error) {
	var info DocInfo
	err := d.db.QueryRow(
		"SELECT mtime, size FROM documents WHERE doc_key = ?",
		docKey,
	).Scan(&info.Mtime, &info.Size)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (d *DB) AllDocKeys() (map[string]struct{}, error) {
	rows, err := d.db.Query("SELECT doc_key FROM documents")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys[k] = struct{}{}
	}
	return keys, rows.Err()
}

func (d *DB) DeleteDocument(docKey string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE doc_key = ?", docKey); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM documents WHERE doc_key = ?", docKey); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) DocumentCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&n)
	return n, err
}

func (d *DB) MessageCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n)
	return n, err
}

type DocumentRow struct {
	DocKey          string
	FilePath        string
	Title           string
	UpdatedAt       string
	MessageCount    int
	UserCount       int
	ModelCount      int
	ThoughtsRemoved int
	CodeRemoved     int
}

func (d *DB) GetDocumentByKey(docKey string) (*DocumentRow, error) {
	var doc DocumentRow
	err := d.db.QueryRow(
		`SELECT doc_key, file_path, title, updated_at, message_count,
		        user_count, model_count, thoughts_removed, code_removed
		 FROM documents WHERE doc_key = ?`,
		docKey,
	).Scan(&doc.DocKey, &doc.FilePath, &doc.Title, &doc.UpdatedAt, &doc.MessageCount,
		&doc.UserCount, &doc.ModelCount, &doc.ThoughtsRemoved, &doc.CodeRemoved)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

type MessageRow struct {
	DocKey string
	MsgID  int
	Role   string
	Text   string
}

func (d *DB) GetMessages(docKey string) ([]MessageRow, error) {
	rows, err := d.db.Query(
		"SELECT doc_key, msg_id, role, text FROM messages WHERE doc_key = ? ORDER BY msg_id",
		docKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []MessageRow
	for rows.Next() {
		var m MessageRow
		if err := rows.Scan(&m.DocKey, &m.MsgID, &m.Role, &m.Text); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// GetMessagesWindow returns a window of messages around a hit message,
// loading only the necessary rows. startPos is the number of messages
// before the returned window; totalCount is the document's total.
func (d *DB) GetMessagesWindow(docKey string, hitMsgID, context int) (msgs []MessageRow, hitIdx int, startPos int, totalCount int, err error) {
	err = d.db.QueryRow(
		"SELECT COUNT(*) FROM messages WHERE doc_key = ?", docKey,
	).Scan(&totalCount)
	if err != nil {
		return nil, -1, 0, 0, err
	}

	// find the 0-based position of the hit message
	hitPos := -1
	if hitMsgID >= 0 {
		err = d.db.QueryRow(`
			SELECT pos FROM (
				SELECT msg_id, ROW_NUMBER() OVER (ORDER BY msg_id) - 1 AS pos
				FROM messages WHERE doc_key = ?
			) WHERE msg_id = ?`,
			docKey, hitMsgID,
		).Scan(&hitPos)
		if err == sql.ErrNoRows {
			hitPos = -1
			err = nil
		} else if err != nil {
			return nil, -1, 0, 0, err
		}
	}

	startPos = 0
	limit := totalCount
	if hitPos >= 0 {
		startPos = hitPos - context
		if startPos < 0 {
			startPos = 0
		}
		endPos := hitPos + context + 1
		if endPos > totalCount {
			endPos = totalCount
		}
		limit = endPos - startPos
	}

	rows, err := d.db.Query(
		"SELECT doc_key, msg_id, role, text FROM messages WHERE doc_key = ? ORDER BY msg_id LIMIT ? OFFSET ?",
		docKey, limit, startPos,
	)
	if err != nil {
		return nil, -1, 0, 0, err
	}
	defer rows.Close()

	var result []MessageRow
	localHitIdx := -1
	for rows.Next() {
		var m MessageRow
		if err := rows.Scan(&m.DocKey, &m.MsgID, &m.Role, &m.Text); err != nil {
			return nil, -1, 0, 0, err
		}
		if m.MsgID == hitMsgID {
			localHitIdx = len(result)
		}
		result = append(result, m)
	}
	return result, localHitIdx, startPos, totalCount, rows.Err()
}
