package index

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/convosync/convosync/internal/clean"
	"github.com/convosync/convosync/internal/scan"
	"github.com/convosync/convosync/internal/transcript"
)

// titleMax bounds the stored document title.
const titleMax = 200

type Stats struct {
	Scanned int
	Updated int
	Skipped int
	Pruned  int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors)
}

// IndexAll scans root for exports, cleans each with cleaner, and indexes
// the cleaned messages. Unchanged files (same mtime and size) are
// skipped; documents whose source file disappeared are pruned.
func IndexAll(db *DB, root string, cleaner *clean.Cleaner) (Stats, error) {
	var stats Stats

	files, err := scan.ScanRoot(root)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	seenKeys := make(map[string]struct{})

	for _, fi := range files {
		docKey := DocKey(root, fi.Path)
		seenKeys[docKey] = struct{}{}

		needs, err := needsUpdate(db, docKey, fi.Mtime, fi.Size)
		if err != nil {
			stats.Errors++
			continue
		}
		if !needs {
			stats.Skipped++
			continue
		}

		doc, err := transcript.Load(fi.Path)
		if err != nil {
			stats.Errors++
			log.Warn("parse failed", "file", fi.Path, "err", err)
			continue
		}

		normalized, cleanStats := cleaner.Clean(doc)
		if cleanStats.SkippedChunks > 0 {
			log.Warn("skipped malformed chunks", "file", fi.Path, "count", cleanStats.SkippedChunks)
		}

		if err := indexDocument(db, docKey, fi, normalized, cleanStats); err != nil {
			stats.Errors++
			log.Warn("index failed", "file", fi.Path, "err", err)
			continue
		}
		stats.Updated++
	}

	pruned, err := pruneDocuments(db, seenKeys)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	return stats, nil
}

// DocKey derives a stable document key from the export path.
func DocKey(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), ".json")
}

func needsUpdate(db *DB, docKey string, mtime, size int64) (bool, error) {
	info, err := db.GetDocInfo(docKey)
	if err != nil {
		return false, err
	}
	if info == nil {
		return true, nil // new document
	}
	return info.Mtime != mtime || info.Size != size, nil
}

func indexDocument(db *DB, docKey string, fi scan.FileInfo, doc *transcript.NormalizedDocument, cs clean.Stats) error {
	// delete old data first
	if err := db.DeleteDocument(docKey); err != nil {
		return err
	}

	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	chunks := doc.MessageChunks()

	_, err = tx.Exec(
		`INSERT INTO documents (doc_key, file_path, title, updated_at, message_count,
		                        user_count, model_count, thoughts_removed, code_removed, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		docKey,
		fi.Path,
		deriveTitle(chunks),
		time.Unix(fi.Mtime, 0).UTC().Format("2006-01-02T15:04:05Z"),
		cs.TotalChunks,
		cs.UserCount,
		cs.ModelCount,
		cs.RemovedThoughtCount,
		cs.RemovedCodeBlockCount,
		fi.Mtime,
		fi.Size,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		"INSERT INTO messages (doc_key, msg_id, role, text) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	msgID := 0
	for _, c := range chunks {
		if c.IsPassthrough() || c.Text == nil || strings.TrimSpace(*c.Text) == "" {
			continue
		}
		if _, err := stmt.Exec(docKey, msgID, c.Role, *c.Text); err != nil {
			return err
		}
		msgID++
	}

	return tx.Commit()
}

// deriveTitle uses the first non-empty user message, falling back to the
// first message of any role.
func deriveTitle(chunks []transcript.NormalizedChunk) string {
	title := ""
	for _, c := range chunks {
		if c.IsPassthrough() || c.Text == nil {
			continue
		}
		text := strings.TrimSpace(*c.Text)
		if text == "" {
			continue
		}
		if title == "" {
			title = text
		}
		if c.Role == transcript.RoleUser {
			title = text
			break
		}
	}
	title = strings.ReplaceAll(title, "\n", " ")
	if len(title) > titleMax {
		title = title[:titleMax]
	}
	return title
}

func pruneDocuments(db *DB, seenKeys map[string]struct{}) (int, error) {
	allKeys, err := db.AllDocKeys()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for key := range allKeys {
		if _, ok := seenKeys[key]; !ok {
			if err := db.DeleteDocument(key); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
