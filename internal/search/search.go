package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/convosync/convosync/internal/index"
)

type Result struct {
	DocKey    string
	MsgID     int
	UpdatedAt string
	Title     string
	Snippet   string
	Role      string
	Rank      float64
}

type Options struct {
	Query string
	Role  string // "" = all, "user", "model"
	Since string // "" = no filter, e.g. "2024-01-01"
	Limit int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	if idx < 0 {
		// no match, return head
		if len([]rune(text)) > contextChars*2 {
			return string([]rune(text)[:contextChars*2]) + "..."
		}
		return text
	}
	runes := []rune(text)
	qRunes := []rune(query)
	runePos := len([]rune(text[:idx]))
	start := runePos - contextChars
	if start < 0 {
		start = 0
	}
	end := runePos + len(qRunes) + contextChars
	if end > len(runes) {
		end = len(runes)
	}
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+len(qRunes)]) + "<<<" +
		string(runes[runePos+len(qRunes):end])
	return prefix + snippet + suffix
}

// Search queries the cleaned-message index. FTS5 handles most queries;
// CJK queries fall back to LIKE since unicode61 does not segment Han text.
func Search(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	// Fetch more results before dedup so we still have enough after
	origLimit := opts.Limit
	opts.Limit = origLimit * 3

	var results []Result
	var err error
	if containsCJK(opts.Query) {
		results, err = searchLike(db, opts)
	} else {
		results, err = searchFTS(db, opts)
	}
	if err != nil {
		return nil, err
	}

	// Deduplicate: keep only the best-ranked result per document
	seen := make(map[string]bool)
	var deduped []Result
	for _, r := range results {
		if seen[r.DocKey] {
			continue
		}
		seen[r.DocKey] = true
		deduped = append(deduped, r)
		if len(deduped) >= origLimit {
			break
		}
	}
	return deduped, nil
}

// ListAll returns every indexed document sorted by update time, newest
// first, optionally filtered by title substring.
func ListAll(db *index.DB, opts Options) ([]Result, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 500
	}

	var conditions []string
	var args []interface{}

	if opts.Query != "" {
		conditions = append(conditions, "d.title LIKE ?")
		args = append(args, "%"+opts.Query+"%")
	}
	if opts.Since != "" {
		conditions = append(conditions, "d.updated_at >= ?")
		args = append(args, opts.Since)
	}

	where := "1=1"
	if len(conditions) > 0 {
		where = strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT d.doc_key, d.updated_at, d.title, d.message_count
		FROM documents d
		WHERE %s
		ORDER BY d.updated_at DESC
		LIMIT ?
	`, where)
	args = append(args, limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var msgCount int
		if err := rows.Scan(&r.DocKey, &r.UpdatedAt, &r.Title, &msgCount); err != nil {
			return nil, err
		}
		r.MsgID = -1
		r.Snippet = fmt.Sprintf("%d messages", msgCount)
		results = append(results, r)
	}
	return results, rows.Err()
}

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	var conditions []string
	var args []interface{}

	conditions = append(conditions, "messages_fts MATCH ?")
	args = append(args, opts.Query)

	if opts.Role != "" {
		conditions = append(conditions, "m.role = ?")
		args = append(args, opts.Role)
	}

	if opts.Since != "" {
		conditions = append(conditions, "d.updated_at >= ?")
		args = append(args, opts.Since)
	}

	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT
			m.doc_key,
			m.msg_id,
			d.updated_at,
			d.title,
			snippet(messages_fts, 0, '>>>', '<<<', '...', 40) as snip,
			m.role,
			bm25(messages_fts, 1.0) as rank
		FROM messages_fts
		JOIN messages m ON messages_fts.rowid = m.rowid
		JOIN documents d ON m.doc_key = d.doc_key
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, where)

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	var conditions []string
	var args []interface{}

	// LIKE match for CJK substring search
	conditions = append(conditions, "m.text LIKE ?")
	args = append(args, "%"+opts.Query+"%")

	if opts.Role != "" {
		conditions = append(conditions, "m.role = ?")
		args = append(args, opts.Role)
	}

	if opts.Since != "" {
		conditions = append(conditions, "d.updated_at >= ?")
		args = append(args, opts.Since)
	}

	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT
			m.doc_key,
			m.msg_id,
			d.updated_at,
			d.title,
			m.text,
			m.role
		FROM messages m
		JOIN documents d ON m.doc_key = d.doc_key
		WHERE %s
		ORDER BY d.updated_at DESC
		LIMIT ?
	`, where)

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var fullText string
		if err := rows.Scan(
			&r.DocKey, &r.MsgID, &r.UpdatedAt,
			&r.Title, &fullText, &r.Role,
		); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(fullText, opts.Query, 30)
		r.Rank = 0
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.DocKey, &r.MsgID, &r.UpdatedAt,
			&r.Title, &r.Snippet, &r.Role, &r.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
