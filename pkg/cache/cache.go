// Package cache persists fetched graph snapshots in a local sqlite database
// keyed by conversation id, so a previously viewed conversation opens
// offline. Only the raw snapshot is stored; layout and session state are
// always recomputed.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kraitsura/insight_viewer/pkg/model"
)

// DB handles snapshot persistence.
type DB struct {
	db *sql.DB
}

// Open opens or creates the snapshot cache at the given path.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open(sqliteDriver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	c := &DB{db: db}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return c, nil
}

// Close closes the database connection
func (c *DB) Close() error {
	return c.db.Close()
}

func (c *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		conversation_id TEXT PRIMARY KEY,
		data_hash TEXT NOT NULL,
		payload TEXT NOT NULL,
		fetched_at DATETIME NOT NULL
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Put stores or replaces the snapshot for a conversation.
func (c *DB) Put(g model.InsightGraph) error {
	if g.ConversationID == "" {
		return fmt.Errorf("snapshot has no conversation id")
	}
	payload, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = c.db.Exec(`
		INSERT INTO snapshots (conversation_id, data_hash, payload, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(conversation_id) DO UPDATE SET
			data_hash = excluded.data_hash,
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`, g.ConversationID, ComputeDataHash(g), string(payload), time.Now())
	return err
}

// Get retrieves the cached snapshot for a conversation. The bool reports
// whether one was found.
func (c *DB) Get(conversationID string) (model.InsightGraph, bool, error) {
	var payload string
	err := c.db.QueryRow(`
		SELECT payload FROM snapshots WHERE conversation_id = ?
	`, conversationID).Scan(&payload)
	if err == sql.ErrNoRows {
		return model.InsightGraph{}, false, nil
	}
	if err != nil {
		return model.InsightGraph{}, false, err
	}

	var g model.InsightGraph
	if err := json.Unmarshal([]byte(payload), &g); err != nil {
		return model.InsightGraph{}, false, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return g, true, nil
}

// Hash returns the stored data hash for a conversation, or "" when absent.
func (c *DB) Hash(conversationID string) (string, error) {
	var hash string
	err := c.db.QueryRow(`
		SELECT data_hash FROM snapshots WHERE conversation_id = ?
	`, conversationID).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return hash, err
}

// ComputeDataHash produces a stable fingerprint of a snapshot's content,
// independent of node/edge ordering.
func ComputeDataHash(g model.InsightGraph) string {
	parts := make([]string, 0, len(g.Nodes)+len(g.Edges))
	for _, n := range g.Nodes {
		parts = append(parts, "n:"+n.ID+":"+string(n.Type)+":"+n.Label)
	}
	for _, e := range g.Edges {
		parts = append(parts, "e:"+e.ID+":"+e.Source+":"+e.Target)
	}
	sort.Strings(parts)

	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
