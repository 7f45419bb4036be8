package edugo

import (
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// CacheKey derives the cache key for a generated set: content hash of the
// extracted text plus the requested count. Identical input always yields the
// same key, so duplicate writes for one key are idempotent.
func CacheKey(text string, n int) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:]) + "_" + strconv.Itoa(n)
}

// SetCache stores generated question sets keyed by content hash. Shared
// process-wide; implementations must be safe for concurrent use. Entries
// older than the configured TTL are treated as absent.
type SetCache interface {
	Get(key string) (*QuestionSet, bool)
	Put(key string, set *QuestionSet) error
	Close() error
}

// FileCache keeps one JSON file per cache key in a scratch directory.
type FileCache struct {
	dir string
	ttl time.Duration
}

// NewFileCache creates the scratch directory if needed. A ttl of zero
// disables expiry.
func NewFileCache(dir string, ttl time.Duration) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileCache{dir: dir, ttl: ttl}, nil
}

func (fc *FileCache) path(key string) string {
	return filepath.Join(fc.dir, key+".json")
}

// Get reads the entry for key. Unreadable or expired entries count as
// misses; expired files are removed on the way out.
func (fc *FileCache) Get(key string) (*QuestionSet, bool) {
	data, err := os.ReadFile(fc.path(key))
	if err != nil {
		return nil, false
	}
	var set QuestionSet
	if err := json.Unmarshal(data, &set); err != nil {
		VerboseLog("Discarding unreadable cache entry %s: %v", key, err)
		os.Remove(fc.path(key))
		return nil, false
	}
	if fc.ttl > 0 && time.Since(set.CreatedAt) > fc.ttl {
		os.Remove(fc.path(key))
		return nil, false
	}
	return &set, true
}

// Put writes the entry and sweeps expired siblings. Concurrent writers for
// the same key race harmlessly: the key is content-derived, so last write
// wins with identical data.
func (fc *FileCache) Put(key string, set *QuestionSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal question set: %w", err)
	}
	if err := os.WriteFile(fc.path(key), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	fc.sweep()
	return nil
}

func (fc *FileCache) sweep() {
	if fc.ttl <= 0 {
		return
	}
	entries, err := os.ReadDir(fc.dir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-fc.ttl)
	for _, e := range entries {
		info, err := e.Info()
		if err == nil && info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(fc.dir, e.Name()))
		}
	}
}

func (fc *FileCache) Close() error { return nil }

// SQLiteCache stores entries in a single sqlite table, one row per cache
// key with the set serialized as JSON.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
}

// OpenSQLiteCache opens (and initializes) the cache database.
func OpenSQLiteCache(dbPath string, ttl time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS question_sets (
		cache_key TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}
	return &SQLiteCache{db: db, ttl: ttl}, nil
}

// Get returns the stored set for key, dropping it when expired.
func (sc *SQLiteCache) Get(key string) (*QuestionSet, bool) {
	var body string
	var createdAt time.Time
	err := sc.db.QueryRow(
		"SELECT body, created_at FROM question_sets WHERE cache_key = ?", key,
	).Scan(&body, &createdAt)
	if err != nil {
		if err != sql.ErrNoRows {
			VerboseLog("Cache read failed for %s: %v", key, err)
		}
		return nil, false
	}
	if sc.ttl > 0 && time.Since(createdAt) > sc.ttl {
		sc.db.Exec("DELETE FROM question_sets WHERE cache_key = ?", key)
		return nil, false
	}
	var set QuestionSet
	if err := json.Unmarshal([]byte(body), &set); err != nil {
		VerboseLog("Discarding unreadable cache entry %s: %v", key, err)
		sc.db.Exec("DELETE FROM question_sets WHERE cache_key = ?", key)
		return nil, false
	}
	return &set, true
}

// Put upserts the entry and sweeps expired rows.
func (sc *SQLiteCache) Put(key string, set *QuestionSet) error {
	body, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal question set: %w", err)
	}
	_, err = sc.db.Exec(
		"INSERT OR REPLACE INTO question_sets (cache_key, body, created_at) VALUES (?, ?, ?)",
		key, string(body), set.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if sc.ttl > 0 {
		sc.db.Exec("DELETE FROM question_sets WHERE created_at < ?", time.Now().Add(-sc.ttl))
	}
	return nil
}

// Close closes the underlying database.
func (sc *SQLiteCache) Close() error {
	return sc.db.Close()
}
