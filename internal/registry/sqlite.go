package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/rtlsmith/rtlsmith/internal/domain"
)

// SQLiteRegistry stores one row per workflow. The artifacts column holds
// a JSON object mapping keys to path lists; reads tolerate foreign or
// hand-edited shapes and normalize them instead of failing.
type SQLiteRegistry struct {
	db   *sql.DB
	path string
	log  *logrus.Logger
}

// NewSQLiteRegistry opens (creating if needed) the registry database.
func NewSQLiteRegistry(path string, log *logrus.Logger) (*SQLiteRegistry, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, domain.NewError("registry", path, "failed to create registry directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, domain.NewError("registry", path, "failed to open registry database", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		log.Debugf("failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Debugf("failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		log.Debugf("failed to set sqlite synchronous=NORMAL: %v", err)
	}

	r := &SQLiteRegistry{db: db, path: path, log: log}
	if err := r.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRegistry) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workflows (
		id TEXT PRIMARY KEY,
		artifacts TEXT NOT NULL DEFAULT '{}'
	);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return domain.NewError("registry", r.path, "failed to initialize registry schema", err)
	}
	return nil
}

// Append records path under key for the workflow, skipping duplicates.
// An empty path is a caller bug worth logging, not worth failing a run.
func (r *SQLiteRegistry) Append(ctx context.Context, workflowID, key, path string) error {
	if path == "" {
		r.log.Warnf("skipping registry append for workflow %s: empty path for key %s", workflowID, key)
		return nil
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO workflows (id, artifacts) VALUES (?, '{}')`, workflowID); err != nil {
		return domain.NewError("registry", r.path, "failed to create workflow record", err)
	}

	var raw string
	if err := r.db.QueryRowContext(ctx,
		`SELECT artifacts FROM workflows WHERE id = ?`, workflowID).Scan(&raw); err != nil {
		return domain.NewError("registry", r.path, "failed to load workflow record", err)
	}

	artifacts := parseArtifacts([]byte(raw))
	for _, existing := range artifacts[key] {
		if existing == path {
			return nil
		}
	}
	artifacts[key] = append(artifacts[key], path)

	encoded, err := json.Marshal(artifacts)
	if err != nil {
		return domain.NewError("registry", r.path, "failed to encode workflow record", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE workflows SET artifacts = ? WHERE id = ?`, string(encoded), workflowID); err != nil {
		return domain.NewError("registry", r.path, "failed to update workflow record", err)
	}
	return nil
}

// Reset clears the artifact map for one workflow, keeping the row.
func (r *SQLiteRegistry) Reset(ctx context.Context, workflowID string) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO workflows (id, artifacts) VALUES (?, '{}')`, workflowID); err != nil {
		return domain.NewError("registry", r.path, "failed to create workflow record", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE workflows SET artifacts = '{}' WHERE id = ?`, workflowID); err != nil {
		return domain.NewError("registry", r.path, "failed to reset workflow record", err)
	}
	return nil
}

// Records returns the normalized artifact map for a workflow. Unknown
// workflows yield an empty map.
func (r *SQLiteRegistry) Records(ctx context.Context, workflowID string) (map[string][]string, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT artifacts FROM workflows WHERE id = ?`, workflowID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, domain.NewError("registry", r.path, "failed to load workflow record", err)
	}
	return parseArtifacts([]byte(raw)), nil
}

// Close releases the database handle.
func (r *SQLiteRegistry) Close() error {
	return r.db.Close()
}

// parseArtifacts normalizes a stored artifact map. Unparseable content
// degrades to an empty map, a bare string becomes a one-element list,
// and any other value shape resets that key to an empty list.
func parseArtifacts(raw []byte) map[string][]string {
	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return map[string][]string{}
	}

	out := make(map[string][]string, len(loose))
	for key, val := range loose {
		switch v := val.(type) {
		case []any:
			paths := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					paths = append(paths, s)
				}
			}
			out[key] = paths
		case string:
			out[key] = []string{v}
		default:
			out[key] = []string{}
		}
	}
	return out
}
