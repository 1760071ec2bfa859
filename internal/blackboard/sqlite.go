package blackboard

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/draftloom/orchestrator/internal/domain"
)

// SQLiteStore is the persistent multi-tenant backend.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite-backed store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			status TEXT NOT NULL,
			budget TEXT NOT NULL,
			error TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_owner ON runs(owner_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS artifacts (
			artifact_id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			label TEXT,
			payload TEXT,
			created_at DATETIME NOT NULL,
			expires_at DATETIME,
			FOREIGN KEY (run_id) REFERENCES runs(run_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_artifacts_run ON artifacts(run_id, owner_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_artifacts_expiry ON artifacts(expires_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, run *domain.Run) error {
	if run.RunID == "" {
		run.RunID = NewRunID()
	}
	now := time.Now()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	run.UpdatedAt = now

	budget, _ := json.Marshal(run.Budget)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, owner_id, status, budget, error, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.OwnerID, run.Status, string(budget), nullString(run.Error), run.CreatedAt, run.UpdatedAt)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, ownerID, runID string) (*domain.Run, error) {
	var run domain.Run
	var budget string
	var errData sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, owner_id, status, budget, error, created_at, updated_at FROM runs WHERE run_id = ? AND owner_id = ?`,
		runID, ownerID).Scan(&run.RunID, &run.OwnerID, &run.Status, &budget, &errData, &run.CreatedAt, &run.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(budget), &run.Budget); err != nil {
		return nil, fmt.Errorf("failed to decode budget: %w", err)
	}
	if errData.Valid {
		run.Error = json.RawMessage(errData.String)
	}
	return &run, nil
}

// UpdateRun applies the patch in a single UPDATE so per-run-row updates
// serialize on the row. The owner filter and the terminal-status guard
// live in the WHERE clause; a non-matching run silently updates nothing.
func (s *SQLiteStore) UpdateRun(ctx context.Context, ownerID, runID string, patch domain.RunPatch) error {
	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.Budget != nil {
		budget, _ := json.Marshal(patch.Budget)
		sets = append(sets, "budget = ?")
		args = append(args, string(budget))
	}
	if patch.Error != nil {
		sets = append(sets, "error = ?")
		args = append(args, string(patch.Error))
	}

	query := fmt.Sprintf(
		`UPDATE runs SET %s WHERE run_id = ? AND owner_id = ? AND status NOT IN (?, ?, ?)`,
		strings.Join(sets, ", "))
	args = append(args, runID, ownerID,
		domain.RunStatusSucceeded, domain.RunStatusFailed, domain.RunStatusCanceled)

	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *SQLiteStore) SaveArtifact(ctx context.Context, artifact *domain.Artifact, ttlSeconds int) error {
	if err := domain.ValidatePayload(artifact.Kind, artifact.Payload); err != nil {
		return err
	}
	if artifact.ArtifactID == "" {
		artifact.ArtifactID = NewArtifactID()
	}
	now := time.Now()
	if artifact.CreatedAt.IsZero() {
		artifact.CreatedAt = now
	}
	if ttlSeconds != 0 {
		expires := now.Add(time.Duration(ttlSeconds) * time.Second)
		artifact.ExpiresAt = &expires
	}

	var expiresAt sql.NullTime
	if artifact.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: *artifact.ExpiresAt, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO artifacts (artifact_id, run_id, owner_id, kind, label, payload, created_at, expires_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		artifact.ArtifactID, artifact.RunID, artifact.OwnerID, artifact.Kind, artifact.Label,
		nullString(artifact.Payload), artifact.CreatedAt, expiresAt)
	return err
}

func (s *SQLiteStore) ListArtifacts(ctx context.Context, ownerID, runID string) ([]domain.Artifact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT artifact_id, run_id, owner_id, kind, label, payload, created_at, expires_at
		 FROM artifacts
		 WHERE run_id = ? AND owner_id = ? AND (expires_at IS NULL OR expires_at > ?)
		 ORDER BY created_at ASC`,
		runID, ownerID, time.Now())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Artifact{}
	for rows.Next() {
		var a domain.Artifact
		var label, payload sql.NullString
		var expiresAt sql.NullTime
		if err := rows.Scan(&a.ArtifactID, &a.RunID, &a.OwnerID, &a.Kind, &label, &payload, &a.CreatedAt, &expiresAt); err != nil {
			return nil, err
		}
		if label.Valid {
			a.Label = label.String
		}
		if payload.Valid {
			a.Payload = json.RawMessage(payload.String)
		}
		if expiresAt.Valid {
			t := expiresAt.Time
			a.ExpiresAt = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListRuns(ctx context.Context, ownerID string, limit int) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, owner_id, status, budget, error, created_at, updated_at
		 FROM runs WHERE owner_id = ? ORDER BY created_at DESC LIMIT ?`,
		ownerID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Run
	for rows.Next() {
		var run domain.Run
		var budget string
		var errData sql.NullString
		if err := rows.Scan(&run.RunID, &run.OwnerID, &run.Status, &budget, &errData, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(budget), &run.Budget); err != nil {
			return nil, fmt.Errorf("failed to decode budget: %w", err)
		}
		if errData.Valid {
			run.Error = json.RawMessage(errData.String)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CleanupExpired(ctx context.Context, maxRows int) (int64, error) {
	now := time.Now()
	var res sql.Result
	var err error
	if maxRows > 0 {
		res, err = s.db.ExecContext(ctx,
			`DELETE FROM artifacts WHERE artifact_id IN (
				SELECT artifact_id FROM artifacts
				WHERE expires_at IS NOT NULL AND expires_at <= ?
				LIMIT ?)`,
			now, maxRows)
	} else {
		res, err = s.db.ExecContext(ctx,
			`DELETE FROM artifacts WHERE expires_at IS NOT NULL AND expires_at <= ?`,
			now)
	}
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullString(raw json.RawMessage) sql.NullString {
	if raw == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}
