package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/tunestats/internal/models"
	"github.com/desertthunder/tunestats/internal/shared"
)

const sessionColumns = "id, sequence, user_id, platform, access_token, token_type, expires_at, created_at, updated_at, deleted_at"

// SessionRepository implements [models.Repository] for [models.SessionRecord] persistence.
//
// Deleting a session revokes it; revoked sessions are never restored.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session with generated ID and sequence
func (r *SessionRepository) Create(record *models.SessionRecord) error {
	sequence, err := NextSequence(r.db, "sessions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	return insertSession(r.db, record, sequence)
}

// Replace revokes every active session and inserts record as the only active one.
//
// Both happen in one transaction: on error the previously active sessions stay untouched.
// Returns how many sessions were revoked.
func (r *SessionRepository) Replace(record *models.SessionRecord) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	revoked, err := revokeAll(tx)
	if err != nil {
		return 0, err
	}

	sequence, err := nextSequence(tx, "sessions")
	if err != nil {
		return 0, fmt.Errorf("failed to generate sequence: %w", err)
	}

	if err := insertSession(tx, record, sequence); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit session: %w", err)
	}

	return revoked, nil
}

func insertSession(db execer, record *models.SessionRecord, sequence int) error {
	id := shared.GenerateID()
	record.SetID(id)
	record.SetSequence(sequence)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sessions (id, sequence, user_id, platform, access_token, token_type, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		id, sequence, record.UserID(), string(record.Platform()), record.AccessToken(), record.TokenType(),
		record.ExpiresAt(), record.CreatedAt(), record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves an active session by ID
func (r *SessionRepository) Get(id string) (*models.SessionRecord, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ? AND deleted_at IS NULL`

	record, err := scanSession(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: session %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return record, nil
}

// Current returns the newest active session, or an error wrapping [shared.ErrNotFound].
func (r *SessionRepository) Current() (*models.SessionRecord, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE deleted_at IS NULL
		ORDER BY sequence DESC
		LIMIT 1
	`

	record, err := scanSession(r.db.QueryRow(query))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no active session", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return record, nil
}

// Update extends an active session's expiry.
func (r *SessionRepository) Update(record *models.SessionRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	record.SetUpdatedAt(now)

	query := `
		UPDATE sessions
		SET expires_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, record.ExpiresAt(), now, record.ID())
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return checkAffected(result, "session", record.ID())
}

// Delete revokes a session by ID
func (r *SessionRepository) Delete(id string) error {
	query := `
		UPDATE sessions
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return checkAffected(result, "session", id)
}

// RevokeAll revokes every active session and returns how many were revoked.
func (r *SessionRepository) RevokeAll() (int64, error) {
	return revokeAll(r.db)
}

func revokeAll(db execer) (int64, error) {
	result, err := db.Exec(`UPDATE sessions SET deleted_at = ? WHERE deleted_at IS NULL`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to revoke sessions: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}

// List retrieves active sessions, newest first.
//
// Supported criteria: "user_id" (string), "platform" ([models.Platform]).
func (r *SessionRepository) List(criteria map[string]any) ([]*models.SessionRecord, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE deleted_at IS NULL`
	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	if platform, ok := criteria["platform"].(models.Platform); ok && platform != "" {
		query += " AND platform = ?"
		args = append(args, string(platform))
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var records []*models.SessionRecord
	for rows.Next() {
		record, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

func scanSession(row scanner) (*models.SessionRecord, error) {
	var (
		id          string
		sequence    int
		userID      string
		platform    string
		accessToken string
		tokenType   string
		expiresAt   time.Time
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &userID, &platform, &accessToken, &tokenType, &expiresAt, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	record := models.NewSessionRecord(sequence, userID, models.Platform(platform), accessToken, tokenType, expiresAt)
	record.SetID(id)
	record.SetCreatedAt(createdAt)
	record.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		record.SetDeletedAt(&deletedAt.Time)
	}

	return record, nil
}
