// file: repository/token_repository.go

package repository

import (
	"database/sql"
	"errors"
	"planner-api/logger"
	"planner-api/model"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ErrDuplicateTokenHash is returned when an insert collides with an existing
// token hash. The hash column is unique, so this indicates either a SHA-256
// collision or a concurrency bug; callers must not retry.
var ErrDuplicateTokenHash = errors.New("refresh token hash already exists")

// ITokenRepository defines the contract for refresh token database operations.
// Mutations take a *sql.Tx so that one session operation (login, refresh,
// logout) runs revoke-old and insert-new inside a single transaction.
type ITokenRepository interface {
	Create(tx *sql.Tx, token *model.RefreshToken) error
	GetByTokenHash(tx *sql.Tx, tokenHash string) (*model.RefreshToken, error)
	GetActiveByUserID(userID string) ([]*model.RefreshToken, error)
	Revoke(tx *sql.Tx, tokenID string, at time.Time) error
	RevokeAllForUser(tx *sql.Tx, userID string, at time.Time) error
}

// TokenRepository implements ITokenRepository.
type TokenRepository struct {
	DB *sql.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// Create inserts a new refresh token record inside the given transaction.
func (r *TokenRepository) Create(tx *sql.Tx, token *model.RefreshToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    token.UserID,
		"expires_at": token.ExpiresAt,
	})
	log.Info("Executing query to create a new refresh token")

	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	query := `INSERT INTO refresh_tokens (id, user_id, token_hash, issued_at, expires_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := tx.Exec(query, token.ID, token.UserID, token.TokenHash, token.IssuedAt, token.ExpiresAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			log.WithError(err).Error("Refresh token hash collision on insert")
			return ErrDuplicateTokenHash
		}
		log.WithError(err).Error("Failed to execute create refresh token query")
		return err
	}
	return nil
}

// GetByTokenHash retrieves a refresh token record by its hashed value,
// locking the row for the duration of the transaction. The lock serializes
// concurrent refresh attempts with the same token: the second attempt blocks
// and then observes the record already revoked.
func (r *TokenRepository) GetByTokenHash(tx *sql.Tx, tokenHash string) (*model.RefreshToken, error) {
	log := logger.Log.WithField("token_hash", tokenHash)
	log.Debug("Executing query to get refresh token by hash")

	token := &model.RefreshToken{}
	query := `SELECT id, user_id, token_hash, issued_at, expires_at, revoked, revoked_at FROM refresh_tokens WHERE token_hash = $1 FOR UPDATE`
	err := tx.QueryRow(query, tokenHash).Scan(&token.ID, &token.UserID, &token.TokenHash, &token.IssuedAt, &token.ExpiresAt, &token.Revoked, &token.RevokedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get refresh token by hash query")
		}
		return nil, err // Return sql.ErrNoRows if not found
	}
	return token, nil
}

// GetActiveByUserID retrieves all records for a user that are neither
// revoked nor past their expiry.
func (r *TokenRepository) GetActiveByUserID(userID string) ([]*model.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, issued_at, expires_at, revoked, revoked_at
		FROM refresh_tokens
		WHERE user_id = $1 AND revoked = FALSE AND expires_at > NOW()
		ORDER BY issued_at DESC`

	rows, err := r.DB.Query(query, userID)
	if err != nil {
		logger.Log.WithField("user_id", userID).WithError(err).Error("Failed to query active refresh tokens")
		return nil, err
	}
	defer rows.Close()

	var tokens []*model.RefreshToken
	for rows.Next() {
		var t model.RefreshToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.IssuedAt, &t.ExpiresAt, &t.Revoked, &t.RevokedAt); err != nil {
			return nil, err
		}
		tokens = append(tokens, &t)
	}
	return tokens, rows.Err()
}

// Revoke marks a single record revoked. Revocation is terminal: the WHERE
// clause never matches an already-revoked row, so revoked_at is written once.
func (r *TokenRepository) Revoke(tx *sql.Tx, tokenID string, at time.Time) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $1 WHERE id = $2 AND revoked = FALSE`
	_, err := tx.Exec(query, at, tokenID)
	if err != nil {
		logger.Log.WithField("token_id", tokenID).WithError(err).Error("Failed to revoke refresh token")
		return err
	}
	return nil
}

// RevokeAllForUser marks every active record of a user revoked. Used when a
// new login supersedes all existing sessions.
func (r *TokenRepository) RevokeAllForUser(tx *sql.Tx, userID string, at time.Time) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to revoke all refresh tokens for a user")

	query := `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $1 WHERE user_id = $2 AND revoked = FALSE`
	_, err := tx.Exec(query, at, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute revoke all refresh tokens query")
		return err
	}
	return nil
}
