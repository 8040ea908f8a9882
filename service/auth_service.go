package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"planner-api/config"
	"planner-api/logger"
	"planner-api/model"
	"planner-api/repository"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The single message prevents user enumeration through the login form.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRefreshToken covers every way a refresh can fail: malformed
	// token, wrong claim type, unknown hash, revoked or expired record,
	// owner mismatch. Callers see one error; the log carries the reason.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrMalformedToken is returned by DecodeToken when the signature,
	// structure or issuer of a token is invalid.
	ErrMalformedToken = errors.New("malformed token")
	// ErrExpiredToken is returned by DecodeToken when the token is past its
	// expiry but otherwise well formed.
	ErrExpiredToken = errors.New("token expired")
)

// TokenPair is the response of a successful login or refresh. TTLs are in
// seconds.
type TokenPair struct {
	AccessToken           string `json:"accessToken"`
	RefreshToken          string `json:"refreshToken"`
	AccessTokenExpiresIn  int64  `json:"accessTokenExpiresIn"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn"`
}

// AuthService owns the session lifecycle: it issues and decodes signed
// tokens, verifies credentials, and coordinates login, refresh and logout
// over the refresh token store. Each of those operations runs inside a
// single database transaction so revoke-old plus insert-new is atomic.
type AuthService struct {
	db        *sql.DB
	userRepo  repository.IUserRepository
	tokenRepo repository.ITokenRepository
	clock     Clock
}

func NewAuthService(db *sql.DB, userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository) *AuthService {
	return &AuthService{
		db:        db,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		clock:     systemClock{},
	}
}

func getJwtKey() []byte {
	return []byte(config.AppConfig.JWT.SecretKey)
}

// hashToken computes the SHA-256 hex digest of a raw refresh token. Only
// this digest is ever stored or logged, never the raw value.
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// issueToken signs a claims set for the given user. The jti claim makes
// every token unique even when two are minted within the same second.
func (s *AuthService) issueToken(user *model.User, role string, tokenType string, ttl time.Duration) (string, error) {
	now := s.clock.Now()
	claims := &model.AppClaims{
		Email: user.Email,
		Type:  tokenType,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    config.AppConfig.JWT.Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(getJwtKey())
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Error("Failed to sign token")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return signed, nil
}

// DecodeToken verifies the signature, issuer and expiry of a signed token
// and returns its claims. It never touches the database: validation is a
// pure check of the token's self-contained claims.
func (s *AuthService) DecodeToken(raw string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return getJwtKey(), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(config.AppConfig.JWT.Issuer),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrMalformedToken
	}
	if !token.Valid {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// verifyCredentials normalizes the submitted email and compares the
// password against the stored bcrypt hash. Every failure path returns the
// same ErrInvalidCredentials.
func (s *AuthService) verifyCredentials(email, password string) (*model.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetUserByEmail(normalized)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to look up user during login")
		}
		return nil, ErrInvalidCredentials
	}
	if !CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// issuePair mints an access+refresh token pair for the user and persists
// the hash of the new refresh token inside the given transaction.
func (s *AuthService) issuePair(tx *sql.Tx, user *model.User) (*TokenPair, error) {
	cfg := config.AppConfig.JWT

	accessToken, err := s.issueToken(user, string(user.Role), cfg.AccessTokenType, cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.issueToken(user, "", cfg.RefreshTokenType, cfg.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	record := &model.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		IssuedAt:  now,
		ExpiresAt: now.Add(cfg.RefreshTokenTTL),
	}
	if err := s.tokenRepo.Create(tx, record); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresIn:  int64(cfg.AccessTokenTTL.Seconds()),
		RefreshTokenExpiresIn: int64(cfg.RefreshTokenTTL.Seconds()),
	}, nil
}

// Login verifies the credentials, revokes every active session of the user
// and issues a fresh token pair. A successful login always leaves the user
// with exactly one active refresh token record.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.verifyCredentials(email, password)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.tokenRepo.RevokeAllForUser(tx, user.ID, s.clock.Now()); err != nil {
		return nil, err
	}

	pair, err := s.issuePair(tx, user)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in, previous sessions revoked")
	return pair, nil
}

// Refresh rotates a refresh token: the submitted token is validated,
// its record revoked, and a new pair issued, all in one transaction. Each
// refresh token therefore works exactly once.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*TokenPair, error) {
	claims, err := s.DecodeToken(rawToken)
	if err != nil {
		logger.Log.WithError(err).Debug("Rejected refresh with undecodable token")
		return nil, ErrInvalidRefreshToken
	}
	if claims.Type != config.AppConfig.JWT.RefreshTokenType {
		logger.Log.WithField("typ", claims.Type).Warn("Rejected non-refresh token on refresh endpoint")
		return nil, ErrInvalidRefreshToken
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	record, err := s.tokenRepo.GetByTokenHash(tx, hashToken(rawToken))
	if err != nil {
		if err == sql.ErrNoRows {
			// Unknown hash: never issued here, or tampered. Identical
			// outcome either way.
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	now := s.clock.Now()
	if record.Revoked || now.After(record.ExpiresAt) || record.UserID != claims.Subject {
		logger.Log.WithFields(logrus.Fields{
			"token_id": record.ID,
			"revoked":  record.Revoked,
			"expired":  now.After(record.ExpiresAt),
		}).Warn("Rejected refresh attempt with unusable token")
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetUserByID(record.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if err := s.tokenRepo.Revoke(tx, record.ID, now); err != nil {
		return nil, err
	}

	pair, err := s.issuePair(tx, user)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	logger.Log.WithField("user_id", user.ID).Info("Refresh token rotated")
	return pair, nil
}

// Logout revokes the record matching the submitted refresh token. Logging
// out with an unknown, expired or already-revoked token succeeds silently,
// so the operation is idempotent.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	record, err := s.tokenRepo.GetByTokenHash(tx, hashToken(rawToken))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return err
	}

	if !record.Revoked {
		if err := s.tokenRepo.Revoke(tx, record.ID, s.clock.Now()); err != nil {
			return err
		}
		logger.Log.WithField("token_id", record.ID).Info("Session revoked on logout")
	}

	return tx.Commit()
}
