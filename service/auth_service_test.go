// file: service/auth_service_test.go

package service

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"planner-api/config"
	"planner-api/model"
	"planner-api/repository"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	config.AppConfig.JWT.SecretKey = "unit-test-secret-key"
	config.AppConfig.JWT.Issuer = "planner-api-test"
	config.AppConfig.JWT.AccessTokenTTL = 15 * time.Minute
	config.AppConfig.JWT.RefreshTokenTTL = 24 * time.Hour
	config.AppConfig.JWT.AccessTokenType = "access"
	config.AppConfig.JWT.RefreshTokenType = "refresh"
	os.Exit(m.Run())
}

// stubClock is a settable Clock so expiry can be tested without sleeping.
type stubClock struct{ now time.Time }

func (c *stubClock) Now() time.Time          { return c.now }
func (c *stubClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeTokenStore is an in-memory ITokenRepository. The rotation tests need
// state carried across calls, which is simpler with a fake than with
// per-call mock expectations.
type fakeTokenStore struct {
	records map[string]*model.RefreshToken
	seq     int
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{records: make(map[string]*model.RefreshToken)}
}

func (f *fakeTokenStore) Create(tx *sql.Tx, token *model.RefreshToken) error {
	for _, r := range f.records {
		if r.TokenHash == token.TokenHash {
			return repository.ErrDuplicateTokenHash
		}
	}
	f.seq++
	if token.ID == "" {
		token.ID = fmt.Sprintf("tok-%d", f.seq)
	}
	cp := *token
	f.records[cp.ID] = &cp
	return nil
}

func (f *fakeTokenStore) GetByTokenHash(tx *sql.Tx, tokenHash string) (*model.RefreshToken, error) {
	for _, r := range f.records {
		if r.TokenHash == tokenHash {
			cp := *r
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTokenStore) GetActiveByUserID(userID string) ([]*model.RefreshToken, error) {
	var active []*model.RefreshToken
	for _, r := range f.records {
		if r.UserID == userID && !r.Revoked && r.ExpiresAt.After(time.Now()) {
			cp := *r
			active = append(active, &cp)
		}
	}
	return active, nil
}

func (f *fakeTokenStore) Revoke(tx *sql.Tx, tokenID string, at time.Time) error {
	if r, ok := f.records[tokenID]; ok && !r.Revoked {
		r.Revoked = true
		r.RevokedAt = &at
	}
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(tx *sql.Tx, userID string, at time.Time) error {
	for _, r := range f.records {
		if r.UserID == userID && !r.Revoked {
			r.Revoked = true
			r.RevokedAt = &at
		}
	}
	return nil
}

type mockUserRepoForAuth struct{ mock.Mock }

func (m *mockUserRepoForAuth) CreateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}
func (m *mockUserRepoForAuth) GetUserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepoForAuth) GetUserByID(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepoForAuth) UpdateUserRole(userID string, newRole string) error {
	args := m.Called(userID, newRole)
	return args.Error(0)
}

// newTxDB returns a sqlmock database that tolerates any sequence of
// begin/commit/rollback, since these tests exercise the orchestration logic
// rather than the SQL.
func newTxDB(t *testing.T) *sql.DB {
	db, dbmock, err := sqlmock.New()
	assert.NoError(t, err)
	dbmock.MatchExpectationsInOrder(false)
	for i := 0; i < 20; i++ {
		dbmock.ExpectBegin()
		dbmock.ExpectCommit()
		dbmock.ExpectRollback()
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testUser(t *testing.T, password string) *model.User {
	hashed, err := HashPassword(password)
	assert.NoError(t, err)
	return &model.User{
		ID:       "11111111-1111-4111-8111-111111111111",
		FullName: "Ana Solano",
		Email:    "ana@example.com",
		Password: hashed,
		Role:     model.RoleStudent,
	}
}

func newTestAuthService(t *testing.T, userRepo repository.IUserRepository, store *fakeTokenStore) (*AuthService, *stubClock) {
	clock := &stubClock{now: time.Now()}
	svc := NewAuthService(newTxDB(t), userRepo, store)
	svc.clock = clock
	return svc, clock
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc, _ := newTestAuthService(t, nil, newFakeTokenStore())
	user := testUser(t, "password123")

	raw, err := svc.issueToken(user, "student", "access", 15*time.Minute)
	assert.NoError(t, err)

	claims, err := svc.DecodeToken(raw)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, "student", claims.Role)
}

func TestAuthService_DecodeRejectsTamperedToken(t *testing.T) {
	svc, _ := newTestAuthService(t, nil, newFakeTokenStore())
	user := testUser(t, "password123")

	raw, err := svc.issueToken(user, "", "access", 15*time.Minute)
	assert.NoError(t, err)

	// Flip one character of the payload.
	tampered := []byte(raw)
	mid := len(tampered) / 2
	if tampered[mid] == 'a' {
		tampered[mid] = 'b'
	} else {
		tampered[mid] = 'a'
	}

	_, err = svc.DecodeToken(string(tampered))
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestAuthService_DecodeRejectsExpiredToken(t *testing.T) {
	svc, clock := newTestAuthService(t, nil, newFakeTokenStore())
	user := testUser(t, "password123")

	raw, err := svc.issueToken(user, "", "access", 15*time.Minute)
	assert.NoError(t, err)

	clock.Advance(16 * time.Minute)

	_, err = svc.DecodeToken(raw)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestAuthService_Login(t *testing.T) {
	t.Run("success issues pair and persists one active record", func(t *testing.T) {
		user := testUser(t, "password123")
		userRepo := new(mockUserRepoForAuth)
		userRepo.On("GetUserByEmail", "ana@example.com").Return(user, nil)
		store := newFakeTokenStore()
		svc, _ := newTestAuthService(t, userRepo, store)

		pair, err := svc.Login(context.Background(), "ana@example.com", "password123")
		assert.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.Equal(t, int64(15*60), pair.AccessTokenExpiresIn)
		assert.Equal(t, int64(24*3600), pair.RefreshTokenExpiresIn)

		active, _ := store.GetActiveByUserID(user.ID)
		assert.Len(t, active, 1)
		userRepo.AssertExpectations(t)
	})

	t.Run("normalizes submitted email before lookup", func(t *testing.T) {
		user := testUser(t, "password123")
		userRepo := new(mockUserRepoForAuth)
		userRepo.On("GetUserByEmail", "ana@example.com").Return(user, nil)
		svc, _ := newTestAuthService(t, userRepo, newFakeTokenStore())

		_, err := svc.Login(context.Background(), "  ANA@Example.COM ", "password123")
		assert.NoError(t, err)
		userRepo.AssertExpectations(t)
	})

	t.Run("wrong password and unknown email yield the same error", func(t *testing.T) {
		user := testUser(t, "password123")
		userRepo := new(mockUserRepoForAuth)
		userRepo.On("GetUserByEmail", "ana@example.com").Return(user, nil)
		userRepo.On("GetUserByEmail", "ghost@example.com").Return(nil, sql.ErrNoRows)
		svc, _ := newTestAuthService(t, userRepo, newFakeTokenStore())

		_, errWrongPassword := svc.Login(context.Background(), "ana@example.com", "nope")
		_, errUnknownEmail := svc.Login(context.Background(), "ghost@example.com", "password123")

		assert.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknownEmail, ErrInvalidCredentials)
		assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
	})

	t.Run("second login supersedes the first session", func(t *testing.T) {
		user := testUser(t, "password123")
		userRepo := new(mockUserRepoForAuth)
		userRepo.On("GetUserByEmail", "ana@example.com").Return(user, nil)
		store := newFakeTokenStore()
		svc, _ := newTestAuthService(t, userRepo, store)

		_, err := svc.Login(context.Background(), "ana@example.com", "password123")
		assert.NoError(t, err)
		_, err = svc.Login(context.Background(), "ana@example.com", "password123")
		assert.NoError(t, err)

		active, _ := store.GetActiveByUserID(user.ID)
		assert.Len(t, active, 1, "a new login must leave exactly one active session")
	})
}

func TestAuthService_Refresh(t *testing.T) {
	login := func(t *testing.T) (*AuthService, *stubClock, *fakeTokenStore, *model.User, *TokenPair) {
		user := testUser(t, "password123")
		userRepo := new(mockUserRepoForAuth)
		userRepo.On("GetUserByEmail", "ana@example.com").Return(user, nil)
		userRepo.On("GetUserByID", user.ID).Return(user, nil)
		store := newFakeTokenStore()
		svc, clock := newTestAuthService(t, userRepo, store)
		pair, err := svc.Login(context.Background(), "ana@example.com", "password123")
		assert.NoError(t, err)
		return svc, clock, store, user, pair
	}

	t.Run("rotation issues a different refresh token", func(t *testing.T) {
		svc, _, _, _, pair := login(t)

		next, err := svc.Refresh(context.Background(), pair.RefreshToken)
		assert.NoError(t, err)
		assert.NotEmpty(t, next.AccessToken)
		assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)
	})

	t.Run("a refresh token works exactly once", func(t *testing.T) {
		svc, _, _, _, pair := login(t)

		_, err := svc.Refresh(context.Background(), pair.RefreshToken)
		assert.NoError(t, err)

		_, err = svc.Refresh(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("rejects an access token on the refresh path", func(t *testing.T) {
		svc, _, _, _, pair := login(t)

		_, err := svc.Refresh(context.Background(), pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		svc, _, _, _, _ := login(t)

		_, err := svc.Refresh(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("rejects a record past its expiry even if never revoked", func(t *testing.T) {
		svc, _, store, _, pair := login(t)

		// Age only the stored record; the signed token itself stays valid.
		for _, r := range store.records {
			r.ExpiresAt = time.Now().Add(-time.Hour)
		}

		_, err := svc.Refresh(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("rejects an owner mismatch", func(t *testing.T) {
		svc, _, store, _, pair := login(t)

		for _, r := range store.records {
			r.UserID = "22222222-2222-4222-8222-222222222222"
		}

		_, err := svc.Refresh(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("rejects after the whole session expired", func(t *testing.T) {
		svc, clock, _, _, pair := login(t)

		clock.Advance(25 * time.Hour)

		_, err := svc.Refresh(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	user := testUser(t, "password123")
	userRepo := new(mockUserRepoForAuth)
	userRepo.On("GetUserByEmail", "ana@example.com").Return(user, nil)
	store := newFakeTokenStore()
	svc, _ := newTestAuthService(t, userRepo, store)

	pair, err := svc.Login(context.Background(), "ana@example.com", "password123")
	assert.NoError(t, err)

	// First logout revokes the record.
	assert.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))
	for _, r := range store.records {
		assert.True(t, r.Revoked)
		assert.NotNil(t, r.RevokedAt)
	}

	// Second logout with the same token is a silent no-op.
	assert.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))

	// Logout with a token that was never issued is also a no-op.
	assert.NoError(t, svc.Logout(context.Background(), "never.issued.token"))

	// The revoked token can no longer be used to refresh.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
